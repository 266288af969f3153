package parcel

import (
	"strconv"
	"strings"
)

// FieldKind is the closed set of attribute field kinds a numbering field may
// have. Declared column types outside this set are rejected before any row
// is touched.
type FieldKind string

const (
	KindText    FieldKind = "text"
	KindDate    FieldKind = "date"
	KindInteger FieldKind = "integer"
	KindFloat   FieldKind = "float"
	KindDouble  FieldKind = "double"

	// KindUnknown marks declared types outside the supported set.
	KindUnknown FieldKind = "unknown"
)

// ParseFieldKind maps a GeoPackage declared column type to its field kind.
// The match is case-insensitive and ignores any length suffix such as
// TEXT(50). Geometry types, BLOB and BOOLEAN map to KindUnknown.
func ParseFieldKind(declared string) FieldKind {
	t := strings.ToUpper(strings.TrimSpace(declared))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	switch t {
	case "TEXT", "VARCHAR", "CHAR", "STRING":
		return KindText
	case "DATE", "DATETIME", "TIMESTAMP":
		return KindDate
	case "INT", "INTEGER", "MEDIUMINT", "SMALLINT", "BIGINT":
		return KindInteger
	case "FLOAT", "REAL":
		return KindFloat
	case "DOUBLE":
		return KindDouble
	default:
		return KindUnknown
	}
}

// Writable reports whether the kind may serve as a numbering target.
func (k FieldKind) Writable() bool {
	return k != KindUnknown && k != ""
}

// NumberValue converts an assigned sequence number to the value stored in a
// field of this kind. Text fields receive the base-10 decimal string; every
// other supported kind receives the integer and relies on the column's
// numeric affinity.
func (k FieldKind) NumberValue(n int) any {
	if k == KindText {
		return strconv.Itoa(n)
	}
	return int64(n)
}
