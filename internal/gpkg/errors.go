package gpkg

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes store errors.
type ErrorCode string

const (
	// CodeNotGeoPackage indicates the workspace file is not a GeoPackage.
	CodeNotGeoPackage ErrorCode = "NOT_GEOPACKAGE"

	// CodeLayerNotFound indicates no feature layer matches the requested name.
	CodeLayerNotFound ErrorCode = "LAYER_NOT_FOUND"

	// CodeFieldNotFound indicates the layer has no field with the requested name.
	CodeFieldNotFound ErrorCode = "FIELD_NOT_FOUND"

	// CodeFieldKindUnsupported indicates the numbering field's declared type
	// is outside the supported set.
	CodeFieldKindUnsupported ErrorCode = "FIELD_KIND_UNSUPPORTED"
)

// StoreError is a categorized error raised by workspace access.
// Layer and Field carry the offending names when known.
type StoreError struct {
	Code    ErrorCode
	Message string
	Layer   string
	Field   string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	switch {
	case e.Layer != "" && e.Field != "":
		return fmt.Sprintf("%s: %s (layer=%s, field=%s)", e.Code, e.Message, e.Layer, e.Field)
	case e.Layer != "":
		return fmt.Sprintf("%s: %s (layer=%s)", e.Code, e.Message, e.Layer)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// HasCode reports whether err is a StoreError with the given code.
// Uses errors.As to handle wrapped errors.
func HasCode(err error, code ErrorCode) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsLayerNotFound reports whether err is a layer resolution failure.
func IsLayerNotFound(err error) bool {
	return HasCode(err, CodeLayerNotFound)
}

// IsFieldNotFound reports whether err is a field resolution failure.
func IsFieldNotFound(err error) bool {
	return HasCode(err, CodeFieldNotFound)
}
