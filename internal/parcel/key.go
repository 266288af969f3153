package parcel

import (
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// Key is the canonical form of a feature's unique-identifier value.
//
// Identifier fields may be declared as text or as any numeric kind, and the
// same logical value must compare equal between the read step and the write
// step regardless of how the driver surfaces it. Canonicalization rules:
//   - integers are formatted base-10
//   - floats use the shortest round-trippable representation
//   - text is NFC-normalized so composed and decomposed forms match
type Key string

// KeyOf converts a raw attribute value scanned from the store into its
// canonical key. Returns an error for NULL and for kinds that cannot serve
// as a unique identifier (blobs of geometry, booleans).
func KeyOf(v any) (Key, error) {
	switch x := v.(type) {
	case string:
		return Key(norm.NFC.String(x)), nil
	case []byte:
		return Key(norm.NFC.String(string(x))), nil
	case int64:
		return Key(strconv.FormatInt(x, 10)), nil
	case int:
		return Key(strconv.Itoa(x)), nil
	case float64:
		return Key(strconv.FormatFloat(x, 'g', -1, 64)), nil
	case nil:
		return "", fmt.Errorf("unique identifier is NULL")
	default:
		return "", fmt.Errorf("unique identifier has unsupported type %T", v)
	}
}
