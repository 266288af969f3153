package gpkg

import (
	"encoding/binary"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/planar"
)

// GeoPackage geometry blobs are a fixed header (magic, version, flags,
// srs_id, optional envelope) followed by standard WKB.
const (
	gpkgMagic1 = 0x47 // 'G'
	gpkgMagic2 = 0x50 // 'P'

	flagByteOrderLE  = 0x01
	flagEnvelopeMask = 0x0E
	flagEmpty        = 0x10
	flagExtended     = 0x20
)

// envelopeValues maps the envelope contents indicator to the number of
// float64 values that follow the header.
var envelopeValues = [8]int{0, 4, 6, 6, 8, 0, 0, 0}

// DecodeGeometry decodes a GeoPackage geometry blob.
// empty is true when the blob carries the empty-geometry flag, in which case
// geom is nil and the feature has no position.
func DecodeGeometry(b []byte) (geom orb.Geometry, empty bool, err error) {
	if len(b) < 8 {
		return nil, false, fmt.Errorf("geometry blob too short: %d bytes", len(b))
	}
	if b[0] != gpkgMagic1 || b[1] != gpkgMagic2 {
		return nil, false, fmt.Errorf("geometry blob has invalid magic %x%x", b[0], b[1])
	}

	flags := b[3]
	if flags&flagExtended != 0 {
		return nil, false, fmt.Errorf("extended geometry encoding not supported")
	}
	if flags&flagEmpty != 0 {
		return nil, true, nil
	}

	envIndicator := int(flags&flagEnvelopeMask) >> 1
	n := envelopeValues[envIndicator]
	if n == 0 && envIndicator != 0 {
		return nil, false, fmt.Errorf("invalid envelope indicator %d", envIndicator)
	}

	offset := 8 + 8*n
	if len(b) < offset {
		return nil, false, fmt.Errorf("geometry blob truncated: envelope needs %d bytes", offset)
	}

	geom, err = wkb.Unmarshal(b[offset:])
	if err != nil {
		return nil, false, fmt.Errorf("decode wkb: %w", err)
	}
	return geom, false, nil
}

// EncodeGeometry encodes a geometry as a GeoPackage blob with the given
// spatial reference system id. The header is written little-endian with no
// envelope, which every GeoPackage reader accepts. A numbering run only
// reads geometry; the encode side exists for building workspaces, which in
// this repository means test fixtures.
func EncodeGeometry(geom orb.Geometry, srsID int32) ([]byte, error) {
	payload, err := wkb.Marshal(geom, binary.LittleEndian)
	if err != nil {
		return nil, fmt.Errorf("encode wkb: %w", err)
	}

	header := make([]byte, 8)
	header[0] = gpkgMagic1
	header[1] = gpkgMagic2
	header[2] = 0 // version
	header[3] = flagByteOrderLE
	binary.LittleEndian.PutUint32(header[4:], uint32(srsID))

	return append(header, payload...), nil
}

// Centroid returns the planar centroid of a geometry.
// ok is false for nil geometries.
func Centroid(geom orb.Geometry) (orb.Point, bool) {
	if geom == nil {
		return orb.Point{}, false
	}
	center, _ := planar.CentroidArea(geom)
	return center, true
}
