package gpkg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Eng-Moka/parcelnum/internal/parcel"
)

// Selection narrows a numbering run to a subset of a layer's features.
// Where is an optional SQL predicate over the layer's columns; Keys is an
// optional explicit list of identifier values. Both empty means every
// feature is selected.
type Selection struct {
	Where string
	Keys  []parcel.Key
}

// SelectedFeatures reads the selected features of a layer into an ordered
// collection of canonical key plus centroid coordinates.
//
// Rows are read in rowid order, which fixes the input order the stable sort
// ties break on. Features with NULL or empty geometry have no position and
// are skipped; a geometry blob that cannot be decoded aborts the read, since
// numbering against a partially understood layer would silently drop
// features.
func (s *Store) SelectedFeatures(ctx context.Context, layer Layer, idField Field, sel Selection) (*parcel.Collection, error) {
	query := fmt.Sprintf(
		"SELECT %s, %s FROM %s",
		quoteIdent(idField.Name), quoteIdent(layer.GeometryColumn), quoteIdent(layer.TableName),
	)
	if sel.Where != "" {
		query += " WHERE (" + sel.Where + ")"
	}
	query += " ORDER BY rowid ASC"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query selected features: %w", err)
	}
	defer rows.Close()

	var wanted map[parcel.Key]struct{}
	if len(sel.Keys) > 0 {
		wanted = make(map[parcel.Key]struct{}, len(sel.Keys))
		for _, k := range sel.Keys {
			wanted[k] = struct{}{}
		}
	}

	features := parcel.NewCollection()
	for rows.Next() {
		var (
			rawKey any
			blob   []byte
		)
		if err := rows.Scan(&rawKey, &blob); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}

		key, err := parcel.KeyOf(rawKey)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", idField.Name, err)
		}

		if wanted != nil {
			if _, ok := wanted[key]; !ok {
				continue
			}
		}

		if blob == nil {
			slog.Debug("feature has no geometry, skipping", "layer", layer.Name, "key", key)
			continue
		}
		geom, empty, err := DecodeGeometry(blob)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", key, err)
		}
		if empty {
			slog.Debug("feature has empty geometry, skipping", "layer", layer.Name, "key", key)
			continue
		}

		center, ok := Centroid(geom)
		if !ok {
			continue
		}
		features.Add(parcel.Feature{Key: key, X: center.X(), Y: center.Y()})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate selected features: %w", err)
	}

	return features, nil
}
