package gpkg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Layer describes a feature layer registered in the workspace.
type Layer struct {
	// Name is the layer's display identifier from gpkg_contents.
	Name string `json:"name"`

	// TableName is the backing SQLite table.
	TableName string `json:"table_name"`

	// GeometryColumn holds the GeoPackage geometry blobs.
	GeometryColumn string `json:"geometry_column"`

	// GeometryType is the declared geometry type name (POLYGON, POINT, ...).
	GeometryType string `json:"geometry_type"`

	// SRSID is the layer's spatial reference system id.
	SRSID int64 `json:"srs_id"`
}

// Layers returns all feature layers registered in the workspace,
// ordered by table name.
func (s *Store) Layers(ctx context.Context) ([]Layer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.table_name, c.identifier, g.column_name, g.geometry_type_name, g.srs_id
		FROM gpkg_contents c
		JOIN gpkg_geometry_columns g ON g.table_name = c.table_name
		WHERE c.data_type = 'features'
		ORDER BY c.table_name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query layers: %w", err)
	}
	defer rows.Close()

	var layers []Layer
	for rows.Next() {
		var l Layer
		if err := rows.Scan(&l.TableName, &l.Name, &l.GeometryColumn, &l.GeometryType, &l.SRSID); err != nil {
			return nil, fmt.Errorf("scan layer: %w", err)
		}
		layers = append(layers, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate layers: %w", err)
	}

	if layers == nil {
		layers = []Layer{}
	}

	return layers, nil
}

// Layer resolves a feature layer by name. The name matches either the
// gpkg_contents identifier or the backing table name.
// Returns a StoreError with CodeLayerNotFound when nothing matches.
func (s *Store) Layer(ctx context.Context, name string) (Layer, error) {
	var l Layer
	err := s.db.QueryRowContext(ctx, `
		SELECT c.table_name, c.identifier, g.column_name, g.geometry_type_name, g.srs_id
		FROM gpkg_contents c
		JOIN gpkg_geometry_columns g ON g.table_name = c.table_name
		WHERE c.data_type = 'features'
		AND (c.identifier = ? OR c.table_name = ?)
	`, name, name).Scan(&l.TableName, &l.Name, &l.GeometryColumn, &l.GeometryType, &l.SRSID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Layer{}, &StoreError{
				Code:    CodeLayerNotFound,
				Message: "no feature layer with this name in the workspace",
				Layer:   name,
			}
		}
		return Layer{}, fmt.Errorf("resolve layer %q: %w", name, err)
	}
	return l, nil
}
