package gpkg

import (
	"context"
	"fmt"

	"github.com/Eng-Moka/parcelnum/internal/parcel"
)

// Field describes an attribute column of a feature layer.
type Field struct {
	Name       string           `json:"name"`
	Declared   string           `json:"declared_type"`
	Kind       parcel.FieldKind `json:"kind"`
	PrimaryKey bool             `json:"primary_key"`
}

// Fields returns the layer's columns in table order, including the geometry
// column (whose kind is unknown and therefore not writable).
func (s *Store) Fields(ctx context.Context, layer Layer) ([]Field, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(layer.TableName)))
	if err != nil {
		return nil, fmt.Errorf("query fields of %q: %w", layer.TableName, err)
	}
	defer rows.Close()

	var fields []Field
	for rows.Next() {
		var (
			cid      int
			name     string
			declared string
			notNull  int
			dflt     any
			pk       int
		)
		if err := rows.Scan(&cid, &name, &declared, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		fields = append(fields, Field{
			Name:       name,
			Declared:   declared,
			Kind:       parcel.ParseFieldKind(declared),
			PrimaryKey: pk > 0,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fields: %w", err)
	}

	if fields == nil {
		fields = []Field{}
	}

	return fields, nil
}

// Field resolves a single column by name.
// Returns a StoreError with CodeFieldNotFound when the layer has no such column.
func (s *Store) Field(ctx context.Context, layer Layer, name string) (Field, error) {
	fields, err := s.Fields(ctx, layer)
	if err != nil {
		return Field{}, err
	}
	for _, f := range fields {
		if f.Name == name {
			return f, nil
		}
	}
	return Field{}, &StoreError{
		Code:    CodeFieldNotFound,
		Message: "field not found in the feature layer",
		Layer:   layer.Name,
		Field:   name,
	}
}
