package gpkg

import (
	"context"
	"fmt"

	"github.com/Eng-Moka/parcelnum/internal/parcel"
)

// WriteStatus classifies the outcome of an update pass.
type WriteStatus string

const (
	// WriteApplied means every matched feature was updated.
	WriteApplied WriteStatus = "applied"

	// WritePartial means some rows were updated and some failed.
	// Updated rows stay written; there is no rollback.
	WritePartial WriteStatus = "partial"

	// WriteAborted means failures occurred before any row was written.
	WriteAborted WriteStatus = "aborted"
)

// WriteFailure records a single row that could not be updated.
type WriteFailure struct {
	Key    parcel.Key `json:"key"`
	Reason string     `json:"reason"`
}

// WriteReport is the result of an update pass.
type WriteReport struct {
	Status   WriteStatus    `json:"status"`
	Matched  int            `json:"matched"`
	Updated  int            `json:"updated"`
	Failures []WriteFailure `json:"failures,omitempty"`
}

// Failed reports whether any row update failed.
func (r WriteReport) Failed() bool {
	return len(r.Failures) > 0
}

// UpdateNumbering writes assigned numbers into the numbering field for every
// row whose identifier is present in the collection. Rows outside the
// collection are left untouched.
//
// The pass is not transactional. A row that fails is recorded and iteration
// continues; rows already written stay written. An error return means the
// pass aborted before touching any row (the report is zero in that case).
func (s *Store) UpdateNumbering(ctx context.Context, layer Layer, idField, numberingField Field, features *parcel.Collection) (WriteReport, error) {
	matches, err := s.readMatches(ctx, layer, idField)
	if err != nil {
		return WriteReport{}, err
	}

	stmt, err := s.db.PrepareContext(ctx, fmt.Sprintf(
		"UPDATE %s SET %s = ? WHERE rowid = ?",
		quoteIdent(layer.TableName), quoteIdent(numberingField.Name),
	))
	if err != nil {
		return WriteReport{}, fmt.Errorf("prepare update: %w", err)
	}
	defer stmt.Close()

	report := WriteReport{Status: WriteApplied, Failures: nil}
	for _, m := range matches {
		f, ok := features.Get(m.key)
		if !ok {
			continue
		}
		report.Matched++

		value := numberingField.Kind.NumberValue(f.Numbering)
		if _, err := stmt.ExecContext(ctx, value, m.rowid); err != nil {
			report.Failures = append(report.Failures, WriteFailure{
				Key:    m.key,
				Reason: err.Error(),
			})
			continue
		}
		report.Updated++
	}

	switch {
	case len(report.Failures) == 0:
		report.Status = WriteApplied
	case report.Updated == 0:
		report.Status = WriteAborted
	default:
		report.Status = WritePartial
	}
	return report, nil
}

type rowMatch struct {
	rowid int64
	key   parcel.Key
}

// readMatches scans the layer's rowids and identifier values. The cursor is
// fully drained and closed before the update statements run; with a single
// connection an open cursor would block them.
func (s *Store) readMatches(ctx context.Context, layer Layer, idField Field) ([]rowMatch, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT rowid, %s FROM %s ORDER BY rowid ASC",
		quoteIdent(idField.Name), quoteIdent(layer.TableName),
	))
	if err != nil {
		return nil, fmt.Errorf("query rows for update: %w", err)
	}
	defer rows.Close()

	var matches []rowMatch
	for rows.Next() {
		var (
			rowid  int64
			rawKey any
		)
		if err := rows.Scan(&rowid, &rawKey); err != nil {
			return nil, fmt.Errorf("scan row for update: %w", err)
		}
		key, err := parcel.KeyOf(rawKey)
		if err != nil {
			// A row without a usable identifier can never match the
			// selection; leave it untouched.
			continue
		}
		matches = append(matches, rowMatch{rowid: rowid, key: key})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows for update: %w", err)
	}

	return matches, nil
}
