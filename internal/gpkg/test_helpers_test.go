package gpkg

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
)

// parcelFixture describes one feature row in a test workspace.
type parcelFixture struct {
	id    string
	block int64
	x     float64
	y     float64
	// noGeom leaves the geometry column NULL.
	noGeom bool
}

// createTestWorkspace builds a minimal GeoPackage with a "parcels" feature
// layer and returns its path. The layer has a text identifier, an integer
// block number, an integer numbering target, a text numbering target and a
// point geometry per fixture.
func createTestWorkspace(t *testing.T, fixtures []parcelFixture) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.gpkg")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open workspace file: %v", err)
	}
	defer db.Close()

	ddl := []string{
		`CREATE TABLE gpkg_contents (
			table_name TEXT NOT NULL PRIMARY KEY,
			data_type TEXT NOT NULL,
			identifier TEXT UNIQUE,
			description TEXT DEFAULT '',
			last_change DATETIME,
			min_x DOUBLE, min_y DOUBLE, max_x DOUBLE, max_y DOUBLE,
			srs_id INTEGER
		)`,
		`CREATE TABLE gpkg_geometry_columns (
			table_name TEXT NOT NULL,
			column_name TEXT NOT NULL,
			geometry_type_name TEXT NOT NULL,
			srs_id INTEGER NOT NULL,
			z TINYINT NOT NULL,
			m TINYINT NOT NULL,
			PRIMARY KEY (table_name, column_name)
		)`,
		`CREATE TABLE parcels (
			fid INTEGER PRIMARY KEY AUTOINCREMENT,
			parcel_id TEXT NOT NULL,
			block_no MEDIUMINT,
			num INTEGER,
			label TEXT,
			geom POINT
		)`,
		`INSERT INTO gpkg_contents (table_name, data_type, identifier, srs_id)
			VALUES ('parcels', 'features', 'Parcels', 4326)`,
		`INSERT INTO gpkg_geometry_columns (table_name, column_name, geometry_type_name, srs_id, z, m)
			VALUES ('parcels', 'geom', 'POINT', 4326, 0, 0)`,
	}
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("create workspace schema: %v", err)
		}
	}

	for _, f := range fixtures {
		var blob any
		if !f.noGeom {
			b, err := EncodeGeometry(orb.Point{f.x, f.y}, 4326)
			if err != nil {
				t.Fatalf("encode fixture geometry: %v", err)
			}
			blob = b
		}
		_, err := db.Exec(
			`INSERT INTO parcels (parcel_id, block_no, geom) VALUES (?, ?, ?)`,
			f.id, f.block, blob,
		)
		if err != nil {
			t.Fatalf("insert fixture %s: %v", f.id, err)
		}
	}

	return path
}

// openTestStore opens a seeded workspace and closes it when the test ends.
func openTestStore(t *testing.T, fixtures []parcelFixture) *Store {
	t.Helper()
	s, err := Open(createTestWorkspace(t, fixtures))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// defaultFixtures is the reference layout: B left of D left of A left of C,
// matching y values so either axis orders the same way.
func defaultFixtures() []parcelFixture {
	return []parcelFixture{
		{id: "A", block: 1, x: 2, y: 2},
		{id: "B", block: 1, x: 1, y: 1},
		{id: "C", block: 2, x: 4, y: 4},
		{id: "D", block: 2, x: 3, y: 3},
	}
}
