package cli

import (
	"bytes"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/paulmach/orb"

	"github.com/Eng-Moka/parcelnum/internal/gpkg"
)

// newTestWorkspace creates a GeoPackage with a Parcels point layer:
// A(2,2) B(1,1) C(4,4) D(3,3), blocks 1,1,2,2.
func newTestWorkspace(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "city.gpkg")

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
			notes BLOB,
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

	fixtures := []struct {
		id    string
		block int
		x, y  float64
	}{
		{"A", 1, 2, 2},
		{"B", 1, 1, 1},
		{"C", 2, 4, 4},
		{"D", 2, 3, 3},
	}
	for _, f := range fixtures {
		blob, err := gpkg.EncodeGeometry(orb.Point{f.x, f.y}, 4326)
		if err != nil {
			t.Fatalf("encode geometry: %v", err)
		}
		_, err = db.Exec(`INSERT INTO parcels (parcel_id, block_no, geom) VALUES (?, ?, ?)`,
			f.id, f.block, blob)
		if err != nil {
			t.Fatalf("insert parcel %s: %v", f.id, err)
		}
	}

	return path
}

// execRoot runs the root command with args and captures stdout.
// Configuration lookups are pointed at an absent file so the host
// environment cannot leak into the test.
func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PARCELNUM_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))

	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

// readNumbers reads parcel_id -> num from a workspace.
func readNumbers(t *testing.T, path string) map[string]sql.NullInt64 {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open workspace: %v", err)
	}
	defer db.Close()

	rows, err := db.Query("SELECT parcel_id, num FROM parcels")
	if err != nil {
		t.Fatalf("query numbers: %v", err)
	}
	defer rows.Close()

	out := make(map[string]sql.NullInt64)
	for rows.Next() {
		var id string
		var n sql.NullInt64
		if err := rows.Scan(&id, &n); err != nil {
			t.Fatalf("scan: %v", err)
		}
		out[id] = n
	}
	return out
}
