// Package gpkg provides read and update access to feature layers stored in a
// GeoPackage (SQLite) workspace.
//
// The package covers the storage side of a numbering run: resolving a named
// layer through the GeoPackage registry tables, listing its attribute fields,
// reading selected features with their centroid coordinates, and writing
// assigned numbers back through an update pass. Geometry blobs are decoded
// with paulmach/orb; the matching EncodeGeometry is fixture-support API for
// building workspaces in tests.
//
// All queries run on a single connection; cursors are closed on every exit
// path so the workspace is never left locked for the next caller.
package gpkg
