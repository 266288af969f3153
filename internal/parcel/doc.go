// Package parcel holds the in-memory feature model and the sort-and-number
// algorithm.
//
// A numbering run reduces each selected feature to its canonical key and the
// planar centroid of its geometry. Features flow through the pipeline as an
// ordered Collection: insertion order going in, numbering order coming out.
// The package has no storage or I/O concerns; those live in internal/gpkg.
package parcel
