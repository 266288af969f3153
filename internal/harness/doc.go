// Package harness runs declarative conformance scenarios for the numbering
// algorithm.
//
// A scenario is a YAML file naming a set of features with coordinates, a
// sweep direction and a starting number, plus the expected assignments. The
// harness runs the sort-and-number step over the fixture and produces a
// deterministic snapshot that tests compare against golden files.
package harness
