package harness

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Eng-Moka/parcelnum/internal/parcel"
)

// Scenario defines a numbering conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Direction is one of the four direction literals.
	Direction string `yaml:"direction"`

	// Start is the first number assigned.
	Start int `yaml:"start"`

	// Features lists the fixture features in extraction order.
	Features []FeatureFixture `yaml:"features"`

	// Expect maps feature ids to their expected numbers.
	// Optional; the golden snapshot also pins the full assignment.
	Expect map[string]int `yaml:"expect,omitempty"`
}

// FeatureFixture is one feature of a scenario, already reduced to its
// centroid coordinates.
type FeatureFixture struct {
	ID string  `yaml:"id"`
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
}

// Snapshot captures the complete outcome of a scenario run.
// Serialization is deterministic for golden file comparison.
type Snapshot struct {
	Scenario    string               `json:"scenario"`
	Direction   string               `json:"direction"`
	Start       int                  `json:"start"`
	Assignments []AssignmentSnapshot `json:"assignments"`
}

// AssignmentSnapshot is one feature's assignment, in numbering order.
type AssignmentSnapshot struct {
	Key       string  `json:"key"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Numbering int     `json:"numbering"`
}

// LoadScenario reads and validates a single scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s has no name", path)
	}
	if _, _, err := parcel.ParseDirection(s.Direction); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return &s, nil
}

// LoadScenarios reads every *.yaml scenario in a directory, sorted by file
// name for deterministic test order.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var scenarios []*Scenario
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// Run executes the sort-and-number step over the scenario fixture.
func (s *Scenario) Run() (*Snapshot, error) {
	axis, ascending, err := parcel.ParseDirection(s.Direction)
	if err != nil {
		return nil, err
	}

	features := parcel.NewCollection()
	for _, f := range s.Features {
		key, err := parcel.KeyOf(f.ID)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		features.Add(parcel.Feature{Key: key, X: f.X, Y: f.Y})
	}

	numbered := parcel.Number(features, axis, ascending, s.Start)

	snap := &Snapshot{
		Scenario:    s.Name,
		Direction:   s.Direction,
		Start:       s.Start,
		Assignments: []AssignmentSnapshot{},
	}
	for _, f := range numbered.Features() {
		snap.Assignments = append(snap.Assignments, AssignmentSnapshot{
			Key: string(f.Key), X: f.X, Y: f.Y, Numbering: f.Numbering,
		})
	}
	return snap, nil
}

// Verify checks the snapshot against the scenario's expectations.
func (s *Scenario) Verify(snap *Snapshot) error {
	if len(snap.Assignments) != len(s.Features) {
		return fmt.Errorf("scenario %s: %d assignments for %d features",
			s.Name, len(snap.Assignments), len(s.Features))
	}
	for id, want := range s.Expect {
		found := false
		for _, a := range snap.Assignments {
			if a.Key == id {
				if a.Numbering != want {
					return fmt.Errorf("scenario %s: %s numbered %d, want %d",
						s.Name, id, a.Numbering, want)
				}
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("scenario %s: expected feature %s missing", s.Name, id)
		}
	}
	return nil
}

// Marshal renders the snapshot as indented JSON with a trailing newline,
// the format the golden files are stored in.
func (s *Snapshot) Marshal() ([]byte, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
