package calib

import (
	"fmt"
	"math"
)

// Specimen is one measured calibration point: the fracture strain observed at
// a given stress state.
type Specimen struct {
	Name           string
	FractureStrain float64
	Triaxiality    float64
	Invariant      float64 // normalized third invariant, in [-1, 1]
}

func (s Specimen) validate() error {
	if s.Name == "" {
		return ErrSpecimenName
	}
	if math.Abs(s.Invariant) > 1 || math.IsNaN(s.Invariant) {
		return fmt.Errorf("%w: %s has %g", ErrInvariantRange, s.Name, s.Invariant)
	}
	return nil
}

// Dataset is an ordered, name-keyed collection of specimens. Insertion order
// is the reporting and residual order.
type Dataset struct {
	specimens []Specimen
	index     map[string]int
}

func NewDataset() *Dataset {
	return &Dataset{index: make(map[string]int)}
}

// Add appends a specimen, rejecting empty or duplicate names and invariants
// outside [-1, 1].
func (d *Dataset) Add(s Specimen) error {
	if err := s.validate(); err != nil {
		return err
	}
	if _, ok := d.index[s.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSpecimen, s.Name)
	}
	d.index[s.Name] = len(d.specimens)
	d.specimens = append(d.specimens, s)
	return nil
}

func (d *Dataset) Len() int {
	return len(d.specimens)
}

// Specimens returns the specimens in insertion order. The returned slice is
// shared; callers must not modify it.
func (d *Dataset) Specimens() []Specimen {
	return d.specimens
}

func (d *Dataset) Get(name string) (Specimen, bool) {
	i, ok := d.index[name]
	if !ok {
		return Specimen{}, false
	}
	return d.specimens[i], true
}

// Names returns the specimen names in insertion order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.specimens))
	for i, s := range d.specimens {
		names[i] = s.Name
	}
	return names
}
