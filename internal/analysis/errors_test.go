package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/fraclocus/internal/calib"
	"github.com/san-kum/fraclocus/internal/khps2"
)

var testG = khps2.Params{1.0, 0.5, 1.2, 0.1, 0.05, 0.3}

// measuredFor builds a measured strain that yields exactly the requested
// percentage error against the locus prediction at (eta, invar).
func measuredFor(g khps2.Params, eta, invar, percent float64) float64 {
	predicted := khps2.FractureStrain(g, eta, invar, khps2.DefaultEpsilon)
	return predicted / (1 + percent/100)
}

func TestAggregateIsSumNotMean(t *testing.T) {
	states := []struct {
		name       string
		eta, invar float64
		percent    float64
	}{
		{"a", 0.33, 0, 1.0},
		{"b", 0.0, 1, 2.5},
		{"c", 0.58, -0.5, 0.5},
	}

	ds := calib.NewDataset()
	for _, st := range states {
		err := ds.Add(calib.Specimen{
			Name:           st.name,
			FractureStrain: measuredFor(testG, st.eta, st.invar, st.percent),
			Triaxiality:    st.eta,
			Invariant:      st.invar,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	report := EvaluateErrors(testG, ds, khps2.DefaultEpsilon)

	for _, st := range states {
		e := report.PerSpecimen[st.name]
		if math.Abs(e.PercentError-st.percent) > 1e-9 {
			t.Errorf("%s: percent = %g, want %g", st.name, e.PercentError, st.percent)
		}
	}
	if math.Abs(report.AggregatePercentError-4.0) > 1e-9 {
		t.Errorf("aggregate = %g, want sum 4.0", report.AggregatePercentError)
	}
}

func TestDegenerateMeasurement(t *testing.T) {
	ds := calib.NewDataset()
	add := func(s calib.Specimen) {
		if err := ds.Add(s); err != nil {
			t.Fatal(err)
		}
	}
	add(calib.Specimen{Name: "good", FractureStrain: measuredFor(testG, 0.33, 0, 2.0), Triaxiality: 0.33, Invariant: 0})
	add(calib.Specimen{Name: "zero", FractureStrain: 0, Triaxiality: 0.5, Invariant: 0.5})
	add(calib.Specimen{Name: "also_good", FractureStrain: measuredFor(testG, 0.1, 0.8, 3.0), Triaxiality: 0.1, Invariant: 0.8})

	report := EvaluateErrors(testG, ds, khps2.DefaultEpsilon)

	z := report.PerSpecimen["zero"]
	if !z.Degenerate {
		t.Error("zero-strain specimen must be flagged degenerate")
	}
	if !math.IsNaN(z.PercentError) {
		t.Errorf("degenerate percent error = %g, want NaN", z.PercentError)
	}
	// The residual itself is still defined against measured 0.
	wantRes := khps2.FractureStrain(testG, 0.5, 0.5, khps2.DefaultEpsilon)
	if z.Residual != wantRes {
		t.Errorf("degenerate residual = %g, want %g", z.Residual, wantRes)
	}

	if report.PerSpecimen["good"].Degenerate || report.PerSpecimen["also_good"].Degenerate {
		t.Error("healthy specimens must be unaffected")
	}
	if math.Abs(report.AggregatePercentError-5.0) > 1e-9 {
		t.Errorf("aggregate = %g, want 5.0 (degenerate contributes zero)", report.AggregatePercentError)
	}
}

func TestReportOrderAndResiduals(t *testing.T) {
	ds := calib.NewDataset()
	names := []string{"first", "second", "third"}
	etas := []float64{0.1, 0.4, 0.7}
	for i, n := range names {
		if err := ds.Add(calib.Specimen{Name: n, FractureStrain: 0.6, Triaxiality: etas[i]}); err != nil {
			t.Fatal(err)
		}
	}

	report := EvaluateErrors(testG, ds, khps2.DefaultEpsilon)
	if len(report.Order) != 3 {
		t.Fatalf("order length %d", len(report.Order))
	}
	for i, n := range names {
		if report.Order[i] != n {
			t.Errorf("order[%d] = %s, want %s", i, report.Order[i], n)
		}
	}

	wantTotal := 0.0
	for i := range names {
		r := khps2.FractureStrain(testG, etas[i], 0, khps2.DefaultEpsilon) - 0.6
		wantTotal += math.Abs(r)
		if got := report.PerSpecimen[names[i]].Residual; got != r {
			t.Errorf("%s residual = %g, want %g", names[i], got, r)
		}
	}
	if math.Abs(report.TotalAbsResidual-wantTotal) > 1e-12 {
		t.Errorf("TotalAbsResidual = %g, want %g", report.TotalAbsResidual, wantTotal)
	}
}
