// Package export writes analysis results to JSON and CSV for external
// plotting and reporting tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/fraclocus/internal/analysis"
	"github.com/san-kum/fraclocus/internal/locus"
)

type SpecimenReport struct {
	Name         string  `json:"name"`
	Residual     float64 `json:"residual"`
	PercentError float64 `json:"percent_error"`
	Degenerate   bool    `json:"degenerate,omitempty"`
}

type Report struct {
	Parameters            []float64        `json:"parameters"`
	Status                string           `json:"status"`
	Converged             bool             `json:"converged"`
	Evals                 int              `json:"evals"`
	Iterations            int              `json:"iterations"`
	Cost                  float64          `json:"cost"`
	Specimens             []SpecimenReport `json:"specimens"`
	TotalAbsResidual      float64          `json:"total_abs_residual"`
	AggregatePercentError float64          `json:"aggregate_percent_error"`
}

// NewReport flattens a bundle into the JSON report shape. Specimens keep
// dataset order; NaN percentage errors are zeroed with the degenerate flag
// set, since JSON has no NaN.
func NewReport(b *analysis.Bundle) *Report {
	r := &Report{
		Parameters:            b.Calibration.G.Slice(),
		Status:                b.Calibration.Status.String(),
		Converged:             b.Calibration.Converged,
		Evals:                 b.Calibration.Evals,
		Iterations:            b.Calibration.Iterations,
		Cost:                  b.Calibration.Cost,
		TotalAbsResidual:      b.Errors.TotalAbsResidual,
		AggregatePercentError: b.Errors.AggregatePercentError,
	}
	for _, name := range b.Errors.Order {
		e := b.Errors.PerSpecimen[name]
		sr := SpecimenReport{Name: name, Residual: e.Residual, Degenerate: e.Degenerate}
		if !e.Degenerate {
			sr.PercentError = e.PercentError
		}
		r.Specimens = append(r.Specimens, sr)
	}
	return r
}

func WriteReportJSON(path string, b *analysis.Bundle) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return EncodeReportJSON(file, b)
}

func EncodeReportJSON(w io.Writer, b *analysis.Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewReport(b))
}

// WriteSurfaceCSV dumps the grid one cell per row: eta, invariant, strain,
// cutoff, masked. Masked cells carry an empty strain field.
func WriteSurfaceCSV(path string, g *locus.Grid) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"eta", "invariant", "strain", "cutoff", "masked"}); err != nil {
		return err
	}
	for i := 0; i < g.Rows(); i++ {
		for j := 0; j < g.Cols(); j++ {
			strain := ""
			if !g.Masked[i][j] {
				strain = formatFloat(g.Strain[i][j])
			}
			row := []string{
				formatFloat(g.Eta[i][j]),
				formatFloat(g.Invariant[i][j]),
				strain,
				formatFloat(g.Cutoff[i][j]),
				strconv.FormatBool(g.Masked[i][j]),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// WriteCurveCSV dumps a curve one point per row.
func WriteCurveCSV(path string, c locus.Curve) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"eta", "invariant", "strain", "masked"}); err != nil {
		return err
	}
	for _, p := range c {
		strain := ""
		if !p.Masked {
			strain = formatFloat(p.Strain)
		}
		row := []string{
			formatFloat(p.Eta),
			formatFloat(p.Invariant),
			strain,
			strconv.FormatBool(p.Masked),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
