package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/fraclocus/internal/analysis"
	"github.com/san-kum/fraclocus/internal/config"
	"github.com/san-kum/fraclocus/internal/export"
	"github.com/san-kum/fraclocus/internal/viz"
)

var (
	verbose    int
	jsonPath   string
	surfaceCSV string
	curveCSV   string
	gridSeed   int
	// Plot options
	plotState  bool
	plotHeight int
	plotSVG    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fraclocus",
		Short: "KHPS2 ductile fracture locus calibration",
	}

	initCmd := &cobra.Command{
		Use:   "init [file]",
		Short: "write a default analysis file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	calibrateCmd := &cobra.Command{
		Use:   "calibrate [file]",
		Short: "calibrate G1..G6 against the specimen data",
		Args:  cobra.ExactArgs(1),
		RunE:  runCalibrate,
	}
	calibrateCmd.Flags().IntVarP(&verbose, "verbose", "v", 0, "solver diagnostics (0-2)")
	calibrateCmd.Flags().StringVar(&jsonPath, "json", "", "write JSON report")
	calibrateCmd.Flags().StringVar(&surfaceCSV, "surface-csv", "", "write surface grid CSV")
	calibrateCmd.Flags().StringVar(&curveCSV, "curve-csv", "", "write plane stress curve CSV")
	calibrateCmd.Flags().IntVar(&gridSeed, "grid-seed", 0, "seed the fit from an NxN..xN sweep of the bounds")

	plotCmd := &cobra.Command{
		Use:   "plot [file]",
		Short: "plot the plane stress curve",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlot,
	}
	plotCmd.Flags().BoolVar(&plotState, "state", false, "follow the plane-stress loading path instead of invariant=0")
	plotCmd.Flags().IntVar(&plotHeight, "height", 12, "plot height")
	plotCmd.Flags().StringVar(&plotSVG, "svg", "", "also write a 3D locus snapshot as SVG")

	viewCmd := &cobra.Command{
		Use:   "view [file]",
		Short: "interactive 3D view of the fracture locus",
		Args:  cobra.ExactArgs(1),
		RunE:  runView,
	}

	rootCmd.AddCommand(initCmd, calibrateCmd, plotCmd, viewCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAnalysis(path string) (*analysis.Bundle, *config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	req, err := cfg.Request()
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Solver.Verbose
	if verbose > level {
		level = verbose
	}
	if gridSeed > 0 {
		req.Solver.GridSeed = gridSeed
	}
	if level >= 2 {
		req.Solver.Observer = func(iter, evals int, cost float64, x []float64) {
			fmt.Fprintf(os.Stderr, "iter %3d  nfev %4d  cost %.6e\n", iter, evals, cost)
		}
	}

	bundle, err := analysis.Run(req)
	if err != nil {
		return nil, nil, err
	}
	if level >= 1 {
		fmt.Fprintf(os.Stderr, "%s after %d iterations, %d evaluations\n",
			bundle.Calibration.Status, bundle.Calibration.Iterations, bundle.Calibration.Evals)
	}
	return bundle, cfg, nil
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	start := time.Now()
	bundle, cfg, err := runAnalysis(args[0])
	if err != nil {
		return err
	}
	res := bundle.Calibration

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("status: %s\n", res.Status)
	for i, v := range res.G {
		fmt.Printf("  G%d = %.6g\n", i+1, v)
	}
	fmt.Printf("cost: %.6e (%d evaluations)\n\n", res.Cost, res.Evals)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPECIMEN\tMEASURED\tPREDICTED\tRESIDUAL\tERROR%")
	for _, name := range bundle.Errors.Order {
		s := bundle.Errors.PerSpecimen[name]
		spec, _ := findSpecimen(cfg, name)
		errCol := fmt.Sprintf("%.3f", s.PercentError)
		if s.Degenerate {
			errCol = "n/a (measured = 0)"
		}
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%+.5f\t%s\n",
			name, spec.FractureStrain, spec.FractureStrain+s.Residual, s.Residual, errCol)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ntotal |residual|: %.6f\n", bundle.Errors.TotalAbsResidual)
	fmt.Printf("total error: %.3f%%\n", bundle.Errors.AggregatePercentError)

	if jsonPath != "" {
		if err := export.WriteReportJSON(jsonPath, bundle); err != nil {
			return err
		}
		fmt.Printf("report: %s\n", jsonPath)
	}
	if surfaceCSV != "" {
		if err := export.WriteSurfaceCSV(surfaceCSV, bundle.Surface); err != nil {
			return err
		}
		fmt.Printf("surface: %s\n", surfaceCSV)
	}
	if curveCSV != "" {
		if err := export.WriteCurveCSV(curveCSV, bundle.PlaneStress); err != nil {
			return err
		}
		fmt.Printf("curve: %s\n", curveCSV)
	}
	return nil
}

func findSpecimen(cfg *config.Config, name string) (config.SpecimenConfig, bool) {
	for _, s := range cfg.Specimens {
		if s.Name == name {
			return s, true
		}
	}
	return config.SpecimenConfig{}, false
}

func runPlot(cmd *cobra.Command, args []string) error {
	bundle, cfg, err := runAnalysis(args[0])
	if err != nil {
		return err
	}

	curve := bundle.PlaneStress
	caption := "fracture strain vs triaxiality (invariant = 0)"
	if plotState {
		curve = bundle.PlaneStressState
		caption = "fracture strain along the plane-stress path"
	}

	data := make([]float64, 0, len(curve))
	for _, p := range curve {
		if p.Masked || math.IsNaN(p.Strain) {
			continue
		}
		data = append(data, p.Strain)
	}
	if len(data) == 0 {
		return fmt.Errorf("nothing to plot: every sample is masked")
	}

	fmt.Printf("G* = %s\n\n", bundle.Calibration.G)
	graph := asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	fmt.Printf("\n%d of %d samples shown (masked samples dropped)\n", len(data), len(curve))

	if plotSVG != "" {
		ds, err := cfg.Dataset()
		if err != nil {
			return err
		}
		scene := viz.NewScene(bundle.Surface, bundle.PlaneStress, ds.Specimens())
		if err := export.WriteSceneSVG(plotSVG, scene, 120, 48); err != nil {
			return err
		}
		fmt.Printf("snapshot: %s\n", plotSVG)
	}
	return nil
}

func runView(cmd *cobra.Command, args []string) error {
	bundle, cfg, err := runAnalysis(args[0])
	if err != nil {
		return err
	}

	ds, err := cfg.Dataset()
	if err != nil {
		return err
	}

	scene := viz.NewScene(bundle.Surface, bundle.PlaneStress, ds.Specimens())
	title := "KHPS2 fracture locus"
	if !bundle.Calibration.Converged {
		title += " (not converged)"
	}
	return viz.RunViewer(viz.NewViewer(scene, bundle.Calibration.G, title))
}
