package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fraclocus/internal/analysis"
	"github.com/san-kum/fraclocus/internal/calib"
	"github.com/san-kum/fraclocus/internal/khps2"
	"github.com/san-kum/fraclocus/internal/locus"
)

const (
	DefaultFTol     = 1e-8
	DefaultXTol     = 1e-8
	DefaultMaxEvals = 2000
	DefaultSamples  = 999
)

type Config struct {
	Specimens   []SpecimenConfig `yaml:"specimens"`
	InitialG    []float64        `yaml:"initial_g"`
	LowerBounds []float64        `yaml:"lower_bounds"`
	UpperBounds []float64        `yaml:"upper_bounds"`
	Solver      SolverConfig     `yaml:"solver"`
	Epsilon     float64          `yaml:"denominator_epsilon"`
	EtaRange    RangeConfig      `yaml:"eta_range"`
	InvarRange  RangeConfig      `yaml:"invariant_range"`
	// Optional [min, max] fracture strain window; values outside are masked.
	StrainLimits []float64 `yaml:"strain_limits,omitempty"`
}

type SpecimenConfig struct {
	Name           string  `yaml:"name"`
	FractureStrain float64 `yaml:"fracture_strain"`
	Triaxiality    float64 `yaml:"triaxiality"`
	Invariant      float64 `yaml:"invariant"`
}

type SolverConfig struct {
	FTol     float64 `yaml:"ftol"`
	XTol     float64 `yaml:"xtol"`
	MaxEvals int     `yaml:"max_nfev"`
	Verbose  int     `yaml:"verbose"`
	GridSeed int     `yaml:"grid_seed,omitempty"`
}

type RangeConfig struct {
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Samples int     `yaml:"samples"`
}

func DefaultConfig() *Config {
	return &Config{
		Specimens: []SpecimenConfig{
			{Name: "shear", FractureStrain: 0.65, Triaxiality: 0.0, Invariant: 0.0},
			{Name: "tensile", FractureStrain: 0.85, Triaxiality: 0.33, Invariant: 1.0},
			{Name: "notched", FractureStrain: 0.55, Triaxiality: 0.6, Invariant: 0.9},
			{Name: "plane_strain", FractureStrain: 0.45, Triaxiality: 0.58, Invariant: 0.0},
		},
		InitialG:    []float64{1, 1, 1, 1, 1, 1},
		LowerBounds: []float64{-10, -10, -10, -10, -10, -10},
		UpperBounds: []float64{10, 10, 10, 10, 10, 10},
		Solver: SolverConfig{
			FTol:     DefaultFTol,
			XTol:     DefaultXTol,
			MaxEvals: DefaultMaxEvals,
		},
		Epsilon:    khps2.DefaultEpsilon,
		EtaRange:   RangeConfig{Min: -3, Max: 3, Samples: DefaultSamples},
		InvarRange: RangeConfig{Min: -1, Max: 1, Samples: DefaultSamples},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Specimens = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Dataset converts the specimen list into a validated dataset.
func (c *Config) Dataset() (*calib.Dataset, error) {
	ds := calib.NewDataset()
	for _, s := range c.Specimens {
		err := ds.Add(calib.Specimen{
			Name:           s.Name,
			FractureStrain: s.FractureStrain,
			Triaxiality:    s.Triaxiality,
			Invariant:      s.Invariant,
		})
		if err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// Request assembles the full analysis request, validating vector lengths and
// the optional strain window.
func (c *Config) Request() (analysis.Request, error) {
	var req analysis.Request

	ds, err := c.Dataset()
	if err != nil {
		return req, err
	}
	req.Dataset = ds

	if req.InitialG, err = khps2.FromSlice(c.InitialG); err != nil {
		return req, fmt.Errorf("initial_g: %w", err)
	}
	if req.Bounds.Lower, err = khps2.FromSlice(c.LowerBounds); err != nil {
		return req, fmt.Errorf("lower_bounds: %w", err)
	}
	if req.Bounds.Upper, err = khps2.FromSlice(c.UpperBounds); err != nil {
		return req, fmt.Errorf("upper_bounds: %w", err)
	}

	req.Solver = calib.SolverConfig{
		FTol:     c.Solver.FTol,
		XTol:     c.Solver.XTol,
		MaxEvals: c.Solver.MaxEvals,
		Epsilon:  c.Epsilon,
		GridSeed: c.Solver.GridSeed,
	}

	req.Surface = locus.Spec{
		EtaRange:       locus.Range{Min: c.EtaRange.Min, Max: c.EtaRange.Max, Samples: c.EtaRange.Samples},
		InvariantRange: locus.Range{Min: c.InvarRange.Min, Max: c.InvarRange.Max, Samples: c.InvarRange.Samples},
		Epsilon:        c.Epsilon,
	}

	switch len(c.StrainLimits) {
	case 0:
	case 2:
		req.Surface.ClipStrain = true
		req.Surface.MinStrain = c.StrainLimits[0]
		req.Surface.MaxStrain = c.StrainLimits[1]
		if req.Surface.MinStrain >= req.Surface.MaxStrain {
			return req, fmt.Errorf("strain_limits: min %g must be below max %g",
				req.Surface.MinStrain, req.Surface.MaxStrain)
		}
	default:
		return req, fmt.Errorf("strain_limits: expected [min, max], got %d values", len(c.StrainLimits))
	}

	return req, nil
}
