package config

import (
	"math"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.yaml")

	cfg := DefaultConfig()
	cfg.InitialG = []float64{1, 0.5, 1.2, 0.1, 0.05, 0.3}
	cfg.Solver.MaxEvals = 777
	cfg.StrainLimits = []float64{0, 2.5}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.Solver.MaxEvals != 777 {
		t.Errorf("MaxEvals = %d, want 777", got.Solver.MaxEvals)
	}
	if len(got.Specimens) != len(cfg.Specimens) {
		t.Errorf("specimens = %d, want %d", len(got.Specimens), len(cfg.Specimens))
	}
	for i, v := range cfg.InitialG {
		if got.InitialG[i] != v {
			t.Errorf("InitialG[%d] = %g, want %g", i, got.InitialG[i], v)
		}
	}
	if len(got.StrainLimits) != 2 || got.StrainLimits[1] != 2.5 {
		t.Errorf("StrainLimits = %v", got.StrainLimits)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRequestConversion(t *testing.T) {
	cfg := DefaultConfig()
	req, err := cfg.Request()
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	if req.Dataset.Len() != len(cfg.Specimens) {
		t.Errorf("dataset size %d, want %d", req.Dataset.Len(), len(cfg.Specimens))
	}
	if req.Surface.EtaRange.Samples != DefaultSamples {
		t.Errorf("eta samples = %d", req.Surface.EtaRange.Samples)
	}
	if req.Solver.Epsilon != cfg.Epsilon {
		t.Errorf("epsilon = %g, want %g", req.Solver.Epsilon, cfg.Epsilon)
	}
	if req.Surface.ClipStrain {
		t.Error("clip must be off without strain_limits")
	}
}

func TestRequestValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"short initial_g", func(c *Config) { c.InitialG = []float64{1, 2} }},
		{"short lower_bounds", func(c *Config) { c.LowerBounds = c.LowerBounds[:3] }},
		{"long upper_bounds", func(c *Config) { c.UpperBounds = append(c.UpperBounds, 1) }},
		{"odd strain_limits", func(c *Config) { c.StrainLimits = []float64{1} }},
		{"inverted strain_limits", func(c *Config) { c.StrainLimits = []float64{2, 1} }},
		{"bad invariant", func(c *Config) { c.Specimens[0].Invariant = 2 }},
		{"duplicate specimen", func(c *Config) { c.Specimens[1].Name = c.Specimens[0].Name }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if _, err := cfg.Request(); err == nil {
				t.Error("expected conversion error")
			}
		})
	}
}

func TestRequestStrainLimits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StrainLimits = []float64{0, 2}

	req, err := cfg.Request()
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if !req.Surface.ClipStrain || req.Surface.MinStrain != 0 || req.Surface.MaxStrain != 2 {
		t.Errorf("clip window = [%g, %g] enabled=%v",
			req.Surface.MinStrain, req.Surface.MaxStrain, req.Surface.ClipStrain)
	}
	if math.IsNaN(req.Surface.Epsilon) || req.Surface.Epsilon <= 0 {
		t.Errorf("epsilon = %g", req.Surface.Epsilon)
	}
}
