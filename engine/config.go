package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CalculationConfiguration selects which Greeks Calculate produces and with
// what bump sizes. All flags default off; bump sizes default to the market
// conventions below.
type CalculationConfiguration struct {
	Delta         bool `yaml:"delta" json:"delta"`
	Gamma         bool `yaml:"gamma" json:"gamma"`
	Vega          bool `yaml:"vega" json:"vega"`
	VegaStructure bool `yaml:"vega_structure" json:"vega_structure"`
	VegaMatrix    bool `yaml:"vega_matrix" json:"vega_matrix"`
	Rho           bool `yaml:"rho" json:"rho"`
	RhoStructure  bool `yaml:"rho_structure" json:"rho_structure"`
	DivDelta      bool `yaml:"div_delta" json:"div_delta"`
	DivStructure  bool `yaml:"div_structure" json:"div_structure"`
	Theta         bool `yaml:"theta" json:"theta"`

	// ThetaDay is the horizon, in calendar days, of the theta shift and the
	// cashflow_inbetween window.
	ThetaDay int `yaml:"theta_day" json:"theta_day"`

	// DeltaBumpRatio is the relative spot bump (0.01 = 1%).
	DeltaBumpRatio float64 `yaml:"delta_bump_ratio" json:"delta_bump_ratio"`
	// GammaBumpRatio is the relative spot bump for the second difference.
	GammaBumpRatio float64 `yaml:"gamma_bump_ratio" json:"gamma_bump_ratio"`
	// VegaBump is the absolute vol bump (0.01 = one vol point).
	VegaBump float64 `yaml:"vega_bump" json:"vega_bump"`
	// RhoBump is the absolute rate bump (0.0001 = 1bp).
	RhoBump float64 `yaml:"rho_bump" json:"rho_bump"`
	// DivBumpRatio is the relative dividend-amount bump.
	DivBumpRatio float64 `yaml:"div_bump_ratio" json:"div_bump_ratio"`
}

// DefaultConfiguration returns the flag-off configuration with conventional
// bump sizes.
func DefaultConfiguration() CalculationConfiguration {
	return CalculationConfiguration{
		ThetaDay:       1,
		DeltaBumpRatio: 0.01,
		GammaBumpRatio: 0.01,
		VegaBump:       0.01,
		RhoBump:        0.0001,
		DivBumpRatio:   0.01,
	}
}

func (c CalculationConfiguration) WithDelta(on bool) CalculationConfiguration {
	c.Delta = on
	return c
}

func (c CalculationConfiguration) WithGamma(on bool) CalculationConfiguration {
	c.Gamma = on
	return c
}

func (c CalculationConfiguration) WithVega(on bool) CalculationConfiguration {
	c.Vega = on
	return c
}

func (c CalculationConfiguration) WithVegaStructure(on bool) CalculationConfiguration {
	c.VegaStructure = on
	return c
}

func (c CalculationConfiguration) WithVegaMatrix(on bool) CalculationConfiguration {
	c.VegaMatrix = on
	return c
}

func (c CalculationConfiguration) WithRho(on bool) CalculationConfiguration {
	c.Rho = on
	return c
}

func (c CalculationConfiguration) WithRhoStructure(on bool) CalculationConfiguration {
	c.RhoStructure = on
	return c
}

func (c CalculationConfiguration) WithDivDelta(on bool) CalculationConfiguration {
	c.DivDelta = on
	return c
}

func (c CalculationConfiguration) WithDivStructure(on bool) CalculationConfiguration {
	c.DivStructure = on
	return c
}

func (c CalculationConfiguration) WithTheta(on bool) CalculationConfiguration {
	c.Theta = on
	return c
}

func (c CalculationConfiguration) WithThetaDay(days int) CalculationConfiguration {
	c.ThetaDay = days
	return c
}

// Validate rejects non-positive bump sizes and horizons.
func (c CalculationConfiguration) Validate() error {
	if c.ThetaDay <= 0 {
		return fmt.Errorf("CalculationConfiguration: theta_day must be positive, got %d", c.ThetaDay)
	}
	if c.DeltaBumpRatio <= 0 || c.GammaBumpRatio <= 0 || c.VegaBump <= 0 || c.RhoBump <= 0 || c.DivBumpRatio <= 0 {
		return fmt.Errorf("CalculationConfiguration: bump sizes must be positive")
	}
	return nil
}

// LoadConfiguration reads a YAML configuration file. Absent keys keep their
// defaults.
func LoadConfiguration(path string) (CalculationConfiguration, error) {
	cfg := DefaultConfiguration()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("LoadConfiguration: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("LoadConfiguration: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("LoadConfiguration: %s: %w", path, err)
	}
	return cfg, nil
}
