package parameters

import (
	"fmt"

	"github.com/meenmo/derlib/marketdata"
	"github.com/meenmo/derlib/utils"
)

// Volatility resolves a Black volatility at (strike, year fraction).
type Volatility interface {
	At(strike, t float64) float64
	Name() string
}

// FlatVolatility is a single quote applied to every strike and expiry.
// It observes its ValueData so vega bumps flow through.
type FlatVolatility struct {
	data  *marketdata.ValueData
	value float64
	name  string
}

func NewFlatVolatility(data *marketdata.ValueData) *FlatVolatility {
	return &FlatVolatility{data: data, value: data.Value(), name: data.Name()}
}

// Update implements marketdata.Observer.
func (v *FlatVolatility) Update() error {
	v.value = v.data.Value()
	return nil
}

func (v *FlatVolatility) Name() string { return v.name }

func (v *FlatVolatility) At(strike, t float64) float64 {
	return v.value
}

// TermVolatility is a term structure of at-the-money quotes, linear in the
// year fraction with flat extrapolation. Strike is ignored.
type TermVolatility struct {
	evalDate *marketdata.EvaluationDate
	data     *marketdata.VectorData
	name     string

	times []float64
	vols  []float64
}

func NewTermVolatility(evalDate *marketdata.EvaluationDate, data *marketdata.VectorData) (*TermVolatility, error) {
	v := &TermVolatility{evalDate: evalDate, data: data, name: data.Name()}
	if err := v.rebuild(); err != nil {
		return nil, fmt.Errorf("NewTermVolatility(%s): %w", v.name, err)
	}
	return v, nil
}

func (v *TermVolatility) rebuild() error {
	dates := v.data.Dates()
	values := v.data.Values()
	anchor := v.evalDate.Date()

	v.times = v.times[:0]
	v.vols = v.vols[:0]
	for i, d := range dates {
		t := utils.YearFraction(anchor, d, utils.Act365F)
		if t <= 0 {
			continue
		}
		v.times = append(v.times, t)
		v.vols = append(v.vols, values[i])
	}
	if len(v.times) == 0 {
		return &marketdata.InvalidMarketDataError{Field: v.name, Reason: "no vol pillar after the evaluation date"}
	}
	return nil
}

// Update implements marketdata.Observer.
func (v *TermVolatility) Update() error {
	return v.rebuild()
}

func (v *TermVolatility) Name() string { return v.name }

func (v *TermVolatility) At(strike, t float64) float64 {
	n := len(v.times)
	if t <= v.times[0] {
		return v.vols[0]
	}
	if t >= v.times[n-1] {
		return v.vols[n-1]
	}
	i := utils.BracketIndex(t, v.times)
	w := (t - v.times[i]) / (v.times[i+1] - v.times[i])
	return v.vols[i] + w*(v.vols[i+1]-v.vols[i])
}

// SurfaceVolatility interpolates a strike-expiry grid bilinearly, flat
// outside the quoted range. It observes its SurfaceData and the evaluation
// date.
type SurfaceVolatility struct {
	evalDate *marketdata.EvaluationDate
	data     *marketdata.SurfaceData
	name     string

	strikes []float64
	times   []float64
	vols    [][]float64
}

func NewSurfaceVolatility(evalDate *marketdata.EvaluationDate, data *marketdata.SurfaceData) (*SurfaceVolatility, error) {
	v := &SurfaceVolatility{evalDate: evalDate, data: data, name: data.Name()}
	if err := v.rebuild(); err != nil {
		return nil, fmt.Errorf("NewSurfaceVolatility(%s): %w", v.name, err)
	}
	return v, nil
}

func (v *SurfaceVolatility) rebuild() error {
	dates := v.data.Dates()
	grid := v.data.Vols()
	anchor := v.evalDate.Date()

	v.strikes = v.data.Strikes()
	v.times = v.times[:0]
	v.vols = v.vols[:0]
	for i, d := range dates {
		t := utils.YearFraction(anchor, d, utils.Act365F)
		if t <= 0 {
			continue
		}
		v.times = append(v.times, t)
		v.vols = append(v.vols, grid[i])
	}
	if len(v.times) == 0 {
		return &marketdata.InvalidMarketDataError{Field: v.name, Reason: "no surface expiry after the evaluation date"}
	}
	return nil
}

// Update implements marketdata.Observer.
func (v *SurfaceVolatility) Update() error {
	return v.rebuild()
}

func (v *SurfaceVolatility) Name() string { return v.name }

// Times returns the expiry year fractions surviving the current anchor.
func (v *SurfaceVolatility) Times() []float64 {
	return append([]float64(nil), v.times...)
}

// Strikes returns the strike axis of the grid.
func (v *SurfaceVolatility) Strikes() []float64 {
	return append([]float64(nil), v.strikes...)
}

func (v *SurfaceVolatility) At(strike, t float64) float64 {
	row := func(i int) float64 {
		return interpFlat(strike, v.strikes, v.vols[i])
	}
	n := len(v.times)
	if t <= v.times[0] {
		return row(0)
	}
	if t >= v.times[n-1] {
		return row(n - 1)
	}
	i := utils.BracketIndex(t, v.times)
	w := (t - v.times[i]) / (v.times[i+1] - v.times[i])
	return row(i) + w*(row(i+1)-row(i))
}

// interpFlat is linear interpolation with flat extrapolation on both ends.
func interpFlat(x float64, xs, ys []float64) float64 {
	n := len(xs)
	if n == 1 || x <= xs[0] {
		return ys[0]
	}
	if x >= xs[n-1] {
		return ys[n-1]
	}
	i := utils.BracketIndex(x, xs)
	w := (x - xs[i]) / (xs[i+1] - xs[i])
	return ys[i] + w*(ys[i+1]-ys[i])
}
