package parameters

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/derlib/marketdata"
	"github.com/meenmo/derlib/utils"
)

// ZeroCurve interpolates continuously compounded zero rates into discount
// factors.
//
// It observes one VectorData (the quoted pillars) and the evaluation date
// (its anchor). The interpolation is piecewise flat forward: linear in
// r(t)·t between pillars, which makes -log D(t) piecewise linear in the
// ACT/365F year fraction. Extrapolation is flat on the zero rate at both
// ends.
type ZeroCurve struct {
	evalDate *marketdata.EvaluationDate
	data     *marketdata.VectorData
	name     string
	code     string

	// cached representation, rebuilt on notification
	times []float64
	rates []float64

	bumpStack [][]float64
}

// NewZeroCurve builds a curve from a VectorData of zero rates and registers
// nothing; the caller wires observers.
func NewZeroCurve(evalDate *marketdata.EvaluationDate, data *marketdata.VectorData, code string) (*ZeroCurve, error) {
	c := &ZeroCurve{
		evalDate: evalDate,
		data:     data,
		name:     code,
		code:     code,
	}
	if err := c.rebuild(); err != nil {
		return nil, fmt.Errorf("NewZeroCurve(%s): %w", code, err)
	}
	return c, nil
}

func (c *ZeroCurve) rebuild() error {
	dates := c.data.Dates()
	values := c.data.Values()
	anchor := c.evalDate.Date()

	times := make([]float64, 0, len(dates))
	rates := make([]float64, 0, len(values))
	for i, d := range dates {
		t := utils.YearFraction(anchor, d, utils.Act365F)
		if t <= 0 {
			// pillar at or before the anchor no longer spans the curve
			continue
		}
		times = append(times, t)
		rates = append(rates, values[i])
	}
	if len(times) == 0 {
		return &marketdata.InvalidMarketDataError{
			Field:  c.code,
			Reason: "no curve pillar after the evaluation date",
		}
	}
	c.times = times
	c.rates = rates
	c.bumpStack = c.bumpStack[:0]
	return nil
}

// Update implements marketdata.Observer. Both anchor changes and source
// mutations funnel here; the cache is rebuilt from scratch.
func (c *ZeroCurve) Update() error {
	return c.rebuild()
}

func (c *ZeroCurve) Name() string { return c.name }
func (c *ZeroCurve) Code() string { return c.code }

// PillarTimes returns the cached pillar year fractions from the anchor.
func (c *ZeroCurve) PillarTimes() []float64 {
	return append([]float64(nil), c.times...)
}

// ZeroRate returns the continuously compounded zero rate at year fraction t.
func (c *ZeroCurve) ZeroRate(t float64) float64 {
	n := len(c.times)
	if t <= c.times[0] {
		return c.rates[0]
	}
	if t >= c.times[n-1] {
		return c.rates[n-1]
	}
	i := utils.BracketIndex(t, c.times)
	// linear on r·t keeps the forward piecewise constant
	y1 := c.rates[i] * c.times[i]
	y2 := c.rates[i+1] * c.times[i+1]
	w := (t - c.times[i]) / (c.times[i+1] - c.times[i])
	return (y1 + w*(y2-y1)) / t
}

// Discount returns D(t) = exp(-r(t)·t) at year fraction t from the anchor.
func (c *ZeroCurve) Discount(t float64) float64 {
	if t <= 0 {
		return 1.0
	}
	return math.Exp(-c.ZeroRate(t) * t)
}

// DiscountAt returns the discount factor to a calendar date.
func (c *ZeroCurve) DiscountAt(d time.Time) float64 {
	return c.Discount(utils.YearFraction(c.evalDate.Date(), d, utils.Act365F))
}

// Forward returns the continuously compounded forward rate over (t1, t2).
func (c *ZeroCurve) Forward(t1, t2 float64) (float64, error) {
	if t1 >= t2 {
		return 0, &InvalidIntervalError{T1: t1, T2: t2}
	}
	return -math.Log(c.Discount(t2)/c.Discount(t1)) / (t2 - t1), nil
}

// BumpFlat perturbs every cached pillar rate in place. The source data is
// untouched; Restore pops the perturbation.
func (c *ZeroCurve) BumpFlat(delta float64) {
	c.pushSnapshot()
	for i := range c.rates {
		c.rates[i] += delta
	}
}

// BumpTenor perturbs the i-th cached pillar rate in place.
func (c *ZeroCurve) BumpTenor(i int, delta float64) error {
	if i < 0 || i >= len(c.rates) {
		return fmt.Errorf("ZeroCurve.BumpTenor(%s): index %d out of range [0,%d)", c.code, i, len(c.rates))
	}
	c.pushSnapshot()
	c.rates[i] += delta
	return nil
}

// Restore undoes the most recent bump. Bumps are stack-disciplined: the last
// bump is the first restored.
func (c *ZeroCurve) Restore() error {
	if len(c.bumpStack) == 0 {
		return fmt.Errorf("ZeroCurve.Restore(%s): no bump to restore", c.code)
	}
	top := c.bumpStack[len(c.bumpStack)-1]
	c.bumpStack = c.bumpStack[:len(c.bumpStack)-1]
	copy(c.rates, top)
	return nil
}

func (c *ZeroCurve) pushSnapshot() {
	c.bumpStack = append(c.bumpStack, append([]float64(nil), c.rates...))
}
