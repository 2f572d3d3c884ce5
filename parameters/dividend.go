package parameters

import (
	"fmt"
	"time"

	"github.com/meenmo/derlib/marketdata"
	"github.com/meenmo/derlib/utils"
)

// DiscreteRatioDividend models discrete cash dividends as spot ratios.
//
// It observes a VectorData of cash amounts at ex-dates: each event carries
// q_i = cash_i / S, normalized against the spot read at the last rebuild.
// Spot bumps do not trigger a rebuild, so delta keeps the ratios fixed.
// Ex-dates at or before the evaluation date drop out when the anchor moves.
type DiscreteRatioDividend struct {
	evalDate *marketdata.EvaluationDate
	data     *marketdata.VectorData
	spotData *marketdata.ValueData
	name     string

	exDates []time.Time
	exTimes []float64
	ratios  []float64
}

func NewDiscreteRatioDividend(
	evalDate *marketdata.EvaluationDate,
	data *marketdata.VectorData,
	spotData *marketdata.ValueData,
	name string,
) (*DiscreteRatioDividend, error) {
	d := &DiscreteRatioDividend{
		evalDate: evalDate,
		data:     data,
		spotData: spotData,
		name:     name,
	}
	if err := d.rebuild(); err != nil {
		return nil, fmt.Errorf("NewDiscreteRatioDividend(%s): %w", name, err)
	}
	return d, nil
}

func (d *DiscreteRatioDividend) rebuild() error {
	spot := d.spotData.Value()
	if spot <= 0 {
		return &marketdata.InvalidMarketDataError{Field: d.name, Reason: "non-positive spot"}
	}
	dates := d.data.Dates()
	amounts := d.data.Values()
	anchor := d.evalDate.Date()

	d.exDates = d.exDates[:0]
	d.exTimes = d.exTimes[:0]
	d.ratios = d.ratios[:0]
	for i, ex := range dates {
		t := utils.YearFraction(anchor, ex, utils.Act365F)
		if t <= 0 {
			continue
		}
		d.exDates = append(d.exDates, ex)
		d.exTimes = append(d.exTimes, t)
		d.ratios = append(d.ratios, amounts[i]/spot)
	}
	return nil
}

// Update implements marketdata.Observer.
func (d *DiscreteRatioDividend) Update() error {
	return d.rebuild()
}

func (d *DiscreteRatioDividend) Name() string { return d.name }

// ExDates returns the remaining ex-dates after the evaluation date.
func (d *DiscreteRatioDividend) ExDates() []time.Time {
	return append([]time.Time(nil), d.exDates...)
}

// ExTimes returns the remaining ex-date year fractions from the anchor.
func (d *DiscreteRatioDividend) ExTimes() []float64 {
	return append([]float64(nil), d.exTimes...)
}

// ForwardDividendFactor returns the multiplicative forward adjustment
// prod(1 - q_i) over ex-dates with t1 < t_i <= t2.
func (d *DiscreteRatioDividend) ForwardDividendFactor(t1, t2 float64) float64 {
	factor := 1.0
	for i, t := range d.exTimes {
		if t > t1 && t <= t2 {
			factor *= 1.0 - d.ratios[i]
		}
	}
	return factor
}
