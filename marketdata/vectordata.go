package marketdata

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/meenmo/derlib/currency"
	"github.com/meenmo/derlib/utils"
)

// VectorData is an observable term structure: zero rates at pillar dates,
// dividend amounts at ex-dates.
//
// Exactly one of dates or times is supplied at construction; the other is
// derived with ACT/365F year fractions from the market datetime. Dates must
// be strictly increasing and values must match them in length.
type VectorData struct {
	observable
	values         []float64
	dates          []time.Time
	times          []float64
	marketDatetime time.Time
	ccy            currency.Currency
	name           string
	id             string
}

func NewVectorData(
	values []float64,
	dates []time.Time,
	times []float64,
	marketDatetime time.Time,
	ccy currency.Currency,
	name, id string,
) (*VectorData, error) {
	if len(values) == 0 {
		return nil, &InvalidMarketDataError{Field: "values", Reason: "empty"}
	}
	if (dates == nil) == (times == nil) {
		return nil, &InvalidMarketDataError{Field: "dates/times", Reason: "exactly one must be provided"}
	}

	d := &VectorData{
		values:         append([]float64(nil), values...),
		marketDatetime: marketDatetime,
		ccy:            ccy,
		name:           name,
		id:             id,
	}

	if dates != nil {
		if len(dates) != len(values) {
			return nil, &InvalidMarketDataError{
				Field:  "dates",
				Reason: fmt.Sprintf("length %d does not match values length %d", len(dates), len(values)),
			}
		}
		for i := 1; i < len(dates); i++ {
			if !dates[i].After(dates[i-1]) {
				return nil, &InvalidMarketDataError{Field: "dates", Reason: "not strictly increasing"}
			}
		}
		d.dates = append([]time.Time(nil), dates...)
		d.times = make([]float64, len(dates))
		for i, dt := range dates {
			d.times[i] = utils.YearFraction(marketDatetime, dt, utils.Act365F)
		}
		return d, nil
	}

	if len(times) != len(values) {
		return nil, &InvalidMarketDataError{
			Field:  "times",
			Reason: fmt.Sprintf("length %d does not match values length %d", len(times), len(values)),
		}
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, &InvalidMarketDataError{Field: "times", Reason: "not strictly increasing"}
		}
	}
	d.times = append([]float64(nil), times...)
	d.dates = make([]time.Time, len(times))
	for i, t := range times {
		d.dates[i] = marketDatetime.AddDate(0, 0, int(t*365.0+0.5))
	}
	return d, nil
}

// Values returns a copy of the value vector, usable as a restore snapshot.
func (d *VectorData) Values() []float64 {
	return append([]float64(nil), d.values...)
}

// Dates returns a copy of the pillar dates.
func (d *VectorData) Dates() []time.Time {
	return append([]time.Time(nil), d.dates...)
}

// Times returns a copy of the pillar year fractions from the market datetime.
func (d *VectorData) Times() []float64 {
	return append([]float64(nil), d.times...)
}

func (d *VectorData) Len() int                    { return len(d.values) }
func (d *VectorData) MarketDatetime() time.Time   { return d.marketDatetime }
func (d *VectorData) Currency() currency.Currency { return d.ccy }
func (d *VectorData) Name() string                { return d.name }
func (d *VectorData) ID() string                  { return d.id }

// SetValues replaces the whole value vector. Bumped state is restored
// bit-identically by writing back a snapshot taken with Values.
func (d *VectorData) SetValues(values []float64) error {
	if err := d.guard(); err != nil {
		return err
	}
	if len(values) != len(d.values) {
		return &InvalidMarketDataError{
			Field:  "values",
			Reason: fmt.Sprintf("length %d does not match pillar count %d", len(values), len(d.values)),
		}
	}
	copy(d.values, values)
	if err := d.notify(); err != nil {
		return fmt.Errorf("VectorData.SetValues(%s): %w", d.id, err)
	}
	return nil
}

// BumpFlat shifts every element by delta.
func (d *VectorData) BumpFlat(delta float64) error {
	if err := d.guard(); err != nil {
		return err
	}
	floats.AddConst(delta, d.values)
	if err := d.notify(); err != nil {
		return fmt.Errorf("VectorData.BumpFlat(%s): %w", d.id, err)
	}
	return nil
}

// BumpElement shifts the i-th element by delta.
func (d *VectorData) BumpElement(i int, delta float64) error {
	if err := d.guard(); err != nil {
		return err
	}
	if i < 0 || i >= len(d.values) {
		return &InvalidMarketDataError{
			Field:  "values",
			Reason: fmt.Sprintf("index %d out of range [0,%d)", i, len(d.values)),
		}
	}
	d.values[i] += delta
	if err := d.notify(); err != nil {
		return fmt.Errorf("VectorData.BumpElement(%s): %w", d.id, err)
	}
	return nil
}

// Scale multiplies every element by factor.
func (d *VectorData) Scale(factor float64) error {
	if err := d.guard(); err != nil {
		return err
	}
	floats.Scale(factor, d.values)
	if err := d.notify(); err != nil {
		return fmt.Errorf("VectorData.Scale(%s): %w", d.id, err)
	}
	return nil
}
