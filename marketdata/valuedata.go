package marketdata

import (
	"fmt"
	"time"

	"github.com/meenmo/derlib/currency"
)

// ValueData is a single observable market scalar: an equity spot, an FX rate,
// a flat volatility quote.
//
// Only the value itself is mutable; identity fields are fixed at construction.
// Callers are responsible for keeping the as-of instant at or before the
// evaluation date.
type ValueData struct {
	observable
	value          float64
	marketDatetime time.Time
	ccy            currency.Currency
	name           string
	id             string
}

func NewValueData(value float64, marketDatetime time.Time, ccy currency.Currency, name, id string) (*ValueData, error) {
	if name == "" || id == "" {
		return nil, &InvalidMarketDataError{Field: "name/id", Reason: "must be non-empty"}
	}
	return &ValueData{
		value:          value,
		marketDatetime: marketDatetime,
		ccy:            ccy,
		name:           name,
		id:             id,
	}, nil
}

func (d *ValueData) Value() float64               { return d.value }
func (d *ValueData) MarketDatetime() time.Time    { return d.marketDatetime }
func (d *ValueData) Currency() currency.Currency  { return d.ccy }
func (d *ValueData) Name() string                 { return d.name }
func (d *ValueData) ID() string                   { return d.id }

// SetValue mutates the scalar and notifies observers before returning.
func (d *ValueData) SetValue(v float64) error {
	if err := d.guard(); err != nil {
		return err
	}
	d.value = v
	if err := d.notify(); err != nil {
		return fmt.Errorf("ValueData.SetValue(%s): %w", d.id, err)
	}
	return nil
}
