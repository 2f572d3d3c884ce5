package engine

import (
	"time"

	"github.com/meenmo/derlib/instruments"
)

// CashPricer values a unit cash balance: NPV 1 in its own currency.
type CashPricer struct{}

func NewCashPricer() *CashPricer {
	return &CashPricer{}
}

func (p *CashPricer) NPV(inst instruments.Instrument) (float64, error) {
	return 1.0, nil
}

func (p *CashPricer) FxExposure(inst instruments.Instrument) (float64, error) {
	return inst.UnitNotional(), nil
}

func (p *CashPricer) Coupons(inst instruments.Instrument, from, to time.Time) (map[time.Time]float64, error) {
	return map[time.Time]float64{}, nil
}
