package engine

import (
	"fmt"
	"time"

	"github.com/meenmo/derlib/instruments"
	"github.com/meenmo/derlib/marketdata"
	"github.com/meenmo/derlib/parameters"
)

// BondPricer discounts a fixed-rate bond's remaining cashflows on the curve
// resolved through the bond discount map.
type BondPricer struct {
	discount *parameters.ZeroCurve
	evalDate *marketdata.EvaluationDate
}

func NewBondPricer(discount *parameters.ZeroCurve, evalDate *marketdata.EvaluationDate) *BondPricer {
	return &BondPricer{discount: discount, evalDate: evalDate}
}

func (p *BondPricer) NPV(inst instruments.Instrument) (float64, error) {
	bond, ok := inst.(*instruments.Bond)
	if !ok {
		return 0, fmt.Errorf("BondPricer.NPV: unexpected instrument type %s", inst.TypeName())
	}
	eval := p.evalDate.Date()

	npv := 0.0
	for _, c := range bond.Coupons() {
		// coupons paying exactly at evaluation are already cash
		if !c.PayDate.After(eval) {
			continue
		}
		npv += c.Amount * p.discount.DiscountAt(c.PayDate)
	}
	if bond.Maturity().After(eval) {
		npv += p.discount.DiscountAt(bond.Maturity())
	}
	if bond.IsClean() {
		npv -= bond.AccruedAmount(eval)
	}
	return npv, nil
}

func (p *BondPricer) FxExposure(inst instruments.Instrument) (float64, error) {
	npv, err := p.NPV(inst)
	if err != nil {
		return 0, err
	}
	return npv * inst.UnitNotional(), nil
}

func (p *BondPricer) Coupons(inst instruments.Instrument, from, to time.Time) (map[time.Time]float64, error) {
	bond, ok := inst.(*instruments.Bond)
	if !ok {
		return nil, fmt.Errorf("BondPricer.Coupons: unexpected instrument type %s", inst.TypeName())
	}
	out := map[time.Time]float64{}
	for _, c := range bond.Coupons() {
		if c.PayDate.After(from) && !c.PayDate.After(to) {
			out[c.PayDate] += c.Amount
		}
	}
	if m := bond.Maturity(); m.After(from) && !m.After(to) {
		out[m] += 1.0
	}
	return out, nil
}
