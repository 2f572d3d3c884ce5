package engine

import (
	"fmt"
	"time"

	"github.com/meenmo/derlib/instruments"
	"github.com/meenmo/derlib/marketdata"
	"github.com/meenmo/derlib/parameters"
	"github.com/meenmo/derlib/utils"
)

// FuturesPricer values equity/index futures off the collateral and
// borrowing curves of the underlying:
//
//	F   = S * D_B(tau) / D_C(tau) * div(0, tau)
//	NPV = (F - K) * D_C(tau)
type FuturesPricer struct {
	stock      *parameters.Stock
	collateral *parameters.ZeroCurve
	borrowing  *parameters.ZeroCurve
	evalDate   *marketdata.EvaluationDate
}

func NewFuturesPricer(
	stock *parameters.Stock,
	collateral, borrowing *parameters.ZeroCurve,
	evalDate *marketdata.EvaluationDate,
) *FuturesPricer {
	return &FuturesPricer{
		stock:      stock,
		collateral: collateral,
		borrowing:  borrowing,
		evalDate:   evalDate,
	}
}

// Forward returns the fair futures level at year fraction tau.
func (p *FuturesPricer) Forward(tau float64) float64 {
	s := p.stock.Spot()
	return s * p.borrowing.Discount(tau) / p.collateral.Discount(tau) * p.stock.ForwardDividendFactor(0, tau)
}

func (p *FuturesPricer) NPV(inst instruments.Instrument) (float64, error) {
	fut, ok := inst.(*instruments.Futures)
	if !ok {
		return 0, fmt.Errorf("FuturesPricer.NPV: unexpected instrument type %s", inst.TypeName())
	}
	tau := utils.YearFraction(p.evalDate.Date(), fut.Maturity(), utils.Act365F)
	if tau <= 0 {
		return 0, nil
	}
	return (p.Forward(tau) - fut.Strike()) * p.collateral.Discount(tau), nil
}

func (p *FuturesPricer) FxExposure(inst instruments.Instrument) (float64, error) {
	npv, err := p.NPV(inst)
	if err != nil {
		return 0, err
	}
	return npv * inst.UnitNotional(), nil
}

func (p *FuturesPricer) Coupons(inst instruments.Instrument, from, to time.Time) (map[time.Time]float64, error) {
	return map[time.Time]float64{}, nil
}
