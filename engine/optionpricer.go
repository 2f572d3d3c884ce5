package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/derlib/instruments"
	"github.com/meenmo/derlib/marketdata"
	"github.com/meenmo/derlib/parameters"
	"github.com/meenmo/derlib/utils"
)

// VanillaOptionPricer prices European options with Black-Scholes on the
// forward: the drift r_C - r_B and the discrete dividends both enter
// through the same forward the futures pricer uses, so put-call parity
// holds against it by construction.
type VanillaOptionPricer struct {
	stock      *parameters.Stock
	collateral *parameters.ZeroCurve
	borrowing  *parameters.ZeroCurve
	vol        parameters.Volatility
	evalDate   *marketdata.EvaluationDate
}

func NewVanillaOptionPricer(
	stock *parameters.Stock,
	collateral, borrowing *parameters.ZeroCurve,
	vol parameters.Volatility,
	evalDate *marketdata.EvaluationDate,
) *VanillaOptionPricer {
	return &VanillaOptionPricer{
		stock:      stock,
		collateral: collateral,
		borrowing:  borrowing,
		vol:        vol,
		evalDate:   evalDate,
	}
}

func (p *VanillaOptionPricer) NPV(inst instruments.Instrument) (float64, error) {
	opt, ok := inst.(*instruments.VanillaOption)
	if !ok {
		return 0, fmt.Errorf("VanillaOptionPricer.NPV: unexpected instrument type %s", inst.TypeName())
	}
	if opt.ExerciseType() != instruments.European {
		return 0, &UnsupportedExerciseError{Code: opt.Code(), Exercise: string(opt.ExerciseType())}
	}

	tau := utils.YearFraction(p.evalDate.Date(), opt.Maturity(), utils.Act365F)
	if tau <= 0 {
		return 0, nil
	}

	s := p.stock.Spot()
	k := opt.Strike()
	fwd := s * p.borrowing.Discount(tau) / p.collateral.Discount(tau) * p.stock.ForwardDividendFactor(0, tau)
	df := p.collateral.Discount(tau)
	sigma := p.vol.At(k, tau)
	if sigma <= 0 {
		return 0, fmt.Errorf("VanillaOptionPricer.NPV(%s): non-positive volatility %g", opt.Code(), sigma)
	}

	stdDev := sigma * math.Sqrt(tau)
	d1 := (math.Log(fwd/k) + 0.5*stdDev*stdDev) / stdDev
	d2 := d1 - stdDev

	switch opt.OptionType() {
	case instruments.Call:
		return df * (fwd*normCDF(d1) - k*normCDF(d2)), nil
	case instruments.Put:
		return df * (k*normCDF(-d2) - fwd*normCDF(-d1)), nil
	default:
		return 0, fmt.Errorf("VanillaOptionPricer.NPV(%s): unknown option type %q", opt.Code(), opt.OptionType())
	}
}

func (p *VanillaOptionPricer) FxExposure(inst instruments.Instrument) (float64, error) {
	npv, err := p.NPV(inst)
	if err != nil {
		return 0, err
	}
	return npv * inst.UnitNotional(), nil
}

func (p *VanillaOptionPricer) Coupons(inst instruments.Instrument, from, to time.Time) (map[time.Time]float64, error) {
	return map[time.Time]float64{}, nil
}

// normCDF is the standard normal distribution function.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}
