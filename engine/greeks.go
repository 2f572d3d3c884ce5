package engine

import (
	"fmt"

	"github.com/meenmo/derlib/instruments"
	"github.com/meenmo/derlib/marketdata"
	"github.com/meenmo/derlib/utils"
)

// Every Greek follows the same shape: snapshot the raw input, perturb it
// (observers recompute synchronously), reprice only the instruments that
// depend on it, and restore the snapshot on every exit path. Restoring from
// a snapshot rather than applying the inverse bump keeps the post-calculate
// state bit-identical to the pre-call state.

// shockedScalarNPVs prices the action set at two scalar levels, restoring
// the original value on return.
func (e *Engine) shockedScalarNPVs(
	data *marketdata.ValueData,
	upVal, downVal float64,
	insts []instruments.Instrument,
) (up, down map[string]float64, err error) {
	orig := data.Value()
	defer func() {
		if rerr := data.SetValue(orig); rerr != nil && err == nil {
			err = fmt.Errorf("restore %s: %w", data.ID(), rerr)
		}
	}()

	if err = data.SetValue(upVal); err != nil {
		return nil, nil, err
	}
	if up, err = e.npvsFor(insts); err != nil {
		return nil, nil, err
	}
	if err = data.SetValue(downVal); err != nil {
		return nil, nil, err
	}
	down, err = e.npvsFor(insts)
	return up, down, err
}

// shockedVectorNPVs applies mutate to a VectorData, prices the action set,
// and restores the snapshot on return.
func (e *Engine) shockedVectorNPVs(
	data *marketdata.VectorData,
	mutate func(*marketdata.VectorData) error,
	insts []instruments.Instrument,
) (shocked map[string]float64, err error) {
	snapshot := data.Values()
	defer func() {
		if rerr := data.SetValues(snapshot); rerr != nil && err == nil {
			err = fmt.Errorf("restore %s: %w", data.ID(), rerr)
		}
	}()

	if err = mutate(data); err != nil {
		return nil, err
	}
	return e.npvsFor(insts)
}

// shockedSurfaceNPVs is shockedVectorNPVs for a volatility grid.
func (e *Engine) shockedSurfaceNPVs(
	data *marketdata.SurfaceData,
	mutate func(*marketdata.SurfaceData) error,
	insts []instruments.Instrument,
) (shocked map[string]float64, err error) {
	snapshot := data.Vols()
	defer func() {
		if rerr := data.SetVols(snapshot); rerr != nil && err == nil {
			err = fmt.Errorf("restore %s: %w", data.ID(), rerr)
		}
	}()

	if err = mutate(data); err != nil {
		return nil, err
	}
	return e.npvsFor(insts)
}

// setDeltaGamma bumps each underlying's spot both ways. Delta is reported
// as 1% PnL: (V+ - V-) / (2h) * 0.01 * unit notional. Gamma is reported as
// the second-order PnL of a 1% move: 0.5 * (V+ - 2V0 + V-) / h^2 * 0.01^2 *
// unit notional.
func (e *Engine) setDeltaGamma() error {
	for _, und := range e.instruments.UnderlyingCodes() {
		insts := e.instruments.WithUnderlying(und)
		if len(insts) == 0 {
			continue
		}
		data, ok := e.stockData[und]
		if !ok {
			return &BindingMissingError{Kind: "stock data", Key: und}
		}
		e.instrumentsInAction = insts
		orig := data.Value()

		if e.config.Delta {
			h := e.config.DeltaBumpRatio
			up, down, err := e.shockedScalarNPVs(data, orig*(1+h), orig*(1-h), insts)
			if err != nil {
				return err
			}
			for _, inst := range insts {
				code := inst.Code()
				pnl := (up[code] - down[code]) / (2 * h) * 0.01 * inst.UnitNotional()
				e.results[code].SetSingleDelta(und, pnl)
			}
		}

		if e.config.Gamma {
			h := e.config.GammaBumpRatio
			up, down, err := e.shockedScalarNPVs(data, orig*(1+h), orig*(1-h), insts)
			if err != nil {
				return err
			}
			for _, inst := range insts {
				code := inst.Code()
				pnl := 0.5 * (up[code] - 2*e.baseNPVs[code] + down[code]) / (h * h) * 0.0001 * inst.UnitNotional()
				e.results[code].SetSingleGamma(und, pnl)
			}
		}
	}
	e.instrumentsInAction = e.instruments.All()
	return nil
}

// setRho bumps each bound curve flat by one basis point; the report is the
// 1bp PnL (V+ - V0) * unit notional per curve.
func (e *Engine) setRho() error {
	for _, name := range sortedKeys(e.curveData) {
		insts := e.instruments.UsingCurve(name, e.matchParameter)
		if len(insts) == 0 {
			continue
		}
		e.instrumentsInAction = insts
		bump := e.config.RhoBump

		up, err := e.shockedVectorNPVs(e.curveData[name], func(d *marketdata.VectorData) error {
			return d.BumpFlat(bump)
		}, insts)
		if err != nil {
			return err
		}
		for _, inst := range insts {
			code := inst.Code()
			e.results[code].SetSingleRho(name, (up[code]-e.baseNPVs[code])*inst.UnitNotional())
		}
	}
	e.instrumentsInAction = e.instruments.All()
	return nil
}

// setRhoStructure repeats the rho bump pillar by pillar.
func (e *Engine) setRhoStructure() error {
	eval := e.evaluationDate.Date()
	for _, name := range sortedKeys(e.curveData) {
		insts := e.instruments.UsingCurve(name, e.matchParameter)
		if len(insts) == 0 {
			continue
		}
		e.instrumentsInAction = insts
		data := e.curveData[name]
		dates := data.Dates()
		bump := e.config.RhoBump

		structures := make(map[string]map[string]float64, len(insts))
		for _, inst := range insts {
			structures[inst.Code()] = make(map[string]float64, len(dates))
		}

		for i, pillar := range dates {
			label := TenorLabel(utils.YearFraction(eval, pillar, utils.Act365F))
			idx := i
			up, err := e.shockedVectorNPVs(data, func(d *marketdata.VectorData) error {
				return d.BumpElement(idx, bump)
			}, insts)
			if err != nil {
				return err
			}
			for _, inst := range insts {
				code := inst.Code()
				structures[code][label] = (up[code] - e.baseNPVs[code]) * inst.UnitNotional()
			}
		}
		for _, inst := range insts {
			e.results[inst.Code()].SetSingleRhoStructure(name, structures[inst.Code()])
		}
	}
	e.instrumentsInAction = e.instruments.All()
	return nil
}

// optionsOn selects the option instruments depending on an underlying; only
// those reprice under a volatility bump.
func (e *Engine) optionsOn(und string) []instruments.Instrument {
	var out []instruments.Instrument
	for _, inst := range e.instruments.WithUnderlying(und) {
		if inst.TypeName() == instruments.TypeVanillaOption {
			out = append(out, inst)
		}
	}
	return out
}

// setVega bumps the bound volatility (surface if one is bound, flat quote
// otherwise) by one vol point; the report is (V+ - V0) * unit notional.
func (e *Engine) setVega() error {
	bump := e.config.VegaBump
	for _, und := range sortedKeys(e.volatilities) {
		insts := e.optionsOn(und)
		if len(insts) == 0 {
			continue
		}
		e.instrumentsInAction = insts

		var up map[string]float64
		var err error
		if surface, ok := e.surfaceData[und]; ok {
			up, err = e.shockedSurfaceNPVs(surface, func(s *marketdata.SurfaceData) error {
				return s.BumpFlat(bump)
			}, insts)
		} else if flat, ok := e.volData[und]; ok {
			orig := flat.Value()
			up, _, err = e.shockedScalarNPVs(flat, orig+bump, orig, insts)
		} else {
			return &MissingVolatilityError{Underlying: und}
		}
		if err != nil {
			return err
		}
		for _, inst := range insts {
			code := inst.Code()
			e.results[code].SetSingleVega(und, (up[code]-e.baseNPVs[code])*inst.UnitNotional())
		}
	}
	e.instrumentsInAction = e.instruments.All()
	return nil
}

// setVegaStructure bumps one surface expiry row at a time. Underlyings
// bound to a flat quote have no term structure and report vega only.
func (e *Engine) setVegaStructure() error {
	eval := e.evaluationDate.Date()
	bump := e.config.VegaBump
	for _, und := range sortedKeys(e.surfaceData) {
		insts := e.optionsOn(und)
		if len(insts) == 0 {
			continue
		}
		e.instrumentsInAction = insts
		surface := e.surfaceData[und]
		dates := surface.Dates()

		structures := make(map[string]map[string]float64, len(insts))
		for _, inst := range insts {
			structures[inst.Code()] = make(map[string]float64, len(dates))
		}

		for i, expiry := range dates {
			label := TenorLabel(utils.YearFraction(eval, expiry, utils.Act365F))
			idx := i
			up, err := e.shockedSurfaceNPVs(surface, func(s *marketdata.SurfaceData) error {
				return s.BumpRow(idx, bump)
			}, insts)
			if err != nil {
				return err
			}
			for _, inst := range insts {
				code := inst.Code()
				structures[code][label] = (up[code] - e.baseNPVs[code]) * inst.UnitNotional()
			}
		}
		for _, inst := range insts {
			e.results[inst.Code()].SetSingleVegaStructure(und, structures[inst.Code()])
		}
	}
	e.instrumentsInAction = e.instruments.All()
	return nil
}

// setVegaMatrix bumps every (expiry, strike) surface cell independently.
func (e *Engine) setVegaMatrix() error {
	eval := e.evaluationDate.Date()
	bump := e.config.VegaBump
	for _, und := range sortedKeys(e.surfaceData) {
		insts := e.optionsOn(und)
		if len(insts) == 0 {
			continue
		}
		e.instrumentsInAction = insts
		surface := e.surfaceData[und]
		dates := surface.Dates()
		strikes := surface.Strikes()

		matrices := make(map[string]map[string]map[string]float64, len(insts))
		for _, inst := range insts {
			matrices[inst.Code()] = make(map[string]map[string]float64, len(dates))
		}

		for i, expiry := range dates {
			tenor := TenorLabel(utils.YearFraction(eval, expiry, utils.Act365F))
			for code := range matrices {
				matrices[code][tenor] = make(map[string]float64, len(strikes))
			}
			for j, strike := range strikes {
				row, col := i, j
				up, err := e.shockedSurfaceNPVs(surface, func(s *marketdata.SurfaceData) error {
					return s.BumpCell(row, col, bump)
				}, insts)
				if err != nil {
					return err
				}
				strikeLabel := fmt.Sprintf("%g", strike)
				for _, inst := range insts {
					code := inst.Code()
					matrices[code][tenor][strikeLabel] = (up[code] - e.baseNPVs[code]) * inst.UnitNotional()
				}
			}
		}
		for _, inst := range insts {
			e.results[inst.Code()].SetSingleVegaMatrix(und, matrices[inst.Code()])
		}
	}
	e.instrumentsInAction = e.instruments.All()
	return nil
}

// setDivDelta scales each dividend schedule by +/- the configured ratio;
// the report is the 1% PnL central difference.
func (e *Engine) setDivDelta() error {
	h := e.config.DivBumpRatio
	for _, und := range sortedKeys(e.dividendData) {
		insts := e.instruments.WithUnderlying(und)
		if len(insts) == 0 {
			continue
		}
		e.instrumentsInAction = insts
		data := e.dividendData[und]

		up, err := e.shockedVectorNPVs(data, func(d *marketdata.VectorData) error {
			return d.Scale(1 + h)
		}, insts)
		if err != nil {
			return err
		}
		down, err := e.shockedVectorNPVs(data, func(d *marketdata.VectorData) error {
			return d.Scale(1 - h)
		}, insts)
		if err != nil {
			return err
		}
		for _, inst := range insts {
			code := inst.Code()
			pnl := (up[code] - down[code]) / (2 * h) * 0.01 * inst.UnitNotional()
			e.results[code].SetSingleDivDelta(und, pnl)
		}
	}
	e.instrumentsInAction = e.instruments.All()
	return nil
}

// setDivStructure bumps each dividend event by its own ratio, one-sided.
func (e *Engine) setDivStructure() error {
	eval := e.evaluationDate.Date()
	h := e.config.DivBumpRatio
	for _, und := range sortedKeys(e.dividendData) {
		insts := e.instruments.WithUnderlying(und)
		if len(insts) == 0 {
			continue
		}
		e.instrumentsInAction = insts
		data := e.dividendData[und]
		dates := data.Dates()
		amounts := data.Values()

		structures := make(map[string]map[string]float64, len(insts))
		for _, inst := range insts {
			structures[inst.Code()] = make(map[string]float64, len(dates))
		}

		for i, exDate := range dates {
			label := TenorLabel(utils.YearFraction(eval, exDate, utils.Act365F))
			idx := i
			up, err := e.shockedVectorNPVs(data, func(d *marketdata.VectorData) error {
				return d.BumpElement(idx, amounts[idx]*h)
			}, insts)
			if err != nil {
				return err
			}
			for _, inst := range insts {
				code := inst.Code()
				structures[code][label] = (up[code] - e.baseNPVs[code]) / h * 0.01 * inst.UnitNotional()
			}
		}
		for _, inst := range insts {
			e.results[inst.Code()].SetSingleDivStructure(und, structures[inst.Code()])
		}
	}
	e.instrumentsInAction = e.instruments.All()
	return nil
}

// setTheta advances the evaluation date by theta_day, reprices everything,
// and restores the date before returning:
//
//	theta = (V_future - V_now + cashflows_in_between) / theta_day * unit notional
func (e *Engine) setTheta() (err error) {
	days := e.config.ThetaDay
	origDate := e.evaluationDate.Date()
	defer func() {
		if rerr := e.evaluationDate.Set(origDate); rerr != nil && err == nil {
			err = fmt.Errorf("restore evaluation date: %w", rerr)
		}
	}()

	e.instrumentsInAction = e.instruments.All()
	if err = e.evaluationDate.AddDays(days); err != nil {
		return err
	}
	future, err := e.npvsFor(e.instrumentsInAction)
	if err != nil {
		return err
	}

	for _, inst := range e.instrumentsInAction {
		code := inst.Code()
		theta := (future[code] - e.baseNPVs[code] + e.couponTotals[code]) / float64(days) * inst.UnitNotional()
		e.results[code].SetTheta(theta)
		e.results[code].SetThetaDay(days)
	}
	return nil
}
