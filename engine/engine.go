package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/meenmo/derlib/instruments"
	"github.com/meenmo/derlib/marketdata"
	"github.com/meenmo/derlib/parameters"
)

// Engine prices a portfolio against one market snapshot and fills a
// CalculationResult per instrument.
//
// It is the sole owner and mutator of its observables: raw data are bumped,
// derived parameters react through notification, the selected instruments
// are repriced, and the raw data are restored from snapshots. Calculate is
// not reentrant and runs on one goroutine.
type Engine struct {
	id             int
	config         CalculationConfiguration
	evaluationDate *marketdata.EvaluationDate
	matchParameter *MatchParameter
	logger         zerolog.Logger

	// raw market data
	fxData       map[string]*marketdata.ValueData
	stockData    map[string]*marketdata.ValueData
	curveData    map[string]*marketdata.VectorData
	dividendData map[string]*marketdata.VectorData
	volData      map[string]*marketdata.ValueData
	surfaceData  map[string]*marketdata.SurfaceData

	// derived parameters
	stocks       map[string]*parameters.Stock
	zeroCurves   map[string]*parameters.ZeroCurve
	dividends    map[string]*parameters.DiscreteRatioDividend
	volatilities map[string]parameters.Volatility

	instruments         *instruments.Instruments
	instrumentsInAction []instruments.Instrument
	pricers             map[string]Pricer
	results             map[string]*CalculationResult

	// per-unit base NPVs and coupon totals cached by Calculate
	baseNPVs     map[string]float64
	couponTotals map[string]float64
}

// ParameterData is the raw market snapshot handed to the builder. Keys are
// market codes: underlying codes for stocks/dividends/vols, curve names for
// curves, pair codes for FX.
type ParameterData struct {
	Fx              map[string]*marketdata.ValueData
	Stocks          map[string]*marketdata.ValueData
	Curves          map[string]*marketdata.VectorData
	Dividends       map[string]*marketdata.VectorData
	EquityVols      map[string]*marketdata.ValueData
	EquitySurfaces  map[string]*marketdata.SurfaceData
	RateIndexCurves map[string]*marketdata.VectorData
}

// Builder assembles an Engine in two steps: instruments, then parameter
// data. The first error sticks and is reported by WithParameterData.
type Builder struct {
	id             int
	config         CalculationConfiguration
	evaluationDate *marketdata.EvaluationDate
	matchParameter *MatchParameter
	insts          *instruments.Instruments
	err            error
}

// NewBuilder starts an engine definition.
func NewBuilder(
	id int,
	config CalculationConfiguration,
	evaluationDate *marketdata.EvaluationDate,
	matchParameter *MatchParameter,
) *Builder {
	b := &Builder{
		id:             id,
		config:         config,
		evaluationDate: evaluationDate,
		matchParameter: matchParameter,
	}
	if err := config.Validate(); err != nil {
		b.err = err
	}
	return b
}

// WithInstruments validates and stores the portfolio.
func (b *Builder) WithInstruments(list []instruments.Instrument) *Builder {
	if b.err != nil {
		return b
	}
	insts, err := instruments.NewInstruments(list)
	if err != nil {
		b.err = fmt.Errorf("Builder.WithInstruments: %w", err)
		return b
	}
	b.insts = insts
	return b
}

// WithParameterData lifts the raw snapshot into derived parameters, wires
// them as observers, and produces the Engine.
func (b *Builder) WithParameterData(pd ParameterData) (*Engine, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.insts == nil {
		return nil, fmt.Errorf("Builder.WithParameterData: instruments are not set")
	}

	e := &Engine{
		id:             b.id,
		config:         b.config,
		evaluationDate: b.evaluationDate,
		matchParameter: b.matchParameter,
		logger:         log.With().Int("engine_id", b.id).Logger(),
		fxData:         pd.Fx,
		stockData:      pd.Stocks,
		curveData:      map[string]*marketdata.VectorData{},
		dividendData:   pd.Dividends,
		volData:        pd.EquityVols,
		surfaceData:    pd.EquitySurfaces,
		stocks:         map[string]*parameters.Stock{},
		zeroCurves:     map[string]*parameters.ZeroCurve{},
		dividends:      map[string]*parameters.DiscreteRatioDividend{},
		volatilities:   map[string]parameters.Volatility{},
		instruments:    b.insts,
	}
	if e.fxData == nil {
		e.fxData = map[string]*marketdata.ValueData{}
	}
	if e.stockData == nil {
		e.stockData = map[string]*marketdata.ValueData{}
	}
	if e.dividendData == nil {
		e.dividendData = map[string]*marketdata.VectorData{}
	}
	if e.volData == nil {
		e.volData = map[string]*marketdata.ValueData{}
	}
	if e.surfaceData == nil {
		e.surfaceData = map[string]*marketdata.SurfaceData{}
	}

	// zero curves: quoted curves plus rate index projection curves
	for name, data := range pd.Curves {
		e.curveData[name] = data
	}
	for name, data := range pd.RateIndexCurves {
		if _, dup := e.curveData[name]; dup {
			return nil, fmt.Errorf("Builder.WithParameterData: duplicate curve name %q", name)
		}
		e.curveData[name] = data
	}
	for name, data := range e.curveData {
		curve, err := parameters.NewZeroCurve(b.evaluationDate, data, name)
		if err != nil {
			return nil, fmt.Errorf("Builder.WithParameterData: %w", err)
		}
		data.AddObserver(curve)
		b.evaluationDate.AddObserver(curve)
		e.zeroCurves[name] = curve
	}

	// dividends need the matching spot to normalize cash into ratios
	for code, data := range e.dividendData {
		spotData, ok := e.stockData[code]
		if !ok {
			return nil, fmt.Errorf("Builder.WithParameterData: dividend %q has no matching stock data", code)
		}
		div, err := parameters.NewDiscreteRatioDividend(b.evaluationDate, data, spotData, code)
		if err != nil {
			return nil, fmt.Errorf("Builder.WithParameterData: %w", err)
		}
		// the dividend re-normalizes on its own data and on anchor moves, but
		// not on spot bumps: delta keeps the cash amounts fixed in ratio terms
		data.AddObserver(div)
		b.evaluationDate.AddObserver(div)
		e.dividends[code] = div
	}

	for code, data := range e.stockData {
		stock := parameters.NewStock(data, e.dividends[code], code)
		data.AddObserver(stock)
		e.stocks[code] = stock
	}

	// volatility binding: a surface wins over a flat quote
	for code, data := range e.surfaceData {
		vol, err := parameters.NewSurfaceVolatility(b.evaluationDate, data)
		if err != nil {
			return nil, fmt.Errorf("Builder.WithParameterData: %w", err)
		}
		data.AddObserver(vol)
		b.evaluationDate.AddObserver(vol)
		e.volatilities[code] = vol
	}
	for code, data := range e.volData {
		if _, bound := e.volatilities[code]; bound {
			continue
		}
		vol := parameters.NewFlatVolatility(data)
		data.AddObserver(vol)
		e.volatilities[code] = vol
	}

	return e, nil
}

// ID returns the engine id given at construction.
func (e *Engine) ID() int { return e.id }

// EvaluationDate exposes the engine's evaluation date.
func (e *Engine) EvaluationDate() *marketdata.EvaluationDate { return e.evaluationDate }

// FxSpot returns the spot for a pair code like "USDKRW".
func (e *Engine) FxSpot(code string) (float64, bool) {
	data, ok := e.fxData[code]
	if !ok {
		return 0, false
	}
	return data.Value(), true
}

// ZeroCurve returns a derived curve by name, or nil.
func (e *Engine) ZeroCurve(name string) *parameters.ZeroCurve {
	return e.zeroCurves[name]
}

// Stock returns a derived underlying by code, or nil.
func (e *Engine) Stock(code string) *parameters.Stock {
	return e.stocks[code]
}

// InitializePricers resolves every instrument's bindings through the match
// parameter and builds its pricer. It is all-or-nothing: the first failure
// aborts with the offending instrument code, leaving the engine with no
// pricers and an empty result map.
func (e *Engine) InitializePricers() error {
	pricers := make(map[string]Pricer, e.instruments.Len())
	results := make(map[string]*CalculationResult, e.instruments.Len())

	for _, inst := range e.instruments.All() {
		pricer, err := e.buildPricer(inst)
		if err != nil {
			return &InitializationFailedError{Code: inst.Code(), Cause: err}
		}
		pricers[inst.Code()] = pricer
		results[inst.Code()] = NewCalculationResult(instruments.NewInfo(inst), e.evaluationDate.Date())
	}

	e.pricers = pricers
	e.results = results
	e.logger.Debug().Int("instruments", e.instruments.Len()).Msg("pricers initialized")
	return nil
}

func (e *Engine) buildPricer(inst instruments.Instrument) (Pricer, error) {
	switch typed := inst.(type) {
	case *instruments.Futures:
		und := inst.UnderlyingCodes()[0]
		stock, ok := e.stocks[und]
		if !ok {
			return nil, &BindingMissingError{Kind: "stock", Key: und}
		}
		collateral, err := e.resolveCurve(e.matchParameter.CollateralCurveName(und))
		if err != nil {
			return nil, err
		}
		borrowing, err := e.resolveCurve(e.matchParameter.BorrowingCurveName(und))
		if err != nil {
			return nil, err
		}
		return NewFuturesPricer(stock, collateral, borrowing, e.evaluationDate), nil

	case *instruments.Bond:
		discount, err := e.resolveCurve(e.matchParameter.BondDiscountCurveName(typed.IssuerInfo(), typed.Currency()))
		if err != nil {
			return nil, err
		}
		return NewBondPricer(discount, e.evaluationDate), nil

	case *instruments.VanillaOption:
		if typed.ExerciseType() != instruments.European {
			return nil, &UnsupportedExerciseError{Code: typed.Code(), Exercise: string(typed.ExerciseType())}
		}
		und := inst.UnderlyingCodes()[0]
		stock, ok := e.stocks[und]
		if !ok {
			return nil, &BindingMissingError{Kind: "stock", Key: und}
		}
		vol, ok := e.volatilities[und]
		if !ok {
			return nil, &MissingVolatilityError{Underlying: und}
		}
		collateral, err := e.resolveCurve(e.matchParameter.CollateralCurveName(und))
		if err != nil {
			return nil, err
		}
		borrowing, err := e.resolveCurve(e.matchParameter.BorrowingCurveName(und))
		if err != nil {
			return nil, err
		}
		return NewVanillaOptionPricer(stock, collateral, borrowing, vol, e.evaluationDate), nil

	case *instruments.Cash:
		return NewCashPricer(), nil

	default:
		return nil, &UnsupportedInstrumentError{Type: inst.TypeName(), Code: inst.Code()}
	}
}

// resolveCurve turns a match-parameter lookup into the derived curve.
func (e *Engine) resolveCurve(name string, lookupErr error) (*parameters.ZeroCurve, error) {
	if lookupErr != nil {
		return nil, lookupErr
	}
	curve, ok := e.zeroCurves[name]
	if !ok {
		return nil, &BindingMissingError{Kind: "curve data", Key: name}
	}
	return curve, nil
}

// CalculationResults returns the result map keyed by instrument code. Before
// a successful InitializePricers it is empty.
func (e *Engine) CalculationResults() map[string]*CalculationResult {
	if e.results == nil {
		return map[string]*CalculationResult{}
	}
	return e.results
}

// Calculate runs the NPV, exposure, cashflow and Greek passes. It fails
// fast on the first pricer error, but scoped restores run on every exit
// path: after Calculate returns, every observable holds exactly its
// pre-call state.
func (e *Engine) Calculate() error {
	if e.pricers == nil {
		return ErrNotInitialized
	}
	runID := uuid.NewString()
	logger := e.logger.With().Str("run_id", runID).Logger()
	started := time.Now()

	e.instrumentsInAction = e.instruments.All()

	if err := e.setNPVsAndValues(); err != nil {
		return err
	}
	if err := e.setFxExposures(); err != nil {
		return err
	}
	if err := e.setCashflowInbetween(); err != nil {
		return err
	}

	type pass struct {
		enabled bool
		name    string
		run     func() error
	}
	passes := []pass{
		{e.config.Delta || e.config.Gamma, "delta/gamma", e.setDeltaGamma},
		{e.config.Rho, "rho", e.setRho},
		{e.config.RhoStructure, "rho_structure", e.setRhoStructure},
		{e.config.Vega, "vega", e.setVega},
		{e.config.VegaStructure, "vega_structure", e.setVegaStructure},
		{e.config.VegaMatrix, "vega_matrix", e.setVegaMatrix},
		{e.config.DivDelta, "div_delta", e.setDivDelta},
		{e.config.DivStructure, "div_structure", e.setDivStructure},
		{e.config.Theta, "theta", e.setTheta},
	}
	for _, p := range passes {
		if !p.enabled {
			continue
		}
		passStart := time.Now()
		if err := p.run(); err != nil {
			return fmt.Errorf("Engine.Calculate: %s: %w", p.name, err)
		}
		logger.Debug().Str("greek", p.name).Dur("elapsed", time.Since(passStart)).Msg("greek pass done")
	}

	logger.Info().
		Int("instruments", e.instruments.Len()).
		Dur("elapsed", time.Since(started)).
		Msg("calculation finished")
	return nil
}

// npvsFor prices the action set, per unit of notional.
func (e *Engine) npvsFor(insts []instruments.Instrument) (map[string]float64, error) {
	out := make(map[string]float64, len(insts))
	for _, inst := range insts {
		code := inst.Code()
		pricer, ok := e.pricers[code]
		if !ok {
			return nil, &CalculationFailedError{Code: code, Cause: fmt.Errorf("no pricer")}
		}
		npv, err := pricer.NPV(inst)
		if err != nil {
			return nil, &CalculationFailedError{Code: code, Cause: err}
		}
		out[code] = npv
	}
	return out, nil
}

func (e *Engine) setNPVsAndValues() error {
	npvs, err := e.npvsFor(e.instrumentsInAction)
	if err != nil {
		return err
	}
	e.baseNPVs = npvs
	for code, npv := range npvs {
		result := e.results[code]
		result.SetNPV(npv)
		if err := result.ComputeValue(); err != nil {
			return &CalculationFailedError{Code: code, Cause: err}
		}
	}
	return nil
}

func (e *Engine) setFxExposures() error {
	for _, inst := range e.instrumentsInAction {
		code := inst.Code()
		exposure, err := e.pricers[code].FxExposure(inst)
		if err != nil {
			return &CalculationFailedError{Code: code, Cause: err}
		}
		e.results[code].SetFxExposure(exposure)
	}
	return nil
}

// setCashflowInbetween enumerates coupons over (eval, eval + theta_day] and
// caches the per-unit totals for the theta pass.
func (e *Engine) setCashflowInbetween() error {
	from := e.evaluationDate.Date()
	to := from.AddDate(0, 0, e.config.ThetaDay)
	e.couponTotals = make(map[string]float64, len(e.instrumentsInAction))

	for _, inst := range e.instrumentsInAction {
		code := inst.Code()
		coupons, err := e.pricers[code].Coupons(inst, from, to)
		if err != nil {
			return &CalculationFailedError{Code: code, Cause: err}
		}
		total := 0.0
		for _, amt := range coupons {
			total += amt
		}
		e.couponTotals[code] = total
		e.results[code].SetCashflowInbetween(coupons)
	}
	return nil
}

// sortedKeys gives deterministic iteration over map-keyed market data.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
