package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/derlib/instruments"
)

// CalculationResult collects everything the engine computed for one
// instrument. Optional fields stay nil until their pass runs, and are
// omitted from JSON.
//
// NPV excludes cashflows dated exactly at evaluation and ignores the unit
// notional; Value is NPV x unit notional. Greeks are reported in PnL form
// (1% spot move, 1bp rate move, one vol point) and include the unit
// notional. Structure Greeks are keyed underlying-or-curve code -> tenor
// label.
type CalculationResult struct {
	InstrumentInfo *instruments.Info `json:"instrument_info,omitempty"`
	EvaluationDate *time.Time        `json:"evaluation_date,omitempty"`

	NPV        *float64 `json:"npv,omitempty"`
	Value      *float64 `json:"value,omitempty"`
	FxExposure *float64 `json:"fx_exposure,omitempty"`

	Delta         map[string]float64                       `json:"delta,omitempty"`
	Gamma         map[string]float64                       `json:"gamma,omitempty"`
	Vega          map[string]float64                       `json:"vega,omitempty"`
	VegaStructure map[string]map[string]float64            `json:"vega_structure,omitempty"`
	VegaMatrix    map[string]map[string]map[string]float64 `json:"vega_matrix,omitempty"`
	Rho           map[string]float64                       `json:"rho,omitempty"`
	RhoStructure  map[string]map[string]float64            `json:"rho_structure,omitempty"`
	DivDelta      map[string]float64                       `json:"div_delta,omitempty"`
	DivStructure  map[string]map[string]float64            `json:"div_structure,omitempty"`
	Theta         *float64                                 `json:"theta,omitempty"`

	ThetaDay          *int               `json:"theta_day,omitempty"`
	CashflowInbetween map[string]float64 `json:"cashflow_inbetween,omitempty"`
}

// NewCalculationResult seeds a result with the instrument header and the
// evaluation instant.
func NewCalculationResult(info instruments.Info, evaluationDate time.Time) *CalculationResult {
	return &CalculationResult{
		InstrumentInfo: &info,
		EvaluationDate: &evaluationDate,
	}
}

func (r *CalculationResult) SetNPV(npv float64) {
	r.NPV = &npv
}

// ComputeValue fills Value = NPV x unit notional. Calling it before the NPV
// pass is an error.
func (r *CalculationResult) ComputeValue() error {
	if r.NPV == nil {
		return fmt.Errorf("CalculationResult.ComputeValue: %w", ErrNPVNotSet)
	}
	if r.InstrumentInfo == nil {
		return fmt.Errorf("CalculationResult.ComputeValue: instrument info is not set")
	}
	v := *r.NPV * r.InstrumentInfo.UnitNotional
	r.Value = &v
	return nil
}

func (r *CalculationResult) SetFxExposure(v float64) {
	r.FxExposure = &v
}

func (r *CalculationResult) SetSingleDelta(underlyingCode string, v float64) {
	if r.Delta == nil {
		r.Delta = map[string]float64{}
	}
	r.Delta[underlyingCode] = v
}

func (r *CalculationResult) SetSingleGamma(underlyingCode string, v float64) {
	if r.Gamma == nil {
		r.Gamma = map[string]float64{}
	}
	r.Gamma[underlyingCode] = v
}

func (r *CalculationResult) SetSingleVega(underlyingCode string, v float64) {
	if r.Vega == nil {
		r.Vega = map[string]float64{}
	}
	r.Vega[underlyingCode] = v
}

func (r *CalculationResult) SetSingleVegaStructure(underlyingCode string, structure map[string]float64) {
	if r.VegaStructure == nil {
		r.VegaStructure = map[string]map[string]float64{}
	}
	r.VegaStructure[underlyingCode] = structure
}

func (r *CalculationResult) SetSingleVegaMatrix(underlyingCode string, matrix map[string]map[string]float64) {
	if r.VegaMatrix == nil {
		r.VegaMatrix = map[string]map[string]map[string]float64{}
	}
	r.VegaMatrix[underlyingCode] = matrix
}

func (r *CalculationResult) SetSingleRho(curveCode string, v float64) {
	if r.Rho == nil {
		r.Rho = map[string]float64{}
	}
	r.Rho[curveCode] = v
}

func (r *CalculationResult) SetSingleRhoStructure(curveCode string, structure map[string]float64) {
	if r.RhoStructure == nil {
		r.RhoStructure = map[string]map[string]float64{}
	}
	r.RhoStructure[curveCode] = structure
}

// Dividend sensitivities get their own maps, keyed by underlying code.
func (r *CalculationResult) SetSingleDivDelta(underlyingCode string, v float64) {
	if r.DivDelta == nil {
		r.DivDelta = map[string]float64{}
	}
	r.DivDelta[underlyingCode] = v
}

func (r *CalculationResult) SetSingleDivStructure(underlyingCode string, structure map[string]float64) {
	if r.DivStructure == nil {
		r.DivStructure = map[string]map[string]float64{}
	}
	r.DivStructure[underlyingCode] = structure
}

func (r *CalculationResult) SetTheta(v float64) {
	r.Theta = &v
}

func (r *CalculationResult) SetThetaDay(days int) {
	r.ThetaDay = &days
}

// SetCashflowInbetween stores the coupon window keyed by RFC 3339 pay date.
func (r *CalculationResult) SetCashflowInbetween(coupons map[time.Time]float64) {
	out := make(map[string]float64, len(coupons))
	for d, amt := range coupons {
		out[d.Format(time.RFC3339)] = amt
	}
	r.CashflowInbetween = out
}

// TenorLabel renders a year fraction as the canonical term-structure bucket
// tag: "1M", "3M", "1Y", "18M", ...
func TenorLabel(t float64) string {
	months := int(math.Round(t * 12.0))
	if months < 1 {
		months = 1
	}
	if months%12 == 0 {
		return fmt.Sprintf("%dY", months/12)
	}
	return fmt.Sprintf("%dM", months)
}
