package engine

import (
	"time"

	"github.com/meenmo/derlib/instruments"
)

// Pricer values one instrument kind against shared derived parameters.
//
// NPV is the theoretical value per unit of notional, excluding cashflows
// whose pay date equals the evaluation date. FxExposure is the monetary
// amount in the instrument's settlement currency, before conversion.
// Coupons enumerates pay dates strictly inside (from, to].
type Pricer interface {
	NPV(inst instruments.Instrument) (float64, error)
	FxExposure(inst instruments.Instrument) (float64, error)
	Coupons(inst instruments.Instrument, from, to time.Time) (map[time.Time]float64, error)
}
