package instruments

import (
	"time"

	"github.com/meenmo/derlib/currency"
)

// Info is the identifying header of an instrument, carried on calculation
// results so a result row is self-describing.
type Info struct {
	Name         string            `json:"name"`
	Code         string            `json:"code"`
	TypeName     string            `json:"type_name"`
	Currency     currency.Currency `json:"currency"`
	UnitNotional float64           `json:"unit_notional"`
	Maturity     *time.Time        `json:"maturity,omitempty"`
}

// NewInfo snapshots the header fields of an instrument.
func NewInfo(inst Instrument) Info {
	info := Info{
		Name:         inst.Name(),
		Code:         inst.Code(),
		TypeName:     inst.TypeName(),
		Currency:     inst.Currency(),
		UnitNotional: inst.UnitNotional(),
	}
	if m := inst.Maturity(); !m.IsZero() {
		info.Maturity = &m
	}
	return info
}
