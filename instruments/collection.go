package instruments

import (
	"fmt"
	"sort"

	"github.com/meenmo/derlib/currency"
)

// CurveResolver reports the curve names an instrument consumes. The engine's
// match parameter implements it; the indirection keeps this package free of
// engine imports.
type CurveResolver interface {
	CurveNamesFor(inst Instrument) []string
}

// Instruments is an ordered portfolio with dependency-scoping queries.
type Instruments struct {
	list []Instrument
}

func NewInstruments(list []Instrument) (*Instruments, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("NewInstruments: empty portfolio")
	}
	seen := make(map[string]struct{}, len(list))
	for _, inst := range list {
		code := inst.Code()
		if _, dup := seen[code]; dup {
			return nil, fmt.Errorf("NewInstruments: duplicate instrument code %q", code)
		}
		seen[code] = struct{}{}
	}
	return &Instruments{list: append([]Instrument(nil), list...)}, nil
}

// All returns the portfolio in insertion order.
func (s *Instruments) All() []Instrument {
	return append([]Instrument(nil), s.list...)
}

func (s *Instruments) Len() int {
	return len(s.list)
}

// Get returns the instrument with the given code, or nil.
func (s *Instruments) Get(code string) Instrument {
	for _, inst := range s.list {
		if inst.Code() == code {
			return inst
		}
	}
	return nil
}

// UnderlyingCodes returns the sorted union of underlying codes.
func (s *Instruments) UnderlyingCodes() []string {
	set := map[string]struct{}{}
	for _, inst := range s.list {
		for _, code := range inst.UnderlyingCodes() {
			set[code] = struct{}{}
		}
	}
	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Currencies returns the sorted union of instrument currencies.
func (s *Instruments) Currencies() []currency.Currency {
	set := map[currency.Currency]struct{}{}
	for _, inst := range s.list {
		set[inst.Currency()] = struct{}{}
	}
	ccys := make([]currency.Currency, 0, len(set))
	for c := range set {
		ccys = append(ccys, c)
	}
	sort.Slice(ccys, func(i, j int) bool { return ccys[i] < ccys[j] })
	return ccys
}

// WithUnderlying returns the minimal action set for a spot bump: every
// instrument referencing the underlying code.
func (s *Instruments) WithUnderlying(code string) []Instrument {
	var out []Instrument
	for _, inst := range s.list {
		for _, und := range inst.UnderlyingCodes() {
			if und == code {
				out = append(out, inst)
				break
			}
		}
	}
	return out
}

// UsingCurve returns the minimal action set for a curve bump: every
// instrument for which the resolver reports the curve name.
func (s *Instruments) UsingCurve(name string, r CurveResolver) []Instrument {
	var out []Instrument
	for _, inst := range s.list {
		for _, cn := range r.CurveNamesFor(inst) {
			if cn == name {
				out = append(out, inst)
				break
			}
		}
	}
	return out
}
