package parameters

import (
	"time"

	"github.com/meenmo/derlib/currency"
	"github.com/meenmo/derlib/marketdata"
)

// Stock is a priced underlying: spot, optional discrete dividend, currency.
//
// It observes its spot ValueData, so delta and gamma bumps on the raw data
// flow through before the mutating call returns.
type Stock struct {
	data     *marketdata.ValueData
	spot     float64
	asOf     time.Time
	dividend *DiscreteRatioDividend
	ccy      currency.Currency
	name     string
	code     string
}

func NewStock(data *marketdata.ValueData, dividend *DiscreteRatioDividend, code string) *Stock {
	return &Stock{
		data:     data,
		spot:     data.Value(),
		asOf:     data.MarketDatetime(),
		dividend: dividend,
		ccy:      data.Currency(),
		name:     data.Name(),
		code:     code,
	}
}

// Update implements marketdata.Observer.
func (s *Stock) Update() error {
	s.spot = s.data.Value()
	return nil
}

func (s *Stock) Name() string                { return s.name }
func (s *Stock) Code() string                { return s.code }
func (s *Stock) Spot() float64               { return s.spot }
func (s *Stock) AsOf() time.Time             { return s.asOf }
func (s *Stock) Currency() currency.Currency { return s.ccy }

// Dividend returns the attached dividend model, or nil.
func (s *Stock) Dividend() *DiscreteRatioDividend { return s.dividend }

// ForwardDividendFactor returns prod(1 - q_i) over (t1, t2], or 1 when the
// stock pays no discrete dividend.
func (s *Stock) ForwardDividendFactor(t1, t2 float64) float64 {
	if s.dividend == nil {
		return 1.0
	}
	return s.dividend.ForwardDividendFactor(t1, t2)
}
