package instruments

import (
	"time"

	"github.com/meenmo/derlib/currency"
)

// Cash is a unit cash balance in one currency. It prices to 1 and never
// matures; its code and name are the currency itself.
type Cash struct {
	ccy currency.Currency
}

func NewCash(ccy currency.Currency) *Cash {
	return &Cash{ccy: ccy}
}

func (c *Cash) Name() string                          { return c.ccy.String() }
func (c *Cash) Code() string                          { return c.ccy.String() }
func (c *Cash) Currency() currency.Currency           { return c.ccy }
func (c *Cash) SettlementCurrency() currency.Currency { return c.ccy }
func (c *Cash) UnitNotional() float64                 { return 1.0 }
func (c *Cash) TypeName() string                      { return TypeCash }
func (c *Cash) Maturity() time.Time                   { return time.Time{} }
func (c *Cash) UnderlyingCodes() []string             { return nil }
func (c *Cash) IssuerInfo() *IssuerInfo               { return nil }
