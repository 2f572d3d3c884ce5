package instruments

import (
	"time"

	"github.com/meenmo/derlib/currency"
)

// Futures is an equity or index futures position quoted against one
// underlying. Strike is the traded futures price per unit.
type Futures struct {
	strike         float64
	issueDate      time.Time
	lastTradeDate  time.Time
	maturity       time.Time
	settlementDate time.Time
	unitNotional   float64
	ccy            currency.Currency
	settlementCcy  currency.Currency
	underlyingCode string
	name           string
	code           string
}

func NewFutures(
	strike float64,
	issueDate, lastTradeDate, maturity, settlementDate time.Time,
	unitNotional float64,
	ccy, settlementCcy currency.Currency,
	underlyingCode, name, code string,
) *Futures {
	return &Futures{
		strike:         strike,
		issueDate:      issueDate,
		lastTradeDate:  lastTradeDate,
		maturity:       maturity,
		settlementDate: settlementDate,
		unitNotional:   unitNotional,
		ccy:            ccy,
		settlementCcy:  settlementCcy,
		underlyingCode: underlyingCode,
		name:           name,
		code:           code,
	}
}

func (f *Futures) Name() string                          { return f.name }
func (f *Futures) Code() string                          { return f.code }
func (f *Futures) Currency() currency.Currency           { return f.ccy }
func (f *Futures) SettlementCurrency() currency.Currency { return f.settlementCcy }
func (f *Futures) UnitNotional() float64                 { return f.unitNotional }
func (f *Futures) TypeName() string                      { return TypeFutures }
func (f *Futures) Maturity() time.Time                   { return f.maturity }
func (f *Futures) UnderlyingCodes() []string             { return []string{f.underlyingCode} }
func (f *Futures) IssuerInfo() *IssuerInfo               { return nil }

func (f *Futures) Strike() float64            { return f.strike }
func (f *Futures) IssueDate() time.Time       { return f.issueDate }
func (f *Futures) LastTradeDate() time.Time   { return f.lastTradeDate }
func (f *Futures) SettlementDate() time.Time  { return f.settlementDate }
