package instruments

import (
	"time"

	"github.com/meenmo/derlib/currency"
)

// Type names of the closed instrument set.
const (
	TypeFutures       = "Futures"
	TypeBond          = "Bond"
	TypeVanillaOption = "VanillaOption"
	TypeCash          = "Cash"
)

// IssuerInfo identifies a bond issuer for discount-curve matching.
type IssuerInfo struct {
	Issuer       string       `json:"issuer"`
	IssuerType   IssuerType   `json:"issuer_type"`
	CreditRating CreditRating `json:"credit_rating"`
	Rank         RankType     `json:"rank"`
}

// Instrument is the capability set every variant exposes. The set of
// implementations is closed: Futures, Bond, VanillaOption and Cash. Pricer
// dispatch is a type switch over these variants in the engine rather than a
// method on this interface.
//
// Instruments are value objects, immutable after construction.
type Instrument interface {
	Name() string
	Code() string
	Currency() currency.Currency
	SettlementCurrency() currency.Currency
	UnitNotional() float64
	TypeName() string
	Maturity() time.Time
	UnderlyingCodes() []string
	// IssuerInfo returns nil for instruments without an issuer.
	IssuerInfo() *IssuerInfo
}
