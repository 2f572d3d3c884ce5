package instruments

import (
	"time"

	"github.com/meenmo/derlib/currency"
)

// VanillaOption is a plain equity option on a single underlying.
type VanillaOption struct {
	strike          float64
	unitNotional    float64
	issueDate       time.Time
	maturity        time.Time
	settlementDate  time.Time
	underlyingCodes []string
	ccy             currency.Currency
	settlementCcy   currency.Currency
	optionType      OptionType
	exerciseType    OptionExerciseType
	dailySettlement OptionDailySettlementType
	name            string
	code            string
}

func NewVanillaOption(
	strike, unitNotional float64,
	issueDate, maturity, settlementDate time.Time,
	underlyingCodes []string,
	ccy, settlementCcy currency.Currency,
	optionType OptionType,
	exerciseType OptionExerciseType,
	dailySettlement OptionDailySettlementType,
	name, code string,
) *VanillaOption {
	return &VanillaOption{
		strike:          strike,
		unitNotional:    unitNotional,
		issueDate:       issueDate,
		maturity:        maturity,
		settlementDate:  settlementDate,
		underlyingCodes: append([]string(nil), underlyingCodes...),
		ccy:             ccy,
		settlementCcy:   settlementCcy,
		optionType:      optionType,
		exerciseType:    exerciseType,
		dailySettlement: dailySettlement,
		name:            name,
		code:            code,
	}
}

func (o *VanillaOption) Name() string                          { return o.name }
func (o *VanillaOption) Code() string                          { return o.code }
func (o *VanillaOption) Currency() currency.Currency           { return o.ccy }
func (o *VanillaOption) SettlementCurrency() currency.Currency { return o.settlementCcy }
func (o *VanillaOption) UnitNotional() float64                 { return o.unitNotional }
func (o *VanillaOption) TypeName() string                      { return TypeVanillaOption }
func (o *VanillaOption) Maturity() time.Time                   { return o.maturity }
func (o *VanillaOption) IssuerInfo() *IssuerInfo               { return nil }

func (o *VanillaOption) UnderlyingCodes() []string {
	return append([]string(nil), o.underlyingCodes...)
}

func (o *VanillaOption) Strike() float64                            { return o.strike }
func (o *VanillaOption) IssueDate() time.Time                       { return o.issueDate }
func (o *VanillaOption) SettlementDate() time.Time                  { return o.settlementDate }
func (o *VanillaOption) OptionType() OptionType                     { return o.optionType }
func (o *VanillaOption) ExerciseType() OptionExerciseType           { return o.exerciseType }
func (o *VanillaOption) DailySettlement() OptionDailySettlementType { return o.dailySettlement }
