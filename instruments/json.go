package instruments

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/meenmo/derlib/calendar"
	"github.com/meenmo/derlib/currency"
)

// Instruments serialize as tagged unions: the type_name field selects the
// variant, the remaining keys are the variant's fields in snake_case.

type futuresJSON struct {
	TypeName       string            `json:"type_name"`
	Strike         float64           `json:"strike"`
	IssueDate      time.Time         `json:"issue_date"`
	LastTradeDate  time.Time         `json:"last_trade_date"`
	Maturity       time.Time         `json:"maturity"`
	SettlementDate time.Time         `json:"settlement_date"`
	UnitNotional   float64           `json:"unit_notional"`
	Currency       currency.Currency `json:"currency"`
	SettlementCcy  currency.Currency `json:"settlement_currency"`
	UnderlyingCode string            `json:"underlying_code"`
	Name           string            `json:"name"`
	Code           string            `json:"code"`
}

func (f *Futures) MarshalJSON() ([]byte, error) {
	return json.Marshal(futuresJSON{
		TypeName:       TypeFutures,
		Strike:         f.strike,
		IssueDate:      f.issueDate,
		LastTradeDate:  f.lastTradeDate,
		Maturity:       f.maturity,
		SettlementDate: f.settlementDate,
		UnitNotional:   f.unitNotional,
		Currency:       f.ccy,
		SettlementCcy:  f.settlementCcy,
		UnderlyingCode: f.underlyingCode,
		Name:           f.name,
		Code:           f.code,
	})
}

func (f *Futures) UnmarshalJSON(data []byte) error {
	var raw futuresJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = *NewFutures(
		raw.Strike,
		raw.IssueDate, raw.LastTradeDate, raw.Maturity, raw.SettlementDate,
		raw.UnitNotional,
		raw.Currency, raw.SettlementCcy,
		raw.UnderlyingCode, raw.Name, raw.Code,
	)
	return nil
}

type bondJSON struct {
	TypeName     string              `json:"type_name"`
	IssuerType   IssuerType          `json:"issuer_type"`
	CreditRating CreditRating        `json:"credit_rating"`
	Issuer       string              `json:"issuer"`
	Rank         RankType            `json:"rank"`
	Currency     currency.Currency   `json:"currency"`
	UnitNotional float64             `json:"unit_notional"`
	IsClean      bool                `json:"is_clean"`
	IssueDate    time.Time           `json:"issue_date"`
	Maturity     time.Time           `json:"maturity"`
	CouponRate   float64             `json:"coupon_rate"`
	DayCount     string              `json:"day_count"`
	Frequency    PaymentFrequency    `json:"frequency"`
	Calendar     calendar.CalendarID `json:"calendar"`
	Name         string              `json:"name"`
	Code         string              `json:"code"`
}

func (b *Bond) MarshalJSON() ([]byte, error) {
	return json.Marshal(bondJSON{
		TypeName:     TypeBond,
		IssuerType:   b.issuerInfo.IssuerType,
		CreditRating: b.issuerInfo.CreditRating,
		Issuer:       b.issuerInfo.Issuer,
		Rank:         b.issuerInfo.Rank,
		Currency:     b.ccy,
		UnitNotional: b.unitNotional,
		IsClean:      b.isClean,
		IssueDate:    b.issueDate,
		Maturity:     b.maturity,
		CouponRate:   b.couponRate,
		DayCount:     b.dayCount,
		Frequency:    b.freq,
		Calendar:     b.cal,
		Name:         b.name,
		Code:         b.code,
	})
}

func (b *Bond) UnmarshalJSON(data []byte) error {
	var raw bondJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	built, err := NewBond(BondParams{
		IssuerType:   raw.IssuerType,
		CreditRating: raw.CreditRating,
		Issuer:       raw.Issuer,
		Rank:         raw.Rank,
		Currency:     raw.Currency,
		UnitNotional: raw.UnitNotional,
		IsClean:      raw.IsClean,
		IssueDate:    raw.IssueDate,
		Maturity:     raw.Maturity,
		CouponRate:   raw.CouponRate,
		DayCount:     raw.DayCount,
		Frequency:    raw.Frequency,
		Calendar:     raw.Calendar,
		Name:         raw.Name,
		Code:         raw.Code,
	})
	if err != nil {
		return err
	}
	*b = *built
	return nil
}

type vanillaOptionJSON struct {
	TypeName        string                    `json:"type_name"`
	Strike          float64                   `json:"strike"`
	UnitNotional    float64                   `json:"unit_notional"`
	IssueDate       time.Time                 `json:"issue_date"`
	Maturity        time.Time                 `json:"maturity"`
	SettlementDate  time.Time                 `json:"settlement_date"`
	UnderlyingCodes []string                  `json:"underlying_codes"`
	Currency        currency.Currency         `json:"currency"`
	SettlementCcy   currency.Currency         `json:"settlement_currency"`
	OptionType      OptionType                `json:"option_type"`
	ExerciseType    OptionExerciseType        `json:"exercise_type"`
	DailySettlement OptionDailySettlementType `json:"daily_settlement"`
	Name            string                    `json:"name"`
	Code            string                    `json:"code"`
}

func (o *VanillaOption) MarshalJSON() ([]byte, error) {
	return json.Marshal(vanillaOptionJSON{
		TypeName:        TypeVanillaOption,
		Strike:          o.strike,
		UnitNotional:    o.unitNotional,
		IssueDate:       o.issueDate,
		Maturity:        o.maturity,
		SettlementDate:  o.settlementDate,
		UnderlyingCodes: o.underlyingCodes,
		Currency:        o.ccy,
		SettlementCcy:   o.settlementCcy,
		OptionType:      o.optionType,
		ExerciseType:    o.exerciseType,
		DailySettlement: o.dailySettlement,
		Name:            o.name,
		Code:            o.code,
	})
}

func (o *VanillaOption) UnmarshalJSON(data []byte) error {
	var raw vanillaOptionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*o = *NewVanillaOption(
		raw.Strike, raw.UnitNotional,
		raw.IssueDate, raw.Maturity, raw.SettlementDate,
		raw.UnderlyingCodes,
		raw.Currency, raw.SettlementCcy,
		raw.OptionType, raw.ExerciseType, raw.DailySettlement,
		raw.Name, raw.Code,
	)
	return nil
}

type cashJSON struct {
	TypeName string            `json:"type_name"`
	Currency currency.Currency `json:"currency"`
}

func (c *Cash) MarshalJSON() ([]byte, error) {
	return json.Marshal(cashJSON{TypeName: TypeCash, Currency: c.ccy})
}

func (c *Cash) UnmarshalJSON(data []byte) error {
	var raw cashJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = *NewCash(raw.Currency)
	return nil
}

// UnmarshalInstrument decodes one tagged-union instrument.
func UnmarshalInstrument(data []byte) (Instrument, error) {
	var tag struct {
		TypeName string `json:"type_name"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("UnmarshalInstrument: %w", err)
	}
	switch tag.TypeName {
	case TypeFutures:
		var f Futures
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("UnmarshalInstrument(Futures): %w", err)
		}
		return &f, nil
	case TypeBond:
		var b Bond
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("UnmarshalInstrument(Bond): %w", err)
		}
		return &b, nil
	case TypeVanillaOption:
		var o VanillaOption
		if err := json.Unmarshal(data, &o); err != nil {
			return nil, fmt.Errorf("UnmarshalInstrument(VanillaOption): %w", err)
		}
		return &o, nil
	case TypeCash:
		var c Cash
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("UnmarshalInstrument(Cash): %w", err)
		}
		return &c, nil
	default:
		return nil, fmt.Errorf("UnmarshalInstrument: unknown type_name %q", tag.TypeName)
	}
}

// MarshalPortfolio encodes a portfolio as a JSON array of tagged unions.
func MarshalPortfolio(list []Instrument) ([]byte, error) {
	return json.Marshal(list)
}

// UnmarshalPortfolio decodes a JSON array of tagged-union instruments.
func UnmarshalPortfolio(data []byte) ([]Instrument, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("UnmarshalPortfolio: %w", err)
	}
	out := make([]Instrument, 0, len(raws))
	for i, raw := range raws {
		inst, err := UnmarshalInstrument(raw)
		if err != nil {
			return nil, fmt.Errorf("UnmarshalPortfolio: element %d: %w", i, err)
		}
		out = append(out, inst)
	}
	return out, nil
}
