package instruments

import (
	"fmt"
	"time"

	"github.com/meenmo/derlib/calendar"
	"github.com/meenmo/derlib/currency"
	"github.com/meenmo/derlib/utils"
)

// Coupon is one accrual period of a fixed-rate bond, per unit face.
type Coupon struct {
	AccrualStart time.Time `json:"accrual_start"`
	AccrualEnd   time.Time `json:"accrual_end"`
	PayDate      time.Time `json:"pay_date"`
	Amount       float64   `json:"amount"`
}

// Bond is a fixed-rate bullet bond with a pre-built coupon schedule.
//
// The schedule is generated at construction by rolling backward from
// maturity (avoids date drift from repeated business-day adjustments) and is
// immutable afterwards. Coupon amounts are per unit face; principal 1.0 pays
// at maturity.
type Bond struct {
	issuerInfo     IssuerInfo
	ccy            currency.Currency
	unitNotional   float64
	isClean        bool
	issueDate      time.Time
	maturity       time.Time
	couponRate     float64
	dayCount       string
	freq           PaymentFrequency
	cal            calendar.CalendarID
	coupons        []Coupon
	name           string
	code           string
}

// BondParams collects the construction inputs of a Bond.
type BondParams struct {
	IssuerType   IssuerType
	CreditRating CreditRating
	Issuer       string
	Rank         RankType
	Currency     currency.Currency
	UnitNotional float64
	IsClean      bool
	IssueDate    time.Time
	Maturity     time.Time
	CouponRate   float64
	DayCount     string
	Frequency    PaymentFrequency
	Calendar     calendar.CalendarID
	Name         string
	Code         string
}

// NewBond validates the parameters and generates the coupon schedule.
func NewBond(p BondParams) (*Bond, error) {
	if p.Code == "" {
		return nil, fmt.Errorf("NewBond: code is required")
	}
	if !p.Maturity.After(p.IssueDate) {
		return nil, fmt.Errorf("NewBond(%s): maturity %s is not after issue date %s",
			p.Code, p.Maturity.Format("2006-01-02"), p.IssueDate.Format("2006-01-02"))
	}
	if p.Frequency <= 0 {
		return nil, fmt.Errorf("NewBond(%s): non-positive payment frequency", p.Code)
	}
	if p.DayCount == "" {
		p.DayCount = utils.Act365F
	}

	b := &Bond{
		issuerInfo: IssuerInfo{
			Issuer:       p.Issuer,
			IssuerType:   p.IssuerType,
			CreditRating: p.CreditRating,
			Rank:         p.Rank,
		},
		ccy:          p.Currency,
		unitNotional: p.UnitNotional,
		isClean:      p.IsClean,
		issueDate:    p.IssueDate,
		maturity:     p.Maturity,
		couponRate:   p.CouponRate,
		dayCount:     p.DayCount,
		freq:         p.Frequency,
		cal:          p.Calendar,
		name:         p.Name,
		code:         p.Code,
	}
	b.coupons = b.buildSchedule()
	return b, nil
}

// buildSchedule rolls unadjusted dates backward from maturity, then applies
// Modified Following to the pay dates; accrual starts and ends stay
// unadjusted.
func (b *Bond) buildSchedule() []Coupon {
	months := int(b.freq)

	unadjusted := []time.Time{}
	current := b.maturity
	for current.After(b.issueDate) {
		unadjusted = append([]time.Time{current}, unadjusted...)
		current = utils.AddMonth(current, -months)
	}
	unadjusted = append([]time.Time{current}, unadjusted...)

	coupons := make([]Coupon, 0, len(unadjusted)-1)
	for i := 0; i < len(unadjusted)-1; i++ {
		start := unadjusted[i]
		if start.Before(b.issueDate) {
			start = b.issueDate
		}
		end := unadjusted[i+1]
		payDate := calendar.Adjust(b.cal, end)
		amount := b.couponRate * utils.YearFraction(start, end, b.dayCount)
		coupons = append(coupons, Coupon{
			AccrualStart: start,
			AccrualEnd:   end,
			PayDate:      payDate,
			Amount:       amount,
		})
	}
	return coupons
}

func (b *Bond) Name() string                          { return b.name }
func (b *Bond) Code() string                          { return b.code }
func (b *Bond) Currency() currency.Currency           { return b.ccy }
func (b *Bond) SettlementCurrency() currency.Currency { return b.ccy }
func (b *Bond) UnitNotional() float64                 { return b.unitNotional }
func (b *Bond) TypeName() string                      { return TypeBond }
func (b *Bond) Maturity() time.Time                   { return b.maturity }
func (b *Bond) UnderlyingCodes() []string             { return nil }

func (b *Bond) IssuerInfo() *IssuerInfo {
	info := b.issuerInfo
	return &info
}

func (b *Bond) IssueDate() time.Time        { return b.issueDate }
func (b *Bond) CouponRate() float64         { return b.couponRate }
func (b *Bond) DayCount() string            { return b.dayCount }
func (b *Bond) Frequency() PaymentFrequency { return b.freq }
func (b *Bond) Calendar() calendar.CalendarID { return b.cal }
func (b *Bond) IsClean() bool               { return b.isClean }

// Coupons returns the full schedule, per unit face.
func (b *Bond) Coupons() []Coupon {
	return append([]Coupon(nil), b.coupons...)
}

// AccruedAmount returns the accrued coupon per unit face at date t.
func (b *Bond) AccruedAmount(t time.Time) float64 {
	for _, c := range b.coupons {
		if !t.Before(c.AccrualStart) && t.Before(c.AccrualEnd) {
			period := utils.YearFraction(c.AccrualStart, c.AccrualEnd, b.dayCount)
			if period == 0 {
				return 0
			}
			elapsed := utils.YearFraction(c.AccrualStart, t, b.dayCount)
			return c.Amount * elapsed / period
		}
	}
	return 0
}
