package instruments_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/derlib/calendar"
	"github.com/meenmo/derlib/currency"
	"github.com/meenmo/derlib/instruments"
	"github.com/meenmo/derlib/utils"
)

func ktb(t *testing.T) *instruments.Bond {
	t.Helper()
	bond, err := instruments.NewBond(instruments.BondParams{
		IssuerType:   instruments.Government,
		CreditRating: instruments.RatingNone,
		Issuer:       "Korea Gov",
		Rank:         instruments.Senior,
		Currency:     currency.KRW,
		UnitNotional: 10_000,
		IssueDate:    time.Date(2022, 12, 10, 0, 0, 0, 0, time.UTC),
		Maturity:     time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC),
		CouponRate:   0.0425,
		DayCount:     utils.Act365F,
		Frequency:    instruments.SemiAnnually,
		Calendar:     calendar.KR,
		Name:         "KTB 04250-2512(22-13)",
		Code:         "KR103501GCC0",
	})
	if err != nil {
		t.Fatalf("NewBond error: %v", err)
	}
	return bond
}

func TestBondScheduleBackwardRoll(t *testing.T) {
	t.Parallel()

	bond := ktb(t)
	coupons := bond.Coupons()
	if len(coupons) != 6 {
		t.Fatalf("expected 6 semiannual coupons, got %d", len(coupons))
	}

	first := coupons[0]
	if !first.AccrualStart.Equal(time.Date(2022, 12, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first accrual start: %s", first.AccrualStart)
	}
	if !first.AccrualEnd.Equal(time.Date(2023, 6, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first accrual end: %s", first.AccrualEnd)
	}
	last := coupons[len(coupons)-1]
	if !last.AccrualEnd.Equal(bond.Maturity()) {
		t.Fatalf("last accrual end %s is not maturity", last.AccrualEnd)
	}
	for i, c := range coupons {
		if c.PayDate.Before(c.AccrualEnd) {
			t.Fatalf("coupon %d pays before accrual end", i)
		}
		// roughly half a year of coupon per period
		want := 0.0425 / 2
		if math.Abs(c.Amount-want) > 0.0425*0.02 {
			t.Fatalf("coupon %d amount %g far from %g", i, c.Amount, want)
		}
	}
}

func TestBondAccruedAmount(t *testing.T) {
	t.Parallel()

	bond := ktb(t)
	// 91 days into the 183-day period starting 2023-12-10
	mid := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	accrued := bond.AccruedAmount(mid)
	if accrued <= 0 {
		t.Fatalf("expected positive accrued, got %g", accrued)
	}
	coupons := bond.Coupons()
	var period instruments.Coupon
	for _, c := range coupons {
		if !mid.Before(c.AccrualStart) && mid.Before(c.AccrualEnd) {
			period = c
		}
	}
	if accrued >= period.Amount {
		t.Fatalf("accrued %g exceeds the period coupon %g", accrued, period.Amount)
	}

	if got := bond.AccruedAmount(bond.Maturity().AddDate(1, 0, 0)); got != 0 {
		t.Fatalf("accrued after maturity: got %g", got)
	}
}

func TestNewBondValidation(t *testing.T) {
	t.Parallel()

	_, err := instruments.NewBond(instruments.BondParams{
		Currency:  currency.KRW,
		IssueDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Maturity:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Frequency: instruments.SemiAnnually,
		Code:      "X",
	})
	if err == nil {
		t.Fatalf("expected error for inverted dates")
	}
	_, err = instruments.NewBond(instruments.BondParams{Code: ""})
	if err == nil {
		t.Fatalf("expected error for missing code")
	}
}
