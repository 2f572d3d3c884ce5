package utils_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/derlib/utils"
)

func TestYearFraction(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 365)

	if got := utils.YearFraction(start, end, utils.Act365F); got != 1.0 {
		t.Fatalf("ACT/365F: got %g", got)
	}
	if got := utils.YearFraction(start, end, utils.Act360); math.Abs(got-365.0/360.0) > 1e-15 {
		t.Fatalf("ACT/360: got %g", got)
	}

	// 30/360: 2024-01-31 -> 2024-07-31 is exactly half a year
	s := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	e := time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC)
	if got := utils.YearFraction(s, e, utils.Thirty360); got != 0.5 {
		t.Fatalf("30/360: got %g", got)
	}

	// unknown conventions fall back to ACT/365F
	if got := utils.YearFraction(start, end, "BOGUS"); got != 1.0 {
		t.Fatalf("fallback: got %g", got)
	}
}

func TestBracketIndex(t *testing.T) {
	t.Parallel()

	xs := []float64{0.5, 1.0, 2.0, 5.0}
	cases := map[float64]int{
		0.1: 0,
		0.5: 0,
		1.5: 1,
		2.0: 1,
		3.0: 2,
		9.0: 2,
	}
	for x, want := range cases {
		if got := utils.BracketIndex(x, xs); got != want {
			t.Fatalf("BracketIndex(%g): got %d want %d", x, got, want)
		}
	}
}

func TestAddMonthEndOfMonth(t *testing.T) {
	t.Parallel()

	// EDATE semantics: Jan 31 + 1M = Feb 29 (2024 is a leap year)
	got := utils.AddMonth(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 1)
	want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("AddMonth: got %s want %s", got, want)
	}

	got = utils.AddMonth(time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC), -6)
	want = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("AddMonth backward: got %s want %s", got, want)
	}
}
