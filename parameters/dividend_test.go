package parameters_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/derlib/currency"
	"github.com/meenmo/derlib/marketdata"
	"github.com/meenmo/derlib/parameters"
)

func buildDividend(t *testing.T, anchor time.Time, spot float64, amounts []float64, exDates []time.Time) (*parameters.DiscreteRatioDividend, *marketdata.VectorData, *marketdata.ValueData, *marketdata.EvaluationDate) {
	t.Helper()
	evalDate := marketdata.NewEvaluationDate(anchor)
	spotData, err := marketdata.NewValueData(spot, anchor, currency.KRW, "KOSPI2", "KOSPI2")
	if err != nil {
		t.Fatalf("NewValueData error: %v", err)
	}
	divData, err := marketdata.NewVectorData(amounts, exDates, nil, anchor, currency.KRW, "KOSPI2", "KOSPI2")
	if err != nil {
		t.Fatalf("NewVectorData error: %v", err)
	}
	div, err := parameters.NewDiscreteRatioDividend(evalDate, divData, spotData, "KOSPI2")
	if err != nil {
		t.Fatalf("NewDiscreteRatioDividend error: %v", err)
	}
	divData.AddObserver(div)
	evalDate.AddObserver(div)
	return div, divData, spotData, evalDate
}

func TestForwardDividendFactor(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, 3, 13, 16, 30, 0, 0, time.UTC)
	ex1 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	ex2 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	div, _, _, _ := buildDividend(t, anchor, 350.0, []float64{3.0, 3.0}, []time.Time{ex1, ex2})

	q := 3.0 / 350.0

	// both events inside (0, 1]
	want := (1 - q) * (1 - q)
	if got := div.ForwardDividendFactor(0, 1.0); math.Abs(got-want) > 1e-15 {
		t.Fatalf("factor over year: got %.12f want %.12f", got, want)
	}
	// only the June event inside (0, 0.5]
	want = 1 - q
	if got := div.ForwardDividendFactor(0, 0.5); math.Abs(got-want) > 1e-15 {
		t.Fatalf("factor over half year: got %.12f want %.12f", got, want)
	}
	// empty window
	if got := div.ForwardDividendFactor(1.0, 2.0); got != 1.0 {
		t.Fatalf("factor over empty window: got %g", got)
	}
}

func TestDividendRatiosFixedUnderSpotBump(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, 3, 13, 16, 30, 0, 0, time.UTC)
	ex1 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	ex2 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	div, _, spotData, evalDate := buildDividend(t, anchor, 350.0, []float64{3.0, 3.0}, []time.Time{ex1, ex2})

	// a spot bump leaves the normalized ratios untouched, so a delta bump
	// moves the forward by the full discounted spot change
	if err := spotData.SetValue(700.0); err != nil {
		t.Fatalf("SetValue error: %v", err)
	}
	want := 1 - 3.0/350.0
	if got := div.ForwardDividendFactor(0, 0.5); math.Abs(got-want) > 1e-15 {
		t.Fatalf("ratio moved under spot bump: got %.12f want %.12f", got, want)
	}

	// advancing the anchor past the first ex-date drops the event and
	// re-normalizes against the current spot
	if err := evalDate.Set(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if got := len(div.ExDates()); got != 1 {
		t.Fatalf("expected 1 remaining event, got %d", got)
	}
	want = 1 - 3.0/700.0
	if got := div.ForwardDividendFactor(0, 1.0); math.Abs(got-want) > 1e-15 {
		t.Fatalf("ratio not re-normalized on rebuild: got %.12f want %.12f", got, want)
	}
}
