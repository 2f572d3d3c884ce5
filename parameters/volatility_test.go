package parameters_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/derlib/currency"
	"github.com/meenmo/derlib/marketdata"
	"github.com/meenmo/derlib/parameters"
)

func TestFlatVolatilityTracksQuote(t *testing.T) {
	t.Parallel()

	data, err := marketdata.NewValueData(0.2, time.Now(), currency.KRW, "KOSPI2", "KOSPI2")
	if err != nil {
		t.Fatalf("NewValueData error: %v", err)
	}
	vol := parameters.NewFlatVolatility(data)
	data.AddObserver(vol)

	if vol.At(285.0, 0.5) != 0.2 {
		t.Fatalf("flat vol mismatch")
	}
	if err := data.SetValue(0.21); err != nil {
		t.Fatalf("SetValue error: %v", err)
	}
	if vol.At(400.0, 2.0) != 0.21 {
		t.Fatalf("vol did not track the quote")
	}
}

func TestTermVolatilityInterpolation(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)
	evalDate := marketdata.NewEvaluationDate(anchor)
	data, err := marketdata.NewVectorData(
		[]float64{0.20, 0.24},
		[]time.Time{anchor.AddDate(0, 0, 365), anchor.AddDate(0, 0, 730)},
		nil, anchor, currency.KRW, "KOSPI2", "KOSPI2",
	)
	if err != nil {
		t.Fatalf("NewVectorData error: %v", err)
	}
	vol, err := parameters.NewTermVolatility(evalDate, data)
	if err != nil {
		t.Fatalf("NewTermVolatility error: %v", err)
	}

	if got := vol.At(0, 1.5); math.Abs(got-0.22) > 1e-15 {
		t.Fatalf("interpolated vol: got %g want 0.22", got)
	}
	if got := vol.At(0, 0.1); got != 0.20 {
		t.Fatalf("short-end extrapolation: got %g", got)
	}
	if got := vol.At(0, 5.0); got != 0.24 {
		t.Fatalf("long-end extrapolation: got %g", got)
	}
}

func TestSurfaceVolatilityBilinear(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)
	evalDate := marketdata.NewEvaluationDate(anchor)
	data, err := marketdata.NewSurfaceData(
		[]float64{300, 400},
		[]time.Time{anchor.AddDate(0, 0, 365), anchor.AddDate(0, 0, 730)},
		[][]float64{
			{0.20, 0.22},
			{0.24, 0.26},
		},
		anchor, currency.KRW, "KOSPI2", "KOSPI2",
	)
	if err != nil {
		t.Fatalf("NewSurfaceData error: %v", err)
	}
	vol, err := parameters.NewSurfaceVolatility(evalDate, data)
	if err != nil {
		t.Fatalf("NewSurfaceVolatility error: %v", err)
	}
	data.AddObserver(vol)
	evalDate.AddObserver(vol)

	// grid corners
	if got := vol.At(300, 1.0); got != 0.20 {
		t.Fatalf("corner (300,1Y): got %g", got)
	}
	if got := vol.At(400, 2.0); got != 0.26 {
		t.Fatalf("corner (400,2Y): got %g", got)
	}
	// bilinear midpoint
	if got := vol.At(350, 1.5); math.Abs(got-0.23) > 1e-15 {
		t.Fatalf("midpoint: got %g want 0.23", got)
	}
	// flat extrapolation in strike
	if got := vol.At(100, 1.0); got != 0.20 {
		t.Fatalf("strike extrapolation: got %g", got)
	}

	// a cell bump flows through
	if err := data.BumpCell(0, 0, 0.01); err != nil {
		t.Fatalf("BumpCell error: %v", err)
	}
	if got := vol.At(300, 1.0); math.Abs(got-0.21) > 1e-15 {
		t.Fatalf("surface did not react to bump: got %g", got)
	}
}
