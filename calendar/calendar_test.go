package calendar_test

import (
	"testing"
	"time"

	"github.com/meenmo/derlib/calendar"
)

func TestKoreanHolidays(t *testing.T) {
	t.Parallel()

	// Seollal 2025
	if calendar.IsBusinessDay(calendar.KR, time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Seollal should not be a business day")
	}
	// a regular Wednesday
	if !calendar.IsBusinessDay(calendar.KR, time.Date(2025, 1, 22, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("regular weekday should be a business day")
	}
	// weekend
	if calendar.IsBusinessDay(calendar.KR, time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Saturday should not be a business day")
	}
}

func TestAdjustModifiedFollowing(t *testing.T) {
	t.Parallel()

	// Saturday rolls forward to Monday
	got := calendar.Adjust(calendar.KR, time.Date(2023, 6, 10, 0, 0, 0, 0, time.UTC))
	want := time.Date(2023, 6, 12, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Adjust: got %s want %s", got, want)
	}

	// month-end rolls backward instead of crossing into July
	got = calendar.Adjust(calendar.KR, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))
	if got.Month() != time.June {
		t.Fatalf("Modified Following crossed the month: %s", got)
	}
	if got.After(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected backward roll, got %s", got)
	}
}

func TestAddBusinessDays(t *testing.T) {
	t.Parallel()

	// Friday + 1 business day = Monday
	got := calendar.AddBusinessDays(calendar.KR, time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC), 1)
	want := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("AddBusinessDays: got %s want %s", got, want)
	}

	// and back
	got = calendar.AddBusinessDays(calendar.KR, want, -1)
	if !got.Equal(time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("AddBusinessDays backward: got %s", got)
	}
}
