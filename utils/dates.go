package utils

import (
	"sort"
	"time"
)

// BracketIndex returns i such that xs[i] < x <= xs[i+1] for a sorted slice
// (i = 0 for x <= xs[1]), clamped to [0, len(xs)-2]. A value equal to a pillar
// xs[k], k >= 1, selects the interval ending at that pillar. xs must have at
// least two elements.
func BracketIndex(x float64, xs []float64) int {
	i := sort.SearchFloat64s(xs, x)
	if i > 0 {
		i--
	}
	if i > len(xs)-2 {
		i = len(xs) - 2
	}
	return i
}

// Days returns the day count fraction in days between two dates.
func Days(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}

// AddMonth behaves like Excel's EDATE, avoiding Go's month normalization surprises.
func AddMonth(t time.Time, months int) time.Time {
	target := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	if target.Month() == t.AddDate(0, months, 0).Month() {
		return t.AddDate(0, months, 0)
	}

	d := t.AddDate(0, months, 0)
	origMonth := d.Month()
	for d.Month() == origMonth {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
