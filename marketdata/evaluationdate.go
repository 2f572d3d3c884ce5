package marketdata

import (
	"fmt"
	"time"
)

// EvaluationDate is the wall-clock instant a portfolio is valued at.
//
// Curves and dividends anchor their time axes to it, so every setter
// notifies observers synchronously before returning. An engine owns exactly
// one; it is mutated only during theta computation and restored before
// Calculate returns.
type EvaluationDate struct {
	observable
	date time.Time
}

func NewEvaluationDate(t time.Time) *EvaluationDate {
	return &EvaluationDate{date: t}
}

// Date returns the current evaluation instant.
func (d *EvaluationDate) Date() time.Time {
	return d.date
}

// Set moves the evaluation instant and re-anchors every observer.
func (d *EvaluationDate) Set(t time.Time) error {
	if err := d.guard(); err != nil {
		return err
	}
	d.date = t
	if err := d.notify(); err != nil {
		return fmt.Errorf("EvaluationDate.Set: %w", err)
	}
	return nil
}

// AddDays advances the evaluation instant by n calendar days.
func (d *EvaluationDate) AddDays(n int) error {
	return d.Set(d.date.AddDate(0, 0, n))
}

// SubDays moves the evaluation instant back by n calendar days.
func (d *EvaluationDate) SubDays(n int) error {
	return d.Set(d.date.AddDate(0, 0, -n))
}
