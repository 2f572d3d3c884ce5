package marketdata

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/meenmo/derlib/currency"
)

// SurfaceData is an observable volatility grid for one underlying:
// vols[i][j] is the quote at expiry dates[i] and strike strikes[j].
type SurfaceData struct {
	observable
	strikes        []float64
	dates          []time.Time
	vols           [][]float64
	marketDatetime time.Time
	ccy            currency.Currency
	name           string
	id             string
}

func NewSurfaceData(
	strikes []float64,
	dates []time.Time,
	vols [][]float64,
	marketDatetime time.Time,
	ccy currency.Currency,
	name, id string,
) (*SurfaceData, error) {
	if len(strikes) == 0 || len(dates) == 0 {
		return nil, &InvalidMarketDataError{Field: "strikes/dates", Reason: "empty"}
	}
	if len(vols) != len(dates) {
		return nil, &InvalidMarketDataError{
			Field:  "vols",
			Reason: fmt.Sprintf("row count %d does not match date count %d", len(vols), len(dates)),
		}
	}
	for i, row := range vols {
		if len(row) != len(strikes) {
			return nil, &InvalidMarketDataError{
				Field:  "vols",
				Reason: fmt.Sprintf("row %d length %d does not match strike count %d", i, len(row), len(strikes)),
			}
		}
	}
	for i := 1; i < len(strikes); i++ {
		if strikes[i] <= strikes[i-1] {
			return nil, &InvalidMarketDataError{Field: "strikes", Reason: "not strictly increasing"}
		}
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return nil, &InvalidMarketDataError{Field: "dates", Reason: "not strictly increasing"}
		}
	}

	s := &SurfaceData{
		strikes:        append([]float64(nil), strikes...),
		dates:          append([]time.Time(nil), dates...),
		vols:           make([][]float64, len(vols)),
		marketDatetime: marketDatetime,
		ccy:            ccy,
		name:           name,
		id:             id,
	}
	for i, row := range vols {
		s.vols[i] = append([]float64(nil), row...)
	}
	return s, nil
}

func (s *SurfaceData) Strikes() []float64 { return append([]float64(nil), s.strikes...) }
func (s *SurfaceData) Dates() []time.Time { return append([]time.Time(nil), s.dates...) }

// Vols returns a deep copy of the grid, usable as a restore snapshot.
func (s *SurfaceData) Vols() [][]float64 {
	out := make([][]float64, len(s.vols))
	for i, row := range s.vols {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

func (s *SurfaceData) MarketDatetime() time.Time   { return s.marketDatetime }
func (s *SurfaceData) Currency() currency.Currency { return s.ccy }
func (s *SurfaceData) Name() string                { return s.name }
func (s *SurfaceData) ID() string                  { return s.id }

// SetVols writes back a full grid snapshot.
func (s *SurfaceData) SetVols(vols [][]float64) error {
	if err := s.guard(); err != nil {
		return err
	}
	if len(vols) != len(s.vols) {
		return &InvalidMarketDataError{Field: "vols", Reason: "row count mismatch"}
	}
	for i, row := range vols {
		if len(row) != len(s.vols[i]) {
			return &InvalidMarketDataError{Field: "vols", Reason: "column count mismatch"}
		}
		copy(s.vols[i], row)
	}
	if err := s.notify(); err != nil {
		return fmt.Errorf("SurfaceData.SetVols(%s): %w", s.id, err)
	}
	return nil
}

// BumpFlat shifts the whole grid by delta.
func (s *SurfaceData) BumpFlat(delta float64) error {
	if err := s.guard(); err != nil {
		return err
	}
	for _, row := range s.vols {
		floats.AddConst(delta, row)
	}
	if err := s.notify(); err != nil {
		return fmt.Errorf("SurfaceData.BumpFlat(%s): %w", s.id, err)
	}
	return nil
}

// BumpRow shifts one expiry row by delta.
func (s *SurfaceData) BumpRow(i int, delta float64) error {
	if err := s.guard(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.vols) {
		return &InvalidMarketDataError{Field: "vols", Reason: fmt.Sprintf("row %d out of range", i)}
	}
	floats.AddConst(delta, s.vols[i])
	if err := s.notify(); err != nil {
		return fmt.Errorf("SurfaceData.BumpRow(%s): %w", s.id, err)
	}
	return nil
}

// BumpCell shifts the quote at expiry row i, strike column j by delta.
func (s *SurfaceData) BumpCell(i, j int, delta float64) error {
	if err := s.guard(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.vols) || j < 0 || j >= len(s.strikes) {
		return &InvalidMarketDataError{Field: "vols", Reason: fmt.Sprintf("cell (%d,%d) out of range", i, j)}
	}
	s.vols[i][j] += delta
	if err := s.notify(); err != nil {
		return fmt.Errorf("SurfaceData.BumpCell(%s): %w", s.id, err)
	}
	return nil
}
