package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/meenmo/derlib/currency"
	"github.com/meenmo/derlib/engine"
	"github.com/meenmo/derlib/instruments"
	"github.com/meenmo/derlib/marketdata"
)

// marketFile is the on-disk snapshot consumed by the run command: raw
// market data plus the match parameter binding instruments to curves.
type marketFile struct {
	EvaluationDate time.Time        `json:"evaluation_date"`
	Curves         []curveEntry     `json:"curves"`
	Stocks         []scalarEntry    `json:"stocks"`
	Dividends      []vectorEntry    `json:"dividends,omitempty"`
	Fx             []scalarEntry    `json:"fx,omitempty"`
	EquityVols     []scalarEntry    `json:"equity_vols,omitempty"`
	EquitySurfaces []surfaceEntry   `json:"equity_surfaces,omitempty"`
	MatchParameter matchParamsEntry `json:"match_parameter"`
}

type scalarEntry struct {
	Code     string            `json:"code"`
	Name     string            `json:"name,omitempty"`
	Value    float64           `json:"value"`
	Currency currency.Currency `json:"currency"`
}

type vectorEntry struct {
	Code     string            `json:"code"`
	Name     string            `json:"name,omitempty"`
	Dates    []time.Time       `json:"dates"`
	Values   []float64         `json:"values"`
	Currency currency.Currency `json:"currency"`
}

type curveEntry = vectorEntry

type surfaceEntry struct {
	Code     string            `json:"code"`
	Strikes  []float64         `json:"strikes"`
	Dates    []time.Time       `json:"dates"`
	Vols     [][]float64       `json:"vols"`
	Currency currency.Currency `json:"currency"`
}

type bondCurveEntry struct {
	Issuer       string                  `json:"issuer"`
	IssuerType   instruments.IssuerType  `json:"issuer_type"`
	CreditRating instruments.CreditRating `json:"credit_rating"`
	Currency     currency.Currency       `json:"currency"`
	Curve        string                  `json:"curve"`
}

type matchParamsEntry struct {
	CollateralCurves map[string]string            `json:"collateral_curves"`
	BorrowingCurves  map[string]string            `json:"borrowing_curves"`
	BondCurves       []bondCurveEntry             `json:"bond_discount_curves,omitempty"`
	CrsCurves        map[currency.Currency]string `json:"crs_curves,omitempty"`
	RateIndexCurves  map[string]string            `json:"rate_index_curves,omitempty"`
	FundingCurves    map[currency.Currency]string `json:"funding_curves,omitempty"`
}

func loadMarketFile(path string) (*marketFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loadMarketFile: %w", err)
	}
	var mf marketFile
	if err := json.Unmarshal(raw, &mf); err != nil {
		return nil, fmt.Errorf("loadMarketFile: %s: %w", path, err)
	}
	if mf.EvaluationDate.IsZero() {
		return nil, fmt.Errorf("loadMarketFile: %s: evaluation_date is required", path)
	}
	return &mf, nil
}

func (mf *marketFile) name(e scalarEntry) string {
	if e.Name != "" {
		return e.Name
	}
	return e.Code
}

// toParameterData lifts the file entries into observable market data.
func (mf *marketFile) toParameterData() (engine.ParameterData, error) {
	pd := engine.ParameterData{
		Fx:             map[string]*marketdata.ValueData{},
		Stocks:         map[string]*marketdata.ValueData{},
		Curves:         map[string]*marketdata.VectorData{},
		Dividends:      map[string]*marketdata.VectorData{},
		EquityVols:     map[string]*marketdata.ValueData{},
		EquitySurfaces: map[string]*marketdata.SurfaceData{},
	}
	asOf := mf.EvaluationDate

	scalars := func(entries []scalarEntry, out map[string]*marketdata.ValueData) error {
		for _, e := range entries {
			data, err := marketdata.NewValueData(e.Value, asOf, e.Currency, mf.name(e), e.Code)
			if err != nil {
				return err
			}
			out[e.Code] = data
		}
		return nil
	}
	if err := scalars(mf.Stocks, pd.Stocks); err != nil {
		return pd, err
	}
	if err := scalars(mf.Fx, pd.Fx); err != nil {
		return pd, err
	}
	if err := scalars(mf.EquityVols, pd.EquityVols); err != nil {
		return pd, err
	}

	for _, e := range mf.Curves {
		name := e.Name
		if name == "" {
			name = e.Code
		}
		data, err := marketdata.NewVectorData(e.Values, e.Dates, nil, asOf, e.Currency, name, e.Code)
		if err != nil {
			return pd, err
		}
		pd.Curves[e.Code] = data
	}
	for _, e := range mf.Dividends {
		name := e.Name
		if name == "" {
			name = e.Code
		}
		data, err := marketdata.NewVectorData(e.Values, e.Dates, nil, asOf, e.Currency, name, e.Code)
		if err != nil {
			return pd, err
		}
		pd.Dividends[e.Code] = data
	}
	for _, e := range mf.EquitySurfaces {
		data, err := marketdata.NewSurfaceData(e.Strikes, e.Dates, e.Vols, asOf, e.Currency, e.Code, e.Code)
		if err != nil {
			return pd, err
		}
		pd.EquitySurfaces[e.Code] = data
	}
	return pd, nil
}

func (mf *marketFile) toMatchParameter() *engine.MatchParameter {
	bondMap := map[engine.BondDiscountKey]string{}
	for _, e := range mf.MatchParameter.BondCurves {
		bondMap[engine.BondDiscountKey{
			Issuer:       e.Issuer,
			IssuerType:   e.IssuerType,
			CreditRating: e.CreditRating,
			Currency:     e.Currency,
		}] = e.Curve
	}
	return engine.NewMatchParameter(
		mf.MatchParameter.CollateralCurves,
		mf.MatchParameter.BorrowingCurves,
		bondMap,
		mf.MatchParameter.CrsCurves,
		mf.MatchParameter.RateIndexCurves,
		mf.MatchParameter.FundingCurves,
	)
}
