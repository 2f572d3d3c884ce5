package engine

import (
	"github.com/meenmo/derlib/currency"
	"github.com/meenmo/derlib/instruments"
)

// BondDiscountKey selects a bond discount curve by issuer attributes.
type BondDiscountKey struct {
	Issuer       string
	IssuerType   instruments.IssuerType
	CreditRating instruments.CreditRating
	Currency     currency.Currency
}

// MatchParameter binds instruments to the curves and surfaces they consume.
// It is a stateless lookup table; every miss is a BindingMissingError.
type MatchParameter struct {
	collateralCurveMap   map[string]string
	borrowingCurveMap    map[string]string
	bondDiscountCurveMap map[BondDiscountKey]string
	crsCurveMap          map[currency.Currency]string
	rateIndexCurveMap    map[string]string
	fundingCostMap       map[currency.Currency]string
}

func NewMatchParameter(
	collateralCurveMap map[string]string,
	borrowingCurveMap map[string]string,
	bondDiscountCurveMap map[BondDiscountKey]string,
	crsCurveMap map[currency.Currency]string,
	rateIndexCurveMap map[string]string,
	fundingCostMap map[currency.Currency]string,
) *MatchParameter {
	return &MatchParameter{
		collateralCurveMap:   collateralCurveMap,
		borrowingCurveMap:    borrowingCurveMap,
		bondDiscountCurveMap: bondDiscountCurveMap,
		crsCurveMap:          crsCurveMap,
		rateIndexCurveMap:    rateIndexCurveMap,
		fundingCostMap:       fundingCostMap,
	}
}

// CollateralCurveName resolves the discounting curve of an underlying.
func (m *MatchParameter) CollateralCurveName(underlyingCode string) (string, error) {
	if name, ok := m.collateralCurveMap[underlyingCode]; ok {
		return name, nil
	}
	return "", &BindingMissingError{Kind: "collateral", Key: underlyingCode}
}

// BorrowingCurveName resolves the borrow/repo curve of an underlying.
func (m *MatchParameter) BorrowingCurveName(underlyingCode string) (string, error) {
	if name, ok := m.borrowingCurveMap[underlyingCode]; ok {
		return name, nil
	}
	return "", &BindingMissingError{Kind: "borrowing", Key: underlyingCode}
}

// BondDiscountCurveName resolves the discount curve of a bond issuer.
func (m *MatchParameter) BondDiscountCurveName(info *instruments.IssuerInfo, ccy currency.Currency) (string, error) {
	key := BondDiscountKey{
		Issuer:       info.Issuer,
		IssuerType:   info.IssuerType,
		CreditRating: info.CreditRating,
		Currency:     ccy,
	}
	if name, ok := m.bondDiscountCurveMap[key]; ok {
		return name, nil
	}
	return "", &BindingMissingError{Kind: "bond discount", Key: info.Issuer + "/" + string(ccy)}
}

// CrsCurveName resolves the cross-currency curve of a currency.
func (m *MatchParameter) CrsCurveName(ccy currency.Currency) (string, error) {
	if name, ok := m.crsCurveMap[ccy]; ok {
		return name, nil
	}
	return "", &BindingMissingError{Kind: "crs", Key: string(ccy)}
}

// RateIndexCurveName resolves the projection curve of a rate index.
func (m *MatchParameter) RateIndexCurveName(indexCode string) (string, error) {
	if name, ok := m.rateIndexCurveMap[indexCode]; ok {
		return name, nil
	}
	return "", &BindingMissingError{Kind: "rate index", Key: indexCode}
}

// FundingCostCurveName resolves the funding curve of a currency.
func (m *MatchParameter) FundingCostCurveName(ccy currency.Currency) (string, error) {
	if name, ok := m.fundingCostMap[ccy]; ok {
		return name, nil
	}
	return "", &BindingMissingError{Kind: "funding", Key: string(ccy)}
}

// CurveNamesFor implements instruments.CurveResolver: every curve name the
// given instrument's pricer consumes. Lookups that do not resolve contribute
// nothing; initialization is where misses become errors. Instruments with
// several underlyings resolve each independently.
func (m *MatchParameter) CurveNamesFor(inst instruments.Instrument) []string {
	var names []string
	switch inst.TypeName() {
	case instruments.TypeFutures, instruments.TypeVanillaOption:
		for _, und := range inst.UnderlyingCodes() {
			if name, err := m.CollateralCurveName(und); err == nil {
				names = append(names, name)
			}
			if name, err := m.BorrowingCurveName(und); err == nil {
				names = append(names, name)
			}
		}
	case instruments.TypeBond:
		if info := inst.IssuerInfo(); info != nil {
			if name, err := m.BondDiscountCurveName(info, inst.Currency()); err == nil {
				names = append(names, name)
			}
		}
	}
	return names
}
