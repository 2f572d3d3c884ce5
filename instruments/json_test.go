package instruments_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/meenmo/derlib/calendar"
	"github.com/meenmo/derlib/currency"
	"github.com/meenmo/derlib/instruments"
	"github.com/meenmo/derlib/utils"
)

func samplePortfolio(t *testing.T) []instruments.Instrument {
	t.Helper()
	fut := instruments.NewFutures(
		350.0,
		time.Date(2021, 1, 1, 17, 0, 0, 0, time.UTC),
		time.Date(2022, 1, 1, 17, 0, 0, 0, time.UTC),
		time.Date(2022, 1, 1, 17, 0, 0, 0, time.UTC),
		time.Date(2022, 1, 1, 17, 0, 0, 0, time.UTC),
		250_000,
		currency.KRW, currency.KRW,
		"KOSPI2", "KOSPI2 fut1", "165AAA",
	)
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
		Name:         "KTB",
		Code:         "KR103501GCC0",
	})
	if err != nil {
		t.Fatalf("NewBond error: %v", err)
	}
	opt := instruments.NewVanillaOption(
		285.0, 250_000,
		time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 9, 13, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 9, 13, 0, 0, 0, 0, time.UTC),
		[]string{"KOSPI2"},
		currency.KRW, currency.KRW,
		instruments.Put, instruments.European, instruments.NotSettled,
		"KOSPI2 Put Sep24", "165XXX3",
	)
	return []instruments.Instrument{fut, bond, opt, instruments.NewCash(currency.KRW)}
}

func TestPortfolioJSONRoundTrip(t *testing.T) {
	t.Parallel()

	portfolio := samplePortfolio(t)
	raw, err := instruments.MarshalPortfolio(portfolio)
	if err != nil {
		t.Fatalf("MarshalPortfolio error: %v", err)
	}

	decoded, err := instruments.UnmarshalPortfolio(raw)
	if err != nil {
		t.Fatalf("UnmarshalPortfolio error: %v", err)
	}
	if len(decoded) != len(portfolio) {
		t.Fatalf("length mismatch: %d vs %d", len(decoded), len(portfolio))
	}
	for i := range portfolio {
		if decoded[i].TypeName() != portfolio[i].TypeName() {
			t.Fatalf("element %d type mismatch: %s vs %s", i, decoded[i].TypeName(), portfolio[i].TypeName())
		}
		if decoded[i].Code() != portfolio[i].Code() {
			t.Fatalf("element %d code mismatch", i)
		}
	}

	// re-encoding must be stable
	again, err := instruments.MarshalPortfolio(decoded)
	if err != nil {
		t.Fatalf("re-marshal error: %v", err)
	}
	if string(raw) != string(again) {
		t.Fatalf("round trip is not stable:\n%s\n%s", raw, again)
	}
}

func TestUnmarshalInstrumentTag(t *testing.T) {
	t.Parallel()

	inst, err := instruments.UnmarshalInstrument([]byte(`{"type_name":"Cash","currency":"KRW"}`))
	if err != nil {
		t.Fatalf("UnmarshalInstrument error: %v", err)
	}
	if inst.TypeName() != instruments.TypeCash || inst.Code() != "KRW" {
		t.Fatalf("unexpected decode: %s %s", inst.TypeName(), inst.Code())
	}

	if _, err := instruments.UnmarshalInstrument([]byte(`{"type_name":"Swaption"}`)); err == nil {
		t.Fatalf("expected unknown-tag error")
	}

	// the tag must appear in the encoded form
	raw, err := json.Marshal(instruments.NewCash(currency.USD))
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if m["type_name"] != "Cash" {
		t.Fatalf("missing type_name tag: %s", raw)
	}
}

func TestInstrumentsCollectionScoping(t *testing.T) {
	t.Parallel()

	portfolio := samplePortfolio(t)
	coll, err := instruments.NewInstruments(portfolio)
	if err != nil {
		t.Fatalf("NewInstruments error: %v", err)
	}

	unds := coll.UnderlyingCodes()
	if len(unds) != 1 || unds[0] != "KOSPI2" {
		t.Fatalf("underlying codes: %v", unds)
	}
	withUnd := coll.WithUnderlying("KOSPI2")
	if len(withUnd) != 2 {
		t.Fatalf("expected futures and option, got %d instruments", len(withUnd))
	}
	if len(coll.WithUnderlying("SPX")) != 0 {
		t.Fatalf("unexpected SPX dependency")
	}

	if _, err := instruments.NewInstruments(nil); err == nil {
		t.Fatalf("expected empty-portfolio error")
	}
	if _, err := instruments.NewInstruments([]instruments.Instrument{portfolio[0], portfolio[0]}); err == nil {
		t.Fatalf("expected duplicate-code error")
	}
}
