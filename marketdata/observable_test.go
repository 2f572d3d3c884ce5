package marketdata_test

import (
	"errors"
	"testing"
	"time"

	"github.com/meenmo/derlib/currency"
	"github.com/meenmo/derlib/marketdata"
)

type countingObserver struct {
	name    string
	updates int
}

func (o *countingObserver) Update() error {
	o.updates++
	return nil
}

func (o *countingObserver) Name() string { return o.name }

// mutatingObserver tries to mutate its subject from inside the callback.
type mutatingObserver struct {
	subject *marketdata.ValueData
	err     error
}

func (o *mutatingObserver) Update() error {
	o.err = o.subject.SetValue(1.0)
	return o.err
}

func (o *mutatingObserver) Name() string { return "pathological" }

func TestValueDataNotifiesSynchronously(t *testing.T) {
	t.Parallel()

	data, err := marketdata.NewValueData(350.0, time.Now(), currency.KRW, "KOSPI2", "KOSPI2")
	if err != nil {
		t.Fatalf("NewValueData error: %v", err)
	}
	obs := &countingObserver{name: "counter"}
	data.AddObserver(obs)

	if err := data.SetValue(351.0); err != nil {
		t.Fatalf("SetValue error: %v", err)
	}
	if obs.updates != 1 {
		t.Fatalf("expected 1 update, got %d", obs.updates)
	}
	if data.Value() != 351.0 {
		t.Fatalf("value mismatch: got %g", data.Value())
	}

	data.RemoveObserver("counter")
	if err := data.SetValue(352.0); err != nil {
		t.Fatalf("SetValue error: %v", err)
	}
	if obs.updates != 1 {
		t.Fatalf("removed observer still updated: %d", obs.updates)
	}
}

func TestReentrantMutationIsRejected(t *testing.T) {
	t.Parallel()

	data, err := marketdata.NewValueData(350.0, time.Now(), currency.KRW, "KOSPI2", "KOSPI2")
	if err != nil {
		t.Fatalf("NewValueData error: %v", err)
	}
	obs := &mutatingObserver{subject: data}
	data.AddObserver(obs)

	err = data.SetValue(360.0)
	if !errors.Is(err, marketdata.ErrReentrantMutation) {
		t.Fatalf("expected ErrReentrantMutation, got %v", err)
	}
	if !errors.Is(obs.err, marketdata.ErrReentrantMutation) {
		t.Fatalf("callback mutation should have been rejected, got %v", obs.err)
	}
}

func TestEvaluationDateSetNotifies(t *testing.T) {
	t.Parallel()

	evalDate := marketdata.NewEvaluationDate(time.Date(2024, 3, 13, 16, 30, 0, 0, time.UTC))
	obs := &countingObserver{name: "curve"}
	evalDate.AddObserver(obs)

	if err := evalDate.AddDays(1); err != nil {
		t.Fatalf("AddDays error: %v", err)
	}
	if obs.updates != 1 {
		t.Fatalf("expected 1 update, got %d", obs.updates)
	}
	if err := evalDate.SubDays(1); err != nil {
		t.Fatalf("SubDays error: %v", err)
	}
	if !evalDate.Date().Equal(time.Date(2024, 3, 13, 16, 30, 0, 0, time.UTC)) {
		t.Fatalf("date not restored: %s", evalDate.Date())
	}
}
