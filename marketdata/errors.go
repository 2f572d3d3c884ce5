package marketdata

import (
	"errors"
	"fmt"
)

// ErrReentrantMutation is returned when an observer callback attempts to
// mutate the subject that is notifying it.
var ErrReentrantMutation = errors.New("reentrant mutation of an observable during notification")

// InvalidMarketDataError reports malformed raw market data.
type InvalidMarketDataError struct {
	Field  string
	Reason string
}

func (e *InvalidMarketDataError) Error() string {
	return fmt.Sprintf("invalid market data: %s: %s", e.Field, e.Reason)
}
