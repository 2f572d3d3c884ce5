package parameters

import "fmt"

// InvalidIntervalError reports a forward interval with t1 >= t2.
type InvalidIntervalError struct {
	T1 float64
	T2 float64
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("invalid interval: t1=%g must be strictly before t2=%g", e.T1, e.T2)
}
