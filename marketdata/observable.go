package marketdata

// Observer reacts to mutations of a subject it is registered with.
//
// Observers read the subject's state directly, so Update carries no payload.
// An Update callback must not mutate the subject that is notifying it; the
// subject rejects such calls with ErrReentrantMutation.
type Observer interface {
	Update() error
	Name() string
}

// observable is the embeddable subject half of the protocol.
//
// Registration is explicit: the engine registers derived parameters at build
// time and they can be removed individually. Notification is synchronous; a
// mutating call does not return until every observer has consumed the change.
type observable struct {
	observers []Observer
	notifying bool
}

// AddObserver registers obs. Double registration is the caller's mistake and
// results in double updates.
func (o *observable) AddObserver(obs Observer) {
	o.observers = append(o.observers, obs)
}

// RemoveObserver drops every observer registered under the given name.
func (o *observable) RemoveObserver(name string) {
	kept := o.observers[:0]
	for _, obs := range o.observers {
		if obs.Name() != name {
			kept = append(kept, obs)
		}
	}
	o.observers = kept
}

// ObserverCount reports how many observers are registered.
func (o *observable) ObserverCount() int {
	return len(o.observers)
}

// guard rejects mutations issued from inside a notification callback.
func (o *observable) guard() error {
	if o.notifying {
		return ErrReentrantMutation
	}
	return nil
}

// notify synchronously updates every registered observer.
func (o *observable) notify() error {
	o.notifying = true
	defer func() { o.notifying = false }()
	for _, obs := range o.observers {
		if err := obs.Update(); err != nil {
			return err
		}
	}
	return nil
}
