package access

import "sync"

// Navigator re-evaluates the current location whenever the auth state
// changes and reports the decision to a routing callback. The decision logic
// stays in Views.Decide; Navigator only wires it to a Store.
type Navigator struct {
	views    *Views
	store    *Store
	onChange func(Decision)

	mu          sync.Mutex
	location    string
	unsubscribe func()
}

// NewNavigator starts watching store. onChange receives a decision for the
// initial location and after every state change or Visit.
func NewNavigator(views *Views, store *Store, location string, onChange func(Decision)) *Navigator {
	n := &Navigator{views: views, store: store, onChange: onChange, location: location}
	n.unsubscribe = store.Subscribe(func(state AuthState) {
		n.emit(state)
	})
	n.emit(store.Current())
	return n
}

// Visit moves to location and reports its decision.
func (n *Navigator) Visit(location string) Decision {
	n.mu.Lock()
	n.location = location
	n.mu.Unlock()
	return n.emit(n.store.Current())
}

// Location returns the location last visited.
func (n *Navigator) Location() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.location
}

// Close stops watching the store.
func (n *Navigator) Close() {
	n.unsubscribe()
}

func (n *Navigator) emit(state AuthState) Decision {
	n.mu.Lock()
	loc := n.location
	n.mu.Unlock()

	d := n.views.Decide(state, loc)
	if n.onChange != nil {
		n.onChange(d)
	}
	return d
}
