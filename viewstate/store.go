package viewstate

import (
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tos-network/redenvelope/action"
)

// Event is a state transition. Events are applied in dispatch order.
type Event interface {
	apply(s *State)
}

// SessionStarted binds a session to the view.
type SessionStarted struct{ Session Session }

// SessionEnded clears every slot.
type SessionEnded struct{}

// AccountLoading marks the balance as being fetched.
type AccountLoading struct{}

// BalanceFetched replaces the balance with a freshly read value.
type BalanceFetched struct{ Balance decimal.Decimal }

// BalanceFetchFailed clears the loading flag and keeps the old balance.
type BalanceFetchFailed struct{}

// BalanceCredited adds delta to the last known balance.
type BalanceCredited struct{ Delta decimal.Decimal }

// LoadingChanged sets the loading flag of one action kind.
type LoadingChanged struct {
	Kind    action.Kind
	Loading bool
}

// EnvelopeSent records the reference produced by a send.
type EnvelopeSent struct{ Ref EnvelopeReference }

// EnvelopeClaimed records the reference produced by a claim.
type EnvelopeClaimed struct{ Ref EnvelopeReference }

func (e SessionStarted) apply(s *State) {
	sess := e.Session
	s.Session = &sess
}

func (SessionEnded) apply(s *State) {
	*s = State{Loading: make(map[action.Kind]bool), Version: s.Version}
}

func (AccountLoading) apply(s *State) { s.Account.Loading = true }

func (e BalanceFetched) apply(s *State) {
	s.Account = AccountSnapshot{Balance: e.Balance}
}

func (BalanceFetchFailed) apply(s *State) { s.Account.Loading = false }

func (e BalanceCredited) apply(s *State) {
	s.Account.Balance = s.Account.Balance.Add(e.Delta)
}

func (e LoadingChanged) apply(s *State) {
	if e.Loading {
		s.Loading[e.Kind] = true
	} else {
		delete(s.Loading, e.Kind)
	}
}

func (e EnvelopeSent) apply(s *State)    { s.SentEnvelope = e.Ref }
func (e EnvelopeClaimed) apply(s *State) { s.ClaimedObject = e.Ref }

// Listener is notified with the new state after every dispatch. Listeners
// receive snapshots in version order and must not dispatch.
type Listener func(State)

// Store is the single owner of the view state.
type Store struct {
	mu        sync.RWMutex
	notify    sync.Mutex // serializes delivery in dispatch order
	state     State
	listeners map[int]Listener
	nextID    int
}

// NewStore creates an empty store. The account starts in the loading state,
// as nothing has been read yet.
func NewStore() *Store {
	return &Store{
		state: State{
			Account: AccountSnapshot{Loading: true},
			Loading: make(map[action.Kind]bool),
		},
		listeners: make(map[int]Listener),
	}
}

// Dispatch applies ev and notifies listeners with the resulting snapshot.
func (s *Store) Dispatch(ev Event) State {
	s.mu.Lock()
	ev.apply(&s.state)
	s.state.Version++
	snap := s.state.clone()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.notify.Lock()
	s.mu.Unlock()
	defer s.notify.Unlock()

	for _, l := range listeners {
		l(snap)
	}
	return snap
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
