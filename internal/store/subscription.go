package store

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"ideadeck/api-gateway/models"
)

// State tracks the lifecycle of one live subscription.
type State int32

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateSubscribed
	StateError
	StateUnsubscribed
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateSubscribed:
		return "subscribed"
	case StateError:
		return "error"
	case StateUnsubscribed:
		return "unsubscribed"
	}
	return "unknown"
}

// Subscription is a live view over one user's saved ideas. Every relevant
// change in the collection is delivered as a full refreshed snapshot, newest
// first. Transport failures arrive on Errors without ending the subscription;
// the next successful poll resumes snapshots. Unsubscribe is terminal for the
// instance; a new identity means a new Subscribe call.
type Subscription struct {
	snapshots chan []models.SavedIdea
	errs      chan error
	done      chan struct{}
	stopOnce  sync.Once
	state     atomic.Int32
}

// Snapshots delivers full ordered collection snapshots. Closed on Unsubscribe.
func (sub *Subscription) Snapshots() <-chan []models.SavedIdea { return sub.snapshots }

// Errors delivers transient transport failures. Closed on Unsubscribe.
func (sub *Subscription) Errors() <-chan error { return sub.errs }

// State reports the current lifecycle state.
func (sub *Subscription) State() State { return State(sub.state.Load()) }

// Unsubscribe tears the subscription down. Safe to call more than once.
func (sub *Subscription) Unsubscribe() {
	sub.stopOnce.Do(func() { close(sub.done) })
}

// setState transitions unless the subscription already reached the terminal
// unsubscribed state.
func (sub *Subscription) setState(next State) {
	for {
		cur := sub.state.Load()
		if State(cur) == StateUnsubscribed {
			return
		}
		if sub.state.CompareAndSwap(cur, int32(next)) {
			return
		}
	}
}

// Subscribe opens a live query over userID's ideas. The store has no push
// channel exposed to this client, so changes are detected by polling the
// ordered collection and comparing serialized snapshots.
func (s *IdeaStore) Subscribe(userID uuid.UUID) *Subscription {
	sub := &Subscription{
		snapshots: make(chan []models.SavedIdea, 1),
		errs:      make(chan error, 1),
		done:      make(chan struct{}),
	}
	sub.state.Store(int32(StateUnauthenticated))

	go s.watch(userID, sub)
	return sub
}

func (s *IdeaStore) watch(userID uuid.UUID, sub *Subscription) {
	defer func() {
		sub.state.Store(int32(StateUnsubscribed))
		close(sub.snapshots)
		close(sub.errs)
	}()

	sub.setState(StateAuthenticating)

	var lastDigest string

	poll := func() bool {
		ideas, err := s.List(userID)
		if err != nil {
			sub.setState(StateError)
			// Error channel is best effort: an undrained signal is dropped
			// rather than stalling the poll loop.
			select {
			case sub.errs <- err:
			case <-sub.done:
				return false
			default:
			}
			return true
		}

		sub.setState(StateSubscribed)

		digest := snapshotDigest(ideas)
		if digest != lastDigest {
			select {
			case sub.snapshots <- ideas:
				lastDigest = digest
			case <-sub.done:
				return false
			}
		}
		return true
	}

	if !poll() {
		return
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sub.done:
			return
		case <-ticker.C:
			if !poll() {
				return
			}
		}
	}
}

func snapshotDigest(ideas []models.SavedIdea) string {
	b, err := json.Marshal(ideas)
	if err != nil {
		return ""
	}
	return string(b)
}
