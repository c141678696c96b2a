package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the signed-in status pushed to subscribers.
type State string

const (
	StateSignedIn  State = "signed_in"
	StateSignedOut State = "signed_out"
)

const subscriberBuffer = 8

// Event is one session state change for a user. SessionID is the access
// session (JWT id) the change applies to; a user may hold several at once.
// ReplacesSessionID is set when a refresh rotated an older session into
// SessionID.
type Event struct {
	UserID            uuid.UUID `json:"user_id"`
	SessionID         string    `json:"session_id,omitempty"`
	ReplacesSessionID string    `json:"replaces_session_id,omitempty"`
	State             State     `json:"state"`
	At                time.Time `json:"at"`
}

type subscriber struct {
	ch   chan Event
	once sync.Once
}

// Observer fans session events out to per-user subscribers. Slow
// subscribers miss events rather than block publishers.
type Observer struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]map[*subscriber]struct{}
	closed bool
}

func NewObserver() *Observer {
	return &Observer{subs: make(map[uuid.UUID]map[*subscriber]struct{})}
}

// Subscribe registers for userID's events until ctx ends or the returned
// cancel func runs. The channel is closed on unsubscribe.
func (o *Observer) Subscribe(ctx context.Context, userID uuid.UUID) (<-chan Event, func()) {
	sub := &subscriber{ch: make(chan Event, subscriberBuffer)}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	set, ok := o.subs[userID]
	if !ok {
		set = make(map[*subscriber]struct{})
		o.subs[userID] = set
	}
	set[sub] = struct{}{}
	o.mu.Unlock()

	unsubscribe := func() { o.remove(userID, sub) }
	stop := context.AfterFunc(ctx, unsubscribe)
	return sub.ch, func() {
		stop()
		unsubscribe()
	}
}

// Publish delivers ev to every current subscriber of ev.UserID.
func (o *Observer) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		return
	}
	for sub := range o.subs[ev.UserID] {
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

// Subscribers returns the number of live subscriptions for userID.
func (o *Observer) Subscribers(userID uuid.UUID) int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.subs[userID])
}

// Close ends every subscription. Later Subscribe calls get a closed channel.
func (o *Observer) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	for _, set := range o.subs {
		for sub := range set {
			sub.once.Do(func() { close(sub.ch) })
		}
	}
	o.subs = nil
}

func (o *Observer) remove(userID uuid.UUID, sub *subscriber) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if set, ok := o.subs[userID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(o.subs, userID)
		}
	}
	sub.once.Do(func() { close(sub.ch) })
}
