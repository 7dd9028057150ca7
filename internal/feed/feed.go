// Package feed holds the view-models behind the home and market-prices
// screens: each feed owns a query, fetches on demand or on a poll tick, and
// exposes an Idle/Loading/Success/Failure snapshot.
//
// Every fetch is tagged with a sequence number taken when it is issued. A
// result is applied only if no newer fetch has been issued since, so a slow
// poll can never overwrite the answer to a later filter change.
package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// State is the lifecycle state of a feed.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateFailure State = "failure"
)

// DefaultFailureMessage is shown to users when a fetch fails.
const DefaultFailureMessage = "Failed to fetch data. Please try again later."

// Snapshot is a point-in-time view of a feed. Data is the last successful
// payload and stays visible while a refresh is loading or after a failure.
type Snapshot[Q any, T any] struct {
	Feed      string    `json:"feed"`
	State     State     `json:"state"`
	Query     Q         `json:"query"`
	Data      T         `json:"data"`
	Error     string    `json:"error,omitempty"`
	Seq       uint64    `json:"seq"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FetchFunc loads the payload for a query.
type FetchFunc[Q any, T any] func(ctx context.Context, q Q) (T, error)

// Listener receives every applied state change.
type Listener[Q any, T any] func(Snapshot[Q, T])

// Feed is a single query/payload pair with request sequencing.
type Feed[Q any, T any] struct {
	name    string
	fetch   FetchFunc[Q, T]
	gate    func(Q) bool
	message string

	mu        sync.Mutex
	query     Q
	seq       uint64
	state     State
	data      T
	errMsg    string
	updatedAt time.Time
	listeners []Listener[Q, T]
}

// Option customises a Feed.
type Option[Q any, T any] func(*Feed[Q, T])

// WithGate makes Refresh skip fetching, and reset to Idle, while allow
// returns false for the current query.
func WithGate[Q any, T any](allow func(Q) bool) Option[Q, T] {
	return func(f *Feed[Q, T]) { f.gate = allow }
}

// WithFailureMessage overrides the user-facing failure message.
func WithFailureMessage[Q any, T any](msg string) Option[Q, T] {
	return func(f *Feed[Q, T]) { f.message = msg }
}

// New constructs an idle feed.
func New[Q any, T any](name string, initial Q, fetch FetchFunc[Q, T], opts ...Option[Q, T]) *Feed[Q, T] {
	f := &Feed[Q, T]{
		name:    name,
		fetch:   fetch,
		message: DefaultFailureMessage,
		query:   initial,
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the feed name.
func (f *Feed[Q, T]) Name() string { return f.name }

// OnChange registers a listener for applied state changes.
func (f *Feed[Q, T]) OnChange(fn Listener[Q, T]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
}

// Snapshot returns the current state.
func (f *Feed[Q, T]) Snapshot() Snapshot[Q, T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Query returns the current query.
func (f *Feed[Q, T]) Query() Q {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}

// Refresh fetches the current query and returns the resulting snapshot.
// When a newer fetch was issued while this one ran, the result is dropped
// and the returned snapshot reflects the newer request's progress.
func (f *Feed[Q, T]) Refresh(ctx context.Context) Snapshot[Q, T] {
	f.mu.Lock()
	f.seq++
	seq, q := f.seq, f.query
	if f.gate != nil && !f.gate(q) {
		var zero T
		f.state, f.data, f.errMsg = StateIdle, zero, ""
		snap := f.snapshotLocked()
		listeners := f.listenersLocked()
		f.mu.Unlock()
		notify(listeners, snap)
		return snap
	}
	f.state = StateLoading
	loading := f.snapshotLocked()
	listeners := f.listenersLocked()
	f.mu.Unlock()
	notify(listeners, loading)

	data, err := f.safeFetch(ctx, q)

	f.mu.Lock()
	if seq != f.seq {
		snap := f.snapshotLocked()
		f.mu.Unlock()
		log.Debug().Str("feed", f.name).Uint64("seq", seq).Uint64("latest", snap.Seq).Msg("Dropping stale feed response")
		return snap
	}
	if err != nil {
		f.state, f.errMsg = StateFailure, f.message
		log.Error().Err(err).Str("feed", f.name).Uint64("seq", seq).Msg("Feed refresh failed")
	} else {
		f.state, f.data, f.errMsg = StateSuccess, data, ""
		f.updatedAt = time.Now()
	}
	snap := f.snapshotLocked()
	listeners = f.listenersLocked()
	f.mu.Unlock()
	notify(listeners, snap)
	return snap
}

// SetQuery replaces the query and refreshes immediately.
func (f *Feed[Q, T]) SetQuery(ctx context.Context, q Q) Snapshot[Q, T] {
	return f.Update(ctx, func(Q) Q { return q })
}

// Stage replaces the query without fetching; the next Refresh uses it.
func (f *Feed[Q, T]) Stage(q Q) {
	f.mu.Lock()
	f.query = q
	f.mu.Unlock()
}

// Update derives a new query from the current one and refreshes immediately.
func (f *Feed[Q, T]) Update(ctx context.Context, fn func(Q) Q) Snapshot[Q, T] {
	f.mu.Lock()
	f.query = fn(f.query)
	f.mu.Unlock()
	return f.Refresh(ctx)
}

// ErrNotFailed is returned by Retry when the feed is not in the failure state.
var ErrNotFailed = errors.New("feed is not in a failed state")

// Retry refreshes a failed feed.
func (f *Feed[Q, T]) Retry(ctx context.Context) (Snapshot[Q, T], error) {
	if snap := f.Snapshot(); snap.State != StateFailure {
		return snap, ErrNotFailed
	}
	return f.Refresh(ctx), nil
}

// Poll refreshes the feed and reports a failure as an error. It lets a
// worker drive any feed without knowing its types.
func (f *Feed[Q, T]) Poll(ctx context.Context) error {
	if snap := f.Refresh(ctx); snap.State == StateFailure {
		return errors.New(snap.Error)
	}
	return nil
}

// safeFetch turns a panicking fetch into a failure so a poll goroutine
// cannot take the process down.
func (f *Feed[Q, T]) safeFetch(ctx context.Context, q Q) (data T, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("feed", f.name).Interface("panic", r).Msg("Feed fetch panicked")
			err = fmt.Errorf("feed %s: fetch panicked: %v", f.name, r)
		}
	}()
	return f.fetch(ctx, q)
}

func (f *Feed[Q, T]) snapshotLocked() Snapshot[Q, T] {
	return Snapshot[Q, T]{
		Feed:      f.name,
		State:     f.state,
		Query:     f.query,
		Data:      f.data,
		Error:     f.errMsg,
		Seq:       f.seq,
		UpdatedAt: f.updatedAt,
	}
}

func (f *Feed[Q, T]) listenersLocked() []Listener[Q, T] {
	return append([]Listener[Q, T](nil), f.listeners...)
}

func notify[Q any, T any](listeners []Listener[Q, T], snap Snapshot[Q, T]) {
	for _, fn := range listeners {
		fn(snap)
	}
}
