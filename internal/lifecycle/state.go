// Package lifecycle models the Idle → Pending → Ready | Failed progression of
// one AI-backed request.
package lifecycle

import (
	"context"
	"encoding/json"
	"sync"
)

type Status int

const (
	Idle Status = iota
	Pending
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// State is a tagged value: only Ready carries a value and only Failed carries an error.
type State[T any] struct {
	status Status
	value  T
	err    error
}

func NewIdle[T any]() State[T]    { return State[T]{} }
func NewPending[T any]() State[T] { return State[T]{status: Pending} }
func NewReady[T any](v T) State[T] {
	return State[T]{status: Ready, value: v}
}
func NewFailed[T any](err error) State[T] {
	return State[T]{status: Failed, err: err}
}

func (s State[T]) Status() Status { return s.status }

// Value returns the result and true only in the Ready state.
func (s State[T]) Value() (T, bool) {
	if s.status != Ready {
		var zero T
		return zero, false
	}
	return s.value, true
}

// Err returns the failure cause, nil unless Failed.
func (s State[T]) Err() error { return s.err }

func (s State[T]) MarshalJSON() ([]byte, error) {
	out := struct {
		Status Status `json:"status"`
		Value  *T     `json:"value,omitempty"`
		Error  string `json:"error,omitempty"`
	}{Status: s.status}
	switch s.status {
	case Ready:
		v := s.value
		out.Value = &v
	case Failed:
		out.Error = s.err.Error()
	}
	return json.Marshal(out)
}

// Tracker owns the state of one logical request. Reset moves it back to Idle
// and makes any in-flight run stale; stale results are dropped.
type Tracker[T any] struct {
	mu    sync.Mutex
	state State[T]
	gen   uint64
}

func (t *Tracker[T]) State() State[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Reset returns the tracker to Idle and invalidates in-flight runs.
func (t *Tracker[T]) Reset() {
	t.mu.Lock()
	t.gen++
	t.state = NewIdle[T]()
	t.mu.Unlock()
}

// Run moves the tracker to Pending, calls fn and records its outcome unless the
// tracker was reset or re-run meanwhile. It returns the state fn produced,
// whether or not that state was recorded.
func (t *Tracker[T]) Run(ctx context.Context, fn func(context.Context) (T, error)) State[T] {
	t.mu.Lock()
	t.gen++
	gen := t.gen
	t.state = NewPending[T]()
	t.mu.Unlock()

	v, err := fn(ctx)
	result := NewReady(v)
	if err != nil {
		result = NewFailed[T](err)
	}

	t.mu.Lock()
	if t.gen == gen {
		t.state = result
	}
	t.mu.Unlock()
	return result
}
