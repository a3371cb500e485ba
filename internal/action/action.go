// Package action runs one user-triggered operation at a time and tracks its
// in-flight, success and error state.
package action

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrInFlight is returned by Run while a previous run has not settled.
var ErrInFlight = errors.New("action already in progress")

type State int

const (
	Idle State = iota
	Running
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Action - 버튼 하나에 해당하는 비동기 작업 상태
type Action struct {
	mu     sync.Mutex
	state  State
	err    error
	notify func(State)
}

// New returns an idle action. notify, when non-nil, is called on every
// state change (busy indicator, disabled button).
func New(notify func(State)) *Action {
	return &Action{notify: notify}
}

// Run executes fn unless another run is in flight. The in-flight flag is
// released on every exit path, including panics and cancellation.
func (a *Action) Run(ctx context.Context, fn func(context.Context) error) (err error) {
	if !a.acquire() {
		return ErrInFlight
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action panicked: %v", r)
		}
		a.release(err)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

func (a *Action) acquire() bool {
	a.mu.Lock()
	if a.state == Running {
		a.mu.Unlock()
		return false
	}
	a.state = Running
	a.err = nil
	notify := a.notify
	a.mu.Unlock()

	if notify != nil {
		notify(Running)
	}
	return true
}

func (a *Action) release(err error) {
	a.mu.Lock()
	if err != nil {
		a.state = Failed
	} else {
		a.state = Succeeded
	}
	a.err = err
	state := a.state
	notify := a.notify
	a.mu.Unlock()

	if notify != nil {
		notify(state)
	}
}

// InFlight reports whether a run is in progress.
func (a *Action) InFlight() bool {
	return a.State() == Running
}

func (a *Action) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Err returns the error of the last settled run.
func (a *Action) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}
