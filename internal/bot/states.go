package bot

import (
	"sync"
	"time"
)

type Step string

const (
	StepIdle          Step = ""
	StepAwaitingMedia Step = "awaiting_media"
)

// StateKey identifies a conversation: one user in one chat.
type StateKey struct {
	ChatID int64
	UserID int64
}

type stopper interface {
	Stop() bool
}

type ConversationState struct {
	Step  Step
	timer stopper
}

// StateTracker holds at most one live conversation per StateKey. A live
// conversation always owns a pending deadline timer.
type StateTracker struct {
	mu      sync.Mutex
	states  map[StateKey]*ConversationState
	timeout time.Duration

	schedule func(d time.Duration, f func()) stopper
}

func NewStateTracker(timeout time.Duration) *StateTracker {
	return &StateTracker{
		states:  make(map[StateKey]*ConversationState),
		timeout: timeout,
		schedule: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
	}
}

func (t *StateTracker) Step(key StateKey) Step {
	t.mu.Lock()
	defer t.mu.Unlock()

	if state, ok := t.states[key]; ok {
		return state.Step
	}

	return StepIdle
}

// Begin moves key to StepAwaitingMedia and arms the deadline. It returns
// false and changes nothing when a conversation is already live.
// onExpire runs on the timer goroutine after the state has been removed.
func (t *StateTracker) Begin(key StateKey, onExpire func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.states[key]; exists {
		return false
	}

	state := &ConversationState{Step: StepAwaitingMedia}
	state.timer = t.schedule(t.timeout, func() {
		if t.expire(key, state) {
			onExpire()
		}
	})
	t.states[key] = state

	return true
}

// Complete ends a live conversation and cancels its deadline. Once it
// returns, the expiry callback for that conversation will not run.
func (t *StateTracker) Complete(key StateKey) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.states[key]
	if !ok {
		return false
	}

	state.timer.Stop()
	delete(t.states, key)

	return true
}

// Len reports the number of live conversations.
func (t *StateTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.states)
}

// expire removes state if it is still the live entry for key. A timer that
// fires after Complete finds a different (or no) entry and does nothing.
func (t *StateTracker) expire(key StateKey, state *ConversationState) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.states[key] != state {
		return false
	}

	delete(t.states, key)

	return true
}
