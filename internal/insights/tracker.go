package insights

import (
	"context"
	"errors"
	"sync"
	"time"

	"foodmaster/internal/models"
)

var (
	ErrRequestInFlight = errors.New("an insight request is already running")
	ErrNoOrders        = errors.New("there are no orders to summarize")
)

// Status is the state of the insight report as seen by a View
type Status string

const (
	StatusIdle        Status = "idle"
	StatusRequesting  Status = "requesting"
	StatusSucceeded   Status = "succeeded"
	StatusFailed      Status = "failed"
	StatusUnavailable Status = "unavailable"
)

// State is a snapshot of the Tracker
type State struct {
	Status      Status     `json:"status"`
	Report      string     `json:"report,omitempty"`
	RequestedAt *time.Time `json:"requestedAt,omitempty"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
}

// Tracker runs at most one insight request at a time in the background.
// Idle -> Requesting -> Succeeded | Failed; a finished state stays until
// the next Start.
type Tracker struct {
	requester *Requester
	onDone    func(State)

	mu    sync.Mutex
	state State
	wg    sync.WaitGroup
}

// NewTracker creates an idle Tracker. onDone, if set, receives the final
// state of every request.
func NewTracker(requester *Requester, onDone func(State)) *Tracker {
	return &Tracker{
		requester: requester,
		onDone:    onDone,
		state:     State{Status: StatusIdle},
	}
}

// Start moves the Tracker to Requesting and returns immediately. The
// snapshot must not be modified by the caller afterwards.
func (t *Tracker) Start(orders []models.Order, menu []models.MenuItem) (State, error) {
	if len(orders) == 0 {
		return t.State(), ErrNoOrders
	}

	t.mu.Lock()
	if t.state.Status == StatusRequesting {
		state := t.state
		t.mu.Unlock()
		return state, ErrRequestInFlight
	}

	now := time.Now()
	t.state = State{Status: StatusRequesting, RequestedAt: &now}
	state := t.state
	t.wg.Add(1)
	t.mu.Unlock()

	go t.run(orders, menu, now)

	return state, nil
}

func (t *Tracker) run(orders []models.Order, menu []models.MenuItem, requestedAt time.Time) {
	defer t.wg.Done()

	result := t.requester.Request(context.Background(), orders, menu)

	finished := time.Now()
	final := State{
		Status:      result.Status,
		Report:      result.Report,
		RequestedAt: &requestedAt,
		FinishedAt:  &finished,
	}

	t.mu.Lock()
	t.state = final
	t.mu.Unlock()

	if t.onDone != nil {
		t.onDone(final)
	}
}

// State returns the current state
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Wait blocks until the running request, if any, has finished
func (t *Tracker) Wait() {
	t.wg.Wait()
}
