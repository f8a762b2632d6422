// Package pages implements the dashboard pages. Each page is a controller
// around a Controller state machine that fetches from the backend and keeps
// the last committed result.
package pages

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"fpl-go-dashboard/internal/logging"
	"fpl-go-dashboard/pkg/fplapi"
)

// Status is the lifecycle state of a page
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Outcome label for loads that lost to a newer request
const outcomeSuperseded = "superseded"

// LoadObserver is told how every page load ended
type LoadObserver interface {
	ObservePageLoad(page, status string, elapsed time.Duration)
}

// Fetcher performs the backend reads of one page load
type Fetcher[P, R any] func(ctx context.Context, params P) (R, error)

// State is a snapshot of a controller. Data is the last successful result and
// survives later errors. Results are never mutated after they are committed.
type State[P, R any] struct {
	Status     Status
	Params     P
	Data       R
	HasData    bool
	Err        string
	Generation uint64
	UpdatedAt  time.Time
}

// Loading reports whether a request is in flight
func (s State[P, R]) Loading() bool { return s.Status == StatusLoading }

// Controller runs idle → loading → {success, error}. Every Load gets a new
// generation and cancels the one before it; a response is committed only
// while its generation is still the newest, so the last request issued wins.
type Controller[P, R any] struct {
	name     string
	fetch    Fetcher[P, R]
	observer LoadObserver
	log      *logrus.Entry

	mu     sync.Mutex
	state  State[P, R]
	cancel context.CancelFunc
}

func NewController[P, R any](name string, initial P, fetch Fetcher[P, R], observer LoadObserver) *Controller[P, R] {
	return &Controller[P, R]{
		name:     name,
		fetch:    fetch,
		observer: observer,
		log:      logging.WithComponent("pages").WithField("page", name),
		state:    State[P, R]{Status: StatusIdle, Params: initial},
	}
}

// State returns a snapshot of the controller
func (c *Controller[P, R]) State() State[P, R] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Load fetches with params and returns the state once this request settles.
// If a newer Load started meanwhile, the newer state is returned unchanged.
func (c *Controller[P, R]) Load(ctx context.Context, params P) State[P, R] {
	loadCtx, gen := c.begin(ctx, params)
	start := time.Now()

	data, err := c.fetch(loadCtx, params)

	state, outcome := c.commit(gen, data, err)
	c.observe(outcome, time.Since(start))
	return state
}

// Retry reloads with the last params
func (c *Controller[P, R]) Retry(ctx context.Context) State[P, R] {
	return c.Load(ctx, c.State().Params)
}

// Reset cancels any request in flight and forgets params, data and error.
func (c *Controller[P, R]) Reset(params P) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = State[P, R]{
		Status:     StatusIdle,
		Params:     params,
		Generation: c.state.Generation + 1,
		UpdatedAt:  time.Now(),
	}
}

func (c *Controller[P, R]) begin(ctx context.Context, params P) (context.Context, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.state.Generation++
	c.state.Status = StatusLoading
	c.state.Params = params
	c.state.Err = ""
	c.state.UpdatedAt = time.Now()
	return loadCtx, c.state.Generation
}

func (c *Controller[P, R]) commit(gen uint64, data R, err error) (State[P, R], string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.state.Generation {
		c.log.WithField("generation", gen).Debug("Discarding superseded response")
		return c.state, outcomeSuperseded
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state.UpdatedAt = time.Now()

	switch {
	case err == nil:
		c.state.Status = StatusSuccess
		c.state.Data = data
		c.state.HasData = true
	case errors.Is(err, context.Canceled):
		// the caller went away; nothing newer replaced this load
		c.state.Status = settledStatus(c.state.HasData)
	default:
		c.state.Status = StatusError
		c.state.Err = fplapi.Message(err)
		c.log.WithError(err).Debug("Page load failed")
	}
	return c.state, string(c.state.Status)
}

func settledStatus(hasData bool) Status {
	if hasData {
		return StatusSuccess
	}
	return StatusIdle
}

func (c *Controller[P, R]) observe(outcome string, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObservePageLoad(c.name, outcome, elapsed)
	}
}
