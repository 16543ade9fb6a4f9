// Package view holds the view controller driving the search page: a four
// state machine (idle, loading, success, error) around a Searcher, plus the
// line oriented formatter used to render result text.
package view

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rubiojr/ofertas/pkg/deals"
	"github.com/rubiojr/ofertas/pkg/log"
)

var logger = log.ForService("view")

// ErrorMessage is shown in the Error state. Failure details never reach the
// page.
const ErrorMessage = "Não foi possível completar a busca. Tente novamente."

var (
	ErrEmptyQuery        = errors.New("empty query")
	ErrBusy              = errors.New("a search is already in progress")
	ErrUnknownCategory   = errors.New("unknown quick category")
	ErrInvalidTransition = errors.New("invalid state transition")
)

// Searcher produces a result for a query. *search.Orchestrator implements it.
type Searcher interface {
	SearchDeals(ctx context.Context, query, userKey string) (deals.SearchResult, error)
}

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	// SearchTimeout bounds one search. On expiry the search is rejected into
	// the Error state. Zero disables the bound. SetSearchTimeout changes it
	// later.
	SearchTimeout time.Duration
	// Notify, when set, receives every new snapshot in transition order. It
	// may read the controller but must not call Submit, SelectCategory or
	// Dismiss.
	Notify func(State)
}

// Controller is the view state machine. At most one search is outstanding;
// all methods are safe for concurrent use.
type Controller struct {
	searcher Searcher
	opts     ControllerOptions

	mu      sync.Mutex
	state   State
	settled chan struct{}
	apiKey  string
	timeout time.Duration

	notifyMu sync.Mutex
}

// NewController returns a Controller in the Idle state.
func NewController(searcher Searcher, opts ControllerOptions) *Controller {
	settled := make(chan struct{})
	close(settled)
	return &Controller{
		searcher: searcher,
		opts:     opts,
		state:    State{State: Idle},
		timeout:  opts.SearchTimeout,
		settled:  settled,
	}
}

// SetAPIKey sets the caller supplied key passed along with every search.
func (c *Controller) SetAPIKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = strings.TrimSpace(key)
}

// SetSearchTimeout replaces the search bound. A search already in progress
// keeps the bound it started with.
func (c *Controller) SetSearchTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = d
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit starts a search for query. Blank queries are ignored with
// ErrEmptyQuery and submissions while Loading with ErrBusy; in both cases the
// state is unchanged.
func (c *Controller) Submit(query string) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}

	c.mu.Lock()
	if c.state.State == Loading {
		c.mu.Unlock()
		return ErrBusy
	}
	id := uuid.NewString()
	c.state = State{State: Loading, SearchID: id, Query: query}
	c.settled = make(chan struct{})
	go c.run(id, query, c.apiKey, c.timeout)
	c.unlockAndNotify(c.state)

	logger.Infof("search %s started: %q", id, query)
	return nil
}

// SelectCategory submits the preset query of the quick category id.
func (c *Controller) SelectCategory(id string) error {
	cat, ok := deals.CategoryByID(id)
	if !ok {
		return ErrUnknownCategory
	}
	return c.Submit(cat.Query)
}

// Dismiss leaves the Error state for Idle without searching again.
func (c *Controller) Dismiss() error {
	c.mu.Lock()
	if c.state.State != Error {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	c.state = State{State: Idle}
	c.unlockAndNotify(c.state)
	return nil
}

// Await blocks until no search is in progress and returns that state.
func (c *Controller) Await(ctx context.Context) (State, error) {
	for {
		c.mu.Lock()
		if c.state.State != Loading {
			s := c.state
			c.mu.Unlock()
			return s, nil
		}
		settled := c.settled
		c.mu.Unlock()

		select {
		case <-settled:
		case <-ctx.Done():
			return c.Snapshot(), ctx.Err()
		}
	}
}

func (c *Controller) run(id, query, apiKey string, timeout time.Duration) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type outcome struct {
		result deals.SearchResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := c.searcher.SearchDeals(ctx, query, apiKey)
		done <- outcome{res, err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			c.reject(id, out.err)
			return
		}
		c.resolve(id, out.result)
	case <-ctx.Done():
		c.reject(id, ctx.Err())
	}
}

func (c *Controller) resolve(id string, result deals.SearchResult) {
	c.finish(id, func(s *State) {
		s.State = Success
		s.Result = &result
	})
	logger.Infof("search %s resolved with %d sources", id, len(result.Sources))
}

func (c *Controller) reject(id string, err error) {
	c.finish(id, func(s *State) {
		s.State = Error
		s.Message = ErrorMessage
	})
	logger.Warnf("search %s rejected: %v", id, err)
}

// finish applies a terminal transition unless search id was superseded, in
// which case its outcome is dropped.
func (c *Controller) finish(id string, apply func(*State)) {
	c.mu.Lock()
	if c.state.State != Loading || c.state.SearchID != id {
		c.mu.Unlock()
		logger.Debugf("dropping outcome of superseded search %s", id)
		return
	}
	apply(&c.state)
	close(c.settled)
	c.unlockAndNotify(c.state)
}

// unlockAndNotify releases c.mu and delivers s. notifyMu is taken before c.mu
// is released so observers see snapshots in transition order.
func (c *Controller) unlockAndNotify(s State) {
	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()
	if c.opts.Notify != nil {
		c.opts.Notify(s)
	}
}
