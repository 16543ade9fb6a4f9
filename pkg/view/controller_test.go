package view

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rubiojr/ofertas/pkg/deals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedSearcher blocks every search until release is closed.
type gatedSearcher struct {
	mu      sync.Mutex
	queries []string
	keys    []string
	release chan struct{}
	result  deals.SearchResult
	err     error
}

func newGatedSearcher() *gatedSearcher {
	return &gatedSearcher{
		release: make(chan struct{}),
		result:  deals.SearchResult{Text: "ok", Sources: []deals.Source{{Title: "A", URI: "https://a"}}},
	}
}

func (g *gatedSearcher) SearchDeals(ctx context.Context, query, userKey string) (deals.SearchResult, error) {
	g.mu.Lock()
	g.queries = append(g.queries, query)
	g.keys = append(g.keys, userKey)
	g.mu.Unlock()

	select {
	case <-g.release:
	case <-ctx.Done():
		return deals.SearchResult{}, ctx.Err()
	}
	return g.result, g.err
}

func (g *gatedSearcher) Queries() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.queries...)
}

func await(t *testing.T, c *Controller) State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := c.Await(ctx)
	require.NoError(t, err)
	return s
}

func TestControllerStartsIdle(t *testing.T) {
	c := NewController(newGatedSearcher(), ControllerOptions{})
	s := c.Snapshot()
	assert.Equal(t, Idle, s.State)
	assert.True(t, s.Accepting())
	assert.Nil(t, s.Result)
	assert.Empty(t, s.Message)
}

func TestSubmitEmptyQueryIsNoop(t *testing.T) {
	g := newGatedSearcher()
	c := NewController(g, ControllerOptions{})

	for _, q := range []string{"", "   ", "\t\n"} {
		assert.ErrorIs(t, c.Submit(q), ErrEmptyQuery)
	}
	assert.Equal(t, Idle, c.Snapshot().State)
	assert.Empty(t, g.Queries())
}

func TestSubmitResolvesToSuccess(t *testing.T) {
	g := newGatedSearcher()
	c := NewController(g, ControllerOptions{})

	require.NoError(t, c.Submit("disco de corte"))
	s := c.Snapshot()
	assert.Equal(t, Loading, s.State)
	assert.False(t, s.Accepting())
	assert.NotEmpty(t, s.SearchID)
	assert.Equal(t, "disco de corte", s.Query)

	close(g.release)
	s = await(t, c)
	assert.Equal(t, Success, s.State)
	require.NotNil(t, s.Result)
	assert.Equal(t, "ok", s.Result.Text)
	assert.Empty(t, s.Message)
}

func TestSubmitWhileLoadingIsRejected(t *testing.T) {
	g := newGatedSearcher()
	c := NewController(g, ControllerOptions{})

	require.NoError(t, c.Submit("primeira"))
	id := c.Snapshot().SearchID

	assert.ErrorIs(t, c.Submit("segunda"), ErrBusy)
	assert.ErrorIs(t, c.SelectCategory("1"), ErrBusy)
	assert.Equal(t, id, c.Snapshot().SearchID)
	assert.Equal(t, "primeira", c.Snapshot().Query)

	close(g.release)
	await(t, c)
	assert.Equal(t, []string{"primeira"}, g.Queries())
}

func TestRejectionEntersErrorAndDismissReturnsToIdle(t *testing.T) {
	g := newGatedSearcher()
	g.err = errors.New("provider down")
	close(g.release)
	c := NewController(g, ControllerOptions{})

	require.NoError(t, c.Submit("fechadura"))
	s := await(t, c)
	assert.Equal(t, Error, s.State)
	assert.Equal(t, ErrorMessage, s.Message)
	assert.Nil(t, s.Result)

	require.NoError(t, c.Dismiss())
	s = c.Snapshot()
	assert.Equal(t, Idle, s.State)
	assert.Empty(t, s.Message)
	assert.Nil(t, s.Result)
	assert.Len(t, g.Queries(), 1, "dismiss must not search again")
}

func TestDismissOutsideErrorIsInvalid(t *testing.T) {
	g := newGatedSearcher()
	c := NewController(g, ControllerOptions{})
	assert.ErrorIs(t, c.Dismiss(), ErrInvalidTransition)

	require.NoError(t, c.Submit("x"))
	assert.ErrorIs(t, c.Dismiss(), ErrInvalidTransition)
	close(g.release)
	await(t, c)
	assert.ErrorIs(t, c.Dismiss(), ErrInvalidTransition)
	assert.Equal(t, Success, c.Snapshot().State)
}

func TestSubmitFromSuccessAndErrorClearsPrevious(t *testing.T) {
	g := newGatedSearcher()
	close(g.release)
	c := NewController(g, ControllerOptions{})

	require.NoError(t, c.Submit("a"))
	require.Equal(t, Success, await(t, c).State)

	require.NoError(t, c.Submit("b"))
	s := await(t, c)
	assert.Equal(t, Success, s.State)
	assert.Equal(t, "b", s.Query)

	g.err = errors.New("boom")
	require.NoError(t, c.Submit("c"))
	require.Equal(t, Error, await(t, c).State)

	g.err = nil
	require.NoError(t, c.Submit("d"))
	s = await(t, c)
	assert.Equal(t, Success, s.State)
	assert.Empty(t, s.Message)
}

func TestSelectCategory(t *testing.T) {
	g := newGatedSearcher()
	close(g.release)
	c := NewController(g, ControllerOptions{})

	assert.ErrorIs(t, c.SelectCategory("nope"), ErrUnknownCategory)
	assert.Equal(t, Idle, c.Snapshot().State)

	require.NoError(t, c.SelectCategory("2"))
	await(t, c)
	cat, _ := deals.CategoryByID("2")
	assert.Equal(t, []string{cat.Query}, g.Queries())
}

func TestSearchTimeoutRejects(t *testing.T) {
	g := newGatedSearcher()
	c := NewController(g, ControllerOptions{SearchTimeout: 20 * time.Millisecond})

	require.NoError(t, c.Submit("lento"))
	s := await(t, c)
	assert.Equal(t, Error, s.State)
	assert.Equal(t, ErrorMessage, s.Message)
}

func TestSetSearchTimeoutAppliesToNextSearch(t *testing.T) {
	g := newGatedSearcher()
	c := NewController(g, ControllerOptions{})

	c.SetSearchTimeout(20 * time.Millisecond)
	require.NoError(t, c.Submit("lento"))
	s := await(t, c)
	assert.Equal(t, Error, s.State)

	require.NoError(t, c.Dismiss())
	c.SetSearchTimeout(0)
	require.NoError(t, c.Submit("sem limite"))
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, Loading, c.Snapshot().State)

	close(g.release)
	assert.Equal(t, Success, await(t, c).State)
}

func TestSupersededOutcomeIsDropped(t *testing.T) {
	slow := make(chan struct{})
	calls := 0
	var mu sync.Mutex
	s := searcherFunc(func(ctx context.Context, query, _ string) (deals.SearchResult, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			// Ignores ctx: keeps running after the controller gave up.
			<-slow
			return deals.SearchResult{Text: "stale"}, nil
		}
		return deals.SearchResult{Text: "fresh"}, nil
	})
	c := NewController(s, ControllerOptions{SearchTimeout: 20 * time.Millisecond})

	require.NoError(t, c.Submit("primeira"))
	require.Equal(t, Error, await(t, c).State)

	require.NoError(t, c.Submit("segunda"))
	st := await(t, c)
	require.Equal(t, Success, st.State)
	assert.Equal(t, "fresh", st.Result.Text)

	close(slow)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, "fresh", c.Snapshot().Result.Text)
}

func TestNotifyReceivesTransitionsInOrder(t *testing.T) {
	g := newGatedSearcher()
	close(g.release)

	var mu sync.Mutex
	var seen []LoadingState
	c := NewController(g, ControllerOptions{Notify: func(s State) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s.State)
	}})

	require.NoError(t, c.Submit("a"))
	await(t, c)
	g.err = errors.New("x")
	require.NoError(t, c.Submit("b"))
	await(t, c)
	require.NoError(t, c.Dismiss())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []LoadingState{Loading, Success, Loading, Error, Idle}, seen)
}

func TestAPIKeyIsForwarded(t *testing.T) {
	g := newGatedSearcher()
	close(g.release)
	c := NewController(g, ControllerOptions{})
	c.SetAPIKey("  chave  ")

	require.NoError(t, c.Submit("a"))
	await(t, c)
	g.mu.Lock()
	defer g.mu.Unlock()
	assert.Equal(t, []string{"chave"}, g.keys)
}

func TestAwaitHonoursContext(t *testing.T) {
	g := newGatedSearcher()
	c := NewController(g, ControllerOptions{})
	require.NoError(t, c.Submit("a"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	s, err := c.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, Loading, s.State)
	close(g.release)
}

func TestLoadingStateJSON(t *testing.T) {
	b, err := Success.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"success"`, string(b))
	assert.Equal(t, "LoadingState(9)", LoadingState(9).String())
}

type searcherFunc func(ctx context.Context, query, userKey string) (deals.SearchResult, error)

func (f searcherFunc) SearchDeals(ctx context.Context, query, userKey string) (deals.SearchResult, error) {
	return f(ctx, query, userKey)
}
