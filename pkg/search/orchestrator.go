// Package search implements the deal search orchestration: it decides between
// a live grounded provider call and the deterministic fallback, normalizes the
// provider answer and applies the configured failure policy.
package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rubiojr/ofertas/pkg/deals"
	"github.com/rubiojr/ofertas/pkg/log"
	"github.com/rubiojr/ofertas/pkg/provider"
)

var logger = log.ForService("search")

// Placeholders used to repair citations with missing fields.
const (
	DefaultSourceTitle = "Resultado Web"
	DefaultSourceURI   = "#"
)

// Options configures an Orchestrator.
type Options struct {
	// APIKey is the process wide key, used when the caller supplies none.
	APIKey string
	Model  string
	// DegradeOnFailure absorbs provider failures into a fallback result.
	// When false, ProviderCallFailed is returned to the caller.
	DegradeOnFailure bool
	// ProviderTimeout bounds the outbound call. Zero disables the bound.
	ProviderTimeout time.Duration
	// FallbackDelay is waited before answering without a key. Zero disables it.
	FallbackDelay time.Duration
}

// DefaultOptions returns the graceful degradation policy with the default
// model and timeouts.
func DefaultOptions() Options {
	return Options{
		Model:            provider.DefaultModel,
		DegradeOnFailure: true,
		ProviderTimeout:  20 * time.Second,
		FallbackDelay:    1200 * time.Millisecond,
	}
}

// Orchestrator answers deal searches. It is safe for concurrent use.
type Orchestrator struct {
	provider provider.Provider

	mu   sync.RWMutex
	opts Options
}

// New returns an Orchestrator calling p. A nil p uses the Gemini provider.
func New(p provider.Provider, opts Options) *Orchestrator {
	if p == nil {
		p = provider.NewGemini(provider.GeminiOptions{})
	}
	return &Orchestrator{provider: p, opts: normalize(opts)}
}

func normalize(opts Options) Options {
	opts.APIKey = strings.TrimSpace(opts.APIKey)
	if opts.Model == "" {
		opts.Model = provider.DefaultModel
	}
	return opts
}

// Options returns the options currently in effect.
func (o *Orchestrator) Options() Options {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.opts
}

// SetOptions replaces the options used by subsequent searches. Searches in
// flight keep the options they started with.
func (o *Orchestrator) SetOptions(opts Options) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opts = normalize(opts)
}

// SearchDeals answers query. userKey, when non-blank, takes precedence over
// the configured key.
//
// With DegradeOnFailure set the returned error is always nil. Otherwise only
// ProviderCallFailed is returned, as a *SearchError.
func (o *Orchestrator) SearchDeals(ctx context.Context, query, userKey string) (deals.SearchResult, error) {
	opts := o.Options()
	query = strings.TrimSpace(query)

	apiKey := strings.TrimSpace(userKey)
	if apiKey == "" {
		apiKey = opts.APIKey
	}
	if apiKey == "" {
		logger.Debugf("%s for %q, answering with fallback", CredentialMissing, query)
		wait(ctx, opts.FallbackDelay)
		return Fallback(query), nil
	}

	result, err := o.callProvider(ctx, opts, apiKey, query)
	if err == nil {
		return result, nil
	}

	if opts.DegradeOnFailure {
		logger.Warnf("%v; answering with fallback", err)
		return Fallback(query), nil
	}
	logger.Errorf("%v", err)
	return deals.SearchResult{}, err
}

func (o *Orchestrator) callProvider(ctx context.Context, opts Options, apiKey, query string) (deals.SearchResult, error) {
	if opts.ProviderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.ProviderTimeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := o.provider.Generate(ctx, provider.Request{
		APIKey:    apiKey,
		Model:     opts.Model,
		Prompt:    BuildPrompt(query),
		WebSearch: true,
	})
	if err != nil {
		return deals.SearchResult{}, &SearchError{Kind: ProviderCallFailed, Query: query, Err: err}
	}
	if resp == nil {
		return deals.SearchResult{}, &SearchError{Kind: ProviderCallFailed, Query: query, Err: errors.New("nil response")}
	}
	logger.Debugf("provider answered %q in %s (%d citations)", query, time.Since(start).Round(time.Millisecond), len(resp.Citations))

	if strings.TrimSpace(resp.Text) == "" {
		logger.Warnf("%s for %q, answering with fallback", EmptyResponse, query)
		return Fallback(query), nil
	}

	sources := deals.DedupSources(citationsToSources(query, resp.Citations))
	if len(sources) == 0 {
		logger.Debugf("no usable citations for %q, using fallback sources", query)
		sources = FallbackSources(query)
	}

	return deals.SearchResult{Text: resp.Text, Sources: sources}, nil
}

// citationsToSources repairs missing fields with placeholders rather than
// dropping the citation.
func citationsToSources(query string, citations []provider.Citation) []deals.Source {
	sources := make([]deals.Source, 0, len(citations))
	repaired := 0
	for _, c := range citations {
		title := strings.TrimSpace(c.Title)
		uri := strings.TrimSpace(c.URI)
		if title == "" {
			title = DefaultSourceTitle
			repaired++
		}
		if uri == "" {
			uri = DefaultSourceURI
			repaired++
		}
		sources = append(sources, deals.Source{Title: title, URI: uri})
	}
	if repaired > 0 {
		logger.Debugf("%s for %q: repaired %d citation fields", MalformedGroundingData, query, repaired)
	}
	return sources
}

func wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
