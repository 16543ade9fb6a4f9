package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rubiojr/ofertas/pkg/log"
	"google.golang.org/genai"
)

var logger = log.ForService("provider")

// DefaultMaxClients bounds the SDK clients kept for distinct API keys.
const DefaultMaxClients = 8

// ErrMissingAPIKey is returned by Gemini.Generate when the request has no key.
var ErrMissingAPIKey = errors.New("missing gemini api key")

// GeminiOptions tunes the Gemini client.
type GeminiOptions struct {
	// BaseURL overrides the API endpoint (proxies, tests).
	BaseURL string
	// HTTPClient is used for every call when set.
	HTTPClient *http.Client
	// MaxClients bounds the SDK clients cached by API key, least recently
	// used first out. Defaults to DefaultMaxClients.
	MaxClients int
}

// Gemini implements Provider on top of the Google Gen AI SDK. SDK clients
// are cached per API key in a small LRU; keys the API rejects are evicted
// right away.
type Gemini struct {
	opts GeminiOptions

	mu      sync.Mutex
	clients *lru.Cache
}

// NewGemini returns a Gemini provider. No network traffic happens until the
// first Generate call.
func NewGemini(opts GeminiOptions) *Gemini {
	if opts.MaxClients <= 0 {
		opts.MaxClients = DefaultMaxClients
	}
	// lru.New only fails on a non positive size.
	clients, _ := lru.New(opts.MaxClients)
	return &Gemini{
		opts:    opts,
		clients: clients,
	}
}

func (g *Gemini) client(ctx context.Context, apiKey string) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.clients.Get(apiKey); ok {
		return c.(*genai.Client), nil
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.opts.HTTPClient,
	}
	if g.opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.opts.BaseURL}
	}

	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	g.clients.Add(apiKey, c)
	return c, nil
}

// cachedClients reports how many SDK clients are held.
func (g *Gemini) cachedClients() int {
	return g.clients.Len()
}

// forget drops the client of a key the API refused.
func (g *Gemini) forget(apiKey string, err error) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return
	}
	if apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden {
		g.clients.Remove(apiKey)
		logger.Debugf("dropped cached client after %d response", apiErr.Code)
	}
}

// Generate runs one GenerateContent call. With WebSearch set the GoogleSearch
// tool is enabled and grounding chunks are returned as citations.
func (g *Gemini) Generate(ctx context.Context, req Request) (*Response, error) {
	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	c, err := g.client(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{}
	if req.WebSearch {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	logger.Debugf("generate model=%s web_search=%t prompt_len=%d", model, req.WebSearch, len(req.Prompt))
	resp, err := c.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), config)
	if err != nil {
		g.forget(apiKey, err)
		return nil, fmt.Errorf("gemini generation failed: %w", err)
	}

	return convertResponse(resp), nil
}

// convertResponse flattens the first candidate. Thought parts are skipped.
// Grounding chunks without web data carry nothing we can cite and are skipped.
func convertResponse(resp *genai.GenerateContentResponse) *Response {
	out := &Response{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return out
	}
	candidate := resp.Candidates[0]

	if candidate.Content != nil {
		var text strings.Builder
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			text.WriteString(part.Text)
		}
		out.Text = text.String()
	}

	if candidate.GroundingMetadata != nil {
		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil {
				continue
			}
			out.Citations = append(out.Citations, Citation{
				Title: chunk.Web.Title,
				URI:   chunk.Web.URI,
			})
		}
	}
	return out
}
