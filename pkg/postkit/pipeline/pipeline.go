// Package pipeline orchestrates the fetch, compose and generate stages
// into a single linear content-generation run.
package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"github.com/postforge/postforge/pkg/postkit/config"
	pkerrors "github.com/postforge/postforge/pkg/postkit/errors"
	"github.com/postforge/postforge/pkg/postkit/fetch"
	"github.com/postforge/postforge/pkg/postkit/prompt"
	"github.com/postforge/postforge/pkg/postkit/provider"
	"github.com/postforge/postforge/pkg/postkit/trace"
)

//go:generate mockgen -destination=./mocks/mocks.go -package=mocks github.com/postforge/postforge/pkg/postkit/provider Provider
//go:generate mockgen -destination=./mocks/mock_fetcher.go -package=mocks github.com/postforge/postforge/pkg/postkit/fetch Fetcher

// Request describes one generation invocation. Immutable once constructed.
type Request struct {
	// ExemplarPosts are style references, in presentation order. At least
	// one is required.
	ExemplarPosts []string

	// ContextURL locates the document used as grounding context.
	ContextURL string

	// AdditionalInstructions are free-form; may be empty.
	AdditionalInstructions string
}

// Result is the output of one run
type Result struct {
	Post string
}

// Pipeline is an initialized content-generation pipeline. All fields are
// read-only after New, so concurrent Run calls are safe.
type Pipeline struct {
	settings Settings
	provider provider.Provider
	fetcher  fetch.Fetcher
	tracer   trace.Tracer
	provCfg  config.Config
}

// Option customizes pipeline construction
type Option func(*Pipeline)

// WithProvider injects a completion provider, bypassing registry lookup
func WithProvider(p provider.Provider) Option {
	return func(pl *Pipeline) {
		pl.provider = p
	}
}

// WithFetcher injects a context fetcher
func WithFetcher(f fetch.Fetcher) Option {
	return func(pl *Pipeline) {
		pl.fetcher = f
	}
}

// WithTracer injects a trace sink, overriding the environment toggle
func WithTracer(t trace.Tracer) Option {
	return func(pl *Pipeline) {
		pl.tracer = t
	}
}

// WithProviderConfig overrides the provider configuration used at creation
func WithProviderConfig(cfg config.Config) Option {
	return func(pl *Pipeline) {
		pl.provCfg = cfg
	}
}

// New is the one-time initialize phase. Settings validation, template
// validation, provider resolution and credential resolution all happen
// here: a misconfigured pipeline never accepts a request.
func New(settings Settings, options ...Option) (*Pipeline, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		settings: settings,
		provCfg:  config.New(config.WithModel(settings.ModelName)),
	}
	for _, option := range options {
		option(p)
	}

	if p.provider == nil {
		cfg := p.provCfg
		if cfg.Model == "" {
			cfg.Model = settings.ModelName
		}
		prov, err := provider.Create(settings.ModelProvider, cfg)
		if err != nil {
			return nil, err
		}
		p.provider = prov
	}

	if p.fetcher == nil {
		p.fetcher = fetch.NewHTTPFetcher()
	}

	// Tracing toggle is read once here; later environment changes do not
	// affect an initialized pipeline.
	if p.tracer == nil {
		p.tracer = trace.FromEnvironment()
	}

	return p, nil
}

// Provider exposes the resolved completion provider
func (p *Pipeline) Provider() provider.Provider {
	return p.provider
}

// Run executes one linear generation: Fetch -> Compose -> Generate.
// Exactly one fetch and one completion call happen per invocation; any
// stage failure terminates the run with no partial result.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	if len(req.ExemplarPosts) == 0 {
		return Result{}, pkerrors.New("pipeline", "validate_request",
			fmt.Errorf("%w: at least one exemplar post is required", pkerrors.ErrInvalidRequest))
	}

	runDone := trace.Span(p.tracer, "run", map[string]string{
		"url":       req.ContextURL,
		"exemplars": strconv.Itoa(len(req.ExemplarPosts)),
		"provider":  p.provider.Name(),
		"model":     p.provider.Model(),
	})

	result, err := p.run(ctx, req)
	runDone(err, map[string]string{"post_chars": strconv.Itoa(len(result.Post))})
	return result, err
}

func (p *Pipeline) run(ctx context.Context, req Request) (Result, error) {
	fetchDone := trace.Span(p.tracer, "fetch", map[string]string{"url": req.ContextURL})
	contextText, err := p.fetcher.Fetch(ctx, req.ContextURL)
	fetchDone(err, map[string]string{"context_chars": strconv.Itoa(len(contextText))})
	if err != nil {
		return Result{}, err
	}

	composeDone := trace.Span(p.tracer, "compose", map[string]string{
		"exemplars": strconv.Itoa(len(req.ExemplarPosts)),
	})
	messages, err := prompt.Compose(
		req.ExemplarPosts,
		contextText,
		req.AdditionalInstructions,
		p.settings.SystemPrompt,
		p.settings.PromptTemplate,
	)
	composeDone(err, map[string]string{"messages": strconv.Itoa(len(messages))})
	if err != nil {
		return Result{}, err
	}

	generateDone := trace.Span(p.tracer, "generate", map[string]string{
		"provider": p.provider.Name(),
		"model":    p.provider.Model(),
	})
	resp, err := p.provider.Complete(ctx, messages)
	generateDone(err, map[string]string{"post_chars": strconv.Itoa(len(resp.Content))})
	if err != nil {
		return Result{}, err
	}

	return Result{Post: resp.Content}, nil
}
