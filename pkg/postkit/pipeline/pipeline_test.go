package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkerrors "github.com/postforge/postforge/pkg/postkit/errors"
	"github.com/postforge/postforge/pkg/postkit/pipeline/mocks"
	"github.com/postforge/postforge/pkg/postkit/provider"
	"github.com/postforge/postforge/pkg/postkit/trace"
)

// recordingTracer captures events for assertions
type recordingTracer struct {
	events []trace.Event
}

func (r *recordingTracer) Emit(event trace.Event) {
	r.events = append(r.events, event)
}

func testSettings() Settings {
	return DefaultSettings("openai", "gpt-4o")
}

func setupMocks(t *testing.T) (*gomock.Controller, *mocks.MockFetcher, *mocks.MockProvider) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockFetcher := mocks.NewMockFetcher(ctrl)
	mockProvider := mocks.NewMockProvider(ctrl)
	mockProvider.EXPECT().Name().Return("stub").AnyTimes()
	mockProvider.EXPECT().Model().Return("stub-model").AnyTimes()

	return ctrl, mockFetcher, mockProvider
}

func TestRunHappyPath(t *testing.T) {
	_, mockFetcher, mockProvider := setupMocks(t)

	mockFetcher.EXPECT().
		Fetch(gomock.Any(), "https://example.com").
		Return("Example Domain. For use in documentation.", nil)

	var gotPrompt provider.Prompt
	mockProvider.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p provider.Prompt) (provider.Response, error) {
			gotPrompt = p
			return provider.Response{Content: "Stub generated post."}, nil
		})

	p, err := New(testSettings(),
		WithFetcher(mockFetcher),
		WithProvider(mockProvider),
		WithTracer(trace.NopTracer{}),
	)
	require.NoError(t, err)

	result, err := p.Run(context.Background(), Request{
		ExemplarPosts:          []string{"Example 1: short post."},
		ContextURL:             "https://example.com",
		AdditionalInstructions: "keep it short",
	})
	require.NoError(t, err)
	assert.Equal(t, "Stub generated post.", result.Post)

	// Composed prompt: one system message, one user message carrying the
	// numbered exemplar, the fetched context and the instructions.
	require.Len(t, gotPrompt, 2)
	assert.Equal(t, provider.RoleSystem, gotPrompt[0].Role)
	assert.Equal(t, DefaultSystemPrompt, gotPrompt[0].Content)
	assert.Equal(t, provider.RoleUser, gotPrompt[1].Role)
	assert.Contains(t, gotPrompt[1].Content, "Example 1:\nExample 1: short post.")
	assert.Contains(t, gotPrompt[1].Content, "Example Domain. For use in documentation.")
	assert.Contains(t, gotPrompt[1].Content, "keep it short")
}

func TestRunFetchErrorSkipsProvider(t *testing.T) {
	_, mockFetcher, mockProvider := setupMocks(t)

	fetchErr := pkerrors.New("fetch", "get",
		fmt.Errorf("%w: connection refused", pkerrors.ErrFetch))
	mockFetcher.EXPECT().
		Fetch(gomock.Any(), gomock.Any()).
		Return("", fetchErr)

	// No Complete expectation: the controller fails the test if the
	// completion client is invoked at all.

	p, err := New(testSettings(),
		WithFetcher(mockFetcher),
		WithProvider(mockProvider),
		WithTracer(trace.NopTracer{}),
	)
	require.NoError(t, err)

	_, err = p.Run(context.Background(), Request{
		ExemplarPosts: []string{"post"},
		ContextURL:    "https://unreachable.invalid",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkerrors.ErrFetch))
}

func TestRunEmptyExemplars(t *testing.T) {
	_, mockFetcher, mockProvider := setupMocks(t)

	// Neither stage may run for an invalid request.

	p, err := New(testSettings(),
		WithFetcher(mockFetcher),
		WithProvider(mockProvider),
		WithTracer(trace.NopTracer{}),
	)
	require.NoError(t, err)

	_, err = p.Run(context.Background(), Request{
		ContextURL: "https://example.com",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkerrors.ErrInvalidRequest))
}

func TestNewUnknownProvider(t *testing.T) {
	settings := testSettings()
	settings.ModelProvider = "unknown"

	_, err := New(settings)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkerrors.ErrUnknownProvider))
}

func TestNewBadTemplate(t *testing.T) {
	_, _, mockProvider := setupMocks(t)

	settings := testSettings()
	settings.PromptTemplate = "context: {context}\nbogus: {bogus_key}"

	// Template validation fails before provider resolution, so even an
	// injected provider never sees a request.
	_, err := New(settings, WithProvider(mockProvider))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkerrors.ErrBadTemplate))
}

func TestNewMissingSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"missing system prompt", func(s *Settings) { s.SystemPrompt = "" }},
		{"missing template", func(s *Settings) { s.PromptTemplate = "" }},
		{"missing provider", func(s *Settings) { s.ModelProvider = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := testSettings()
			tt.mutate(&settings)

			_, err := New(settings)
			require.Error(t, err)
			assert.True(t, errors.Is(err, pkerrors.ErrInvalidConfig))
		})
	}
}

func TestTracingDoesNotChangeResult(t *testing.T) {
	run := func(tracer trace.Tracer) Result {
		_, mockFetcher, mockProvider := setupMocks(t)
		mockFetcher.EXPECT().
			Fetch(gomock.Any(), gomock.Any()).
			Return("context text", nil)
		mockProvider.EXPECT().
			Complete(gomock.Any(), gomock.Any()).
			Return(provider.Response{Content: "identical post"}, nil)

		p, err := New(testSettings(),
			WithFetcher(mockFetcher),
			WithProvider(mockProvider),
			WithTracer(tracer),
		)
		require.NoError(t, err)

		result, err := p.Run(context.Background(), Request{
			ExemplarPosts: []string{"post"},
			ContextURL:    "https://example.com",
		})
		require.NoError(t, err)
		return result
	}

	silent := run(trace.NopTracer{})
	traced := run(&recordingTracer{})

	assert.Equal(t, silent.Post, traced.Post)
}

func TestRunEmitsStageSpans(t *testing.T) {
	_, mockFetcher, mockProvider := setupMocks(t)
	mockFetcher.EXPECT().
		Fetch(gomock.Any(), gomock.Any()).
		Return("context text", nil)
	mockProvider.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return(provider.Response{Content: "a post"}, nil)

	tracer := &recordingTracer{}
	p, err := New(testSettings(),
		WithFetcher(mockFetcher),
		WithProvider(mockProvider),
		WithTracer(tracer),
	)
	require.NoError(t, err)

	_, err = p.Run(context.Background(), Request{
		ExemplarPosts: []string{"post"},
		ContextURL:    "https://example.com",
	})
	require.NoError(t, err)

	var got []string
	for _, event := range tracer.events {
		got = append(got, event.Stage+":"+event.Phase)
	}
	want := strings.Join([]string{
		"run:begin",
		"fetch:begin", "fetch:end",
		"compose:begin", "compose:end",
		"generate:begin", "generate:end",
		"run:end",
	}, ",")
	assert.Equal(t, want, strings.Join(got, ","))
}

func TestRunProviderError(t *testing.T) {
	_, mockFetcher, mockProvider := setupMocks(t)
	mockFetcher.EXPECT().
		Fetch(gomock.Any(), gomock.Any()).
		Return("context text", nil)
	mockProvider.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return(provider.Response{}, pkerrors.New("stub", "complete", pkerrors.ErrEmptyResponse))

	p, err := New(testSettings(),
		WithFetcher(mockFetcher),
		WithProvider(mockProvider),
		WithTracer(trace.NopTracer{}),
	)
	require.NoError(t, err)

	result, err := p.Run(context.Background(), Request{
		ExemplarPosts: []string{"post"},
		ContextURL:    "https://example.com",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkerrors.ErrEmptyResponse))
	assert.Empty(t, result.Post)
}
