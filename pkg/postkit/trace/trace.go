// Package trace emits optional structured events bracketing pipeline stages.
//
// Emission is a side channel: it never affects the data flow or result of
// a pipeline run. The process-wide toggle is read once at initialization;
// flipping the environment variable while requests are in flight is
// best-effort only.
package trace

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// EnvTracingEnabled is the boolean environment toggle for trace emission.
// Default: disabled.
const EnvTracingEnabled = "POSTFORGE_TRACING_ENABLED"

// Phases of a span
const (
	PhaseBegin = "begin"
	PhaseEnd   = "end"
)

// Event describes one stage boundary: its inputs or outputs, timing and
// any error that ended the stage.
type Event struct {
	Stage string
	Phase string
	Attrs map[string]string
	Err   error
	Time  time.Time
}

// Tracer receives trace events
type Tracer interface {
	Emit(event Event)
}

// Span emits the begin event for a stage and returns the matching end
// function. Usage:
//
//	done := trace.Span(tracer, "fetch", attrs)
//	...
//	done(err, outAttrs)
func Span(t Tracer, stage string, attrs map[string]string) func(err error, attrs map[string]string) {
	t.Emit(Event{Stage: stage, Phase: PhaseBegin, Attrs: attrs, Time: time.Now()})
	return func(err error, attrs map[string]string) {
		t.Emit(Event{Stage: stage, Phase: PhaseEnd, Attrs: attrs, Err: err, Time: time.Now()})
	}
}

// NopTracer discards all events
type NopTracer struct{}

// Emit discards the event
func (NopTracer) Emit(Event) {}

// SlogTracer writes events as structured JSON records
type SlogTracer struct {
	logger *slog.Logger
}

// NewSlogTracer creates a tracer over the given logger. A nil logger
// writes JSON to stderr.
func NewSlogTracer(logger *slog.Logger) *SlogTracer {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return &SlogTracer{logger: logger}
}

// Emit writes one event record
func (t *SlogTracer) Emit(event Event) {
	args := []any{
		slog.String("stage", event.Stage),
		slog.String("phase", event.Phase),
	}
	for k, v := range event.Attrs {
		args = append(args, slog.String(k, v))
	}
	if event.Err != nil {
		args = append(args, slog.String("error", event.Err.Error()))
	}
	t.logger.Info("trace", args...)
}

// FromEnvironment returns a SlogTracer when the process-wide toggle is
// set, and a NopTracer otherwise
func FromEnvironment() Tracer {
	if Enabled() {
		return NewSlogTracer(nil)
	}
	return NopTracer{}
}

// Enabled reports the current value of the tracing toggle
func Enabled() bool {
	enabled, err := strconv.ParseBool(os.Getenv(EnvTracingEnabled))
	if err != nil {
		return false
	}
	return enabled
}
