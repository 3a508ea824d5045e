package trace

import (
	"errors"
	"sync"
	"testing"
)

// recordingTracer captures events for assertions
type recordingTracer struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingTracer) Emit(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func TestSpanEmitsBeginAndEnd(t *testing.T) {
	rec := &recordingTracer{}

	done := Span(rec, "fetch", map[string]string{"url": "https://example.com"})
	done(nil, map[string]string{"bytes": "120"})

	if len(rec.events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(rec.events))
	}

	begin, end := rec.events[0], rec.events[1]

	if begin.Stage != "fetch" || begin.Phase != PhaseBegin {
		t.Errorf("Unexpected begin event: %+v", begin)
	}
	if begin.Attrs["url"] != "https://example.com" {
		t.Errorf("Expected begin attrs to carry inputs, got %v", begin.Attrs)
	}

	if end.Stage != "fetch" || end.Phase != PhaseEnd {
		t.Errorf("Unexpected end event: %+v", end)
	}
	if end.Attrs["bytes"] != "120" {
		t.Errorf("Expected end attrs to carry outputs, got %v", end.Attrs)
	}
	if end.Err != nil {
		t.Errorf("Expected nil error on successful span, got %v", end.Err)
	}
}

func TestSpanRecordsError(t *testing.T) {
	rec := &recordingTracer{}
	wantErr := errors.New("boom")

	done := Span(rec, "generate", nil)
	done(wantErr, nil)

	if len(rec.events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(rec.events))
	}
	if !errors.Is(rec.events[1].Err, wantErr) {
		t.Errorf("Expected end event to carry the error, got %v", rec.events[1].Err)
	}
}

func TestEnabledDefaultsOff(t *testing.T) {
	t.Setenv(EnvTracingEnabled, "")
	if Enabled() {
		t.Error("Expected tracing disabled by default")
	}
}

func TestEnabledParsesBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"false", false},
		{"0", false},
		{"banana", false},
	}

	for _, tt := range tests {
		t.Setenv(EnvTracingEnabled, tt.value)
		if got := Enabled(); got != tt.want {
			t.Errorf("Enabled() with %q = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestFromEnvironment(t *testing.T) {
	t.Setenv(EnvTracingEnabled, "false")
	if _, ok := FromEnvironment().(NopTracer); !ok {
		t.Error("Expected NopTracer when toggle is off")
	}

	t.Setenv(EnvTracingEnabled, "true")
	if _, ok := FromEnvironment().(*SlogTracer); !ok {
		t.Error("Expected SlogTracer when toggle is on")
	}
}
