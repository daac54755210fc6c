// Package diagnostic is the channel for non-fatal failures raised while
// deriving form elements. Element creation and filter failures never reach the
// caller of the provider; they are reported here instead so hosts can log,
// surface, or assert on them.
package diagnostic

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Kind classifies an event.
type Kind string

const (
	// KindElementCreateFailed is reported when the element factory rejects a
	// property. The property is left out of the form.
	KindElementCreateFailed Kind = "element.create_failed"
	// KindElementUntyped is reported when a created element has no resolved
	// type and is dropped.
	KindElementUntyped Kind = "element.untyped"
	// KindFilterFailed is reported when a filter fails. Its effect is skipped.
	KindFilterFailed Kind = "filter.failed"
)

// Event describes one non-fatal failure.
type Event struct {
	Kind     Kind
	Property string
	Filter   string
	Err      error
}

func (e Event) String() string {
	switch {
	case e.Filter != "":
		return fmt.Sprintf("%s [%s]: %v", e.Kind, e.Filter, e.Err)
	case e.Property != "":
		return fmt.Sprintf("%s [%s]: %v", e.Kind, e.Property, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
}

// Sink receives diagnostic events.
type Sink interface {
	Report(Event)
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(Event)

// Report calls the wrapped function when non-nil.
func (fn SinkFunc) Report(event Event) {
	if fn == nil {
		return
	}
	fn(event)
}

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Multi fans events out to every non-nil sink.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(event Event) {
		for _, sink := range sinks {
			if sink != nil {
				sink.Report(event)
			}
		}
	})
}

// ZapSink logs events as structured warnings.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink wraps logger. A nil logger discards output.
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger}
}

// Report implements Sink.
func (s *ZapSink) Report(event Event) {
	fields := []zap.Field{zap.String("kind", string(event.Kind))}
	if event.Property != "" {
		fields = append(fields, zap.String("property", event.Property))
	}
	if event.Filter != "" {
		fields = append(fields, zap.String("filter", event.Filter))
	}
	if event.Err != nil {
		fields = append(fields, zap.Error(event.Err))
	}
	s.logger.Warn(message(event.Kind), fields...)
}

func message(kind Kind) string {
	switch kind {
	case KindElementCreateFailed:
		return "formbind: element creation failed, property skipped"
	case KindElementUntyped:
		return "formbind: element type unresolved, property skipped"
	case KindFilterFailed:
		return "formbind: filter failed, stage skipped"
	default:
		return "formbind: diagnostic"
	}
}

// NewLogger builds a production zap logger at the given level. Unknown level
// names fall back to warn.
func NewLogger(level string) (*zap.Logger, error) {
	lvl := zapcore.WarnLevel
	if level != "" {
		if err := lvl.Set(level); err != nil {
			lvl = zapcore.WarnLevel
		}
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// DefaultSink returns a ZapSink backed by a warn-level production logger, or a
// no-op logger when one cannot be built.
func DefaultSink() Sink {
	logger, err := NewLogger("warn")
	if err != nil {
		logger = zap.NewNop()
	}
	return NewZapSink(logger)
}

// Recorder keeps events in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Report implements Sink.
func (r *Recorder) Report(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Kinds returns the kinds of recorded events in order.
func (r *Recorder) Kinds() []Kind {
	events := r.Events()
	if len(events) == 0 {
		return nil
	}
	kinds := make([]Kind, len(events))
	for idx, event := range events {
		kinds[idx] = event.Kind
	}
	return kinds
}

// Reset discards recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
