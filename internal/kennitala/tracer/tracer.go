// Package tracer is a small tracing seam for the kennitala service.
//
// Service code depends on the Tracer interface only; the OpenTelemetry
// adapter is wired in cmd/server and the no-op tracer is used in tests.
// Identity codes never go into attributes in clear: use privacy.HashKennitala.
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, marking it failed when err is non-nil.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span; the returned context carries it.
	//
	// Example:
	//   ctx, span := tr.Start(ctx, tracer.SpanInspect,
	//       tracer.String(tracer.AttrKennitalaHash, privacy.HashKennitala(code)),
	//   )
	//   defer span.End(nil)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an integer attribute.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanInspect        = "kennitala.inspect"
	SpanGenerate       = "kennitala.generate"
	SpanGenerateRandom = "kennitala.generate_random"
)

// Attribute keys.
const (
	AttrKennitalaHash = "kennitala.hash"
	AttrValid         = "kennitala.valid"
	AttrKind          = "kennitala.kind"
	AttrCount         = "batch.count"
	AttrWorkers       = "batch.workers"
)

// Event names.
const (
	EventCodeGenerated = "kennitala.generated"
)
