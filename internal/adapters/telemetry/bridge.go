package telemetry

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/depcache/internal/core/ports"
)

// leadingKeys are printed before any other attribute, in this order.
var leadingKeys = []attribute.Key{"file", "outcome"}

// Bridge implements sdktrace.SpanProcessor and reports every finished span
// through the logger, indented by its depth below the root span, e.g.
//
//	build 4.1ms modules=1
//	  transform 3.9ms file=src/a.ts outcome=compiled
//	    compile 3.2ms file=src/a.ts
//
// Children end before their parents, so a trace reads bottom-up.
type Bridge struct {
	logger ports.Logger

	mu     sync.Mutex
	depths map[trace.SpanID]int
}

// NewBridge returns a new Bridge.
func NewBridge(logger ports.Logger) *Bridge {
	return &Bridge{
		logger: logger,
		depths: make(map[trace.SpanID]int),
	}
}

// NewTracerProvider returns an SDK provider that reports spans through logger.
func NewTracerProvider(logger ports.Logger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(NewBridge(logger)))
}

// OnStart records the depth of the span.
func (b *Bridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	b.mu.Lock()
	defer b.mu.Unlock()

	depth := 0
	if parent := s.Parent(); parent.IsValid() {
		if d, ok := b.depths[parent.SpanID()]; ok {
			depth = d + 1
		}
	}
	b.depths[s.SpanContext().SpanID()] = depth
}

// OnEnd logs the span with its duration and attributes.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	b.mu.Lock()
	depth := b.depths[s.SpanContext().SpanID()]
	delete(b.depths, s.SpanContext().SpanID())
	b.mu.Unlock()

	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}

	took := s.EndTime().Sub(s.StartTime()).Round(time.Microsecond)
	msg := fmt.Sprintf("%s%s %s", strings.Repeat("  ", depth), s.Name(), took)
	if attrs := formatAttributes(s.Attributes()); attrs != "" {
		msg += " " + attrs
	}

	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "failed"
		}
		b.logger.Warn(msg + " error=" + desc)
		return
	}
	b.logger.Info(msg)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown forgets spans that never ended.
func (b *Bridge) Shutdown(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	clear(b.depths)
	return nil
}

func formatAttributes(attrs []attribute.KeyValue) string {
	sorted := slices.Clone(attrs)
	slices.SortFunc(sorted, func(a, b attribute.KeyValue) int {
		return cmp.Or(
			cmp.Compare(rank(a.Key), rank(b.Key)),
			cmp.Compare(a.Key, b.Key),
		)
	})

	parts := make([]string, 0, len(sorted))
	for _, kv := range sorted {
		parts = append(parts, string(kv.Key)+"="+kv.Value.Emit())
	}
	return strings.Join(parts, " ")
}

func rank(key attribute.Key) int {
	if i := slices.Index(leadingKeys, key); i >= 0 {
		return i
	}
	return len(leadingKeys)
}
