package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/depcache/internal/ui/output"
	"go.trai.ch/depcache/internal/ui/style"
)

// timeLayout prefixes records when timestamps are enabled.
const timeLayout = "15:04:05"

// HandlerOption configures a PrettyHandler.
type HandlerOption func(*PrettyHandler)

// WithClock prefixes every record with the wall clock time returned by now.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *PrettyHandler) {
		h.now = now
	}
}

// PrettyHandler is a slog.Handler for terminals. The message is colored by
// level and attributes follow it as muted key=value pairs.
type PrettyHandler struct {
	out   *termenv.Output
	mu    *sync.Mutex
	level slog.Leveler
	now   func() time.Time

	// prefix is the dotted group path applied to attributes added later.
	prefix string
	// attrs are preformatted attributes from WithAttrs.
	attrs []string
}

// NewPrettyHandler creates a new PrettyHandler writing to w.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions, hopts ...HandlerOption) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	h := &PrettyHandler{
		out:   output.New(w),
		mu:    &sync.Mutex{},
		level: level,
	}
	for _, opt := range hopts {
		opt(h)
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	icon, color := levelStyle(r.Level)

	msg := r.Message
	if icon != "" {
		msg = icon + " " + msg
	}

	var b strings.Builder
	if h.now != nil {
		b.WriteString(h.paint(h.now().Format(timeLayout), style.Muted))
		b.WriteByte(' ')
	}
	b.WriteString(h.paint(msg, color))

	// Full slice expression so appends never write into h.attrs.
	pairs := h.attrs[:len(h.attrs):len(h.attrs)]
	r.Attrs(func(attr slog.Attr) bool {
		pairs = appendAttr(pairs, h.prefix, attr)
		return true
	})
	if len(pairs) > 0 {
		b.WriteByte(' ')
		b.WriteString(h.paint(strings.Join(pairs, " "), style.Muted))
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.WriteString(b.String())
	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = h.attrs[:len(h.attrs):len(h.attrs)]
	for _, attr := range attrs {
		next.attrs = appendAttr(next.attrs, h.prefix, attr)
	}
	return &next
}

// WithGroup returns a new Handler that qualifies later attributes with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func (h *PrettyHandler) paint(s string, color lipgloss.Color) string {
	return h.out.String(s).Foreground(termenv.RGBColor(string(color))).String()
}

func levelStyle(level slog.Level) (string, lipgloss.Color) {
	switch {
	case level >= slog.LevelError:
		return style.Failed, style.Failure
	case level >= slog.LevelWarn:
		return style.Warning, style.Caution
	default:
		return "", style.Muted
	}
}

// appendAttr renders attr as key=value, flattening groups into dotted keys.
func appendAttr(dst []string, prefix string, attr slog.Attr) []string {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	if attr.Value.Kind() == slog.KindGroup {
		if attr.Key != "" {
			prefix += attr.Key + "."
		}
		for _, member := range attr.Value.Group() {
			dst = appendAttr(dst, prefix, member)
		}
		return dst
	}

	value := attr.Value.String()
	if value == "" || strings.ContainsAny(value, " \t\n\"=") {
		value = strconv.Quote(value)
	}
	return append(dst, prefix+attr.Key+"="+value)
}
