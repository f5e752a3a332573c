package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// CompactHandler renders records as
//
//	[LEVEL] HH:MM:SS message | key=value key=value
//
// for readable interactive console output.
type CompactHandler struct {
	opts  slog.HandlerOptions
	mu    sync.Mutex
	out   io.Writer
	attrs []slog.Attr
	group string
}

// NewCompactHandler creates a compact console handler.
func NewCompactHandler(w io.Writer, opts *slog.HandlerOptions) *CompactHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &CompactHandler{opts: *opts, out: w}
}

func (h *CompactHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *CompactHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 256)

	switch r.Level {
	case slog.LevelDebug:
		buf = append(buf, "[DEBUG] "...)
	case slog.LevelInfo:
		buf = append(buf, "[INFO]  "...)
	case slog.LevelWarn:
		buf = append(buf, "[WARN]  "...)
	case slog.LevelError:
		buf = append(buf, "[ERROR] "...)
	default:
		buf = append(buf, fmt.Sprintf("[%-5s] ", r.Level.String())...)
	}

	buf = append(buf, r.Time.Format("15:04:05")...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	hasAttrs := false
	emit := func(a slog.Attr) {
		if a.Equal(slog.Attr{}) {
			return
		}
		if !hasAttrs {
			buf = append(buf, " |"...)
			hasAttrs = true
		}
		buf = append(buf, ' ')
		buf = appendAttr(buf, a)
	}

	for _, a := range h.attrs {
		emit(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		emit(a)
		return true
	})

	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf)
	return err
}

func appendAttr(buf []byte, a slog.Attr) []byte {
	switch a.Key {
	case "requestID":
		// Request IDs are long UUIDs; the first block is enough to grep by.
		if s, ok := a.Value.Any().(string); ok && len(s) > 8 {
			return append(append(buf, "req="...), s[:8]...)
		}
	case "durationMs":
		buf = append(buf, "duration="...)
		buf = append(buf, a.Value.String()...)
		return append(buf, "ms"...)
	case "error":
		buf = append(buf, "error="...)
		return append(buf, fmt.Sprintf("%q", a.Value.Any())...)
	}

	buf = append(buf, a.Key...)
	buf = append(buf, '=')

	v := a.Value
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if needsQuoting(s) {
			return append(buf, strconv.Quote(s)...)
		}
		return append(buf, s...)
	case slog.KindInt64:
		return strconv.AppendInt(buf, v.Int64(), 10)
	case slog.KindUint64:
		return strconv.AppendUint(buf, v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.AppendFloat(buf, v.Float64(), 'g', -1, 64)
	case slog.KindBool:
		return strconv.AppendBool(buf, v.Bool())
	case slog.KindDuration:
		return append(buf, v.Duration().String()...)
	case slog.KindTime:
		return append(buf, v.Time().Format(time.RFC3339)...)
	default:
		return append(buf, fmt.Sprintf("%v", v.Any())...)
	}
}

func needsQuoting(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '"', '=':
			return true
		}
	}
	return false
}

func (h *CompactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CompactHandler{
		opts:  h.opts,
		out:   h.out,
		attrs: append(h.attrs, attrs...),
		group: h.group,
	}
}

func (h *CompactHandler) WithGroup(name string) slog.Handler {
	return &CompactHandler{
		opts:  h.opts,
		out:   h.out,
		attrs: h.attrs,
		group: name,
	}
}
