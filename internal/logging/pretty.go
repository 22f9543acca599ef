package logging

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/fatih/color"
)

// PrettyHandler is slog's text handler with the level moved to the front of
// the line as a coloured tag:
//
//	WARN time=2025-01-01T15:04:05.000Z msg=careful op=services.UserService.Login
type PrettyHandler struct {
	slog.Handler
	w  io.Writer
	mu *sync.Mutex
}

func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	var o slog.HandlerOptions
	if opts != nil {
		o = *opts
	}
	o.ReplaceAttr = withoutLevel(o.ReplaceAttr)

	return &PrettyHandler{Handler: slog.NewTextHandler(w, &o), w: w, mu: &sync.Mutex{}}
}

func (h *PrettyHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := io.WriteString(h.w, levelTag(r.Level)+" "); err != nil {
		return err
	}
	return h.Handler.Handle(ctx, r)
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &PrettyHandler{Handler: h.Handler.WithAttrs(attrs), w: h.w, mu: h.mu}
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{Handler: h.Handler.WithGroup(name), w: h.w, mu: h.mu}
}

func levelTag(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return color.RedString(l.String())
	case l >= slog.LevelWarn:
		return color.YellowString(l.String())
	case l >= slog.LevelInfo:
		return color.BlueString(l.String())
	default:
		return color.MagentaString(l.String())
	}
}

// withoutLevel drops the built-in level attribute, which the tag replaces.
func withoutLevel(next func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 && a.Key == slog.LevelKey {
			return slog.Attr{}
		}
		if next != nil {
			return next(groups, a)
		}
		return a
	}
}
