package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Alerter получает сообщения об ошибках уровня Error и выше
type Alerter interface {
	SendAlert(msg string) error
}

type TelegramHandler struct {
	slog.Handler
	tg Alerter
}

func (h *TelegramHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError && h.tg != nil {
		msg := r.Message
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == "error" {
				msg += ": " + a.Value.String()
				return false
			}
			return true
		})
		if err := h.tg.SendAlert(msg); err != nil {
			// Пишем напрямую в stderr, чтобы не уйти в рекурсию через h.Handler
			os.Stderr.WriteString("Failed to send telegram alert: " + err.Error() + "\n")
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *TelegramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TelegramHandler{
		Handler: h.Handler.WithAttrs(attrs),
		tg:      h.tg,
	}
}

func (h *TelegramHandler) WithGroup(name string) slog.Handler {
	return &TelegramHandler{
		Handler: h.Handler.WithGroup(name),
		tg:      h.tg,
	}
}

func New(tg Alerter) *slog.Logger {
	return NewWithWriter(os.Stdout, tg)
}

func NewWithWriter(w io.Writer, tg Alerter) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	jsonHandler := slog.NewJSONHandler(w, opts)
	tgHandler := &TelegramHandler{
		Handler: jsonHandler,
		tg:      tg,
	}
	return slog.New(tgHandler)
}

type ctxKey struct{}

func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
