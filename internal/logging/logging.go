package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	slogseq "github.com/sokkalf/slog-seq"

	"github.com/leengari/primitive-db/internal/config"
)

// multiHandler forwards log records to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	// Enable if any handler is enabled for this level
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// SetupLogger builds the logger described by cfg and returns a cleanup
// function. Console output goes to stderr so it never mixes with command
// output; a Seq sink is added when cfg.SeqURL is set.
func SetupLogger(cfg config.LogConfig) (*slog.Logger, func(), error) {
	return setupLogger(cfg, os.Stderr)
}

func setupLogger(cfg config.LogConfig, console io.Writer) (*slog.Logger, func(), error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}

	// Console handler
	consoleHandler := slog.NewTextHandler(console, &slog.HandlerOptions{
		Level: level,
	})

	if cfg.SeqURL == "" {
		return slog.New(consoleHandler), func() {}, nil
	}

	// Seq handler
	_, seqHandler := slogseq.NewLogger(
		cfg.SeqURL,
		slogseq.WithBatchSize(1),
		slogseq.WithFlushInterval(500*time.Millisecond),
		slogseq.WithHandlerOptions(&slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		}),
	)

	// If Seq is not available, use console only
	if seqHandler == nil {
		return slog.New(consoleHandler), func() {}, nil
	}

	// Combine both handlers
	multi := &multiHandler{
		handlers: []slog.Handler{consoleHandler, seqHandler},
	}

	closeFn := func() {
		seqHandler.Close()
	}

	return slog.New(multi), closeFn, nil
}
