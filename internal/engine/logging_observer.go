package engine

import "log/slog"

// LoggingObserver writes every lifecycle event to a slog logger at debug level
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver logs to logger, or to slog.Default() when logger is nil
func NewLoggingObserver(logger *slog.Logger) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{logger: logger.With(slog.String("component", "engine"))}
}

func (lo *LoggingObserver) OnEvent(event Event) {
	attrs := []any{
		slog.String("event", string(event.Type)),
		slog.String("exec_id", event.ExecID),
	}
	switch d := event.Data.(type) {
	case nil:
	case error:
		attrs = append(attrs, slog.String("error", d.Error()))
	default:
		attrs = append(attrs, slog.Any("data", d))
	}
	lo.logger.Debug("command_lifecycle", attrs...)
}
