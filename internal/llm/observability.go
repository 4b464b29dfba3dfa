package llm

import (
	"io"
	"log/slog"
)

// CallEvent describes one finished Generate call.
type CallEvent struct {
	Task      TaskType
	Model     string
	LatencyMs int64
	Attempts  int
	Success   bool
	ErrorCode string
}

type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver reports calls as structured llm_call records.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{logger: slog.New(slog.NewTextHandler(w, nil))}
}

func (o *LogObserver) OnCallComplete(e CallEvent) {
	attrs := []any{
		"task", string(e.Task),
		"model", e.Model,
		"latency_ms", e.LatencyMs,
		"attempts", e.Attempts,
	}
	if !e.Success {
		o.logger.Warn("llm_call", append(attrs, "status", "err", "error_code", e.ErrorCode)...)
		return
	}
	o.logger.Info("llm_call", append(attrs, "status", "ok")...)
}

type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
