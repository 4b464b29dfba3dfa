package llm

import (
	"os"
	"strconv"
	"time"
)

// TaskType identifies the kind of generation being requested. Each task has
// its own sampling parameters and timeout.
type TaskType string

const (
	// TaskReport writes the Day-21 "mirror" feedback paragraph.
	TaskReport TaskType = "report"
	// TaskNudge writes the one-line note shown with a violation warning.
	TaskNudge TaskType = "nudge"
)

type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration // zero falls back to LLMConfig.Timeout
}

type LLMConfig struct {
	Enabled    bool
	LogCalls   bool
	Endpoint   string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig has the LLM switched off; every caller has a deterministic
// fallback.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		Timeout:    10 * time.Second,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskReport: {Temperature: 0.4, MaxTokens: 768, Timeout: 20 * time.Second},
			TaskNudge:  {Temperature: 0.5, MaxTokens: 128, Timeout: 5 * time.Second},
		},
	}
}

// LoadConfig overlays MIRROR_LLM_* environment variables on DefaultConfig.
// Malformed values are ignored.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	envBool("MIRROR_LLM_ENABLED", &cfg.Enabled)
	envBool("MIRROR_LLM_LOG_CALLS", &cfg.LogCalls)
	if v := os.Getenv("MIRROR_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("MIRROR_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	envDuration("MIRROR_LLM_TIMEOUT", &cfg.Timeout)
	if n, err := strconv.Atoi(os.Getenv("MIRROR_LLM_MAX_RETRIES")); err == nil && n >= 0 {
		cfg.MaxRetries = n
	}

	for task, name := range map[TaskType]string{
		TaskReport: "MIRROR_LLM_REPORT_TIMEOUT",
		TaskNudge:  "MIRROR_LLM_NUDGE_TIMEOUT",
	} {
		tc := cfg.Tasks[task]
		envDuration(name, &tc.Timeout)
		cfg.Tasks[task] = tc
	}
	return cfg
}

// TaskTimeout returns the task's own timeout, or the global one.
func (c LLMConfig) TaskTimeout(task TaskType) time.Duration {
	if tc, ok := c.Tasks[task]; ok && tc.Timeout > 0 {
		return tc.Timeout
	}
	return c.Timeout
}

func envBool(name string, dst *bool) {
	if b, err := strconv.ParseBool(os.Getenv(name)); err == nil {
		*dst = b
	}
}

// envDuration accepts Go durations ("15s") or bare milliseconds ("15000").
func envDuration(name string, dst *time.Duration) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		*dst = d
		return
	}
	if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
		*dst = time.Duration(ms) * time.Millisecond
	}
}
