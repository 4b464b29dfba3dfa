package llm

import "errors"

var (
	// ErrDisabled is returned when LLM use is switched off in config.
	ErrDisabled = errors.New("llm disabled")

	// ErrUnavailable means the Ollama server could not be reached.
	ErrUnavailable = errors.New("ollama server unavailable")

	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput means the model answered but not in the requested shape.
	ErrInvalidOutput = errors.New("invalid llm output")

	ErrRetryExhausted = errors.New("llm retry attempts exhausted")
)

// errorCode is the short label reported to observers for a failed call.
func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}
