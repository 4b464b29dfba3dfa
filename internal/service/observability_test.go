package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureObserver struct {
	events []UseCaseEvent
}

func (c *captureObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	c.events = append(c.events, e)
}

func TestObserve_ReportsDeferredError(t *testing.T) {
	obs := &captureObserver{}
	run := func() (err error) {
		defer observe(context.Background(), obs, "demo", time.Now(), map[string]any{"user_id": "u1"}, &err)
		return errors.New("boom")
	}
	require.Error(t, run())

	require.Len(t, obs.events, 1)
	e := obs.events[0]
	assert.Equal(t, "demo", e.Name)
	assert.False(t, e.Success)
	assert.EqualError(t, e.Err, "boom")
	assert.Equal(t, "u1", e.Fields["user_id"])
}

func TestLogUseCaseObserver_WritesRecord(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(slog.New(slog.NewJSONHandler(&buf, nil)))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "metrics",
		Duration: 3 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"user_id": "u1"},
	})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "service_use_case", rec["msg"])
	assert.Equal(t, "metrics", rec["use_case"])
	assert.Equal(t, "u1", rec["user_id"])
	assert.Equal(t, "INFO", rec["level"])
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))

	obs := &captureObserver{}
	assert.Same(t, obs, useCaseObserverOrNoop([]UseCaseObserver{nil, obs}))
}
