package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminationRecord_ChooseOnce(t *testing.T) {
	now := time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC)
	r := &TerminationRecord{ID: "t1", FinalChoice: ChoicePending}
	require.True(t, r.Pending())

	require.NoError(t, r.Choose(ChoiceRedesign, now))
	assert.False(t, r.Pending())
	assert.Equal(t, ChoiceRedesign, r.FinalChoice)
	assert.Equal(t, now, *r.RespondedAt)

	err := r.Choose(ChoicePause, now.Add(time.Hour))
	assert.ErrorIs(t, err, ErrAlreadyResolved)
	assert.Equal(t, ChoiceRedesign, r.FinalChoice)
}

func TestTerminationRecord_ChooseRejectsPending(t *testing.T) {
	r := &TerminationRecord{ID: "t1", FinalChoice: ChoicePending}
	assert.ErrorIs(t, r.Choose(ChoicePending, time.Now()), ErrInvalidChoice)
	assert.True(t, r.Pending())
}
