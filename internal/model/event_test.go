package model

import (
	"testing"
	"time"

	apperrors "go-gin-event-calendar/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_IsAvailable(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	base := Event{
		StartAt:         now.Add(time.Hour),
		EndAt:           now.Add(2 * time.Hour),
		MaxParticipants: 2,
		Status:          EventStatusPublished,
	}

	testCases := []struct {
		name     string
		mutate   func(e *Event)
		accepted int
		expected bool
	}{
		{name: "Published future with room", mutate: func(e *Event) {}, accepted: 1, expected: true},
		{name: "Full", mutate: func(e *Event) {}, accepted: 2, expected: false},
		{name: "Over capacity", mutate: func(e *Event) {}, accepted: 3, expected: false},
		{name: "Draft", mutate: func(e *Event) { e.Status = EventStatusDraft }, accepted: 0, expected: false},
		{name: "Cancelled", mutate: func(e *Event) { e.Status = EventStatusCancelled }, accepted: 0, expected: false},
		{name: "Completed", mutate: func(e *Event) { e.Status = EventStatusCompleted }, accepted: 0, expected: false},
		{name: "Ended exactly now", mutate: func(e *Event) { e.StartAt = now.Add(-time.Hour); e.EndAt = now }, accepted: 0, expected: false},
		{name: "Ended in the past", mutate: func(e *Event) { e.StartAt = now.Add(-2 * time.Hour); e.EndAt = now.Add(-time.Hour) }, accepted: 0, expected: false},
		{name: "Ongoing", mutate: func(e *Event) { e.StartAt = now.Add(-time.Hour) }, accepted: 0, expected: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := base
			tc.mutate(&e)
			assert.Equal(t, tc.expected, e.IsAvailable(now, tc.accepted))
		})
	}
}

func TestEvent_Validate(t *testing.T) {
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	valid := Event{
		Title:           "Team sync",
		StartAt:         start,
		EndAt:           start.Add(time.Hour),
		MaxParticipants: 1,
		Status:          EventStatusPublished,
	}

	t.Run("Success", func(t *testing.T) {
		require.NoError(t, valid.Validate())
	})

	t.Run("EndEqualsStart", func(t *testing.T) {
		e := valid
		e.EndAt = e.StartAt

		err := e.Validate()

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		var vErr *apperrors.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "end_at", vErr.Field)
		assert.Equal(t, "validation.end_before_start", vErr.MessageID)
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		e := valid
		e.EndAt = e.StartAt.Add(-time.Minute)
		assert.ErrorIs(t, e.Validate(), apperrors.ErrValidation)
	})

	t.Run("MissingTitle", func(t *testing.T) {
		e := valid
		e.Title = "   "
		assert.ErrorIs(t, e.Validate(), apperrors.ErrValidation)
	})

	t.Run("ZeroCapacity", func(t *testing.T) {
		e := valid
		e.MaxParticipants = 0
		assert.ErrorIs(t, e.Validate(), apperrors.ErrValidation)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		e := valid
		e.Status = "archived"
		assert.ErrorIs(t, e.Validate(), apperrors.ErrValidation)
	})
}

func TestParseLocalDateTime(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		got, err := ParseLocalDateTime("2026-07-14T09:30", paris)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 7, 14, 7, 30, 0, 0, time.UTC), got.UTC())
	})

	t.Run("NilLocationIsUTC", func(t *testing.T) {
		got, err := ParseLocalDateTime("2026-07-14T09:30", nil)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 7, 14, 9, 30, 0, 0, time.UTC), got)
	})

	t.Run("InvalidFormat", func(t *testing.T) {
		_, err := ParseLocalDateTime("14/07/2026 09:30", paris)

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestUpdateEventParams_Apply(t *testing.T) {
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	e := Event{Title: "Old", StartAt: start, EndAt: start.Add(time.Hour), MaxParticipants: 5}

	assert.True(t, UpdateEventParams{}.IsEmpty())

	title := "New"
	end := start.Add(-time.Hour)
	params := UpdateEventParams{Title: &title, EndAt: &end}

	updated := params.Apply(e)

	assert.False(t, params.IsEmpty())
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, end, updated.EndAt)
	assert.Equal(t, "Old", e.Title, "original must stay untouched")
	assert.ErrorIs(t, updated.Validate(), apperrors.ErrValidation)
}
