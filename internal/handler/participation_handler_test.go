package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-gin-event-calendar/internal/model"
	apperrors "go-gin-event-calendar/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func participationResult(status model.ParticipationStatus, outcome model.ParticipationOutcome) *model.ParticipationResult {
	return &model.ParticipationResult{
		Participation: &model.Participation{ID: 7, EventID: 1, ParticipantID: 20, Status: status},
		Status:        status,
		Outcome:       outcome,
	}
}

func TestParticipate(t *testing.T) {
	t.Run("Success - redirects to the event", func(t *testing.T) {
		router, m := setupTestRouter()
		m.participations.On("Request", mock.Anything, model.Viewer{UserID: 20}, 1).
			Return(participationResult(model.ParticipationStatusAccepted, model.OutcomeCreated), nil).Once()

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/events/1/participate", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, asUser(t, req, 20))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/api/v1/events/1", w.Header().Get("Location"))
		body := decodeBody(t, w.Body)
		assert.Equal(t, "accepted", body["status"])
		assert.Equal(t, "created", body["outcome"])
		assert.Equal(t, "Your participation has been recorded.", body["message"])
		m.assertExpectations(t)
	})

	t.Run("Success - already participating is not an error", func(t *testing.T) {
		router, m := setupTestRouter()
		m.participations.On("Request", mock.Anything, model.Viewer{UserID: 20}, 1).
			Return(participationResult(model.ParticipationStatusAccepted, model.OutcomeAlreadyParticipating), nil).Once()

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/events/1/participate", nil)
		req.Header.Set("Accept-Language", "fr")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, asUser(t, req, 20))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "Vous participez déjà à cet événement.", decodeBody(t, w.Body)["message"])
		m.assertExpectations(t)
	})

	errorCases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"event full", apperrors.ErrEventNotAvailable, http.StatusConflict, "This event no longer accepts new participations."},
		{"organizer", apperrors.ErrForbiddenSelfParticipation, http.StatusForbidden, "You are the organizer of this event."},
		{"unknown event", apperrors.ErrEventNotFound, http.StatusNotFound, "Event not found."},
	}
	for _, tc := range errorCases {
		t.Run("Failed - "+tc.name, func(t *testing.T) {
			router, m := setupTestRouter()
			m.participations.On("Request", mock.Anything, model.Viewer{UserID: 20}, 1).Return(nil, tc.err).Once()

			req, _ := http.NewRequest(http.MethodPost, "/api/v1/events/1/participate", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, asUser(t, req, 20))

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.msg, decodeBody(t, w.Body)["error"])
			m.assertExpectations(t)
		})
	}

	t.Run("Failed - Unauthorized", func(t *testing.T) {
		router, m := setupTestRouter()

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/events/1/participate", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		m.participations.AssertNotCalled(t, "Request", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCancelParticipation(t *testing.T) {
	router, m := setupTestRouter()
	m.participations.On("Cancel", mock.Anything, model.Viewer{UserID: 20}, 1).
		Return(participationResult(model.ParticipationStatusCancelled, model.OutcomeCancelled), nil).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/events/1/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, asUser(t, req, 20))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", decodeBody(t, w.Body)["outcome"])
	m.assertExpectations(t)
}

func TestListParticipations(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, m := setupTestRouter()
		m.participations.On("ListForEvent", mock.Anything, model.Viewer{UserID: 10}, 1).Return([]*model.Participation{
			{ID: 7, EventID: 1, ParticipantID: 20, Status: model.ParticipationStatusPending},
		}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/events/1/participations", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, asUser(t, req, 10))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"pending"`)
		m.assertExpectations(t)
	})

	t.Run("Failed - NotOrganizer", func(t *testing.T) {
		router, m := setupTestRouter()
		m.participations.On("ListForEvent", mock.Anything, model.Viewer{UserID: 20}, 1).Return(nil, apperrors.ErrNotOrganizer).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/events/1/participations", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, asUser(t, req, 20))

		assert.Equal(t, http.StatusForbidden, w.Code)
		m.assertExpectations(t)
	})
}

func TestModerateParticipation(t *testing.T) {
	t.Run("Accept", func(t *testing.T) {
		router, m := setupTestRouter()
		m.participations.On("Accept", mock.Anything, model.Viewer{UserID: 10}, 7).
			Return(participationResult(model.ParticipationStatusAccepted, model.OutcomeAccepted), nil).Once()

		req, _ := http.NewRequest(http.MethodPut, "/api/v1/participations/7/accept", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, asUser(t, req, 10))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "The participation has been accepted.", decodeBody(t, w.Body)["message"])
		m.assertExpectations(t)
	})

	t.Run("Reject - invalid transition", func(t *testing.T) {
		router, m := setupTestRouter()
		m.participations.On("Reject", mock.Anything, model.Viewer{UserID: 10}, 7).Return(nil, apperrors.ErrInvalidStatusTransition).Once()

		req, _ := http.NewRequest(http.MethodPut, "/api/v1/participations/7/reject", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, asUser(t, req, 10))

		assert.Equal(t, http.StatusConflict, w.Code)
		m.assertExpectations(t)
	})

	t.Run("Invalid id", func(t *testing.T) {
		router, m := setupTestRouter()

		req, _ := http.NewRequest(http.MethodPut, "/api/v1/participations/0/accept", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, asUser(t, req, 10))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		m.participations.AssertNotCalled(t, "Accept", mock.Anything, mock.Anything, mock.Anything)
	})
}
