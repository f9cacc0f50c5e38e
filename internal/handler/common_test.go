package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"go-gin-event-calendar/internal/handler"
	"go-gin-event-calendar/internal/i18n"
	"go-gin-event-calendar/internal/middleware"
	"go-gin-event-calendar/internal/service/mocks"

	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret"

var (
	InvalidJSON = `{"invalid": json}`
	translator  = i18n.NewTranslator("en")
	paris       = time.FixedZone("CET", 3600)
)

type serviceMocks struct {
	events         *mocks.EventServiceMock
	participations *mocks.ParticipationServiceMock
	notifications  *mocks.NotificationServiceMock
}

func (m *serviceMocks) assertExpectations(t *testing.T) {
	m.events.AssertExpectations(t)
	m.participations.AssertExpectations(t)
	m.notifications.AssertExpectations(t)
}

func setupTestRouter() (*gin.Engine, *serviceMocks) {
	gin.SetMode(gin.TestMode)
	handler.RegisterValidators()

	m := &serviceMocks{
		events:         mocks.NewEventServiceMock(),
		participations: mocks.NewParticipationServiceMock(),
		notifications:  mocks.NewNotificationServiceMock(),
	}

	router := gin.New()
	router.Use(middleware.Viewer(testSecret))
	handler.NewEventHandler(m.events, translator, paris).RegisterRoutes(router)
	handler.NewParticipationHandler(m.participations, translator).RegisterRoutes(router)
	handler.NewNotificationHandler(m.notifications, translator).RegisterRoutes(router)

	return router, m
}

// create JSON request body
func createJSONRequest(data interface{}) *bytes.Buffer {
	if s, ok := data.(string); ok {
		return bytes.NewBufferString(s)
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return bytes.NewBuffer([]byte(""))
	}
	return bytes.NewBuffer(jsonData)
}

// create HTTP request with JSON body
func createJSONHTTPRequest(method, url string, data interface{}) *http.Request {
	req, err := http.NewRequest(method, url, createJSONRequest(data))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asUser 加上指定使用者的 Bearer token
func asUser(t *testing.T, req *http.Request, userID int) *http.Request {
	t.Helper()
	token, err := middleware.IssueToken(testSecret, userID, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func decodeBody(t *testing.T, body *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(body.Bytes(), &out); err != nil {
		t.Fatalf("Failed to decode body %q: %v", body.String(), err)
	}
	return out
}
