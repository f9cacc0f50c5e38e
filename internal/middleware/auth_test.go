package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-gin-event-calendar/internal/middleware"
	"go-gin-event-calendar/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append([]gin.HandlerFunc{middleware.Viewer(secret)}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": middleware.ViewerFrom(c).UserID})
	})
	r.GET("/whoami", chain...)
	return r
}

func request(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIssueAndParseToken(t *testing.T) {
	token, err := middleware.IssueToken(secret, 42, time.Hour)
	require.NoError(t, err)

	id, err := middleware.ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	_, err = middleware.ParseToken("other-secret", token)
	assert.Error(t, err)

	expired, err := middleware.IssueToken(secret, 42, -time.Minute)
	require.NoError(t, err)
	_, err = middleware.ParseToken(secret, expired)
	assert.Error(t, err)
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{Subject: "42", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = middleware.ParseToken(secret, token)
	assert.Error(t, err)
}

func TestParseToken_RejectsBadSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{Subject: "alice", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = middleware.ParseToken(secret, token)
	assert.Error(t, err)
}

func TestViewer(t *testing.T) {
	r := setupRouter()

	t.Run("anonymous", func(t *testing.T) {
		w := request(r, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":0}`, w.Body.String())
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := middleware.IssueToken(secret, 7, time.Hour)
		require.NoError(t, err)

		w := request(r, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
	})

	t.Run("invalid token", func(t *testing.T) {
		w := request(r, "Bearer not-a-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
	})

	t.Run("malformed header", func(t *testing.T) {
		w := request(r, "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireViewer(t *testing.T) {
	r := setupRouter(middleware.RequireViewer())

	w := request(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := middleware.IssueToken(secret, 3, time.Hour)
	require.NoError(t, err)
	w = request(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestViewerFrom_WithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, model.Viewer{}, middleware.ViewerFrom(c))
}

func TestRequestLogger(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for path, want := range map[string]int{"/boom": http.StatusInternalServerError, "/ok": http.StatusNoContent} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code)
	}
}
