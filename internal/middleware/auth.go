package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-gin-event-calendar/internal/model"
	"go-gin-event-calendar/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const viewerKey = "viewer"

var errInvalidSubject = errors.New("invalid token subject")

// IssueToken 簽發 HS256 token，sub 為使用者 id
func IssueToken(secret string, userID int, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken 驗證簽章與期限，回傳 sub 中的使用者 id
func ParseToken(secret, token string) (int, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil || id <= 0 {
		return 0, errInvalidSubject
	}
	return id, nil
}

// Viewer 解析選用的 Bearer token；沒有 token 視為未登入，token 無效回傳 401
func Viewer(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Set(viewerKey, model.Viewer{})
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abortUnauthorized(c, "malformed authorization header")
			return
		}

		userID, err := ParseToken(secret, strings.TrimSpace(token))
		if err != nil {
			logger.WithComponent("middleware").Warn("invalid token", zap.Error(err))
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(viewerKey, model.Viewer{UserID: userID})
		c.Next()
	}
}

// RequireViewer 必須在 Viewer 之後使用
func RequireViewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ViewerFrom(c).Authenticated() {
			abortUnauthorized(c, "authentication required")
			return
		}
		c.Next()
	}
}

// ViewerFrom 沒有經過 Viewer middleware 時回傳未登入的觀看者
func ViewerFrom(c *gin.Context) model.Viewer {
	if v, ok := c.Get(viewerKey); ok {
		if viewer, ok := v.(model.Viewer); ok {
			return viewer
		}
	}
	return model.Viewer{}
}

func abortUnauthorized(c *gin.Context, reason string) {
	c.Header("WWW-Authenticate", `Bearer realm="calendar"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": reason})
}
