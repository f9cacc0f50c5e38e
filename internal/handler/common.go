package handler

import (
	"errors"
	"net/http"
	"sync"

	"go-gin-event-calendar/internal/i18n"
	"go-gin-event-calendar/internal/model"
	apperrors "go-gin-event-calendar/pkg/app_errors"
	"go-gin-event-calendar/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var registerOnce sync.Once

// RegisterValidators 註冊自訂 binding 規則，重複呼叫只生效一次
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("event_status", func(fl validator.FieldLevel) bool {
			return model.EventStatus(fl.Field().String()).IsValid()
		})
	})
}

// idURI 路徑上的數字 id
type idURI struct {
	ID int `uri:"id" binding:"required,min=1"`
}

// responder 依 Accept-Language 產生在地化的回應訊息
type responder struct {
	localizer i18n.Localizer
}

func (r responder) locale(c *gin.Context) string {
	return r.localizer.Match(c.GetHeader("Accept-Language"))
}

func (r responder) message(c *gin.Context, key string, data map[string]any) string {
	return r.localizer.T(r.locale(c), key, data)
}

func (r responder) invalidRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": r.message(c, "validation.invalid_request", nil),
	})
}

func (r responder) BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		r.invalidRequest(c)
		return err
	}
	return nil
}

// Bind 依 Content-Type 解析 JSON 或表單
func (r responder) Bind(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBind(obj); err != nil {
		r.invalidRequest(c)
		return err
	}
	return nil
}

func (r responder) BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		r.invalidRequest(c)
		return err
	}
	return nil
}

func (r responder) BindUri(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindUri(obj); err != nil {
		r.invalidRequest(c)
		return err
	}
	return nil
}

type errorMapping struct {
	target error
	status int
	key    string
}

// 依序比對，第一個符合的決定狀態碼
var errorMappings = []errorMapping{
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "errors.unauthorized"},
	{apperrors.ErrEventNotFound, http.StatusNotFound, "errors.event_not_found"},
	{apperrors.ErrParticipationNotFound, http.StatusNotFound, "errors.participation_not_found"},
	{apperrors.ErrNotificationNotFound, http.StatusNotFound, "errors.notification_not_found"},
	{apperrors.ErrUserNotFound, http.StatusNotFound, "errors.user_not_found"},
	{apperrors.ErrForbiddenSelfParticipation, http.StatusForbidden, "errors.forbidden_self_participation"},
	{apperrors.ErrNotOrganizer, http.StatusForbidden, "errors.not_organizer"},
	{apperrors.ErrEventNotAvailable, http.StatusConflict, "errors.event_not_available"},
	{apperrors.ErrInvalidStatusTransition, http.StatusConflict, "errors.invalid_status_transition"},
	{apperrors.ErrParticipationExists, http.StatusConflict, "errors.participation_exists"},
	{apperrors.ErrInvalidInput, http.StatusBadRequest, "errors.invalid_input"},
}

func (r responder) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))

	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		log.Warn("Validation failed", zap.String("field", verr.Field))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": r.message(c, verr.MessageID, nil),
			"field": verr.Field,
		})
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			log.Warn(m.target.Error())
			c.JSON(m.status, gin.H{
				"error": r.message(c, m.key, nil),
			})
			return
		}
	}

	log.Error("Unexpected error")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": r.message(c, "errors.internal", nil),
	})
}
