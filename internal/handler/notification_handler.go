package handler

import (
	"net/http"

	"go-gin-event-calendar/internal/i18n"
	"go-gin-event-calendar/internal/middleware"
	"go-gin-event-calendar/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	responder
	service service.NotificationService
}

func NewNotificationHandler(service service.NotificationService, localizer i18n.Localizer) *NotificationHandler {
	return &NotificationHandler{
		responder: responder{localizer: localizer},
		service:   service,
	}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1", middleware.RequireViewer())
	{
		router.GET("notifications", h.List)
		router.PUT("notifications/:id/read", h.MarkRead)
	}
}

type ListNotificationsRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

func (h *NotificationHandler) List(c *gin.Context) {
	var req ListNotificationsRequest
	if err := h.BindQuery(c, &req); err != nil {
		return
	}
	notifications, err := h.service.ListForViewer(c, middleware.ViewerFrom(c), req.Limit)
	if err != nil {
		h.handleError(c, err, "List")
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	var uri idURI
	if err := h.BindUri(c, &uri); err != nil {
		return
	}
	if err := h.service.MarkRead(c, middleware.ViewerFrom(c), uri.ID); err != nil {
		h.handleError(c, err, "MarkRead")
		return
	}
	c.Status(http.StatusNoContent)
}
