package handler

import (
	"net/http"

	"go-gin-event-calendar/internal/i18n"
	"go-gin-event-calendar/internal/middleware"
	"go-gin-event-calendar/internal/model"
	"go-gin-event-calendar/internal/service"

	"github.com/gin-gonic/gin"
)

type ParticipationHandler struct {
	responder
	service service.ParticipationService
}

func NewParticipationHandler(service service.ParticipationService, localizer i18n.Localizer) *ParticipationHandler {
	return &ParticipationHandler{
		responder: responder{localizer: localizer},
		service:   service,
	}
}

func (h *ParticipationHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1", middleware.RequireViewer())
	{
		router.POST("events/:id/participate", h.Participate)
		router.POST("events/:id/cancel", h.Cancel)
		router.GET("events/:id/participations", h.ListForEvent)
		router.PUT("participations/:id/accept", h.Accept)
		router.PUT("participations/:id/reject", h.Reject)
	}
}

// ParticipationResponse 報名結果與在地化訊息
type ParticipationResponse struct {
	Status        model.ParticipationStatus  `json:"status"`
	Outcome       model.ParticipationOutcome `json:"outcome"`
	Message       string                     `json:"message"`
	Participation *model.Participation       `json:"participation,omitempty"`
}

func (h *ParticipationHandler) toResponse(c *gin.Context, result *model.ParticipationResult) ParticipationResponse {
	return ParticipationResponse{
		Status:        result.Status,
		Outcome:       result.Outcome,
		Message:       h.message(c, result.Outcome.MessageID(), nil),
		Participation: result.Participation,
	}
}

// Participate 結果一律以 303 導回活動詳情
func (h *ParticipationHandler) Participate(c *gin.Context) {
	var uri idURI
	if err := h.BindUri(c, &uri); err != nil {
		return
	}
	result, err := h.service.Request(c, middleware.ViewerFrom(c), uri.ID)
	if err != nil {
		h.handleError(c, err, "Participate")
		return
	}

	c.Header("Location", model.EventURL(uri.ID))
	c.JSON(http.StatusSeeOther, h.toResponse(c, result))
}

func (h *ParticipationHandler) Cancel(c *gin.Context) {
	var uri idURI
	if err := h.BindUri(c, &uri); err != nil {
		return
	}
	result, err := h.service.Cancel(c, middleware.ViewerFrom(c), uri.ID)
	if err != nil {
		h.handleError(c, err, "Cancel")
		return
	}
	c.JSON(http.StatusOK, h.toResponse(c, result))
}

func (h *ParticipationHandler) ListForEvent(c *gin.Context) {
	var uri idURI
	if err := h.BindUri(c, &uri); err != nil {
		return
	}
	participations, err := h.service.ListForEvent(c, middleware.ViewerFrom(c), uri.ID)
	if err != nil {
		h.handleError(c, err, "ListForEvent")
		return
	}
	c.JSON(http.StatusOK, participations)
}

func (h *ParticipationHandler) Accept(c *gin.Context) {
	var uri idURI
	if err := h.BindUri(c, &uri); err != nil {
		return
	}
	result, err := h.service.Accept(c, middleware.ViewerFrom(c), uri.ID)
	if err != nil {
		h.handleError(c, err, "Accept")
		return
	}
	c.JSON(http.StatusOK, h.toResponse(c, result))
}

func (h *ParticipationHandler) Reject(c *gin.Context) {
	var uri idURI
	if err := h.BindUri(c, &uri); err != nil {
		return
	}
	result, err := h.service.Reject(c, middleware.ViewerFrom(c), uri.ID)
	if err != nil {
		h.handleError(c, err, "Reject")
		return
	}
	c.JSON(http.StatusOK, h.toResponse(c, result))
}
