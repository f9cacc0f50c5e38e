package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go-gin-event-calendar/internal/i18n"
	"go-gin-event-calendar/internal/middleware"
	"go-gin-event-calendar/internal/model"
	"go-gin-event-calendar/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	responder
	service service.EventService
	loc     *time.Location
}

func NewEventHandler(service service.EventService, localizer i18n.Localizer, loc *time.Location) *EventHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &EventHandler{
		responder: responder{localizer: localizer},
		service:   service,
		loc:       loc,
	}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("events/feed", h.Feed)
		router.GET("events/feed.ics", h.FeedICS)
		router.GET("events/:id", h.GetDetail)
		router.GET("events/:id/ics", h.GetICS)
		router.POST("events", middleware.RequireViewer(), h.Create)
		router.PUT("events/:id", middleware.RequireViewer(), h.Update)
		router.DELETE("events/:id", middleware.RequireViewer(), h.Delete)
	}
}

// FeedQueryRequest 行事曆 feed 的查詢參數；無法解析的 start/end 會被忽略
type FeedQueryRequest struct {
	Start    string `form:"start"`
	End      string `form:"end"`
	Filter   string `form:"filter"`
	Upcoming string `form:"upcoming"`
}

func (req FeedQueryRequest) toQuery(loc *time.Location) model.FeedQuery {
	q := model.FeedQuery{
		Filter:       model.ParseFeedFilter(req.Filter),
		UpcomingOnly: parseFlag(req.Upcoming),
	}
	start, okStart := model.ParseWindowBound(req.Start, loc)
	end, okEnd := model.ParseWindowBound(req.End, loc)
	if okStart && okEnd {
		q.WindowStart = &start
		q.WindowEnd = &end
	}
	return q
}

// parseFlag 空字串為 false，其他無法解析的值視為 true
func parseFlag(v string) bool {
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return true
	}
	return b
}

// CreateEventRequest 建立活動請求，接受 JSON 或表單；時間為 datetime-local 格式
type CreateEventRequest struct {
	Title           string             `json:"title" form:"title"`
	Description     string             `json:"description" form:"description"`
	Location        string             `json:"location" form:"location"`
	StartAt         string             `json:"start_at" form:"start_at"`
	EndAt           string             `json:"end_at" form:"end_at"`
	MaxParticipants *int               `json:"max_participants" form:"max_participants"`
	Status          *model.EventStatus `json:"status" form:"status" binding:"omitempty,event_status"`
}

// UpdateEventRequest 更新活動請求，未提供的欄位維持原值
type UpdateEventRequest struct {
	Title           *string            `json:"title"`
	Description     *string            `json:"description"`
	Location        *string            `json:"location"`
	StartAt         *string            `json:"start_at"`
	EndAt           *string            `json:"end_at"`
	MaxParticipants *int               `json:"max_participants"`
	Status          *model.EventStatus `json:"status" binding:"omitempty,event_status"`
}

type EventCreatedResponse struct {
	Event   *model.Event `json:"event"`
	Message string       `json:"message"`
}

func (h *EventHandler) Feed(c *gin.Context) {
	var req FeedQueryRequest
	if err := h.BindQuery(c, &req); err != nil {
		return
	}
	items, err := h.service.ListFeed(c, middleware.ViewerFrom(c), req.toQuery(h.loc))
	if err != nil {
		h.handleError(c, err, "Feed")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *EventHandler) FeedICS(c *gin.Context) {
	var req FeedQueryRequest
	if err := h.BindQuery(c, &req); err != nil {
		return
	}
	items, err := h.service.ListFeed(c, middleware.ViewerFrom(c), req.toQuery(h.loc))
	if err != nil {
		h.handleError(c, err, "FeedICS")
		return
	}

	entries := make([]calendarEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, calendarEntry{
			UID:         item.EventID,
			Title:       item.Title,
			Description: item.ExtendedProps.Description,
			Location:    item.Location,
			Organizer:   item.Organizer,
			URL:         item.URL,
			Start:       item.Start,
			End:         item.End,
		})
	}
	writeCalendar(c, renderCalendar(entries, time.Now()), "calendar.ics")
}

func (h *EventHandler) GetDetail(c *gin.Context) {
	var uri idURI
	if err := h.BindUri(c, &uri); err != nil {
		return
	}
	detail, err := h.service.GetDetail(c, middleware.ViewerFrom(c), uri.ID)
	if err != nil {
		h.handleError(c, err, "GetDetail")
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *EventHandler) GetICS(c *gin.Context) {
	var uri idURI
	if err := h.BindUri(c, &uri); err != nil {
		return
	}
	detail, err := h.service.GetDetail(c, middleware.ViewerFrom(c), uri.ID)
	if err != nil {
		h.handleError(c, err, "GetICS")
		return
	}

	e := detail.Event
	body := renderCalendar([]calendarEntry{{
		UID:         e.EventID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		Organizer:   detail.OrganizerName,
		URL:         model.EventURL(e.ID),
		Start:       e.StartAt,
		End:         e.EndAt,
		Updated:     e.UpdatedAt,
	}}, time.Now())
	writeCalendar(c, body, icsFileName(e.Title, fmt.Sprintf("event-%d", e.ID)))
}

func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := h.Bind(c, &req); err != nil {
		return
	}
	created, err := h.service.Create(c, middleware.ViewerFrom(c), model.CreateEventInput{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		StartAt:         req.StartAt,
		EndAt:           req.EndAt,
		MaxParticipants: req.MaxParticipants,
		Status:          req.Status,
	})
	if err != nil {
		h.handleError(c, err, "Create")
		return
	}

	c.Header("Location", model.EventURL(created.ID))
	c.JSON(http.StatusCreated, EventCreatedResponse{
		Event:   created,
		Message: h.message(c, "event.created", map[string]any{"Title": created.Title}),
	})
}

func (h *EventHandler) Update(c *gin.Context) {
	var uri idURI
	if err := h.BindUri(c, &uri); err != nil {
		return
	}
	var req UpdateEventRequest
	if err := h.BindJson(c, &req); err != nil {
		return
	}
	updated, err := h.service.Update(c, middleware.ViewerFrom(c), uri.ID, model.UpdateEventInput{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		StartAt:         req.StartAt,
		EndAt:           req.EndAt,
		MaxParticipants: req.MaxParticipants,
		Status:          req.Status,
	})
	if err != nil {
		h.handleError(c, err, "Update")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *EventHandler) Delete(c *gin.Context) {
	var uri idURI
	if err := h.BindUri(c, &uri); err != nil {
		return
	}
	if err := h.service.Delete(c, middleware.ViewerFrom(c), uri.ID); err != nil {
		h.handleError(c, err, "Delete")
		return
	}
	c.Status(http.StatusNoContent)
}
