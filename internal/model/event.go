package model

import (
	"strings"
	"time"

	apperrors "go-gin-event-calendar/pkg/app_errors"

	"github.com/google/uuid"
)

// EventStatus 活動狀態類型
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

// DefaultMaxParticipants 建立活動時未指定人數上限的預設值
const DefaultMaxParticipants = 20

// LocalDateTimeLayout 對應 HTML datetime-local 欄位格式
const LocalDateTimeLayout = "2006-01-02T15:04"

// IsValid 驗證狀態是否有效
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCancelled, EventStatusCompleted:
		return true
	}
	return false
}

type Event struct {
	ID              int         `json:"id" db:"id"`
	EventID         uuid.UUID   `json:"event_id" db:"event_id"`
	Title           string      `json:"title" db:"title"`
	Description     string      `json:"description" db:"description"`
	Location        string      `json:"location" db:"location"`
	StartAt         time.Time   `json:"start_at" db:"start_at"`
	EndAt           time.Time   `json:"end_at" db:"end_at"`
	MaxParticipants int         `json:"max_participants" db:"max_participants"`
	OrganizerID     int         `json:"organizer_id" db:"organizer_id"`
	Status          EventStatus `json:"status" db:"status"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`

	Organizer *User `json:"organizer,omitempty" db:"-"`
}

// IsPast 結束時間已到（含剛好等於 now）
func (e *Event) IsPast(now time.Time) bool {
	return !e.EndAt.After(now)
}

// IsUpcoming 開始時間在 now 之後（含 now）
func (e *Event) IsUpcoming(now time.Time) bool {
	return !e.StartAt.Before(now)
}

func (e *Event) IsOngoing(now time.Time) bool {
	return !now.Before(e.StartAt) && now.Before(e.EndAt)
}

func (e *Event) Duration() time.Duration {
	return e.EndAt.Sub(e.StartAt)
}

// IsAvailable 檢查活動是否仍接受報名：已發布、未結束、且名額未滿
func (e *Event) IsAvailable(now time.Time, acceptedCount int) bool {
	return e.Status == EventStatusPublished &&
		!e.IsPast(now) &&
		acceptedCount < e.MaxParticipants
}

// AvailableSpots = max_participants - accepted
func (e *Event) AvailableSpots(acceptedCount int) int {
	return e.MaxParticipants - acceptedCount
}

func (e *Event) IsOrganizedBy(userID int) bool {
	return userID > 0 && e.OrganizerID == userID
}

// Validate 寫入前檢查；結束時間必須嚴格晚於開始時間
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return apperrors.NewValidationError("title", "validation.required_fields")
	}
	if e.StartAt.IsZero() || e.EndAt.IsZero() {
		return apperrors.NewValidationError("start_at", "validation.required_fields")
	}
	if !e.EndAt.After(e.StartAt) {
		return apperrors.NewValidationError("end_at", "validation.end_before_start")
	}
	if e.MaxParticipants < 1 {
		return apperrors.NewValidationError("max_participants", "validation.max_participants")
	}
	if !e.Status.IsValid() {
		return apperrors.NewValidationError("status", "validation.status")
	}
	return nil
}

// ParseLocalDateTime 以指定時區解析 datetime-local 字串
func ParseLocalDateTime(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(LocalDateTimeLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("datetime", "validation.datetime_format")
	}
	return t, nil
}

// CreateEventInput 建立活動的表單輸入，時間為 datetime-local 字串
type CreateEventInput struct {
	Title           string
	Description     string
	Location        string
	StartAt         string
	EndAt           string
	MaxParticipants *int
	Status          *EventStatus
}

// UpdateEventInput 更新活動的表單輸入，nil 表示不修改
type UpdateEventInput struct {
	Title           *string
	Description     *string
	Location        *string
	StartAt         *string
	EndAt           *string
	MaxParticipants *int
	Status          *EventStatus
}

type UpdateEventParams struct {
	Title           *string
	Description     *string
	Location        *string
	StartAt         *time.Time
	EndAt           *time.Time
	MaxParticipants *int
	Status          *EventStatus
}

// IsEmpty 沒有任何欄位要更新
func (p UpdateEventParams) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Location == nil &&
		p.StartAt == nil && p.EndAt == nil && p.MaxParticipants == nil && p.Status == nil
}

// Apply 回傳套用更新後的副本，供寫入前驗證
func (p UpdateEventParams) Apply(e Event) Event {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.StartAt != nil {
		e.StartAt = *p.StartAt
	}
	if p.EndAt != nil {
		e.EndAt = *p.EndAt
	}
	if p.MaxParticipants != nil {
		e.MaxParticipants = *p.MaxParticipants
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	return e
}

// EventDetail 活動詳情，含觀看者相關資訊
type EventDetail struct {
	Event               *Event               `json:"event"`
	OrganizerName       string               `json:"organizer_name"`
	AvailableSpots      int                  `json:"available_spots"`
	IsAvailable         bool                 `json:"is_available"`
	IsOrganizer         bool                 `json:"is_organizer"`
	IsParticipating     bool                 `json:"is_participating"`
	ParticipationStatus *ParticipationStatus `json:"participation_status"`
}
