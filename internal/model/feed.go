package model

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// FeedFilter 行事曆 feed 的觀看者篩選
type FeedFilter string

const (
	FeedFilterAll           FeedFilter = "all"
	FeedFilterMine          FeedFilter = "mine"
	FeedFilterParticipating FeedFilter = "participating"
	FeedFilterUpcoming      FeedFilter = "upcoming"
)

// ParseFeedFilter 未知的值一律視為 all
func ParseFeedFilter(s string) FeedFilter {
	switch f := FeedFilter(s); f {
	case FeedFilterMine, FeedFilterParticipating, FeedFilterUpcoming:
		return f
	}
	return FeedFilterAll
}

const (
	UpcomingFeedLimit     = 10
	DescriptionPreviewLen = 100
)

var windowLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseWindowBound 解析 feed 的 start/end 參數；沒有時區的值以 loc 解讀，無法解析時回傳 false
func ParseWindowBound(value string, loc *time.Location) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range windowLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FeedQuery 由 service 組好後交給 repository；Now 由呼叫端提供以保持查詢可重現
type FeedQuery struct {
	WindowStart  *time.Time
	WindowEnd    *time.Time
	Filter       FeedFilter
	UpcomingOnly bool
	Limit        int
	Now          time.Time
}

// HasWindow 只有兩端都提供時才套用時間區間
func (q FeedQuery) HasWindow() bool {
	return q.WindowStart != nil && q.WindowEnd != nil
}

// Cacheable UpcomingOnly 取 now 之後的前 N 筆，結果隨時間改變，不可快取
func (q FeedQuery) Cacheable() bool {
	return !q.UpcomingOnly
}

// CacheKey 不含 Now；快取的資料列與 Now 無關，upcoming 篩選與顏色由 BuildFeed 以當下時間計算
func (q FeedQuery) CacheKey(viewer Viewer) string {
	start, end := "-", "-"
	if q.HasWindow() {
		start = q.WindowStart.UTC().Format(time.RFC3339)
		end = q.WindowEnd.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("v=%d|s=%s|e=%s|f=%s|u=%t|l=%d", viewer.UserID, start, end, q.Filter, q.UpcomingOnly, q.Limit)
}

// FeedRow repository 回傳的一列：活動、已接受人數、觀看者是否已參加
type FeedRow struct {
	Event               *Event `json:"event"`
	AcceptedCount       int    `json:"accepted_count"`
	ViewerParticipating bool   `json:"viewer_participating"`
}

// Relationship 觀看者與活動的關係，決定顯示顏色
type Relationship string

const (
	RelationshipOrganizer     Relationship = "organizer"
	RelationshipParticipating Relationship = "participating"
	RelationshipOther         Relationship = "other"
	RelationshipPast          Relationship = "past"
)

var relationshipColors = map[Relationship]string{
	RelationshipOrganizer:     "#10b981",
	RelationshipParticipating: "#8b5cf6",
	RelationshipOther:         "#3b82f6",
	RelationshipPast:          "#9ca3af",
}

const feedTextColor = "#ffffff"

func (r Relationship) Color() string {
	return relationshipColors[r]
}

// Classify past 優先於其他分類
func Classify(row FeedRow, viewer Viewer, now time.Time) Relationship {
	if row.Event.IsPast(now) {
		return RelationshipPast
	}
	if viewer.Authenticated() {
		if row.Event.IsOrganizedBy(viewer.UserID) {
			return RelationshipOrganizer
		}
		if row.ViewerParticipating {
			return RelationshipParticipating
		}
	}
	return RelationshipOther
}

// TruncateDescription 超過 100 字元時截斷並加上 "..."
func TruncateDescription(s string) string {
	if utf8.RuneCountInString(s) <= DescriptionPreviewLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:DescriptionPreviewLen]) + "..."
}

// FeedItem 對應前端 FullCalendar 的事件格式
type FeedItem struct {
	ID              int           `json:"id"`
	EventID         uuid.UUID     `json:"event_id"`
	Title           string        `json:"title"`
	Start           time.Time     `json:"start"`
	End             time.Time     `json:"end"`
	Location        string        `json:"location"`
	Organizer       string        `json:"organizer"`
	URL             string        `json:"url"`
	Relationship    Relationship  `json:"relationship"`
	BackgroundColor string        `json:"backgroundColor"`
	BorderColor     string        `json:"borderColor"`
	TextColor       string        `json:"textColor"`
	ExtendedProps   FeedItemProps `json:"extendedProps"`
}

type FeedItemProps struct {
	Location       string `json:"location"`
	Organizer      string `json:"organizer"`
	Description    string `json:"description"`
	AvailableSpots int    `json:"available_spots"`
}

// EventURL 活動詳情的 API 路徑
func EventURL(id int) string {
	return fmt.Sprintf("/api/v1/events/%d", id)
}

func NewFeedItem(row FeedRow, viewer Viewer, now time.Time) FeedItem {
	e := row.Event
	rel := Classify(row, viewer, now)
	color := rel.Color()
	organizer := e.Organizer.DisplayName()

	return FeedItem{
		ID:              e.ID,
		EventID:         e.EventID,
		Title:           e.Title,
		Start:           e.StartAt,
		End:             e.EndAt,
		Location:        e.Location,
		Organizer:       organizer,
		URL:             EventURL(e.ID),
		Relationship:    rel,
		BackgroundColor: color,
		BorderColor:     color,
		TextColor:       feedTextColor,
		ExtendedProps: FeedItemProps{
			Location:       e.Location,
			Organizer:      organizer,
			Description:    TruncateDescription(e.Description),
			AvailableSpots: e.AvailableSpots(row.AcceptedCount),
		},
	}
}

// BuildFeed 以 q.Now 產生 feed；upcoming 篩選在此重新套用，快取的資料列也會排除已開始的活動
func BuildFeed(rows []*FeedRow, q FeedQuery, viewer Viewer) []FeedItem {
	items := make([]FeedItem, 0, len(rows))
	for _, row := range rows {
		if q.Filter == FeedFilterUpcoming && !row.Event.IsUpcoming(q.Now) {
			continue
		}
		items = append(items, NewFeedItem(*row, viewer, q.Now))
	}
	return items
}
