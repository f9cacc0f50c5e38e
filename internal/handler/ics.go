package handler

import (
	"fmt"
	"net/http"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const icsProductID = "-//go-gin-event-calendar//EN"

type calendarEntry struct {
	UID         uuid.UUID
	Title       string
	Description string
	Location    string
	Organizer   string
	URL         string
	Start       time.Time
	End         time.Time
	Updated     time.Time
}

// renderCalendar 時間一律以 UTC 輸出
func renderCalendar(entries []calendarEntry, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icsProductID)

	for _, e := range entries {
		ev := cal.AddEvent(e.UID.String())
		ev.SetDtStampTime(stamp.UTC())
		if !e.Updated.IsZero() {
			ev.SetModifiedAt(e.Updated.UTC())
		}
		ev.SetStartAt(e.Start.UTC())
		ev.SetEndAt(e.End.UTC())
		ev.SetSummary(e.Title)
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
		if e.Location != "" {
			ev.SetLocation(e.Location)
		}
		if e.URL != "" {
			ev.SetURL(e.URL)
		}
		if e.Organizer != "" {
			ev.SetOrganizer("mailto:noreply@calendar.invalid", ical.WithCN(e.Organizer))
		}
	}
	return cal.Serialize()
}

// icsFileName 以標題產生檔名，標題無法轉成 slug 時使用 fallback
func icsFileName(title, fallback string) string {
	name := slug.Make(title)
	if name == "" {
		name = fallback
	}
	return name + ".ics"
}

func writeCalendar(c *gin.Context, body, fileName string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
