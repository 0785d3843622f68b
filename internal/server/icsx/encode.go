// Package icsx renders calendar events as iCalendar (RFC 5545) documents.
package icsx

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/dmitrijs2005/holidaycal/internal/server/models"
)

const (
	ProductID   = "-//holidaycal//EN"
	ContentType = "text/calendar; charset=utf-8"
	uidDomain   = "holidaycal"
)

// Encode writes events as a VCALENDAR of all-day VEVENTs. now stamps
// DTSTAMP on every event.
func Encode(w io.Writer, name string, events []*models.CalendarEvent, now time.Time) error {
	if len(events) == 0 {
		return writeEmpty(w, name)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	if name != "" {
		cal.Props.SetText("X-WR-CALNAME", name)
	}

	stamp := now.UTC()
	for _, e := range events {
		cal.Children = append(cal.Children, toEvent(e, stamp).Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

// Bytes is Encode into a buffer.
func Bytes(name string, events []*models.CalendarEvent, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, name, events, now); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toEvent(e *models.CalendarEvent, stamp time.Time) *ical.Event {
	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, fmt.Sprintf("%s@%s", e.ID, uidDomain))
	ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	ev.Props.SetText(ical.PropSummary, e.Title)

	start := ical.NewProp(ical.PropDateTimeStart)
	start.SetDate(e.Date.UTC())
	ev.Props.Set(start)

	end := ical.NewProp(ical.PropDateTimeEnd)
	end.SetDate(e.Date.UTC().AddDate(0, 0, 1))
	ev.Props.Set(end)

	if e.Description != "" {
		ev.Props.SetText(ical.PropDescription, e.Description)
	}
	if e.HolidayType != "" {
		categories := ical.NewProp(ical.PropCategories)
		categories.SetTextList(strings.Split(e.HolidayType, ", "))
		ev.Props.Set(categories)
	}
	if e.CountryCode != "" {
		ev.Props.SetText(ical.PropLocation, e.CountryCode)
	}
	ev.Props.SetText(ical.PropTransparency, "TRANSPARENT")

	return ev
}

// writeEmpty writes a calendar without components. The encoder only accepts
// calendars holding at least one component.
func writeEmpty(w io.Writer, name string) error {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:" + ProductID + "\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	if name != "" {
		b.WriteString("X-WR-CALNAME:" + escapeText(name) + "\r\n")
	}
	b.WriteString("END:VCALENDAR\r\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

var textEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
