package models

import "time"

// DateLayout is the day-granularity layout used by the holiday API and for
// comparing event dates.
const DateLayout = "2006-01-02"

// CalendarEvent is a holiday stored in a user's calendar.
type CalendarEvent struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	CountryCode string    `json:"countryCode"`
	HolidayType string    `json:"holidayType"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Day returns the event date truncated to the day, as YYYY-MM-DD in UTC.
func (e *CalendarEvent) Day() string {
	return e.Date.UTC().Format(DateLayout)
}

// DedupKey identifies an event within one user's calendar.
func (e *CalendarEvent) DedupKey() string {
	return e.Title + "\x00" + e.Day()
}
