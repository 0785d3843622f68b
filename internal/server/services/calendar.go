package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/dmitrijs2005/holidaycal/internal/common"
	"github.com/dmitrijs2005/holidaycal/internal/logging"
	"github.com/dmitrijs2005/holidaycal/internal/server/models"
	"github.com/dmitrijs2005/holidaycal/internal/server/repositories/events"
	"github.com/dmitrijs2005/holidaycal/internal/server/repositories/users"
)

const (
	msgNoHolidays    = "No holidays found to add to calendar"
	msgAllExist      = "All holidays already exist"
	msgAddedTemplate = "Successfully added %d holidays to calendar"
)

// HolidaySource provides the public holiday catalog of a country.
type HolidaySource interface {
	PublicHolidays(ctx context.Context, countryCode string, year int) ([]models.Holiday, error)
}

type AddHolidaysInput struct {
	CountryCode string
	Year        int
	// Holidays narrows the catalog to holidays whose name or local name
	// contains one of the terms. Nil or empty keeps the whole catalog.
	Holidays []string
}

type AddHolidaysResult struct {
	Added   int    `json:"added"`
	Message string `json:"message"`
}

type CalendarService struct {
	users    users.Repository
	events   events.Repository
	holidays HolidaySource
	logger   logging.Logger
}

func NewCalendarService(usersRepo users.Repository, eventsRepo events.Repository, holidays HolidaySource, logger logging.Logger) *CalendarService {
	return &CalendarService{
		users:    usersRepo,
		events:   eventsRepo,
		holidays: holidays,
		logger:   logger.With("module", "calendar_service"),
	}
}

// PublicHolidays returns the upstream catalog unchanged.
func (s *CalendarService) PublicHolidays(ctx context.Context, countryCode string, year int) ([]models.Holiday, error) {
	return s.holidays.PublicHolidays(ctx, countryCode, year)
}

// UserHolidays lists the user's calendar ordered by date.
func (s *CalendarService) UserHolidays(ctx context.Context, userID string) ([]*models.CalendarEvent, error) {
	s.logger.Debug(ctx, "Retrieving holidays for user", "user_id", userID)

	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	list, err := s.events.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "Failed to list calendar events", "user_id", userID, "error", err)
		return nil, common.NewError(common.ErrorPersistence, "Failed to load calendar events", err)
	}
	if list == nil {
		list = []*models.CalendarEvent{}
	}

	s.logger.Debug(ctx, "Found holidays for user", "user_id", userID, "count", len(list))

	return list, nil
}

// AddHolidays copies the country's holidays for the year into the user's
// calendar, skipping ones already present.
func (s *CalendarService) AddHolidays(ctx context.Context, userID string, in AddHolidaysInput) (*AddHolidaysResult, error) {
	s.logger.Debug(ctx, "Adding holidays", "user_id", userID, "country_code", in.CountryCode, "year", in.Year)

	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	catalog, err := s.holidays.PublicHolidays(ctx, in.CountryCode, in.Year)
	if err != nil {
		return nil, err
	}

	selected := FilterHolidays(catalog, in.Holidays)
	if len(selected) == 0 {
		s.logger.Debug(ctx, "No holidays found to add", "user_id", userID)
		return &AddHolidaysResult{Added: 0, Message: msgNoHolidays}, nil
	}

	candidates := s.toEvents(ctx, userID, in.CountryCode, selected)

	from := time.Date(in.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(in.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
	existing, err := s.events.FindInRange(ctx, userID, in.CountryCode, from, to)
	if err != nil {
		s.logger.Error(ctx, "Failed to load existing events", "user_id", userID, "error", err)
		return nil, common.NewError(common.ErrorPersistence, "Failed to load existing calendar events", err)
	}

	unique := DedupEvents(candidates, existing)
	if len(unique) == 0 {
		s.logger.Debug(ctx, "All holidays already exist", "user_id", userID)
		return &AddHolidaysResult{Added: 0, Message: msgAllExist}, nil
	}

	added, err := s.events.InsertMany(ctx, unique)
	if err != nil {
		s.logger.Error(ctx, "Failed to insert calendar events", "user_id", userID, "error", err)
		return nil, common.NewError(common.ErrorPersistence, "Failed to save calendar events", err)
	}

	if added == 0 {
		return &AddHolidaysResult{Added: 0, Message: msgAllExist}, nil
	}

	s.logger.Debug(ctx, "Added holidays to calendar", "user_id", userID, "added", added)

	return &AddHolidaysResult{Added: added, Message: fmt.Sprintf(msgAddedTemplate, added)}, nil
}

func (s *CalendarService) ensureUser(ctx context.Context, userID string) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "Failed to look up user", "user_id", userID, "error", err)
		return common.NewError(common.ErrorPersistence, "Failed to look up user", err)
	}
	if !ok {
		s.logger.Warn(ctx, "User not found", "user_id", userID)
		return common.NewError(common.ErrorNotFound, fmt.Sprintf("User with ID %s not found", userID), nil)
	}
	return nil
}

func (s *CalendarService) toEvents(ctx context.Context, userID, countryCode string, holidays []models.Holiday) []*models.CalendarEvent {
	out := make([]*models.CalendarEvent, 0, len(holidays))
	for _, h := range holidays {
		e, err := HolidayToEvent(userID, countryCode, h)
		if err != nil {
			s.logger.Warn(ctx, "Skipping holiday with unparsable date", "holiday", h.Name, "date", h.Date, "error", err)
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterHolidays keeps holidays whose Name or LocalName contains any of
// terms, using Unicode case folding. No terms keep everything.
func FilterHolidays(catalog []models.Holiday, terms []string) []models.Holiday {
	if len(terms) == 0 {
		return catalog
	}

	fold := cases.Fold()

	folded := make([]string, 0, len(terms))
	for _, t := range terms {
		folded = append(folded, fold.String(t))
	}

	out := []models.Holiday{}
	for _, h := range catalog {
		name, local := fold.String(h.Name), fold.String(h.LocalName)
		for _, t := range folded {
			if strings.Contains(name, t) || strings.Contains(local, t) {
				out = append(out, h)
				break
			}
		}
	}
	return out
}

// HolidayToEvent builds the calendar event stored for h. The holiday's own
// country code wins over fallbackCountry.
func HolidayToEvent(userID, fallbackCountry string, h models.Holiday) (*models.CalendarEvent, error) {
	date, err := time.ParseInLocation(models.DateLayout, h.Date, time.UTC)
	if err != nil {
		return nil, err
	}

	cc := h.CountryCode
	if cc == "" {
		cc = fallbackCountry
	}
	cc = strings.ToUpper(strings.TrimSpace(cc))

	scope := "Regional"
	if h.Global {
		scope = "National"
	}

	return &models.CalendarEvent{
		UserID:      userID,
		Title:       strings.TrimSpace(h.Name),
		Date:        date,
		CountryCode: cc,
		HolidayType: strings.Join(h.Types, ", "),
		Description: fmt.Sprintf("%s - %s holiday in %s", h.LocalName, scope, cc),
	}, nil
}

// DedupEvents drops candidates already present in existing or repeated
// earlier in candidates. Events are equal when title and day match.
func DedupEvents(candidates, existing []*models.CalendarEvent) []*models.CalendarEvent {
	seen := make(map[string]struct{}, len(existing)+len(candidates))
	for _, e := range existing {
		seen[e.DedupKey()] = struct{}{}
	}

	out := []*models.CalendarEvent{}
	for _, e := range candidates {
		k := e.DedupKey()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}
