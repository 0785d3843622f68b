// Package httpapi exposes the calendar and country services as a JSON REST
// API under /api.
package httpapi

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/holidaycal/internal/logging"
	"github.com/dmitrijs2005/holidaycal/internal/server/models"
	"github.com/dmitrijs2005/holidaycal/internal/server/services"
)

type CalendarService interface {
	AddHolidays(ctx context.Context, userID string, in services.AddHolidaysInput) (*services.AddHolidaysResult, error)
	UserHolidays(ctx context.Context, userID string) ([]*models.CalendarEvent, error)
	PublicHolidays(ctx context.Context, countryCode string, year int) ([]models.Holiday, error)
}

type CountryService interface {
	AvailableCountries(ctx context.Context) ([]models.Country, error)
	CountryDetails(ctx context.Context, countryCode string) (*models.CountryDetails, error)
}

type ExportService interface {
	Calendar(ctx context.Context, userID string) ([]byte, error)
	PublishEnabled() bool
	Publish(ctx context.Context, userID string) (*services.ExportResult, error)
}

// Services bundles what the router serves. Export may be nil, which removes
// the export routes.
type Services struct {
	Calendar  CalendarService
	Countries CountryService
	Export    ExportService
}

// NewRouter builds the gin engine with request ids, access logging and panic
// recovery installed.
func NewRouter(svc Services, logger logging.Logger) *gin.Engine {
	logger = logger.With("module", "httpapi")

	r := gin.New()
	r.Use(RequestID(), AccessLog(logger), Recovery(logger))

	api := r.Group("/api")

	cal := &calendarHandler{calendar: svc.Calendar, export: svc.Export, logger: logger}
	api.POST("/users/:userId/calendar/holidays", cal.addHolidays)
	api.GET("/users/:userId/calendar/holidays", cal.userHolidays)
	api.GET("/users/public-holidays/:year/:countryCode", cal.publicHolidays)

	if svc.Export != nil {
		api.GET("/users/:userId/calendar/holidays.ics", cal.calendarICS)
		if svc.Export.PublishEnabled() {
			api.POST("/users/:userId/calendar/export", cal.publishCalendar)
		}
	}

	countries := &countriesHandler{countries: svc.Countries, logger: logger}
	api.GET("/countries", countries.availableCountries)
	api.GET("/countries/:countryCode", countries.countryDetails)

	r.NoRoute(func(c *gin.Context) {
		writeStatus(c, 404, "Cannot "+c.Request.Method+" "+c.Request.URL.Path)
	})

	return r
}
