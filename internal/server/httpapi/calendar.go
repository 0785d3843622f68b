package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/holidaycal/internal/logging"
	"github.com/dmitrijs2005/holidaycal/internal/server/icsx"
	"github.com/dmitrijs2005/holidaycal/internal/server/services"
)

type calendarHandler struct {
	calendar CalendarService
	export   ExportService
	logger   logging.Logger
}

func (h *calendarHandler) addHolidays(c *gin.Context) {
	var uri userIDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		writeValidationError(c, err)
		return
	}

	var req addHolidaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	res, err := h.calendar.AddHolidays(c.Request.Context(), uri.UserID, services.AddHolidaysInput{
		CountryCode: strings.ToUpper(req.CountryCode),
		Year:        req.Year,
		Holidays:    req.Holidays,
	})
	if err != nil {
		writeError(c, err, "Failed to add holidays to calendar")
		return
	}

	writeData(c, res)
}

func (h *calendarHandler) userHolidays(c *gin.Context) {
	var uri userIDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		writeValidationError(c, err)
		return
	}

	list, err := h.calendar.UserHolidays(c.Request.Context(), uri.UserID)
	if err != nil {
		writeError(c, err, "Failed to get user holidays")
		return
	}

	writeData(c, list)
}

func (h *calendarHandler) publicHolidays(c *gin.Context) {
	var uri publicHolidaysParams
	if err := c.ShouldBindUri(&uri); err != nil {
		writeValidationError(c, err)
		return
	}
	cc := strings.ToUpper(uri.CountryCode)

	list, err := h.calendar.PublicHolidays(c.Request.Context(), cc, uri.Year)
	if err != nil {
		writeError(c, err, fmt.Sprintf("Failed to get public holidays for %s in %d", cc, uri.Year))
		return
	}

	writeData(c, list)
}

func (h *calendarHandler) calendarICS(c *gin.Context) {
	var uri userIDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		writeValidationError(c, err)
		return
	}

	data, err := h.export.Calendar(c.Request.Context(), uri.UserID)
	if err != nil {
		writeError(c, err, "Failed to export calendar")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="holidays.ics"`)
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Data(http.StatusOK, icsx.ContentType, data)
}

func (h *calendarHandler) publishCalendar(c *gin.Context) {
	var uri userIDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		writeValidationError(c, err)
		return
	}

	res, err := h.export.Publish(c.Request.Context(), uri.UserID)
	if err != nil {
		writeError(c, err, "Failed to publish calendar")
		return
	}

	c.JSON(http.StatusCreated, successBody{Success: true, Data: res})
}
