package httpapi

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/holidaycal/internal/common"
	"github.com/dmitrijs2005/holidaycal/internal/logging"
)

type countriesHandler struct {
	countries CountryService
	logger    logging.Logger
}

func (h *countriesHandler) availableCountries(c *gin.Context) {
	list, err := h.countries.AvailableCountries(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to get available countries")
		return
	}

	writeData(c, list)
}

func (h *countriesHandler) countryDetails(c *gin.Context) {
	var uri countryCodeParam
	if err := c.ShouldBindUri(&uri); err != nil {
		writeValidationError(c, err)
		return
	}
	cc := strings.ToUpper(uri.CountryCode)

	details, err := h.countries.CountryDetails(c.Request.Context(), cc)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			h.logger.Warn(c.Request.Context(), "Country not found", "country_code", cc, "error", common.Detail(err))
			writeCountryNotFound(c, err.Error())
			return
		}
		writeError(c, err, "Error getting country details for "+cc)
		return
	}

	writeData(c, details)
}
