// Package nager is the client for the Nager.Date public holiday API. It
// serves public holidays, the available countries list and country info.
package nager

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/holidaycal/internal/common"
	"github.com/dmitrijs2005/holidaycal/internal/httpx"
	"github.com/dmitrijs2005/holidaycal/internal/logging"
	"github.com/dmitrijs2005/holidaycal/internal/server/models"
)

const DefaultBaseURL = "https://date.nager.at/api/v3"

type Client struct {
	baseURL string
	http    *httpx.Client
	logger  logging.Logger
}

func NewClient(baseURL string, hc *httpx.Client, logger logging.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		logger:  logger.With("module", "nager_client"),
	}
}

// PublicHolidays returns the holiday catalog of countryCode for year.
//
// A 404 means the country code is unknown or there is no data for the year
// and is reported as ErrorInvalidRequest; anything else is
// ErrorUpstreamUnavailable.
func (c *Client) PublicHolidays(ctx context.Context, countryCode string, year int) ([]models.Holiday, error) {
	c.logger.Debug(ctx, "Request for public holidays", "country_code", countryCode, "year", year)

	holidays := []models.Holiday{}
	err := c.http.GetJSON(ctx, fmt.Sprintf("%s/PublicHolidays/%d/%s", c.baseURL, year, countryCode), &holidays)
	if err != nil {
		if httpx.StatusCode(err) == http.StatusNotFound {
			c.logger.Warn(ctx, "No public holidays", "country_code", countryCode, "year", year, "error", err)
			return nil, common.NewError(common.ErrorInvalidRequest,
				fmt.Sprintf("Invalid code or no data for %s in %d", countryCode, year), err)
		}

		c.logger.Error(ctx, "Failed on getting public holidays", "country_code", countryCode, "year", year, "error", err)
		return nil, common.NewError(common.ErrorUpstreamUnavailable,
			fmt.Sprintf("Failed on getting public holidays: %s in %d", countryCode, year), err)
	}

	c.logger.Debug(ctx, "Found holidays", "country_code", countryCode, "count", len(holidays))

	return holidays, nil
}

// AvailableCountries lists the countries Nager.Date has data for. Every
// failure, including 404, is ErrorUpstreamUnavailable.
func (c *Client) AvailableCountries(ctx context.Context) ([]models.Country, error) {
	c.logger.Debug(ctx, "Getting available countries")

	countries := []models.Country{}
	if err := c.http.GetJSON(ctx, c.baseURL+"/AvailableCountries", &countries); err != nil {
		c.logger.Error(ctx, "Failed to get available countries", "error", err)
		return nil, common.NewError(common.ErrorUpstreamUnavailable, "Failed to get available countries", err)
	}

	c.logger.Debug(ctx, "Received countries", "count", len(countries))

	return countries, nil
}

// CountryInfo returns the Nager.Date record for countryCode.
//
// Every failure is reported as ErrorNotFound. When the cause is not a plain
// 404 the returned error also wraps an ErrorUpstreamUnavailable so an outage
// can still be told apart from an unknown code.
func (c *Client) CountryInfo(ctx context.Context, countryCode string) (*models.CountryInfo, error) {
	c.logger.Debug(ctx, "Getting country info", "country_code", countryCode)

	msg := fmt.Sprintf("Country info not found for %s", countryCode)

	info := &models.CountryInfo{}
	err := c.http.GetJSON(ctx, fmt.Sprintf("%s/CountryInfo/%s", c.baseURL, countryCode), info)
	if err == nil && info.CountryCode == "" && info.CommonName == "" {
		err = &httpx.StatusError{StatusCode: http.StatusNotFound, Status: "empty country info"}
	}
	if err != nil {
		if httpx.StatusCode(err) == http.StatusNotFound {
			c.logger.Warn(ctx, "Country info not found", "country_code", countryCode)
			return nil, common.NewError(common.ErrorNotFound, msg, err)
		}

		c.logger.Error(ctx, "Failed to get country info", "country_code", countryCode, "error", err)
		outage := common.NewError(common.ErrorUpstreamUnavailable, "country info request failed", err)
		return nil, common.NewError(common.ErrorNotFound, msg, outage)
	}

	return info, nil
}
