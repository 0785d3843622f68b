// Package countriesnow is the client for the CountriesNow API, used for
// population history and flag images.
package countriesnow

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/holidaycal/internal/httpx"
	"github.com/dmitrijs2005/holidaycal/internal/logging"
	"github.com/dmitrijs2005/holidaycal/internal/server/models"
)

const (
	DefaultBaseURL = "https://countriesnow.space/api/v0.1"

	DefaultPopulationTimeout = 5 * time.Second
)

type Client struct {
	baseURL           string
	http              *httpx.Client
	logger            logging.Logger
	populationTimeout time.Duration
}

// NewClient returns a Client. A non-positive populationTimeout selects
// DefaultPopulationTimeout.
func NewClient(baseURL string, hc *httpx.Client, populationTimeout time.Duration, logger logging.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if populationTimeout <= 0 {
		populationTimeout = DefaultPopulationTimeout
	}
	return &Client{
		baseURL:           strings.TrimRight(baseURL, "/"),
		http:              hc,
		logger:            logger.With("module", "countriesnow_client"),
		populationTimeout: populationTimeout,
	}
}

// Population returns the yearly population series for countryName.
//
// A provider-side error flag or a response without a matching country
// yields an empty series. Transport failures and non-2xx statuses are
// returned as errors.
func (c *Client) Population(ctx context.Context, countryName string) ([]models.PopulationPoint, error) {
	c.logger.Debug(ctx, "Getting population", "country", countryName)

	ctx, cancel := context.WithTimeout(ctx, c.populationTimeout)
	defer cancel()

	var resp populationResponse
	if err := c.http.PostJSON(ctx, c.baseURL+"/countries/population", populationRequest{Country: countryName}, &resp); err != nil {
		c.logger.Error(ctx, "Failed to get population data", "country", countryName, "error", err)
		return nil, err
	}

	if resp.Error {
		c.logger.Error(ctx, "API returned error", "country", countryName, "msg", resp.Msg)
		return []models.PopulationPoint{}, nil
	}

	match := resp.Data.find(countryName)
	if match == nil {
		c.logger.Warn(ctx, "No matching population", "country", countryName)
		return []models.PopulationPoint{}, nil
	}

	points := match.points()
	c.logger.Debug(ctx, "Found population data", "country", countryName, "records", len(points))

	return points, nil
}

// FlagURL returns the flag image URL for countryName, or "" when it cannot
// be found or the provider fails. It never returns an error.
func (c *Client) FlagURL(ctx context.Context, countryName string) string {
	c.logger.Debug(ctx, "Getting flag URL", "country", countryName)

	var resp flagResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/countries/flag/images", &resp); err != nil {
		c.logger.Error(ctx, "Failed to get flag", "country", countryName, "error", err)
		return ""
	}

	flag, ok := matchFlag(resp.Data, countryName)
	if !ok {
		c.logger.Warn(ctx, "Flag not found", "country", countryName)
		return ""
	}

	return flag
}
