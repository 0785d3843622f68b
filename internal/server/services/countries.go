package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/holidaycal/internal/logging"
	"github.com/dmitrijs2005/holidaycal/internal/server/models"
)

// CountryDirectory is the source of the country list and country records.
type CountryDirectory interface {
	AvailableCountries(ctx context.Context) ([]models.Country, error)
	CountryInfo(ctx context.Context, countryCode string) (*models.CountryInfo, error)
}

// CountryStats provides population history and flag images by country name.
type CountryStats interface {
	Population(ctx context.Context, countryName string) ([]models.PopulationPoint, error)
	FlagURL(ctx context.Context, countryName string) string
}

type CountryService struct {
	directory CountryDirectory
	stats     CountryStats
	logger    logging.Logger
}

func NewCountryService(directory CountryDirectory, stats CountryStats, logger logging.Logger) *CountryService {
	return &CountryService{
		directory: directory,
		stats:     stats,
		logger:    logger.With("module", "country_service"),
	}
}

func (s *CountryService) AvailableCountries(ctx context.Context) ([]models.Country, error) {
	return s.directory.AvailableCountries(ctx)
}

// CountryDetails combines the country record with its population history and
// flag. Only a failing country record fails the call; population and flag
// degrade to empty values.
func (s *CountryService) CountryDetails(ctx context.Context, countryCode string) (*models.CountryDetails, error) {
	s.logger.Debug(ctx, "Getting country details", "country_code", countryCode)

	info, err := s.directory.CountryInfo(ctx, countryCode)
	if err != nil {
		return nil, err
	}

	var (
		wg         sync.WaitGroup
		population []models.PopulationPoint
		flagURL    string
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		population = s.population(ctx, info.CommonName)
	}()
	go func() {
		defer wg.Done()
		flagURL = s.flag(ctx, info.CommonName)
	}()
	wg.Wait()

	borders := make([]models.Border, 0, len(info.Borders))
	for _, b := range info.Borders {
		borders = append(borders, models.Border{Name: b.CommonName, CountryCode: b.CountryCode})
	}

	return &models.CountryDetails{
		Name:        info.CommonName,
		CountryCode: info.CountryCode,
		Borders:     borders,
		Population:  population,
		FlagURL:     flagURL,
	}, nil
}

func (s *CountryService) population(ctx context.Context, name string) (points []models.PopulationPoint) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "Population lookup panicked", "country", name, "panic", fmt.Sprint(r))
			points = []models.PopulationPoint{}
		}
	}()

	points, err := s.stats.Population(ctx, name)
	if err != nil {
		s.logger.Warn(ctx, "Error on population data", "country", name, "error", err)
		return []models.PopulationPoint{}
	}
	if points == nil {
		points = []models.PopulationPoint{}
	}

	s.logger.Debug(ctx, "Found population records", "country", name, "count", len(points))

	return points
}

func (s *CountryService) flag(ctx context.Context, name string) (url string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "Flag lookup panicked", "country", name, "panic", fmt.Sprint(r))
			url = ""
		}
	}()

	url = s.stats.FlagURL(ctx, name)
	s.logger.Debug(ctx, "Retrieved flag URL", "country", name, "found", url != "")

	return url
}
