package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/holidaycal/internal/common"
	"github.com/dmitrijs2005/holidaycal/internal/logging"
	"github.com/dmitrijs2005/holidaycal/internal/server/models"
)

type fakeDirectory struct {
	countries []models.Country
	listErr   error
	info      *models.CountryInfo
	infoErr   error
}

func (f *fakeDirectory) AvailableCountries(context.Context) ([]models.Country, error) {
	return f.countries, f.listErr
}

func (f *fakeDirectory) CountryInfo(context.Context, string) (*models.CountryInfo, error) {
	return f.info, f.infoErr
}

type fakeStats struct {
	population    []models.PopulationPoint
	populationErr error
	flag          string
	panicFlag     bool
	delay         time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	calls       atomic.Int32
}

func (f *fakeStats) enter() func() {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	for {
		m := f.maxInFlight.Load()
		if n <= m || f.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(f.delay)
	return func() { f.inFlight.Add(-1) }
}

func (f *fakeStats) Population(context.Context, string) ([]models.PopulationPoint, error) {
	defer f.enter()()
	return f.population, f.populationErr
}

func (f *fakeStats) FlagURL(context.Context, string) string {
	defer f.enter()()
	if f.panicFlag {
		panic("flag provider exploded")
	}
	return f.flag
}

var infoUA = &models.CountryInfo{
	CommonName:   "Ukraine",
	OfficialName: "Ukraine",
	CountryCode:  "UA",
	Region:       "Europe",
	Borders: []models.CountryInfo{
		{CommonName: "Poland", CountryCode: "PL"},
		{CommonName: "Moldova", CountryCode: "MD"},
	},
}

func TestCountryDetails_Assembles(t *testing.T) {
	stats := &fakeStats{
		population: []models.PopulationPoint{{Year: "2020", Value: 44000000}},
		flag:       "https://flags/ua.svg",
		delay:      20 * time.Millisecond,
	}
	svc := NewCountryService(&fakeDirectory{info: infoUA}, stats, logging.Nop{})

	got, err := svc.CountryDetails(context.Background(), "UA")
	require.NoError(t, err)

	assert.Equal(t, &models.CountryDetails{
		Name:        "Ukraine",
		CountryCode: "UA",
		Borders:     []models.Border{{Name: "Poland", CountryCode: "PL"}, {Name: "Moldova", CountryCode: "MD"}},
		Population:  []models.PopulationPoint{{Year: "2020", Value: 44000000}},
		FlagURL:     "https://flags/ua.svg",
	}, got)
	assert.EqualValues(t, 2, stats.maxInFlight.Load(), "population and flag must be fetched concurrently")
}

func TestCountryDetails_PopulationFailureDegrades(t *testing.T) {
	stats := &fakeStats{populationErr: errors.New("timeout"), flag: "https://flags/ua.svg"}
	svc := NewCountryService(&fakeDirectory{info: infoUA}, stats, logging.Nop{})

	got, err := svc.CountryDetails(context.Background(), "UA")
	require.NoError(t, err)
	assert.NotNil(t, got.Population)
	assert.Empty(t, got.Population)
	assert.Equal(t, "https://flags/ua.svg", got.FlagURL)
}

func TestCountryDetails_FlagFailureDegrades(t *testing.T) {
	stats := &fakeStats{population: []models.PopulationPoint{{Year: "2020", Value: 1}}, panicFlag: true}
	svc := NewCountryService(&fakeDirectory{info: infoUA}, stats, logging.Nop{})

	got, err := svc.CountryDetails(context.Background(), "UA")
	require.NoError(t, err)
	assert.Equal(t, "", got.FlagURL)
	assert.Len(t, got.Population, 1)
}

func TestCountryDetails_NoBordersIsEmptyList(t *testing.T) {
	info := &models.CountryInfo{CommonName: "Iceland", CountryCode: "IS"}
	svc := NewCountryService(&fakeDirectory{info: info}, &fakeStats{}, logging.Nop{})

	got, err := svc.CountryDetails(context.Background(), "IS")
	require.NoError(t, err)
	assert.NotNil(t, got.Borders)
	assert.NotNil(t, got.Population)
}

func TestCountryDetails_InfoFailureIsFatal(t *testing.T) {
	notFound := common.NewError(common.ErrorNotFound, "Country info not found for XX", nil)
	stats := &fakeStats{}
	svc := NewCountryService(&fakeDirectory{infoErr: notFound}, stats, logging.Nop{})

	_, err := svc.CountryDetails(context.Background(), "XX")
	assert.Same(t, notFound, err)
	assert.Zero(t, stats.calls.Load())
}

func TestAvailableCountries_PassThrough(t *testing.T) {
	countries := []models.Country{{CountryCode: "UA", Name: "Ukraine"}}
	svc := NewCountryService(&fakeDirectory{countries: countries}, &fakeStats{}, logging.Nop{})

	got, err := svc.AvailableCountries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, countries, got)

	failing := common.NewError(common.ErrorUpstreamUnavailable, "Failed to get available countries", nil)
	svc = NewCountryService(&fakeDirectory{listErr: failing}, &fakeStats{}, logging.Nop{})
	_, err = svc.AvailableCountries(context.Background())
	assert.True(t, errors.Is(err, common.ErrorUpstreamUnavailable))
}
