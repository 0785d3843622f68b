package countriesnow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/holidaycal/internal/httpx"
	"github.com/dmitrijs2005/holidaycal/internal/logging"
	"github.com/dmitrijs2005/holidaycal/internal/server/models"
)

func newTestClient(t *testing.T, timeout time.Duration, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return NewClient(ts.URL, httpx.NewClient(0), timeout, logging.Nop{})
}

func TestPopulation_SingleObject(t *testing.T) {
	c := newTestClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/countries/population", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "United States", body["country"])

		_, _ = w.Write([]byte(`{"error":false,"msg":"ok","data":{"country":"United States","code":"USA","populationCounts":[{"year":2020,"value":1}]}}`))
	})

	got, err := c.Population(context.Background(), "United States")

	require.NoError(t, err)
	assert.Equal(t, []models.PopulationPoint{{Year: "2020", Value: 1}}, got)
}

func TestPopulation_ArrayCaseInsensitive(t *testing.T) {
	c := newTestClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":false,"msg":"ok","data":[
			{"country":"Ukraine (West)","populationCounts":[{"year":1990,"value":5}]},
			{"country":"UKRAINE","populationCounts":[{"year":"1991","value":"51944000"},{"year":1992,"value":52150400.0}]}
		]}`))
	})

	got, err := c.Population(context.Background(), "Ukraine")

	require.NoError(t, err)
	assert.Equal(t, []models.PopulationPoint{
		{Year: "1991", Value: 51944000},
		{Year: "1992", Value: 52150400},
	}, got)
}

func TestPopulation_ErrorFlagIsEmpty(t *testing.T) {
	c := newTestClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":true,"msg":"country not found","data":"x"}`))
	})

	got, err := c.Population(context.Background(), "Atlantis")

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPopulation_NoMatchIsEmpty(t *testing.T) {
	c := newTestClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":false,"data":{"country":"France","populationCounts":[{"year":2020,"value":1}]}}`))
	})

	got, err := c.Population(context.Background(), "Germany")

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPopulation_HTTPErrorIsReturned(t *testing.T) {
	c := newTestClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Population(context.Background(), "France")

	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, httpx.StatusCode(err))
}

func TestPopulation_Timeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, 50*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	start := time.Now()
	_, err := c.Population(context.Background(), "France")

	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

const flagsBody = `{"error":false,"msg":"flags","data":[
	{"name":"Korea (Democratic People's Republic of)","flag":"https://flags/kp.svg","iso2":"KP","iso3":"PRK"},
	{"name":"Ukraine","flag":"https://flags/ua.svg","iso2":"UA","iso3":"UKR"},
	{"name":"United States","flag":"https://flags/us.svg","iso2":"US","iso3":"USA"}
]}`

func TestFlagURL(t *testing.T) {
	c := newTestClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/countries/flag/images", r.URL.Path)
		_, _ = w.Write([]byte(flagsBody))
	})

	tests := []struct {
		name    string
		country string
		want    string
	}{
		{name: "exact", country: "ukraine", want: "https://flags/ua.svg"},
		{name: "provider name contains query", country: "Korea", want: "https://flags/kp.svg"},
		{name: "query contains provider name", country: "United States of America", want: "https://flags/us.svg"},
		{name: "no match", country: "Atlantis", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.FlagURL(context.Background(), tt.country))
		})
	}
}

func TestFlagURL_FailureIsEmpty(t *testing.T) {
	c := newTestClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	assert.Equal(t, "", c.FlagURL(context.Background(), "Ukraine"))
}
