package countriesnow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/holidaycal/internal/server/models"
)

type populationRequest struct {
	Country string `json:"country"`
}

// populationResponse is the /countries/population envelope. Data holds
// either one countryPopulation or a list of them depending on how the
// provider resolved the query.
type populationResponse struct {
	Error bool             `json:"error"`
	Msg   string           `json:"msg"`
	Data  populationResult `json:"data"`
}

type countryPopulation struct {
	Country          string            `json:"country"`
	Code             string            `json:"code"`
	ISO3             string            `json:"iso3"`
	PopulationCounts []populationCount `json:"populationCounts"`
}

type populationCount struct {
	Year  flexString `json:"year"`
	Value flexNumber `json:"value"`
}

// populationResult decodes the object-or-array data field.
type populationResult struct {
	Single *countryPopulation
	List   []countryPopulation
}

func (r *populationResult) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		return nil
	case b[0] == '[':
		return json.Unmarshal(b, &r.List)
	case b[0] == '{':
		r.Single = &countryPopulation{}
		return json.Unmarshal(b, r.Single)
	default:
		// Error responses sometimes carry a bare string or number here.
		return nil
	}
}

// find returns the entry whose country equals name, ignoring case.
func (r populationResult) find(name string) *countryPopulation {
	if r.Single != nil && r.Single.Country != "" && strings.EqualFold(r.Single.Country, name) {
		return r.Single
	}
	for i := range r.List {
		if strings.EqualFold(r.List[i].Country, name) {
			return &r.List[i]
		}
	}
	return nil
}

func (c *countryPopulation) points() []models.PopulationPoint {
	out := make([]models.PopulationPoint, 0, len(c.PopulationCounts))
	for _, pc := range c.PopulationCounts {
		out = append(out, models.PopulationPoint{Year: string(pc.Year), Value: int64(pc.Value)})
	}
	return out
}

// flexString accepts a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

// flexNumber accepts a JSON number or a numeric string. Fractions are
// truncated.
type flexNumber int64

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}
	raw = strings.TrimSpace(raw)
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*n = flexNumber(v)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid population value %q", raw)
	}
	*n = flexNumber(int64(f))
	return nil
}

type flagResponse struct {
	Error bool       `json:"error"`
	Msg   string     `json:"msg"`
	Data  []flagData `json:"data"`
}

type flagData struct {
	Name string `json:"name"`
	Flag string `json:"flag"`
	ISO2 string `json:"iso2"`
	ISO3 string `json:"iso3"`
}

// matchFlag prefers an exact case-insensitive name match and otherwise
// takes the first entry where either name contains the other.
func matchFlag(data []flagData, name string) (string, bool) {
	for _, d := range data {
		if strings.EqualFold(d.Name, name) {
			return d.Flag, true
		}
	}

	want := strings.ToLower(name)
	for _, d := range data {
		have := strings.ToLower(d.Name)
		if have == "" {
			continue
		}
		if strings.Contains(have, want) || strings.Contains(want, have) {
			return d.Flag, true
		}
	}
	return "", false
}
