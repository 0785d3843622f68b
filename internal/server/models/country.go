package models

// Country is an entry of the available countries list.
type Country struct {
	CountryCode string `json:"countryCode"`
	Name        string `json:"name"`
}

// CountryInfo is the Nager.Date country record.
type CountryInfo struct {
	CommonName   string        `json:"commonName"`
	OfficialName string        `json:"officialName"`
	CountryCode  string        `json:"countryCode"`
	Region       string        `json:"region"`
	Borders      []CountryInfo `json:"borders"`
}

// PopulationPoint is one yearly population figure.
type PopulationPoint struct {
	Year  string `json:"year"`
	Value int64  `json:"value"`
}

// Border is a neighbouring country in CountryDetails.
type Border struct {
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
}

// CountryDetails is assembled per request and never stored.
type CountryDetails struct {
	Name        string            `json:"name"`
	CountryCode string            `json:"countryCode"`
	Borders     []Border          `json:"borders"`
	Population  []PopulationPoint `json:"population"`
	FlagURL     string            `json:"flagUrl"`
}
