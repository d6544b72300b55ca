package models

import "time"

// TimeLayout is the wire format of timestamps ("2025-10-28T03:30:00Z").
const TimeLayout = "2006-01-02T15:04:05Z"

// CountryResponse is the JSON representation of a stored country.
type CountryResponse struct {
	ID              uint64   `json:"id"`
	Name            string   `json:"name"`
	Capital         *string  `json:"capital"`
	Region          *string  `json:"region"`
	Population      int64    `json:"population"`
	CurrencyCode    *string  `json:"currency_code"`
	ExchangeRate    *float64 `json:"exchange_rate"`
	EstimatedGDP    *float64 `json:"estimated_gdp"`
	FlagURL         *string  `json:"flag_url"`
	LastRefreshedAt string   `json:"last_refreshed_at"`
}

// StatusResponse reports the size and age of the stored dataset.
type StatusResponse struct {
	TotalCountries  int64   `json:"total_countries"`
	LastRefreshedAt *string `json:"last_refreshed_at"`
}

// RefreshResponse is returned by a successful refresh.
type RefreshResponse struct {
	Message string `json:"message"`
	Total   int    `json:"total"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ToResponse converts a row to its JSON representation.
func (r CountryRecord) ToResponse() CountryResponse {
	return CountryResponse{
		ID:              r.ID,
		Name:            r.Name,
		Capital:         r.Capital,
		Region:          r.Region,
		Population:      r.Population,
		CurrencyCode:    r.CurrencyCode,
		ExchangeRate:    r.ExchangeRate,
		EstimatedGDP:    r.EstimatedGDP,
		FlagURL:         r.FlagURL,
		LastRefreshedAt: FormatTime(r.LastRefreshedAt),
	}
}

// ToResponses converts rows, never returning nil so empty lists encode as [].
func ToResponses(records []CountryRecord) []CountryResponse {
	out := make([]CountryResponse, 0, len(records))
	for _, r := range records {
		out = append(out, r.ToResponse())
	}
	return out
}

// FormatTime renders t in UTC with second precision.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
