package sources

import "time"

// Config holds the endpoints of the external data sources.
type Config struct {
	// CountriesURL returns a JSON array of countries (restcountries v2 shape).
	CountriesURL string `mapstructure:"countries_url" default:"https://restcountries.com/v2/all?fields=name,capital,region,population,flag,flags,currencies"`
	// RatesURL returns a JSON object with a "rates" map keyed by currency code.
	RatesURL string `mapstructure:"rates_url" default:"https://open.er-api.com/v6/latest/USD"`
	// TimeoutSeconds bounds each fetch.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"20"`
}

// Timeout returns the fetch timeout, defaulting to 20 seconds.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
