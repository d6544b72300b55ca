package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"country-api/core/reconcile"

	"go.uber.org/zap"
)

// rawCountry mirrors one element of the restcountries v2 payload.
type rawCountry struct {
	Name       string   `json:"name"`
	Capital    string   `json:"capital"`
	Region     string   `json:"region"`
	Population *float64 `json:"population"`
	Flag       string   `json:"flag"`
	Flags      *struct {
		PNG string `json:"png"`
		SVG string `json:"svg"`
	} `json:"flags"`
	Currencies []struct {
		Code string `json:"code"`
	} `json:"currencies"`
}

// CountriesClient fetches country metadata.
type CountriesClient struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewCountriesClient creates a client for the countries endpoint.
func NewCountriesClient(url string, client *http.Client, logger *zap.Logger) *CountriesClient {
	return &CountriesClient{url: url, client: client, logger: logger}
}

// FetchCountries implements reconcile.CountrySource.
//
// Records without a name or population are skipped, as are repeated names
// (the first occurrence is kept). A payload yielding no usable record is an error.
func (c *CountriesClient) FetchCountries(ctx context.Context) ([]reconcile.SourceCountry, error) {
	body, err := getBody(ctx, c.client, c.url)
	if err != nil {
		return nil, reconcile.NewSourceError(reconcile.SourceCountries, err)
	}

	var raw []rawCountry
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, reconcile.NewSourceError(reconcile.SourceCountries, fmt.Errorf("malformed payload: %w", err))
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]reconcile.SourceCountry, 0, len(raw))
	skipped, duplicates := 0, 0

	for _, r := range raw {
		name := strings.TrimSpace(r.Name)
		if name == "" || r.Population == nil || *r.Population < 0 {
			skipped++
			continue
		}
		if _, dup := seen[name]; dup {
			duplicates++
			continue
		}
		seen[name] = struct{}{}

		out = append(out, reconcile.SourceCountry{
			Name:         name,
			Capital:      strings.TrimSpace(r.Capital),
			Region:       strings.TrimSpace(r.Region),
			Population:   int64(math.Round(*r.Population)),
			CurrencyCode: r.currencyCode(),
			FlagURL:      r.flagURL(),
		})
	}

	if skipped > 0 || duplicates > 0 {
		c.logger.Warn("Dropped country records",
			zap.Int("invalid", skipped),
			zap.Int("duplicates", duplicates))
	}

	if len(out) == 0 {
		return nil, reconcile.NewSourceError(reconcile.SourceCountries, errors.New("payload contains no usable country"))
	}

	return out, nil
}

// currencyCode returns the code of the first listed currency.
func (r rawCountry) currencyCode() string {
	if len(r.Currencies) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Currencies[0].Code)
}

// flagURL prefers the raster flag, which the summary report can draw.
func (r rawCountry) flagURL() string {
	if r.Flags != nil && r.Flags.PNG != "" {
		return r.Flags.PNG
	}
	return r.Flag
}
