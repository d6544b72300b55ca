package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"country-api/core/reconcile"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// RatesClient fetches exchange rates relative to USD.
type RatesClient struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewRatesClient creates a client for the exchange-rate endpoint.
func NewRatesClient(url string, client *http.Client, logger *zap.Logger) *RatesClient {
	return &RatesClient{url: url, client: client, logger: logger}
}

// FetchRates implements reconcile.RateSource.
// Rates are returned in payload order so that the last duplicate wins downstream.
func (c *RatesClient) FetchRates(ctx context.Context) ([]reconcile.Rate, error) {
	body, err := getBody(ctx, c.client, c.url)
	if err != nil {
		return nil, reconcile.NewSourceError(reconcile.SourceRates, err)
	}

	rates, err := parseRates(body)
	if err != nil {
		return nil, reconcile.NewSourceError(reconcile.SourceRates, err)
	}

	c.logger.Debug("Fetched exchange rates", zap.Int("count", len(rates)))
	return rates, nil
}

func parseRates(body []byte) ([]reconcile.Rate, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("malformed payload: invalid JSON")
	}
	doc := gjson.ParseBytes(body)

	if result := doc.Get("result"); result.Exists() && result.String() != "success" {
		return nil, fmt.Errorf("provider returned result=%q", result.String())
	}

	node := doc.Get("rates")
	if !node.IsObject() {
		return nil, errors.New("malformed payload: missing rates object")
	}

	var (
		rates []reconcile.Rate
		bad   string
	)
	node.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			bad = key.String()
			return false
		}
		rates = append(rates, reconcile.Rate{CurrencyCode: key.String(), Rate: value.Float()})
		return true
	})
	if bad != "" {
		return nil, fmt.Errorf("malformed payload: rate for %s is not a number", bad)
	}
	if len(rates) == 0 {
		return nil, errors.New("malformed payload: empty rates object")
	}

	return rates, nil
}
