package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"country-api/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const countriesPayload = `[
  {"name":"Nigeria","capital":"Abuja","region":"Africa","population":206139587,
   "flag":"https://flagcdn.com/ng.svg","flags":{"svg":"https://flagcdn.com/ng.svg","png":"https://flagcdn.com/w320/ng.png"},
   "currencies":[{"code":"NGN","name":"Nigerian naira","symbol":"₦"}]},
  {"name":"Antarctica","region":"Polar","population":1000,"flag":"https://flagcdn.com/aq.svg"},
  {"name":"","population":5},
  {"name":"Nowhere"},
  {"name":"Nigeria","population":1,"currencies":[{"code":"XXX"}]},
  {"name":"Zimbabwe","capital":"Harare","region":"Africa","population":14862927,
   "currencies":[{"code":"BWP"},{"code":"GBP"}]}
]`

const ratesPayload = `{"result":"success","base_code":"USD","rates":{"USD":1,"NGN":1600.12,"EUR":0.92,"NGN":1200.5}}`

func serve(t *testing.T, status int, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCountriesClient_Fetch(t *testing.T) {
	srv := serve(t, http.StatusOK, countriesPayload)
	c := NewCountriesClient(srv.URL, NewHTTPClient(time.Second), zap.NewNop())

	out, err := c.FetchCountries(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, reconcile.SourceCountry{
		Name:         "Nigeria",
		Capital:      "Abuja",
		Region:       "Africa",
		Population:   206139587,
		CurrencyCode: "NGN",
		FlagURL:      "https://flagcdn.com/w320/ng.png",
	}, out[0])

	assert.Equal(t, "Antarctica", out[1].Name)
	assert.Empty(t, out[1].CurrencyCode)
	assert.Equal(t, "https://flagcdn.com/aq.svg", out[1].FlagURL)

	assert.Equal(t, "Zimbabwe", out[2].Name)
	assert.Equal(t, "BWP", out[2].CurrencyCode)
}

func TestCountriesClient_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"Server error", http.StatusInternalServerError, `{"message":"down"}`},
		{"Not found", http.StatusNotFound, ``},
		{"Malformed JSON", http.StatusOK, `[{"name":`},
		{"Wrong shape", http.StatusOK, `{"name":"Nigeria"}`},
		{"No usable record", http.StatusOK, `[{"name":"","population":1}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body)
			c := NewCountriesClient(srv.URL, NewHTTPClient(time.Second), zap.NewNop())

			out, err := c.FetchCountries(context.Background())
			assert.Nil(t, out)
			assert.ErrorIs(t, err, reconcile.ErrSourceUnavailable)

			var se *reconcile.SourceError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, reconcile.SourceCountries, se.Source)
		})
	}
}

func TestRatesClient_Fetch(t *testing.T) {
	srv := serve(t, http.StatusOK, ratesPayload)
	c := NewRatesClient(srv.URL, NewHTTPClient(time.Second), zap.NewNop())

	out, err := c.FetchRates(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 4)

	// payload order is kept, so the duplicate NGN resolves to the last value
	table := reconcile.BuildRateTable(out)
	assert.Equal(t, 1200.5, table["NGN"])
	assert.Equal(t, 0.92, table["EUR"])
}

func TestRatesClient_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"Server error", http.StatusBadGateway, ``},
		{"Malformed JSON", http.StatusOK, `{"rates":`},
		{"Missing rates", http.StatusOK, `{"result":"success"}`},
		{"Rates not an object", http.StatusOK, `{"rates":[1,2]}`},
		{"Non numeric rate", http.StatusOK, `{"rates":{"USD":"one"}}`},
		{"Empty rates", http.StatusOK, `{"rates":{}}`},
		{"Provider error", http.StatusOK, `{"result":"error","error-type":"quota-reached"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body)
			c := NewRatesClient(srv.URL, NewHTTPClient(time.Second), zap.NewNop())

			out, err := c.FetchRates(context.Background())
			assert.Nil(t, out)
			assert.ErrorIs(t, err, reconcile.ErrSourceUnavailable)
		})
	}
}

func TestRatesClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c := NewRatesClient(srv.URL, NewHTTPClient(50*time.Millisecond), zap.NewNop())

	start := time.Now()
	_, err := c.FetchRates(context.Background())
	assert.ErrorIs(t, err, reconcile.ErrSourceUnavailable)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRatesClient_Unreachable(t *testing.T) {
	srv := serve(t, http.StatusOK, ratesPayload)
	url := srv.URL
	srv.Close()

	c := NewRatesClient(url, NewHTTPClient(time.Second), zap.NewNop())
	_, err := c.FetchRates(context.Background())
	assert.ErrorIs(t, err, reconcile.ErrSourceUnavailable)
}

func TestConfig_Timeout(t *testing.T) {
	assert.Equal(t, 20*time.Second, Config{}.Timeout())
	assert.Equal(t, 3*time.Second, Config{TimeoutSeconds: 3}.Timeout())
}
