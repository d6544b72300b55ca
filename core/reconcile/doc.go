// Package reconcile merges country metadata with exchange rates.
//
// A refresh reads two independent sources: a CountrySource (name, capital,
// region, population, currency, flag) and a RateSource (currency code to units
// per USD). Run fetches both concurrently, then Reconcile joins them on the
// normalized currency code and derives the estimated GDP.
//
// # Policy
//
//   - Currency codes are trimmed and upper-cased before matching.
//   - Duplicate codes in the rate source: the last record wins.
//   - A country without a currency, or with one missing from the rate table,
//     keeps a nil ExchangeRate and a nil EstimatedGDP. This is a valid outcome.
//   - EstimatedGDP = population × rate × multiplier (DefaultGDPMultiplier = 1000).
//   - Every country of one run shares the same RefreshedAt, captured after both
//     fetches completed.
//
// # Failures
//
// Any fetch failure (transport error, timeout, bad status, malformed payload)
// aborts the run with a *SourceError matching ErrSourceUnavailable. Nothing is
// persisted by this package.
//
// # Usage Example
//
//	spec := &reconcile.Spec{
//	    Countries:     countriesClient,
//	    Rates:         ratesClient,
//	    FetchTimeout:  20 * time.Second,
//	    GDPMultiplier: 1000,
//	}
//	result, err := reconcile.Run(ctx, spec)
package reconcile
