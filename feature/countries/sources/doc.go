// Package sources implements the external data clients of the refresh.
//
// CountriesClient reads a restcountries v2 style array and RatesClient reads an
// open.er-api style object. Each performs one GET bounded by the configured
// timeout. Transport errors, non-2xx statuses and payloads that do not match
// the expected shape all fail with a reconcile.SourceError. There is no retry.
package sources
