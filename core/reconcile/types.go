package reconcile

import "time"

// SourceCountry is one country record as delivered by the country source.
// Empty strings stand for absent optional fields.
type SourceCountry struct {
	Name         string
	Capital      string
	Region       string
	Population   int64
	CurrencyCode string
	FlagURL      string
}

// Rate is one exchange-rate record: units of CurrencyCode per one USD.
type Rate struct {
	CurrencyCode string
	Rate         float64
}

// Country is a reconciled record ready to be persisted.
type Country struct {
	Name         string
	Capital      string
	Region       string
	Population   int64
	CurrencyCode string

	// ExchangeRate is nil when no rate matched CurrencyCode.
	ExchangeRate *float64

	// EstimatedGDP is nil exactly when ExchangeRate is nil.
	EstimatedGDP *float64

	FlagURL string

	// RefreshedAt is shared by every record of one refresh.
	RefreshedAt time.Time
}

// Inputs holds the raw records of both sources for one refresh.
type Inputs struct {
	Countries []SourceCountry
	Rates     []Rate
}

// Spec bundles the sources and policy of a refresh run.
type Spec struct {
	// Countries provides the country metadata (source A).
	Countries CountrySource

	// Rates provides the exchange rates (source B).
	Rates RateSource

	// FetchTimeout bounds each source fetch. Zero disables the bound.
	FetchTimeout time.Duration

	// GDPMultiplier is the fixed per-capita constant of EstimateGDP.
	// Zero selects DefaultGDPMultiplier.
	GDPMultiplier float64

	// Now returns the current time. Nil uses time.Now.
	Now func() time.Time
}

// Result is the output of Run.
type Result struct {
	// Countries holds one entry per source country, in source order.
	Countries []Country

	// RefreshedAt is the timestamp stamped on every country.
	RefreshedAt time.Time

	// Matched counts countries that received an exchange rate.
	Matched int

	// Unmatched counts countries without a rate (no or unknown currency).
	Unmatched int
}
