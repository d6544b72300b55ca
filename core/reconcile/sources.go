package reconcile

import (
	"context"
	"errors"
	"fmt"
)

// Source names used in SourceError.
const (
	SourceCountries = "countries"
	SourceRates     = "rates"
)

// ErrSourceUnavailable is matched by every error caused by a failed source fetch.
var ErrSourceUnavailable = errors.New("external data source unavailable")

// CountrySource fetches raw country metadata.
type CountrySource interface {
	FetchCountries(ctx context.Context) ([]SourceCountry, error)
}

// RateSource fetches raw exchange rates.
type RateSource interface {
	FetchRates(ctx context.Context) ([]Rate, error)
}

// SourceError reports which source failed and why.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s source unavailable: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrSourceUnavailable) hold for any SourceError.
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// NewSourceError wraps err as a failure of source. An existing SourceError is kept as is.
func NewSourceError(source string, err error) error {
	if err == nil {
		return nil
	}
	var se *SourceError
	if errors.As(err, &se) {
		return err
	}
	return &SourceError{Source: source, Err: err}
}
