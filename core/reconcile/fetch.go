package reconcile

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Fetch loads both sources concurrently. The first failure cancels the other
// fetch and is returned as a SourceError.
func Fetch(ctx context.Context, spec *Spec) (*Inputs, error) {
	var (
		countries []SourceCountry
		rates     []Rate
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fctx, cancel := withTimeout(gctx, spec.FetchTimeout)
		defer cancel()

		res, err := spec.Countries.FetchCountries(fctx)
		if err != nil {
			return NewSourceError(SourceCountries, err)
		}
		countries = res
		return nil
	})

	g.Go(func() error {
		fctx, cancel := withTimeout(gctx, spec.FetchTimeout)
		defer cancel()

		res, err := spec.Rates.FetchRates(fctx)
		if err != nil {
			return NewSourceError(SourceRates, err)
		}
		rates = res
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Inputs{Countries: countries, Rates: rates}, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
