package reconcile

import (
	"context"
	"math"
	"strings"
	"time"
)

// NormalizeCode canonicalizes a currency code for matching.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// BuildRateTable indexes rates by normalized currency code.
// When a code appears more than once the last record wins. Records with an
// empty code or a non-finite or non-positive rate are ignored.
func BuildRateTable(rates []Rate) map[string]float64 {
	table := make(map[string]float64, len(rates))
	for _, r := range rates {
		code := NormalizeCode(r.CurrencyCode)
		if code == "" || math.IsNaN(r.Rate) || math.IsInf(r.Rate, 0) || r.Rate <= 0 {
			continue
		}
		table[code] = r.Rate
	}
	return table
}

// Reconcile merges countries with rates by currency code.
// It returns one Country per input record, in input order, all stamped with at.
// A country without a currency or with an unknown one gets nil rate and GDP.
func Reconcile(countries []SourceCountry, rates []Rate, at time.Time, multiplier float64) []Country {
	if multiplier == 0 {
		multiplier = DefaultGDPMultiplier
	}
	table := BuildRateTable(rates)

	out := make([]Country, 0, len(countries))
	for _, sc := range countries {
		c := Country{
			Name:         strings.TrimSpace(sc.Name),
			Capital:      sc.Capital,
			Region:       sc.Region,
			Population:   sc.Population,
			CurrencyCode: strings.TrimSpace(sc.CurrencyCode),
			FlagURL:      sc.FlagURL,
			RefreshedAt:  at,
		}
		if code := NormalizeCode(sc.CurrencyCode); code != "" {
			if rate, ok := table[code]; ok {
				c.ExchangeRate = &rate
			}
		}
		c.EstimatedGDP = EstimateGDP(c.Population, c.ExchangeRate, multiplier)
		out = append(out, c)
	}
	return out
}

// Run fetches both sources and reconciles them. It has no side effects: the
// caller decides what to do with the result.
func Run(ctx context.Context, spec *Spec) (*Result, error) {
	inputs, err := Fetch(ctx, spec)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if spec.Now != nil {
		now = spec.Now
	}
	// MySQL DATETIME(6) keeps microseconds; truncating keeps the stored and
	// in-memory timestamps identical.
	at := now().UTC().Truncate(time.Microsecond)

	countries := Reconcile(inputs.Countries, inputs.Rates, at, spec.GDPMultiplier)

	result := &Result{Countries: countries, RefreshedAt: at}
	for _, c := range countries {
		if c.ExchangeRate != nil {
			result.Matched++
		} else {
			result.Unmatched++
		}
	}
	return result, nil
}
