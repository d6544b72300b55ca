package reconcile

// DefaultGDPMultiplier is the per-capita constant used when none is configured.
const DefaultGDPMultiplier = 1000.0

// EstimateGDP returns population × rate × multiplier, or nil when rate is nil.
//
// The figure is an internal indicator, not a sourced fact: it only needs to be
// deterministic for identical inputs.
func EstimateGDP(population int64, rate *float64, multiplier float64) *float64 {
	if rate == nil {
		return nil
	}
	gdp := float64(population) * *rate * multiplier
	return &gdp
}
