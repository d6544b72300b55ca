package countries

import "time"

// Config holds the refresh pipeline policy.
type Config struct {
	// GDPMultiplier is the per-capita constant of the GDP estimate.
	GDPMultiplier float64 `mapstructure:"gdp_multiplier" default:"1000"`
	// TopN is the number of countries drawn on the summary image.
	TopN int `mapstructure:"top_n" default:"5"`
	// FlagTimeoutSeconds bounds each flag download of the summary image.
	FlagTimeoutSeconds int `mapstructure:"flag_timeout_seconds" default:"10"`
}

// FlagTimeout returns the flag download timeout, defaulting to 10 seconds.
func (c Config) FlagTimeout() time.Duration {
	if c.FlagTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.FlagTimeoutSeconds) * time.Second
}
