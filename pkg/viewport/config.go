package viewport

import (
	"fmt"
	"time"

	"github.com/matzehuels/familytree/pkg/bounds"
	"github.com/matzehuels/familytree/pkg/layout"
)

// Config holds scale limits, paddings and animation timings.
type Config struct {
	ScaleMin float64 `toml:"scale_min" json:"scale_min"`
	ScaleMax float64 `toml:"scale_max" json:"scale_max"`

	// Readable is the narrower scale range used by FitReadable when the
	// caller passes a zero range.
	Readable Range `toml:"readable" json:"readable"`

	FitPadding     float64 `toml:"fit_padding" json:"fit_padding"`
	InitialPadding float64 `toml:"initial_padding" json:"initial_padding"`
	TopPadding     float64 `toml:"top_padding" json:"top_padding"`
	InitialBoost   float64 `toml:"initial_boost" json:"initial_boost"`

	ZoomInFactor  float64 `toml:"zoom_in_factor" json:"zoom_in_factor"`
	ZoomOutFactor float64 `toml:"zoom_out_factor" json:"zoom_out_factor"`

	FitDuration     time.Duration `toml:"fit_duration" json:"fit_duration"`
	InitialDuration time.Duration `toml:"initial_duration" json:"initial_duration"`
	ZoomDuration    time.Duration `toml:"zoom_duration" json:"zoom_duration"`

	// Card is the node footprint used when the controller derives bounds
	// itself (initial view).
	Card bounds.Card `toml:"card" json:"card"`
}

// DefaultConfig returns the stock limits and timings.
func DefaultConfig() Config {
	return Config{
		ScaleMin:        0.01,
		ScaleMax:        6,
		Readable:        Range{Min: 0.35, Max: 1.25},
		FitPadding:      110,
		InitialPadding:  130,
		TopPadding:      24,
		InitialBoost:    1.06,
		ZoomInFactor:    1.18,
		ZoomOutFactor:   0.85,
		FitDuration:     320 * time.Millisecond,
		InitialDuration: 420 * time.Millisecond,
		ZoomDuration:    150 * time.Millisecond,
		Card:            layout.DefaultConfig().Card(),
	}
}

// SetDefaults fills zero fields with their defaults. Durations are left
// alone: zero means "jump without animating".
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.ScaleMin == 0 {
		c.ScaleMin = d.ScaleMin
	}
	if c.ScaleMax == 0 {
		c.ScaleMax = d.ScaleMax
	}
	if c.Readable.IsZero() {
		c.Readable = d.Readable
	}
	if c.FitPadding == 0 {
		c.FitPadding = d.FitPadding
	}
	if c.InitialPadding == 0 {
		c.InitialPadding = d.InitialPadding
	}
	if c.TopPadding == 0 {
		c.TopPadding = d.TopPadding
	}
	if c.InitialBoost == 0 {
		c.InitialBoost = d.InitialBoost
	}
	if c.ZoomInFactor == 0 {
		c.ZoomInFactor = d.ZoomInFactor
	}
	if c.ZoomOutFactor == 0 {
		c.ZoomOutFactor = d.ZoomOutFactor
	}
	if c.Card == (bounds.Card{}) {
		c.Card = d.Card
	}
}

// Validate checks limits for consistency.
func (c Config) Validate() error {
	if c.ScaleMin <= 0 || c.ScaleMax < c.ScaleMin {
		return fmt.Errorf("invalid scale range [%g, %g]", c.ScaleMin, c.ScaleMax)
	}
	if c.Readable.Min <= 0 || c.Readable.Max < c.Readable.Min {
		return fmt.Errorf("invalid readable range [%g, %g]", c.Readable.Min, c.Readable.Max)
	}
	if c.ZoomInFactor <= 1 || c.ZoomOutFactor <= 0 || c.ZoomOutFactor >= 1 {
		return fmt.Errorf("zoom-in factor must exceed 1 and zoom-out factor lie in (0,1), got %g/%g", c.ZoomInFactor, c.ZoomOutFactor)
	}
	if c.FitPadding < 0 || c.InitialPadding < 0 || c.TopPadding < 0 {
		return fmt.Errorf("paddings must not be negative")
	}
	return nil
}

// Limits returns the global scale range.
func (c Config) Limits() Range { return Range{Min: c.ScaleMin, Max: c.ScaleMax} }
