package layout

import (
	"fmt"

	"github.com/matzehuels/familytree/pkg/bounds"
)

// Default geometry, in layout units (CSS pixels at scale 1).
const (
	DefaultNodeWidth         = 170.0
	DefaultNodeHeight        = 190.0
	DefaultGapX              = 90.0
	DefaultGapY              = 110.0
	DefaultSiblingSeparation = 1.0
	DefaultCousinSeparation  = 1.15
	DefaultCardOffsetY       = -70.0
	DefaultLinkSourceOffset  = 80.0
	DefaultLinkTargetOffset  = -10.0
)

// Config holds the spacing constants of a layout pass.
type Config struct {
	NodeWidth  float64 `toml:"node_width" json:"node_width"`
	NodeHeight float64 `toml:"node_height" json:"node_height"`
	GapX       float64 `toml:"gap_x" json:"gap_x"`
	GapY       float64 `toml:"gap_y" json:"gap_y"`

	// Minimum distance between adjacent centres, in units of NodeWidth+GapX.
	SiblingSeparation float64 `toml:"sibling_separation" json:"sibling_separation"`
	CousinSeparation  float64 `toml:"cousin_separation" json:"cousin_separation"`

	CardOffsetY float64 `toml:"card_offset_y" json:"card_offset_y"`

	// Links leave a parent LinkSourceOffset below its centre and enter a
	// child at LinkTargetOffset.
	LinkSourceOffset float64 `toml:"link_source_offset" json:"link_source_offset"`
	LinkTargetOffset float64 `toml:"link_target_offset" json:"link_target_offset"`
}

// DefaultConfig returns the stock card and spacing geometry.
func DefaultConfig() Config {
	return Config{
		NodeWidth:         DefaultNodeWidth,
		NodeHeight:        DefaultNodeHeight,
		GapX:              DefaultGapX,
		GapY:              DefaultGapY,
		SiblingSeparation: DefaultSiblingSeparation,
		CousinSeparation:  DefaultCousinSeparation,
		CardOffsetY:       DefaultCardOffsetY,
		LinkSourceOffset:  DefaultLinkSourceOffset,
		LinkTargetOffset:  DefaultLinkTargetOffset,
	}
}

// SetDefaults fills zero fields with their defaults.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.NodeWidth == 0 {
		c.NodeWidth = d.NodeWidth
	}
	if c.NodeHeight == 0 {
		c.NodeHeight = d.NodeHeight
	}
	if c.GapX == 0 {
		c.GapX = d.GapX
	}
	if c.GapY == 0 {
		c.GapY = d.GapY
	}
	if c.SiblingSeparation == 0 {
		c.SiblingSeparation = d.SiblingSeparation
	}
	if c.CousinSeparation == 0 {
		c.CousinSeparation = d.CousinSeparation
	}
	if c.CardOffsetY == 0 {
		c.CardOffsetY = d.CardOffsetY
	}
	if c.LinkSourceOffset == 0 {
		c.LinkSourceOffset = d.LinkSourceOffset
	}
	if c.LinkTargetOffset == 0 {
		c.LinkTargetOffset = d.LinkTargetOffset
	}
}

// Validate checks that the geometry is usable.
func (c Config) Validate() error {
	if c.NodeWidth <= 0 || c.NodeHeight <= 0 {
		return fmt.Errorf("node size must be positive, got %gx%g", c.NodeWidth, c.NodeHeight)
	}
	if c.GapX < 0 || c.GapY < 0 {
		return fmt.Errorf("gaps must not be negative, got %g/%g", c.GapX, c.GapY)
	}
	if c.SiblingSeparation <= 0 || c.CousinSeparation <= 0 {
		return fmt.Errorf("separations must be positive, got %g/%g", c.SiblingSeparation, c.CousinSeparation)
	}
	return nil
}

// StepX is the horizontal size of one separation unit.
func (c Config) StepX() float64 { return c.NodeWidth + c.GapX }

// StepY is the vertical distance between depth levels.
func (c Config) StepY() float64 { return c.NodeHeight + c.GapY }

// Card returns the card footprint shared with bounds and rendering.
func (c Config) Card() bounds.Card {
	return bounds.Card{Width: c.NodeWidth, Height: c.NodeHeight, OffsetY: c.CardOffsetY}
}
