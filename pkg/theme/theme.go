// Package theme provides the two-valued light/dark theme, the colour skins
// applied to tree nodes, change notification and the persisted preference.
//
// A theme change only ever re-skins existing nodes. Nothing in this package
// touches layout or visibility.
package theme

import (
	"strings"

	"github.com/matzehuels/familytree/pkg/errors"
)

// Theme is "light" or "dark".
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"

	// Default is used when no preference has been saved.
	Default = Dark
)

// Parse validates a theme name. Case and surrounding space are ignored.
func Parse(s string) (Theme, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if err := errors.ValidateTheme(s); err != nil {
		return "", err
	}
	return Theme(s), nil
}

// Valid reports whether t is light or dark.
func (t Theme) Valid() bool { return t == Light || t == Dark }

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

func (t Theme) String() string { return string(t) }

// Skin returns the colours of t.
func (t Theme) Skin() Skin {
	if t == Light {
		return lightSkin
	}
	return darkSkin
}
