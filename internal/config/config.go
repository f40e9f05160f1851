// Package config loads the host configuration that parameterizes the
// window manager core: tags, screen gaps, border appearance, the
// default layout stack, and key/button bindings. Loading follows the
// same defaults-then-overlay-then-validate shape as the reference
// loader this package is descended from.
package config

import (
	"fmt"
	"strings"
)

// Gap describes padding applied to a screen's viewport before layout.
type Gap struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// BorderColors holds the RGB border colors (0xRRGGBB) for the focused
// and unfocused window.
type BorderColors struct {
	Focused uint32 `yaml:"focused"`
	Normal  uint32 `yaml:"normal"`
}

// Config holds the application configuration.
type Config struct {
	Tags              []string          `yaml:"tags"`
	Gap               Gap               `yaml:"gap"`
	Border            BorderColors      `yaml:"border"`
	BorderWidth       int               `yaml:"border_width"`
	Layouts           []string          `yaml:"layouts"`
	Keys              map[string]string `yaml:"keys"`
	Buttons           map[string]string `yaml:"buttons"`
	LogLevel          string            `yaml:"log_level"`
	FocusFollowsMouse bool              `yaml:"focus_follows_mouse"`
}

// DefaultConfig returns the configuration used when no file is present
// and as the base every loaded file is merged onto.
func DefaultConfig() *Config {
	return &Config{
		Tags: []string{"1", "2", "3", "4", "5"},
		Gap:  Gap{},
		Border: BorderColors{
			Focused: 0x4c7899,
			Normal:  0x444444,
		},
		BorderWidth: 1,
		Layouts:     []string{"tall", "mirror-tall", "full"},
		Keys: map[string]string{
			"Mod4-j":      "focus-down",
			"Mod4-k":      "focus-up",
			"Mod4-Return": "swap-master",
			"Mod4-space":  "next-layout",
			"Mod4-h":      "shrink-master",
			"Mod4-l":      "expand-master",
			"Mod4-comma":  "inc-master-n",
			"Mod4-period": "dec-master-n",
			"Mod4-q":      "kill",
			"Mod4-1":      "view-1",
			"Mod4-2":      "view-2",
			"Mod4-3":      "view-3",
			"Mod4-4":      "view-4",
			"Mod4-5":      "view-5",
		},
		Buttons: map[string]string{
			"Mod4-1": "move",
			"Mod4-3": "resize",
		},
		LogLevel:          "info",
		FocusFollowsMouse: false,
	}
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if len(c.Tags) == 0 {
		return &ValidationError{Path: "tags", Err: fmt.Errorf("tags must not be empty")}
	}
	seen := make(map[string]bool, len(c.Tags))
	for _, tag := range c.Tags {
		if strings.TrimSpace(tag) == "" {
			return &ValidationError{Path: "tags", Err: fmt.Errorf("tags must not contain an empty name")}
		}
		if seen[tag] {
			return &ValidationError{Path: "tags", Err: fmt.Errorf("duplicate tag %q", tag)}
		}
		seen[tag] = true
	}
	if c.Gap.Top < 0 || c.Gap.Bottom < 0 || c.Gap.Left < 0 || c.Gap.Right < 0 {
		return &ValidationError{Path: "gap", Err: fmt.Errorf("gap values must be >= 0")}
	}
	if c.BorderWidth < 0 {
		return &ValidationError{Path: "border_width", Err: fmt.Errorf("border_width must be >= 0")}
	}
	if len(c.Layouts) == 0 {
		return &ValidationError{Path: "layouts", Err: fmt.Errorf("layouts must not be empty")}
	}
	for i, name := range c.Layouts {
		if _, ok := builtinLayoutNames[name]; !ok {
			return &ValidationError{Path: fmt.Sprintf("layouts[%d]", i), Err: fmt.Errorf("unknown layout %q", name)}
		}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	for seq, action := range c.Keys {
		if strings.TrimSpace(seq) == "" {
			return &ValidationError{Path: "keys", Err: fmt.Errorf("keys must not contain an empty binding")}
		}
		if _, ok := builtinActions[action]; !ok && !strings.HasPrefix(action, "view-") && !strings.HasPrefix(action, "move-to-") {
			return &ValidationError{Path: "keys." + seq, Err: fmt.Errorf("unknown action %q", action)}
		}
	}
	for seq, action := range c.Buttons {
		switch action {
		case "move", "resize", "focus":
		default:
			return &ValidationError{Path: "buttons." + seq, Err: fmt.Errorf("unknown button action %q, want move, resize, or focus", action)}
		}
	}
	return nil
}

var builtinLayoutNames = map[string]bool{
	"full":        true,
	"tall":        true,
	"mirror-tall": true,
}

var builtinActions = map[string]bool{
	"focus-down":    true,
	"focus-up":      true,
	"swap-master":   true,
	"next-layout":   true,
	"prev-layout":   true,
	"shrink-master": true,
	"expand-master": true,
	"inc-master-n":  true,
	"dec-master-n":  true,
	"kill":          true,
	"close":         true,
	"sink":          true,
	"float":         true,
	"restart":       true,
}
