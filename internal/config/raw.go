package config

// RawGap mirrors Gap with pointer fields so BuildEffectiveConfig can
// tell "unset" apart from "explicitly zero".
type RawGap struct {
	Top    *int `yaml:"top"`
	Bottom *int `yaml:"bottom"`
	Left   *int `yaml:"left"`
	Right  *int `yaml:"right"`
}

// RawBorderColors mirrors BorderColors with pointer fields.
type RawBorderColors struct {
	Focused *uint32 `yaml:"focused"`
	Normal  *uint32 `yaml:"normal"`
}

// RawConfig is the YAML document shape as parsed, before defaults are
// merged in by BuildEffectiveConfig.
type RawConfig struct {
	Tags              []string          `yaml:"tags"`
	Gap               *RawGap           `yaml:"gap"`
	Border            *RawBorderColors  `yaml:"border"`
	BorderWidth       *int              `yaml:"border_width"`
	Layouts           []string          `yaml:"layouts"`
	Keys              map[string]string `yaml:"keys"`
	Buttons           map[string]string `yaml:"buttons"`
	LogLevel          *string           `yaml:"log_level"`
	FocusFollowsMouse *bool             `yaml:"focus_follows_mouse"`
}
