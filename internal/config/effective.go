package config

import "fmt"

// ValidationError names the YAML path that failed validation, carrying
// its file/line source when the loader could recover one.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig merges a parsed RawConfig onto DefaultConfig,
// only overriding fields the file actually set.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Tags != nil {
		cfg.Tags = raw.Tags
	}
	if raw.Gap != nil {
		if raw.Gap.Top != nil {
			cfg.Gap.Top = *raw.Gap.Top
		}
		if raw.Gap.Bottom != nil {
			cfg.Gap.Bottom = *raw.Gap.Bottom
		}
		if raw.Gap.Left != nil {
			cfg.Gap.Left = *raw.Gap.Left
		}
		if raw.Gap.Right != nil {
			cfg.Gap.Right = *raw.Gap.Right
		}
	}
	if raw.Border != nil {
		if raw.Border.Focused != nil {
			cfg.Border.Focused = *raw.Border.Focused
		}
		if raw.Border.Normal != nil {
			cfg.Border.Normal = *raw.Border.Normal
		}
	}
	if raw.BorderWidth != nil {
		cfg.BorderWidth = *raw.BorderWidth
	}
	if raw.Layouts != nil {
		cfg.Layouts = raw.Layouts
	}
	if raw.Keys != nil {
		cfg.Keys = raw.Keys
	}
	if raw.Buttons != nil {
		cfg.Buttons = raw.Buttons
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.FocusFollowsMouse != nil {
		cfg.FocusFollowsMouse = *raw.FocusFollowsMouse
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
