package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Decode reconstructs a Layout from the text Encode produced, for the
// resume path: the persisted StackSet stores each workspace's layout as
// this string rather than a concrete Go type.
func Decode(s string) (Layout, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("layout: empty encoding")
	}

	switch fields[0] {
	case "full":
		return Full{}, nil

	case "tall":
		if len(fields) != 4 {
			return nil, fmt.Errorf("layout: malformed tall encoding %q", s)
		}
		nmaster, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("layout: tall nmaster: %w", err)
		}
		delta, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("layout: tall delta: %w", err)
		}
		frac, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("layout: tall frac: %w", err)
		}
		return NewTall(nmaster, delta, frac), nil

	case "mirror":
		rest := strings.TrimSpace(strings.TrimPrefix(s, "mirror"))
		if rest == "" {
			return Mirror{Wrapped: Full{}}, nil
		}
		wrapped, err := Decode(rest)
		if err != nil {
			return nil, fmt.Errorf("layout: mirror: %w", err)
		}
		return Mirror{Wrapped: wrapped}, nil

	case "selector":
		rest := strings.TrimSpace(strings.TrimPrefix(s, "selector"))
		if rest == "" {
			return nil, fmt.Errorf("layout: selector encoding has no members")
		}
		names := strings.Split(rest, ",")
		layouts := make([]Layout, 0, len(names))
		for _, name := range names {
			l, err := Decode(strings.TrimSpace(name))
			if err != nil {
				return nil, fmt.Errorf("layout: selector member: %w", err)
			}
			layouts = append(layouts, l)
		}
		return Selector{Layouts: layouts}, nil

	default:
		return nil, fmt.Errorf("layout: unknown encoding kind %q", fields[0])
	}
}

// ByName constructs the default instance of one of the built-in layouts a
// host config names (e.g. from SPEC_FULL's layouts list), as opposed to
// Decode which reconstructs a specific, possibly-adjusted instance from a
// resumed state file.
func ByName(name string) (Layout, error) {
	switch name {
	case "full":
		return Full{}, nil
	case "tall":
		return NewTall(1, 0.03, 0.5), nil
	case "mirror-tall":
		return Mirror{Wrapped: NewTall(1, 0.03, 0.5)}, nil
	default:
		return nil, fmt.Errorf("layout: unknown built-in %q", name)
	}
}
