package ops

import "github.com/loomwm/loom/internal/x11"

// ApplySizeHints is the deterministic sizing function interactive resize
// uses on every pointer motion: subtract the base size, clamp to the
// aspect ratio, round down to the resize increment, clamp to the max
// size, then add the base back. The result is never smaller than 1x1.
func ApplySizeHints(hints x11.SizeHints, w, h int) (int, int) {
	baseW, baseH := 0, 0
	if hints.HasBase {
		baseW, baseH = hints.BaseWidth, hints.BaseHeight
	} else if hints.HasMin {
		baseW, baseH = hints.MinWidth, hints.MinHeight
	}

	dw, dh := w-baseW, h-baseH
	if dw < 0 {
		dw = 0
	}
	if dh < 0 {
		dh = 0
	}

	if hints.HasAspect && hints.MinAspectD != 0 && hints.MaxAspectD != 0 && dh != 0 {
		ratio := float64(dw) / float64(dh)
		minRatio := float64(hints.MinAspectN) / float64(hints.MinAspectD)
		maxRatio := float64(hints.MaxAspectN) / float64(hints.MaxAspectD)
		switch {
		case ratio < minRatio:
			dh = int(float64(dw) / minRatio)
		case ratio > maxRatio:
			dh = int(float64(dw) / maxRatio)
		}
	}

	if hints.HasInc {
		if hints.WidthInc > 0 {
			dw -= dw % hints.WidthInc
		}
		if hints.HeightInc > 0 {
			dh -= dh % hints.HeightInc
		}
	}

	width, height := baseW+dw, baseH+dh

	if hints.HasMax {
		if width > hints.MaxWidth {
			width = hints.MaxWidth
		}
		if height > hints.MaxHeight {
			height = hints.MaxHeight
		}
	}

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}
