// Package scale maps normalized measurements onto bounded gauge
// positions and composes stance/swing phase splits.
package scale

// Project maps a value into a percentage position on the [min,max]
// gauge. The value is clamped to the range first, so the result is
// always within [0,100]. A nil value projects to nil: the caller must
// hide the marker rather than draw it at position 0. A degenerate
// range (min == max) also yields nil instead of propagating NaN.
func Project(value *float64, min, max float64) *float64 {
	if value == nil || min == max {
		return nil
	}
	v := *value
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	pct := (v - min) / (max - min) * 100
	return &pct
}

// Phase is a stance/swing percentage split. The two percentages sum to
// 100, except in the degenerate zero-total case where both are 0.
type Phase struct {
	StancePct float64 `json:"stance_pct"`
	SwingPct  float64 `json:"swing_pct"`
}

// ComposePhase derives the stance/swing split from the two raw phase
// magnitudes. If either side is absent the split is unavailable and ok
// is false. A zero total keeps a defined result by substituting 1 as
// the divisor, yielding a 0/0 split; the composer never returns NaN.
func ComposePhase(stance, swing *float64) (Phase, bool) {
	if stance == nil || swing == nil {
		return Phase{}, false
	}
	total := *stance + *swing
	if total == 0 {
		total = 1
	}
	return Phase{
		StancePct: *stance / total * 100,
		SwingPct:  *swing / total * 100,
	}, true
}
