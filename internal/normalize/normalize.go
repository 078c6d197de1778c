// Package normalize converts raw sensor payload values into the
// canonical left/right measurement model.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/stridelab/stridex/internal/model"
)

// SafeFloat coerces a raw scalar into a float. Nil, empty strings,
// non-numeric values and non-finite results all yield nil; coercion
// never panics and never produces NaN.
func SafeFloat(v any) *float64 {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case int:
		return finite(float64(t))
	case int64:
		return finite(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil
		}
		return finite(f)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return finite(f)
	default:
		return nil
	}
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// CoerceLR converts a raw metric value into an LRPair. Objects are read
// through their L and R fields, each side coerced independently. A bare
// scalar lands on L with R absent; it is never guessed onto R.
func CoerceLR(v any) model.LRPair {
	switch t := v.(type) {
	case *model.RawObject:
		l, _ := t.Get("L")
		r, _ := t.Get("R")
		return model.LRPair{L: SafeFloat(l), R: SafeFloat(r)}
	case map[string]any:
		return model.LRPair{L: SafeFloat(t["L"]), R: SafeFloat(t["R"])}
	default:
		return model.LRPair{L: SafeFloat(v)}
	}
}
