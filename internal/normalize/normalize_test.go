package normalize

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stridelab/stridex/internal/model"
)

func TestSafeFloatScalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *float64
	}{
		{"nil", nil, nil},
		{"int", 5, model.Float(5)},
		{"float", 7.25, model.Float(7.25)},
		{"number", json.Number("3.5"), model.Float(3.5)},
		{"numeric string", "7.5", model.Float(7.5)},
		{"padded string", "  2.0  ", model.Float(2)},
		{"empty string", "", nil},
		{"blank string", "   ", nil},
		{"garbage string", "x", nil},
		{"bool", true, nil},
		{"nan", math.NaN(), nil},
		{"inf", math.Inf(1), nil},
		{"inf string", "Inf", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeFloat(tt.in)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("SafeFloat(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Fatalf("SafeFloat(%v) = %v, want %v", tt.in, *got, *tt.want)
			}
		})
	}
}

func TestCoerceLRScalarLandsOnLeft(t *testing.T) {
	pair := CoerceLR(5)
	if pair.L == nil || *pair.L != 5 {
		t.Fatalf("expected L=5, got %v", pair.L)
	}
	if pair.R != nil {
		t.Fatalf("scalar must never be guessed onto R, got %v", *pair.R)
	}
}

func TestCoerceLRNil(t *testing.T) {
	pair := CoerceLR(nil)
	if pair.L != nil || pair.R != nil {
		t.Fatalf("expected {nil,nil}, got %+v", pair)
	}
}

func TestCoerceLRObjectSidesIndependent(t *testing.T) {
	obj := model.NewRawObject()
	obj.Set("L", json.Number("1"))
	obj.Set("R", "x")
	pair := CoerceLR(obj)
	if pair.L == nil || *pair.L != 1 {
		t.Fatalf("expected L=1, got %v", pair.L)
	}
	if pair.R != nil {
		t.Fatalf("non-parseable R must normalize to nil, got %v", *pair.R)
	}
}

func TestCoerceLRMap(t *testing.T) {
	pair := CoerceLR(map[string]any{"L": "2.5", "R": 3})
	if pair.L == nil || *pair.L != 2.5 || pair.R == nil || *pair.R != 3 {
		t.Fatalf("unexpected pair %+v", pair)
	}
}

func TestCoerceLRNeverNonFinite(t *testing.T) {
	inputs := []any{math.NaN(), math.Inf(-1), "NaN", "+Inf",
		map[string]any{"L": math.Inf(1), "R": "nan"}}
	for _, in := range inputs {
		pair := CoerceLR(in)
		for _, side := range []*float64{pair.L, pair.R} {
			if side != nil && (math.IsNaN(*side) || math.IsInf(*side, 0)) {
				t.Fatalf("CoerceLR(%v) produced non-finite side", in)
			}
		}
	}
}

func TestResolveAlias(t *testing.T) {
	if got := ResolveAlias("stride_lenght"); got != "stride_length" {
		t.Fatalf("alias not resolved: %q", got)
	}
	if got := ResolveAlias("step_length"); got != "step_length" {
		t.Fatalf("canonical key must pass through: %q", got)
	}
	if got := ResolveAlias("something_new"); got != "something_new" {
		t.Fatalf("unknown key must pass through: %q", got)
	}
}
