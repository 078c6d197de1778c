// Package generator builds demo subject payloads.
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Generator produces randomized raw subject documents in the shape of
// real sensor exports, for trying the dashboard without clinical data.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// SubjectDocument builds one raw payload document for the given
// subject. The document deliberately mixes the value shapes seen in
// field recordings: L/R objects, bare scalars, numeric strings, and
// the occasional alias spelling.
func (g *Generator) SubjectDocument(id string, days int) map[string]any {
	class := g.rnd.Intn(2)
	doc := map[string]any{
		"meta": map[string]any{
			"patient": map[string]any{
				"id":        id,
				"age":       50 + g.rnd.Intn(35),
				"gender":    pick(g.rnd, "M", "F"),
				"condition": pick(g.rnd, "baseline", "post-op", "follow-up"),
			},
			"site": fmt.Sprintf("lab-%d", 1+g.rnd.Intn(3)),
		},
		"labels": map[string]any{
			"annotation": map[string]any{
				"class":  class,
				"side":   pick(g.rnd, "L", "R"),
				"region": "knee",
			},
			"diagnosis_text": pick(g.rnd, "unremarkable gait", "reduced knee flexion", "asymmetric loading"),
		},
		"data": map[string]any{
			"imu_sensor":   map[string]any{"values": g.imuValues()},
			"gait_pad":     map[string]any{"values": g.padValues()},
			"smart_insole": map[string]any{"values": g.insoleValues(days)},
		},
	}
	return doc
}

func (g *Generator) imuValues() map[string]any {
	return map[string]any{
		"gait_cycle":         g.pair(0.9, 1.4, 0.1),
		"knee_flexion_max":   g.pair(45, 70, 5),
		"knee_extension_max": g.pair(-5, 10, 2),
		"foot_clearance":     g.pair(8, 18, 2),
	}
}

func (g *Generator) padValues() map[string]any {
	stance := g.between(55, 65)
	return map[string]any{
		"step_length": g.pair(55, 75, 4),
		// velocity is recorded as a single reading, sometimes a string
		"velocity":            g.scalarish(95, 135),
		"stance_phase_rate":   map[string]any{"L": stance, "R": stance + g.between(-3, 3)},
		"swing_phase_rate":    map[string]any{"L": 100 - stance, "R": 100 - stance + g.between(-3, 3)},
		"double_support_time": g.pair(14, 24, 2),
	}
}

func (g *Generator) insoleValues(days int) map[string]any {
	values := map[string]any{}
	for day := 1; day <= days; day++ {
		dayValues := map[string]any{
			"gait_speed":         g.between(2.5, 5.5),
			"balance":            g.pair(42, 58, 4),
			"foot_pressure_rear": g.pair(25, 45, 4),
			"foot_pressure_mid":  g.pair(15, 35, 4),
			"foot_pressure_fore": g.pair(25, 45, 4),
			"gait_distance":      g.between(80, 400),
			"foot_angle":         g.pair(0, 2, 0.5),
		}
		// Some exporters ship the historic typo.
		strideKey := "stride_length"
		if g.rnd.Intn(3) == 0 {
			strideKey = "stride_lenght"
		}
		dayValues[strideKey] = g.pair(90, 130, 6)
		values[fmt.Sprintf("day_%d", day)] = dayValues
	}
	return values
}

// pair returns an L/R object with a small right-side offset.
func (g *Generator) pair(min, max, spread float64) map[string]any {
	l := g.between(min, max)
	return map[string]any{
		"L": round1(l),
		"R": round1(l + g.between(-spread, spread)),
	}
}

// scalarish returns either a number or its string form.
func (g *Generator) scalarish(min, max float64) any {
	v := round1(g.between(min, max))
	if g.rnd.Intn(2) == 0 {
		return fmt.Sprintf("%.1f", v)
	}
	return v
}

func (g *Generator) between(min, max float64) float64 {
	return min + g.rnd.Float64()*(max-min)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func pick(rnd *rand.Rand, options ...string) string {
	return options[rnd.Intn(len(options))]
}
