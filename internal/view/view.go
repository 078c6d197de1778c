// Package view projects the current store selection into a fully
// materialized RenderPlan. Projection is a pure function of state:
// every call replaces the previous plan wholesale, and the plan holds
// no references back into the store.
package view

import (
	"fmt"
	"strings"

	"github.com/stridelab/stridex/internal/model"
	"github.com/stridelab/stridex/internal/registry"
	"github.com/stridelab/stridex/internal/scale"
	"github.com/stridelab/stridex/internal/state"
)

// Unavailable is the placeholder token for absent values. Renderers
// rely on it to distinguish "no data" from a zero reading, so it is
// never "0.0" and never empty.
const Unavailable = "--"

// KV is one flattened display pair.
type KV struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// GaugeRow is the render instruction for one metric gauge: formatted
// side values plus marker positions as percentages of the gauge width.
// A nil position means the marker is hidden.
type GaugeRow struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Unit       string   `json:"unit"`
	Min        float64  `json:"min"`
	Max        float64  `json:"max"`
	FormattedL string   `json:"formatted_l"`
	FormattedR string   `json:"formatted_r"`
	PosL       *float64 `json:"pos_l"`
	PosR       *float64 `json:"pos_r"`
}

// PhaseBar is the stance/swing split bar for one side.
type PhaseBar struct {
	Side       string  `json:"side"`
	Available  bool    `json:"available"`
	StancePct  float64 `json:"stance_pct"`
	SwingPct   float64 `json:"swing_pct"`
	StanceText string  `json:"stance_text"`
	SwingText  string  `json:"swing_text"`
}

// TrendRow carries the per-day left-side readings of one insole metric
// for sparkline rendering. Days without a reading are skipped.
type TrendRow struct {
	Key    string    `json:"key"`
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// InsolePlan is the render instruction set for the insole section.
type InsolePlan struct {
	Days      []string   `json:"days"`
	ActiveDay int        `json:"active_day"`
	Rows      []GaugeRow `json:"rows"`
	Trends    []TrendRow `json:"trends"`
}

// RenderPlan is the materialized display state for one rendering pass.
type RenderPlan struct {
	SubjectID string     `json:"subject_id"`
	Available bool       `json:"available"`
	Sensors   []string   `json:"sensors"`
	IMU       []GaugeRow `json:"imu"`
	GaitPad   []GaugeRow `json:"gait_pad"`
	PhaseL    PhaseBar   `json:"phase_l"`
	PhaseR    PhaseBar   `json:"phase_r"`
	Insole    InsolePlan `json:"insole"`
	Meta      []KV       `json:"meta"`
	Labels    []KV       `json:"labels"`
}

// Project builds the RenderPlan for the store's current selection. With
// no selection it returns the defined empty plan: every widget carries
// the unavailable token and every marker is hidden.
func Project(st *state.Store) RenderPlan {
	subject := st.Current()
	if subject == nil {
		return emptyPlan()
	}

	plan := RenderPlan{
		SubjectID: subject.ID,
		Available: true,
		Sensors:   append([]string(nil), subject.Sensors...),
		IMU:       gaugeRows(registry.DomainIMU, subject.IMU),
		GaitPad:   gaugeRows(registry.DomainPad, subject.GaitPad),
		Meta:      flattenMeta(subject.Meta),
		Labels:    labelPairs(subject.LastLabel()),
	}
	plan.PhaseL, plan.PhaseR = phaseBars(subject.GaitPad)
	plan.Insole = insolePlan(subject.Insole, st.DayIndex())
	return plan
}

func emptyPlan() RenderPlan {
	plan := RenderPlan{
		IMU:     gaugeRows(registry.DomainIMU, nil),
		GaitPad: gaugeRows(registry.DomainPad, nil),
		PhaseL:  PhaseBar{Side: "L"},
		PhaseR:  PhaseBar{Side: "R"},
		Insole: InsolePlan{
			ActiveDay: -1,
			Rows:      gaugeRows(registry.DomainInsole, nil),
		},
	}
	return plan
}

func gaugeRows(domain string, values map[string]model.LRPair) []GaugeRow {
	metrics := registry.Metrics(domain)
	rows := make([]GaugeRow, 0, len(metrics))
	for _, m := range metrics {
		pair := values[m.Key] // zero LRPair when absent
		rows = append(rows, GaugeRow{
			Key:        m.Key,
			Label:      m.LocalName,
			Unit:       m.Unit,
			Min:        m.Min,
			Max:        m.Max,
			FormattedL: FormatValue(pair.L),
			FormattedR: FormatValue(pair.R),
			PosL:       scale.Project(pair.L, m.Min, m.Max),
			PosR:       scale.Project(pair.R, m.Min, m.Max),
		})
	}
	return rows
}

func phaseBars(pad map[string]model.LRPair) (PhaseBar, PhaseBar) {
	stance := pad["stance_phase_rate"]
	swing := pad["swing_phase_rate"]
	return phaseBar("L", stance.L, swing.L), phaseBar("R", stance.R, swing.R)
}

func phaseBar(side string, stance, swing *float64) PhaseBar {
	phase, ok := scale.ComposePhase(stance, swing)
	if !ok {
		return PhaseBar{Side: side}
	}
	return PhaseBar{
		Side:       side,
		Available:  true,
		StancePct:  phase.StancePct,
		SwingPct:   phase.SwingPct,
		StanceText: fmt.Sprintf("입각기 %.1f%%", phase.StancePct),
		SwingText:  fmt.Sprintf("유각기 %.1f%%", phase.SwingPct),
	}
}

func insolePlan(days []model.DayRecord, dayIndex int) InsolePlan {
	plan := InsolePlan{ActiveDay: -1}
	if len(days) == 0 {
		plan.Rows = gaugeRows(registry.DomainInsole, nil)
		return plan
	}

	plan.Days = make([]string, len(days))
	for i, d := range days {
		plan.Days[i] = dayLabel(d.Key)
	}
	if dayIndex < 0 || dayIndex >= len(days) {
		dayIndex = 0
	}
	plan.ActiveDay = dayIndex
	plan.Rows = gaugeRows(registry.DomainInsole, days[dayIndex].Values)
	plan.Trends = trendRows(days)
	return plan
}

func trendRows(days []model.DayRecord) []TrendRow {
	metrics := registry.Metrics(registry.DomainInsole)
	rows := make([]TrendRow, 0, len(metrics))
	for _, m := range metrics {
		row := TrendRow{Key: m.Key, Label: m.LocalName}
		for _, d := range days {
			if v := d.Values[m.Key].L; v != nil {
				row.Values = append(row.Values, *v)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func dayLabel(key string) string {
	return strings.Replace(key, "day_", "Day ", 1)
}

// FormatValue renders a measurement with one decimal place; absent
// values render as the unavailable token.
func FormatValue(v *float64) string {
	if v == nil {
		return Unavailable
	}
	return fmt.Sprintf("%.1f", *v)
}
