package tui

import (
	"strings"
	"testing"

	"github.com/stridelab/stridex/internal/model"
	"github.com/stridelab/stridex/internal/state"
	"github.com/stridelab/stridex/internal/view"
)

func newTestStore() *state.Store {
	st := state.New()
	st.ReplaceAll(map[string]model.Subject{
		"S1": {
			ID:      "S1",
			Sensors: []string{"imu"},
			IMU: map[string]model.LRPair{
				"gait_cycle": {L: model.Float(1.1), R: model.Float(1.2)},
			},
		},
		"S2": {
			ID:      "S2",
			Sensors: []string{"insole"},
			Insole: []model.DayRecord{
				{Key: "day_1", Values: map[string]model.LRPair{"gait_speed": {L: model.Float(3)}}},
				{Key: "day_2", Values: map[string]model.LRPair{"gait_speed": {L: model.Float(4)}}},
			},
		},
	})
	return st
}

func TestNewModelSelectsFirstSubject(t *testing.T) {
	st := newTestStore()
	m := NewModel(st)
	if st.CurrentID() != "S1" {
		t.Fatalf("expected first subject selected, got %q", st.CurrentID())
	}
	if !m.plan.Available {
		t.Fatal("plan must be available after construction")
	}
}

func TestMoveSubjectWraps(t *testing.T) {
	st := newTestStore()
	m := NewModel(st)

	m.moveSubject(1)
	if st.CurrentID() != "S2" {
		t.Fatalf("expected S2, got %q", st.CurrentID())
	}
	m.moveSubject(1)
	if st.CurrentID() != "S1" {
		t.Fatalf("expected wrap to S1, got %q", st.CurrentID())
	}
	m.moveSubject(-1)
	if st.CurrentID() != "S2" {
		t.Fatalf("expected wrap back to S2, got %q", st.CurrentID())
	}
}

func TestMoveSubjectResetsDay(t *testing.T) {
	st := newTestStore()
	m := NewModel(st)

	m.moveSubject(1) // S2 has two days
	st.SelectDay(1)
	m.refresh()
	if got := activeDayLabel(m.plan.Insole); got != "Day 2" {
		t.Fatalf("expected Day 2 active, got %q", got)
	}

	m.moveSubject(1)
	m.moveSubject(-1) // back to S2
	if got := activeDayLabel(m.plan.Insole); got != "Day 1" {
		t.Fatalf("expected day reset on re-select, got %q", got)
	}
}

func TestMetaRowsCombineMetaAndLabels(t *testing.T) {
	plan := view.RenderPlan{
		Meta:   []view.KV{{Key: "id", Value: "S1"}},
		Labels: []view.KV{{Key: "class", Value: "normal"}},
	}
	rows := metaRows(plan)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "meta" || rows[1][0] != "label" {
		t.Fatalf("unexpected sections %q %q", rows[0][0], rows[1][0])
	}
}

func TestActiveDayLabel(t *testing.T) {
	insole := view.InsolePlan{Days: []string{"Day 1", "Day 2"}, ActiveDay: 1}
	if got := activeDayLabel(insole); got != "Day 2" {
		t.Fatalf("expected Day 2, got %q", got)
	}
	insole.ActiveDay = -1
	if got := activeDayLabel(insole); got != "" {
		t.Fatalf("expected empty label, got %q", got)
	}
}

func TestFitLinesPadsAndClips(t *testing.T) {
	out := fitLines("a\nb\nc", 3, 2)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if len(line) != 3 {
			t.Fatalf("expected width 3, got %q", line)
		}
	}

	out = fitLines("a", 2, 3)
	if got := len(strings.Split(out, "\n")); got != 3 {
		t.Fatalf("expected padding to 3 lines, got %d", got)
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("hello", 3); got != "hel" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateLine("hi", 5); got != "hi" {
		t.Fatalf("short line must pass through, got %q", got)
	}
}
