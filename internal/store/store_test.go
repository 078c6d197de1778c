package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stridelab/stridex/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "stridex.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return st
}

func sampleSubject(id string) model.Subject {
	meta := model.NewRawObject()
	meta.Set("site", "lab-1")
	return model.Subject{
		ID:      id,
		Sensors: []string{"imu", "insole"},
		IMU: map[string]model.LRPair{
			"gait_cycle": {L: model.Float(1.1), R: model.Float(1.2)},
		},
		Insole: []model.DayRecord{
			{Key: "day_1", Values: map[string]model.LRPair{"balance": {L: model.Float(48)}}},
		},
		Meta: meta,
	}
}

func TestImportAndLoadRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.ImportSubjects(ctx, map[string]model.Subject{"S1": sampleSubject("S1")}); err != nil {
		t.Fatalf("import: %v", err)
	}

	subject, err := st.LoadSubject(ctx, "S1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if subject.ID != "S1" {
		t.Fatalf("unexpected id %q", subject.ID)
	}
	cycle := subject.IMU["gait_cycle"]
	if cycle.L == nil || *cycle.L != 1.1 || cycle.R == nil || *cycle.R != 1.2 {
		t.Fatalf("pair did not survive round trip: %+v", cycle)
	}
	if len(subject.Insole) != 1 || subject.Insole[0].Key != "day_1" {
		t.Fatalf("insole did not survive round trip: %+v", subject.Insole)
	}
	if subject.Meta == nil {
		t.Fatal("meta missing after round trip")
	}
	if v, _ := subject.Meta.Get("site"); v != "lab-1" {
		t.Fatalf("unexpected meta value %v", v)
	}
}

func TestImportUpsertsExisting(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	first := sampleSubject("S1")
	if err := st.ImportSubjects(ctx, map[string]model.Subject{"S1": first}); err != nil {
		t.Fatalf("import: %v", err)
	}
	second := sampleSubject("S1")
	second.Sensors = []string{"gait_pad"}
	if err := st.ImportSubjects(ctx, map[string]model.Subject{"S1": second}); err != nil {
		t.Fatalf("second import: %v", err)
	}
	summaries, err := st.ListSubjects(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("upsert must not duplicate, got %d rows", len(summaries))
	}
	if len(summaries[0].Sensors) != 1 || summaries[0].Sensors[0] != "gait_pad" {
		t.Fatalf("later import must win, got %v", summaries[0].Sensors)
	}
}

func TestListSubjectsOrdered(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	err := st.ImportSubjects(ctx, map[string]model.Subject{
		"B": sampleSubject("B"),
		"A": sampleSubject("A"),
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	summaries, err := st.ListSubjects(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 2 || summaries[0].ID != "A" || summaries[1].ID != "B" {
		t.Fatalf("unexpected order %v", summaries)
	}
	if summaries[0].Days != 1 {
		t.Fatalf("unexpected day count %d", summaries[0].Days)
	}
}

func TestLoadSubjectNotFound(t *testing.T) {
	st := openTestStore(t)
	_, err := st.LoadSubject(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReplaceSubjects(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.ImportSubjects(ctx, map[string]model.Subject{"old": sampleSubject("old")}); err != nil {
		t.Fatalf("import: %v", err)
	}
	if err := st.ReplaceSubjects(ctx, map[string]model.Subject{"new": sampleSubject("new")}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	subjects, err := st.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if len(subjects) != 1 {
		t.Fatalf("replace must discard prior contents, got %d", len(subjects))
	}
	if _, ok := subjects["new"]; !ok {
		t.Fatal("replacement subject missing")
	}
}

func TestClearAll(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.ImportSubjects(ctx, map[string]model.Subject{"S1": sampleSubject("S1")}); err != nil {
		t.Fatalf("import: %v", err)
	}
	if err := st.ClearAll(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	summaries, err := st.ListSubjects(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("expected empty store, got %d rows", len(summaries))
	}
}
