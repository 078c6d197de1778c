package normalize

import (
	"strings"
	"testing"

	"github.com/stridelab/stridex/internal/model"
)

func rawObject(t *testing.T, src string) *model.RawObject {
	t.Helper()
	v, err := model.DecodeRaw(strings.NewReader(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	obj, ok := v.(*model.RawObject)
	if !ok {
		t.Fatalf("expected object, got %T", v)
	}
	return obj
}

func TestDayNumber(t *testing.T) {
	tests := []struct {
		key  string
		want int
	}{
		{"day_1", 1},
		{"day_10", 10},
		{"day_2_extra", 2},
		{"week_3", 0},
		{"day_", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := DayNumber(tt.key); got != tt.want {
			t.Errorf("DayNumber(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}
}

func TestSubjectNormalizesSections(t *testing.T) {
	data := rawObject(t, `{
		"imu_sensor": {"values": {"gait_cycle": {"L": 1.1, "R": "1.2"}, "foot_clearance": 4}},
		"gait_pad": {"values": {"velocity": "95", "step_length": {"L": 60, "R": 62}}},
		"smart_insole": {"values": {
			"day_2": {"stride_lenght": {"L": 100, "R": 101}},
			"day_1": {"gait_speed": 3.4}
		}}
	}`)
	subject := Subject("S1", Bucket{Data: data, Files: []string{"a.json"}})

	if subject.ID != "S1" {
		t.Fatalf("unexpected id %q", subject.ID)
	}
	wantSensors := []string{"imu", "gait_pad", "insole"}
	if len(subject.Sensors) != 3 {
		t.Fatalf("unexpected sensors %v", subject.Sensors)
	}
	for i, s := range wantSensors {
		if subject.Sensors[i] != s {
			t.Fatalf("unexpected sensors %v", subject.Sensors)
		}
	}

	cycle := subject.IMU["gait_cycle"]
	if cycle.L == nil || *cycle.L != 1.1 || cycle.R == nil || *cycle.R != 1.2 {
		t.Fatalf("unexpected gait_cycle %+v", cycle)
	}
	clearance := subject.IMU["foot_clearance"]
	if clearance.L == nil || *clearance.L != 4 || clearance.R != nil {
		t.Fatalf("scalar metric must land on L only: %+v", clearance)
	}

	velocity := subject.GaitPad["velocity"]
	if velocity.L == nil || *velocity.L != 95 || velocity.R != nil {
		t.Fatalf("unexpected velocity %+v", velocity)
	}

	if len(subject.Insole) != 2 {
		t.Fatalf("expected 2 insole days, got %d", len(subject.Insole))
	}
	if subject.Insole[0].Key != "day_1" || subject.Insole[1].Key != "day_2" {
		t.Fatalf("days must sort by numeric suffix: %s, %s",
			subject.Insole[0].Key, subject.Insole[1].Key)
	}
	stride, ok := subject.Insole[1].Values["stride_length"]
	if !ok {
		t.Fatal("stride_lenght alias must resolve to stride_length at load time")
	}
	if stride.L == nil || *stride.L != 100 {
		t.Fatalf("unexpected stride_length %+v", stride)
	}
}

func TestSubjectWithoutDataSections(t *testing.T) {
	subject := Subject("S2", Bucket{Meta: rawObject(t, `{"patient": {"id": "S2"}}`)})
	if len(subject.Sensors) != 0 {
		t.Fatalf("expected no sensors, got %v", subject.Sensors)
	}
	if subject.IMU != nil || subject.GaitPad != nil || subject.Insole != nil {
		t.Fatal("absent sections must stay nil")
	}
	if subject.Meta == nil {
		t.Fatal("meta must be carried through")
	}
}

func TestLabelRecordNestedAnnotation(t *testing.T) {
	raw := rawObject(t, `{"annotation": {"class": 1, "side": "L", "region": "knee"}, "diagnosis_text": "mild"}`)
	subject := Subject("S3", Bucket{Labels: []*model.RawObject{raw}})
	label := subject.LastLabel()
	if label == nil {
		t.Fatal("expected a label record")
	}
	if label.Class == nil || *label.Class != "1" {
		t.Fatalf("unexpected class %v", label.Class)
	}
	if label.Side == nil || *label.Side != "L" {
		t.Fatalf("unexpected side %v", label.Side)
	}
	if label.Region == nil || *label.Region != "knee" {
		t.Fatalf("unexpected region %v", label.Region)
	}
	if label.Diagnosis == nil || *label.Diagnosis != "mild" {
		t.Fatalf("unexpected diagnosis %v", label.Diagnosis)
	}
}

func TestLabelRecordFlatFields(t *testing.T) {
	raw := rawObject(t, `{"class": "0", "side": null}`)
	subject := Subject("S4", Bucket{Labels: []*model.RawObject{raw}})
	label := subject.LastLabel()
	if label.Class == nil || *label.Class != "0" {
		t.Fatalf("unexpected class %v", label.Class)
	}
	if label.Side != nil {
		t.Fatalf("null side must stay nil, got %q", *label.Side)
	}
	if label.Region != nil || label.Diagnosis != nil {
		t.Fatal("missing fields must stay nil")
	}
}

func TestLastLabelWins(t *testing.T) {
	first := rawObject(t, `{"class": 0}`)
	second := rawObject(t, `{"class": 1}`)
	subject := Subject("S5", Bucket{Labels: []*model.RawObject{first, second}})
	label := subject.LastLabel()
	if label.Class == nil || *label.Class != "1" {
		t.Fatalf("display must use the most recent label, got %v", label.Class)
	}
}
