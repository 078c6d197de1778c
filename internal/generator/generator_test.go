package generator

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stridelab/stridex/internal/ingest"
	"github.com/stridelab/stridex/internal/model"
)

func TestSubjectDocumentNormalizes(t *testing.T) {
	gen := NewSeeded(42)
	doc := gen.SubjectDocument("DEMO_001", 4)

	encoded, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	raw, err := model.DecodeRaw(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	obj, ok := raw.(*model.RawObject)
	if !ok {
		t.Fatalf("expected object, got %T", raw)
	}
	if got := ingest.SubjectID(obj, "fallback"); got != "DEMO_001" {
		t.Fatalf("unexpected subject id %q", got)
	}
}

func TestSubjectDocumentDayCount(t *testing.T) {
	gen := NewSeeded(7)
	doc := gen.SubjectDocument("DEMO_002", 6)
	data := doc["data"].(map[string]any)
	insole := data["smart_insole"].(map[string]any)
	values := insole["values"].(map[string]any)
	if len(values) != 6 {
		t.Fatalf("expected 6 days, got %d", len(values))
	}
	for key, day := range values {
		dayValues, ok := day.(map[string]any)
		if !ok {
			t.Fatalf("day %s is not an object", key)
		}
		_, canonical := dayValues["stride_length"]
		_, alias := dayValues["stride_lenght"]
		if !canonical && !alias {
			t.Fatalf("day %s carries no stride length under either spelling", key)
		}
	}
}

func TestSeededGeneratorIsDeterministic(t *testing.T) {
	a, _ := json.Marshal(NewSeeded(1).SubjectDocument("X", 2))
	b, _ := json.Marshal(NewSeeded(1).SubjectDocument("X", 2))
	if !bytes.Equal(a, b) {
		t.Fatal("same seed must produce identical documents")
	}
}
