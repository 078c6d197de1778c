package registry

import "testing"

func TestLabelKnownMetric(t *testing.T) {
	label := Label(DomainPad, "step_length")
	if label.CanonicalName != "step_length" {
		t.Fatalf("unexpected canonical name %q", label.CanonicalName)
	}
	if label.Unit != "cm" {
		t.Fatalf("unexpected unit %q", label.Unit)
	}
	if label.LocalName == "" || label.LocalName == "step_length" {
		t.Fatalf("expected localized name, got %q", label.LocalName)
	}
}

func TestLabelUnknownFallsBackToKey(t *testing.T) {
	for _, tt := range []struct{ domain, key string }{
		{DomainIMU, "no_such_metric"},
		{"no_such_domain", "step_length"},
	} {
		label := Label(tt.domain, tt.key)
		if label.LocalName != tt.key || label.CanonicalName != tt.key || label.Unit != "" {
			t.Fatalf("Label(%q,%q) = %+v, want key fallback", tt.domain, tt.key, label)
		}
	}
}

func TestRangeTables(t *testing.T) {
	min, max, ok := Range(DomainIMU, "knee_extension_max")
	if !ok || min != -10 || max != 20 {
		t.Fatalf("unexpected range [%v,%v] ok=%v", min, max, ok)
	}
	if _, _, ok := Range(DomainInsole, "missing"); ok {
		t.Fatal("unknown metric must report ok=false")
	}
}

func TestMetricsOrderIsDisplayOrder(t *testing.T) {
	metrics := Metrics(DomainInsole)
	if len(metrics) != 8 {
		t.Fatalf("expected 8 insole metrics, got %d", len(metrics))
	}
	if metrics[0].Key != "gait_speed" || metrics[7].Key != "foot_angle" {
		t.Fatalf("unexpected order: first=%s last=%s", metrics[0].Key, metrics[7].Key)
	}
	if Metrics("unknown") != nil {
		t.Fatal("unknown domain must yield nil")
	}
}
