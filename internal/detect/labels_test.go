package detect

import (
	"math"
	"testing"
)

func TestNormalizeFillsWatchedLabels(t *testing.T) {
	set, err := Normalize(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range WatchedLabels {
		label, ok := set[name]
		if !ok {
			t.Fatalf("missing label %s", name)
		}
		if label.Instances == nil {
			t.Fatalf("nil instances for %s", name)
		}
	}
}

func TestNormalizeDropsUnwatchedLabels(t *testing.T) {
	raw := []Label{
		{Name: "Car", Instances: []Instance{{Confidence: 0.9}}},
		{Name: LabelPerson, Instances: []Instance{{Confidence: 0.8}}},
	}
	set, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := set["Car"]; ok {
		t.Fatalf("unwatched label kept")
	}
	if set.Count(LabelPerson) != 1 {
		t.Fatalf("expected 1 person, got %d", set.Count(LabelPerson))
	}
}

func TestNormalizeClampsBoundingBox(t *testing.T) {
	raw := []Label{{Name: LabelHelmet, Instances: []Instance{{
		BoundingBox: BoundingBox{Left: -0.2, Top: 1.5, Width: 0.4, Height: -0.1},
	}}}}
	set, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	box := set[LabelHelmet].Instances[0].BoundingBox
	if box.Left != 0 || box.Top != 1 || box.Width != 0.4 || box.Height != 0 {
		t.Fatalf("unexpected clamped box: %+v", box)
	}
}

func TestNormalizeRejectsNaN(t *testing.T) {
	raw := []Label{{Name: LabelPerson, Instances: []Instance{{
		BoundingBox: BoundingBox{Left: math.NaN()},
	}}}}
	if _, err := Normalize(raw); err == nil {
		t.Fatalf("expected error for NaN bounding box")
	}
}
