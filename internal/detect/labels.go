package detect

import (
	"fmt"
	"math"
)

const (
	LabelPerson = "Person"
	LabelHelmet = "Helmet"
)

// WatchedLabels are the label names the pipeline cares about. A LabelSet
// always carries an entry for each of them, even when the oracle saw none.
var WatchedLabels = []string{LabelPerson, LabelHelmet}

type BoundingBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Instance struct {
	BoundingBox BoundingBox `json:"boundingBox"`
	Confidence  float64     `json:"confidence"`
}

type Label struct {
	Name      string     `json:"name"`
	Instances []Instance `json:"instances"`
}

// LabelSet maps label name to its detected instances. Bounding-box values
// are fractions of the image size in [0,1].
type LabelSet map[string]Label

func (s LabelSet) Count(name string) int {
	return len(s[name].Instances)
}

// Normalize filters raw oracle labels down to the watched set, guarantees
// every watched label is present with a non-nil instance list, and clamps
// bounding-box fractions into [0,1]. Boxes that cannot be repaired by
// clamping (NaN or infinite values) are rejected.
func Normalize(raw []Label) (LabelSet, error) {
	set := LabelSet{}
	for _, name := range WatchedLabels {
		set[name] = Label{Name: name, Instances: []Instance{}}
	}
	for _, label := range raw {
		entry, watched := set[label.Name]
		if !watched {
			continue
		}
		for i, inst := range label.Instances {
			box, err := clampBox(inst.BoundingBox)
			if err != nil {
				return nil, fmt.Errorf("label %s instance %d: %w", label.Name, i, err)
			}
			entry.Instances = append(entry.Instances, Instance{BoundingBox: box, Confidence: inst.Confidence})
		}
		set[label.Name] = entry
	}
	return set, nil
}

func clampBox(box BoundingBox) (BoundingBox, error) {
	for _, v := range []float64{box.Left, box.Top, box.Width, box.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return BoundingBox{}, fmt.Errorf("bounding box value %v out of range", v)
		}
	}
	return BoundingBox{
		Left:   clamp01(box.Left),
		Top:    clamp01(box.Top),
		Width:  clamp01(box.Width),
		Height: clamp01(box.Height),
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
