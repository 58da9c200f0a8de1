package compliance

import "ppewatch-backend/internal/detect"

// Verdict is the compliance decision for a single detection result.
type Verdict struct {
	Compliant bool            `json:"compliant"`
	Labels    detect.LabelSet `json:"labels"`
}

// Evaluate compares population counts: a scene is compliant when there are
// at least as many helmets as persons. It deliberately does not pair
// individuals to equipment spatially.
func Evaluate(labels detect.LabelSet) Verdict {
	return Verdict{
		Compliant: labels.Count(detect.LabelPerson) <= labels.Count(detect.LabelHelmet),
		Labels:    labels,
	}
}
