package annotate

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"ppewatch-backend/internal/detect"
)

func testFrame(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode test frame: %v", err)
	}
	return buf.Bytes()
}

func testLabels(t *testing.T) detect.LabelSet {
	t.Helper()
	set, err := detect.Normalize([]detect.Label{
		{Name: detect.LabelPerson, Instances: []detect.Instance{{
			BoundingBox: detect.BoundingBox{Left: 0.25, Top: 0.25, Width: 0.5, Height: 0.5},
			Confidence:  0.9,
		}}},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	return set
}

func TestRenderProducesValidJPEG(t *testing.T) {
	out, err := Render(testFrame(t, 120, 80), testLabels(t), false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	decoded, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a decodable jpeg: %v", err)
	}
	if decoded.Bounds().Dx() != 120 || decoded.Bounds().Dy() != 80 {
		t.Fatalf("dimensions changed: %v", decoded.Bounds())
	}
}

func TestRenderCompliantBanner(t *testing.T) {
	if _, err := Render(testFrame(t, 60, 40), detect.LabelSet{}, true); err != nil {
		t.Fatalf("render compliant: %v", err)
	}
}

func TestRenderRejectsGarbage(t *testing.T) {
	if _, err := Render([]byte("not a jpeg"), detect.LabelSet{}, false); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestRenderBoxAtImageEdge(t *testing.T) {
	set, err := detect.Normalize([]detect.Label{
		{Name: detect.LabelHelmet, Instances: []detect.Instance{{
			BoundingBox: detect.BoundingBox{Left: 0.9, Top: 0.9, Width: 1, Height: 1},
		}}},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if _, err := Render(testFrame(t, 50, 50), set, false); err != nil {
		t.Fatalf("render edge box: %v", err)
	}
}
