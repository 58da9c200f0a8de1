// Package annotate renders detection evidence onto the captured frame:
// one bounding box per instance with a fixed per-label color, plus a status
// banner in the top-left corner.
package annotate

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"ppewatch-backend/internal/detect"
)

const boxThickness = 2

var (
	colorPerson = color.RGBA{B: 255, A: 255}          // blue
	colorHelmet = color.RGBA{G: 255, A: 255}          // green
	colorOK     = color.RGBA{B: 255, A: 255}          // blue banner
	colorAlert  = color.RGBA{R: 255, A: 255}          // red banner
	colorText   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

var labelColors = map[string]color.RGBA{
	detect.LabelPerson: colorPerson,
	detect.LabelHelmet: colorHelmet,
}

// Render decodes a JPEG frame, draws the watched labels' boxes and the
// compliance banner, and re-encodes it.
func Render(img []byte, labels detect.LabelSet, compliant bool) ([]byte, error) {
	decoded, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	canvas := image.NewRGBA(decoded.Bounds())
	draw.Draw(canvas, canvas.Bounds(), decoded, decoded.Bounds().Min, draw.Src)

	for _, name := range detect.WatchedLabels {
		for _, inst := range labels[name].Instances {
			drawBox(canvas, scaleBox(canvas.Bounds(), inst.BoundingBox), labelColors[name])
		}
	}

	if compliant {
		drawBanner(canvas, "Protected", colorOK)
	} else {
		drawBanner(canvas, "Not protected", colorAlert)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, nil); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

func scaleBox(bounds image.Rectangle, box detect.BoundingBox) image.Rectangle {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	left := bounds.Min.X + int(box.Left*w)
	top := bounds.Min.Y + int(box.Top*h)
	return image.Rect(left, top, left+int(box.Width*w), top+int(box.Height*h))
}

func drawBox(canvas *image.RGBA, rect image.Rectangle, c color.RGBA) {
	rect = rect.Intersect(canvas.Bounds())
	for t := 0; t < boxThickness; t++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			canvas.SetRGBA(x, rect.Min.Y+t, c)
			canvas.SetRGBA(x, rect.Max.Y-1-t, c)
		}
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			canvas.SetRGBA(rect.Min.X+t, y, c)
			canvas.SetRGBA(rect.Max.X-1-t, y, c)
		}
	}
}

func drawBanner(canvas *image.RGBA, text string, bg color.RGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Metrics().Height.Ceil()

	banner := image.Rect(0, 0, width+8, height+8).Add(canvas.Bounds().Min)
	draw.Draw(canvas, banner.Intersect(canvas.Bounds()), image.NewUniform(bg), image.Point{}, draw.Src)

	drawer := font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(colorText),
		Face: face,
		Dot: fixed.P(canvas.Bounds().Min.X+4,
			canvas.Bounds().Min.Y+4+face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)
}
