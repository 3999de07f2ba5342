package compositor

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func newTestRenderer(size int) *Renderer {
	return NewRenderer(RendererOptions{Size: size})
}

func TestRenderIdempotent(t *testing.T) {
	r := newTestRenderer(256)
	side := NewSide()
	side.Base = solidImage(256, 256, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	side.SetLayerImage(SlotDesign, solidImage(64, 64, color.NRGBA{R: 200, G: 30, B: 30, A: 255}))

	first, err := r.Render(side, "#1a1a1a")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := r.Render(side, "#1a1a1a")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	a, _ := first.PNG()
	b, _ := second.PNG()
	if !bytes.Equal(a, b) {
		t.Error("identical inputs produced different output bytes")
	}
}

func TestRenderTintDarkensWhiteBase(t *testing.T) {
	r := newTestRenderer(64)
	side := NewSide()
	side.Base = solidImage(64, 64, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	composite, err := r.Render(side, "#1a1a1a")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	// out = 255*0.5 + 255*(26/255)*0.5 = 140.5 per channel.
	got := composite.Image().(*image.NRGBA).NRGBAAt(32, 32)
	for name, ch := range map[string]uint8{"r": got.R, "g": got.G, "b": got.B} {
		if ch < 138 || ch > 143 {
			t.Errorf("channel %s = %d, want ~140", name, ch)
		}
	}
}

func TestRenderInvalidTint(t *testing.T) {
	r := newTestRenderer(64)
	side := NewSide()
	side.Base = solidImage(64, 64, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	if _, err := r.Render(side, "not-a-color"); err == nil {
		t.Error("expected error for invalid tint")
	}
}

func TestRenderPlaceholderWithoutBase(t *testing.T) {
	r := newTestRenderer(256)
	composite, err := r.Render(NewSide(), "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	img := composite.Image().(*image.NRGBA)
	center := img.NRGBAAt(40, 128)
	if center == (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Error("placeholder panel missing, canvas is plain white")
	}
}

func layerFootprint(img *image.NRGBA) image.Rectangle {
	bounds := img.Bounds()
	found := image.Rectangle{Min: bounds.Max, Max: bounds.Min}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			if c.R > 150 && c.G < 100 && c.B < 100 {
				if x < found.Min.X {
					found.Min.X = x
				}
				if y < found.Min.Y {
					found.Min.Y = y
				}
				if x+1 > found.Max.X {
					found.Max.X = x + 1
				}
				if y+1 > found.Max.Y {
					found.Max.Y = y + 1
				}
			}
		}
	}
	return found
}

func renderDesign(t *testing.T, size int, designW, designH int, tr Transform) *image.NRGBA {
	t.Helper()
	r := newTestRenderer(size)
	side := NewSide()
	side.Base = solidImage(size, size, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	side.SetLayerImage(SlotDesign, solidImage(designW, designH, color.NRGBA{R: 220, G: 20, B: 20, A: 255}))
	side.SetTransform(SlotDesign, tr)

	composite, err := r.Render(side, "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return composite.Image().(*image.NRGBA)
}

func TestLayerStandardWidth(t *testing.T) {
	// At scale 1 a layer occupies 40% of canvas width regardless of its
	// native resolution.
	img := renderDesign(t, 500, 123, 123, DefaultTransform())
	fp := layerFootprint(img)

	if w := fp.Dx(); w < 196 || w > 204 {
		t.Errorf("footprint width = %d, want ~200", w)
	}
	cx := (fp.Min.X + fp.Max.X) / 2
	cy := (fp.Min.Y + fp.Max.Y) / 2
	if cx < 245 || cx > 255 || cy < 245 || cy > 255 {
		t.Errorf("footprint center = (%d,%d), want ~(250,250)", cx, cy)
	}
}

func TestLayerScaleDoubling(t *testing.T) {
	small := layerFootprint(renderDesign(t, 500, 80, 80, Transform{X: 50, Y: 50, Scale: 0.5}))
	large := layerFootprint(renderDesign(t, 500, 80, 80, Transform{X: 50, Y: 50, Scale: 1}))

	ratio := float64(large.Dx()) / float64(small.Dx())
	if ratio < 1.9 || ratio > 2.1 {
		t.Errorf("doubling scale changed width by %.2fx, want ~2x", ratio)
	}
}

func TestLayerRotationSwapsFootprint(t *testing.T) {
	// A 2:1 layer rotated 90 degrees should have a taller-than-wide
	// footprint.
	upright := layerFootprint(renderDesign(t, 500, 200, 100, DefaultTransform()))
	rotated := layerFootprint(renderDesign(t, 500, 200, 100, Transform{X: 50, Y: 50, Scale: 1, Rotation: 90}))

	if upright.Dx() <= upright.Dy() {
		t.Fatalf("upright footprint %v should be wider than tall", upright)
	}
	if rotated.Dy() <= rotated.Dx() {
		t.Errorf("rotated footprint %v should be taller than wide", rotated)
	}
}

func TestLayerOrderLabelOverDesign(t *testing.T) {
	r := newTestRenderer(200)
	side := NewSide()
	side.Base = solidImage(200, 200, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	side.SetLayerImage(SlotDesign, solidImage(50, 50, color.NRGBA{R: 200, G: 0, B: 0, A: 255}))
	side.SetLayerImage(SlotLabel, solidImage(50, 50, color.NRGBA{R: 0, G: 0, B: 200, A: 255}))
	side.SetTransform(SlotDesign, Transform{X: 50, Y: 50, Scale: 1})
	side.SetTransform(SlotLabel, Transform{X: 50, Y: 50, Scale: 1})

	composite, err := r.Render(side, "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := composite.Image().(*image.NRGBA).NRGBAAt(100, 100)
	if got.B < 150 || got.R > 100 {
		t.Errorf("center pixel %+v, want label blue on top", got)
	}
}

func TestRenderSkipsNilLayers(t *testing.T) {
	r := newTestRenderer(64)
	side := NewSide()
	side.Base = solidImage(64, 64, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	if _, err := r.Render(side, ""); err != nil {
		t.Errorf("render with empty slots failed: %v", err)
	}
}
