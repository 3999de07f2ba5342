package compositor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestTransformClamp(t *testing.T) {
	tests := []struct {
		name string
		in   Transform
		want Transform
	}{
		{"in range", Transform{X: 50, Y: 50, Scale: 1, Rotation: 45}, Transform{X: 50, Y: 50, Scale: 1, Rotation: 45}},
		{"over max", Transform{X: 150, Y: 120, Scale: 10, Rotation: 0}, Transform{X: 100, Y: 100, Scale: 3, Rotation: 0}},
		{"under min", Transform{X: -5, Y: -5, Scale: 0, Rotation: 0}, Transform{X: 0, Y: 0, Scale: 0.1, Rotation: 0}},
		{"negative rotation", Transform{X: 50, Y: 50, Scale: 1, Rotation: -90}, Transform{X: 50, Y: 50, Scale: 1, Rotation: 270}},
		{"wrapped rotation", Transform{X: 50, Y: 50, Scale: 1, Rotation: 450}, Transform{X: 50, Y: 50, Scale: 1, Rotation: 90}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamp(); got != tt.want {
				t.Errorf("Clamp() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewSideDefaults(t *testing.T) {
	side := NewSide()
	if len(side.Layers) != len(SlotOrder) {
		t.Fatalf("expected %d layers, got %d", len(SlotOrder), len(side.Layers))
	}
	if side.Layers[0].Slot != SlotDesign || side.Layers[1].Slot != SlotLabel {
		t.Error("slot order wrong")
	}
	if side.Layers[0].Transform != DefaultTransform() {
		t.Errorf("design transform = %+v, want default", side.Layers[0].Transform)
	}
	label := side.Layers[1].Transform
	if label.Y >= 50 || label.Scale >= 1 {
		t.Errorf("label should start small near the collar, got %+v", label)
	}
}

func TestSetLayerImageUnknownSlot(t *testing.T) {
	side := NewSide()
	if side.SetLayerImage(Slot("pocket"), nil) {
		t.Error("unknown slot accepted")
	}
	if !side.SetLayerImage(SlotDesign, nil) {
		t.Error("clearing a known slot rejected")
	}
}

func TestCloneIsolation(t *testing.T) {
	side := NewSide()
	clone := side.Clone()
	clone.SetTransform(SlotDesign, Transform{X: 10, Y: 10, Scale: 2})

	if side.Layers[0].Transform == clone.Layers[0].Transform {
		t.Error("mutating the clone changed the original")
	}
}

func TestDecodeImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	decoded, err := DecodeImage(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if decoded.Bounds().Dx() != 4 {
		t.Errorf("bounds = %v", decoded.Bounds())
	}

	if _, err := DecodeImage([]byte("not an image")); err == nil {
		t.Error("expected error for garbage input")
	}
}
