package compositor

import (
	"bytes"
	"image"
	"math"

	_ "image/jpeg"
	_ "image/png"
)

// Transform places a layer on the canvas. X and Y are percentages of the
// canvas dimensions, Scale is relative to the standard layer width (40% of
// canvas width), Rotation is degrees about the layer's own center.
type Transform struct {
	X        float64
	Y        float64
	Scale    float64
	Rotation float64
}

// DefaultTransform centers a layer at native standard size.
func DefaultTransform() Transform {
	return Transform{X: 50, Y: 50, Scale: 1, Rotation: 0}
}

// Clamp pins the transform into its valid ranges.
func (t Transform) Clamp() Transform {
	t.X = math.Min(100, math.Max(0, t.X))
	t.Y = math.Min(100, math.Max(0, t.Y))
	t.Scale = math.Min(3, math.Max(0.1, t.Scale))
	t.Rotation = math.Mod(t.Rotation, 360)
	if t.Rotation < 0 {
		t.Rotation += 360
	}
	return t
}

// Slot names a layer position on a garment side. Slots render in declared
// order, so labels occlude designs where they overlap.
type Slot string

const (
	SlotDesign Slot = "design"
	SlotLabel  Slot = "label"
)

// SlotOrder is the fixed render order for a side.
var SlotOrder = []Slot{SlotDesign, SlotLabel}

// Layer is one image slot on a garment side. A nil image contributes
// nothing to the composite.
type Layer struct {
	Slot      Slot
	Image     image.Image
	Transform Transform
}

// Side is one renderable face of the garment.
type Side struct {
	Base   image.Image
	Layers []Layer
}

// NewSide returns an empty side with all slots at their default transforms.
func NewSide() Side {
	layers := make([]Layer, 0, len(SlotOrder))
	for _, slot := range SlotOrder {
		t := DefaultTransform()
		if slot == SlotLabel {
			// Labels start small near the collar line.
			t = Transform{X: 50, Y: 14, Scale: 0.35, Rotation: 0}
		}
		layers = append(layers, Layer{Slot: slot, Transform: t})
	}
	return Side{Layers: layers}
}

// SetLayerImage assigns an image to a slot; nil clears the slot.
func (s *Side) SetLayerImage(slot Slot, img image.Image) bool {
	for i := range s.Layers {
		if s.Layers[i].Slot == slot {
			s.Layers[i].Image = img
			return true
		}
	}
	return false
}

// SetTransform updates a slot's transform, clamped to valid ranges.
func (s *Side) SetTransform(slot Slot, t Transform) bool {
	for i := range s.Layers {
		if s.Layers[i].Slot == slot {
			s.Layers[i].Transform = t.Clamp()
			return true
		}
	}
	return false
}

// Clone deep-copies the slot list so a snapshot can be rendered while the
// original keeps mutating. Images themselves are immutable once decoded.
func (s Side) Clone() Side {
	out := Side{Base: s.Base, Layers: make([]Layer, len(s.Layers))}
	copy(out.Layers, s.Layers)
	return out
}

// DecodeImage decodes uploaded PNG or JPEG bytes.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}
