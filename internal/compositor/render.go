package compositor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

// standardWidthRatio is the fraction of canvas width an untransformed layer
// occupies, independent of its native resolution.
const standardWidthRatio = 0.4

// shadingOpacity is the second pass of the original base image composited
// over the tinted fill to restore wrinkle and highlight detail.
const shadingOpacity = 0.5

var ErrNoCanvas = errors.New("compositor: invalid canvas size")

type RendererOptions struct {
	Size   int
	Logger *slog.Logger
}

// Renderer flattens a garment side into a fixed-resolution raster.
// Rendering is pure: identical inputs produce pixel-identical output.
type Renderer struct {
	size   int
	logger *slog.Logger
}

func NewRenderer(opts RendererOptions) *Renderer {
	size := opts.Size
	if size <= 0 {
		size = 1024
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Renderer{size: size, logger: logger}
}

func (r *Renderer) Size() int { return r.size }

// Composite is a flattened raster. It is derived output and never mutated;
// a new render produces a new Composite.
type Composite struct {
	img *image.NRGBA
}

func (c *Composite) Image() image.Image { return c.img }

func (c *Composite) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.img); err != nil {
		return nil, fmt.Errorf("encode composite: %w", err)
	}
	return buf.Bytes(), nil
}

// Render flattens base, tint and layers into one raster. A missing base
// produces an explicit placeholder panel, never a fabricated garment.
// Individual bad layers are skipped; only canvas setup errors are fatal.
func (r *Renderer) Render(side Side, tint string) (*Composite, error) {
	if r.size <= 0 {
		return nil, ErrNoCanvas
	}

	var tintColor *colorful.Color
	if tint != "" {
		c, err := colorful.Hex(tint)
		if err != nil {
			return nil, fmt.Errorf("parse tint %q: %w", tint, err)
		}
		tintColor = &c
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, r.size, r.size))
	fill(canvas, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	if side.Base != nil && !side.Base.Bounds().Empty() {
		base := r.renderBase(side.Base)
		if tintColor != nil {
			applyTint(base, *tintColor)
		}
		xdraw.Draw(canvas, canvas.Bounds(), base, image.Point{}, xdraw.Over)
	} else {
		r.drawPlaceholder(canvas)
	}

	for _, layer := range side.Layers {
		if layer.Image == nil {
			continue
		}
		if layer.Image.Bounds().Empty() {
			r.logger.Warn("skipping empty layer image", "slot", layer.Slot)
			continue
		}
		r.drawLayer(canvas, layer)
	}

	return &Composite{img: canvas}, nil
}

// renderBase aspect-fits the base image centered on its own buffer,
// letterboxing rather than cropping or stretching.
func (r *Renderer) renderBase(base image.Image) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, r.size, r.size))

	sb := base.Bounds()
	srcW, srcH := float64(sb.Dx()), float64(sb.Dy())
	scale := math.Min(float64(r.size)/srcW, float64(r.size)/srcH)
	dstW := int(math.Round(srcW * scale))
	dstH := int(math.Round(srcH * scale))
	x0 := (r.size - dstW) / 2
	y0 := (r.size - dstH) / 2

	xdraw.CatmullRom.Scale(out, image.Rect(x0, y0, x0+dstW, y0+dstH), base, sb, xdraw.Over, nil)
	return out
}

// applyTint multiply-blends the tint over the base, clipped to the base's
// opaque silhouette, then restores shading with a half-opacity pass of the
// original pixels: out = orig*shadingOpacity + (orig*tint)*(1-shadingOpacity).
func applyTint(img *image.NRGBA, tint colorful.Color) {
	tr, tg, tb := tint.R, tint.G, tint.B
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i+3] == 0 {
			continue
		}
		or := float64(img.Pix[i])
		og := float64(img.Pix[i+1])
		ob := float64(img.Pix[i+2])
		img.Pix[i] = clamp8(or*shadingOpacity + or*tr*(1-shadingOpacity))
		img.Pix[i+1] = clamp8(og*shadingOpacity + og*tg*(1-shadingOpacity))
		img.Pix[i+2] = clamp8(ob*shadingOpacity + ob*tb*(1-shadingOpacity))
	}
}

// drawLayer maps the layer image through translate(anchor) * rotate * scale
// * translate(-center), so the image renders centered on its anchor at
// standardWidthRatio of canvas width times its own scale.
func (r *Renderer) drawLayer(canvas *image.NRGBA, layer Layer) {
	t := layer.Transform.Clamp()
	sb := layer.Image.Bounds()
	srcW := float64(sb.Dx())
	srcH := float64(sb.Dy())

	size := float64(r.size)
	ax := t.X / 100 * size
	ay := t.Y / 100 * size
	s := t.Scale * (size * standardWidthRatio / srcW)
	rad := t.Rotation * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	a00 := s * cos
	a01 := -s * sin
	a10 := s * sin
	a11 := s * cos
	tx := ax + a00*(-srcW/2) + a01*(-srcH/2)
	ty := ay + a10*(-srcW/2) + a11*(-srcH/2)

	aff := f64.Aff3{a00, a01, tx, a10, a11, ty}
	xdraw.CatmullRom.Transform(canvas, aff, layer.Image, sb, xdraw.Over, nil)
}

// drawPlaceholder renders an unmistakable "no base image" panel so an empty
// side is never silently submitted as a blank garment.
func (r *Renderer) drawPlaceholder(canvas *image.NRGBA) {
	inset := r.size / 16
	panel := image.Rect(inset, inset, r.size-inset, r.size-inset)

	fillRect(canvas, panel, color.NRGBA{R: 236, G: 236, B: 238, A: 255})
	border := color.NRGBA{R: 148, G: 148, B: 156, A: 255}
	for x := panel.Min.X; x < panel.Max.X; x++ {
		for d := 0; d < 2; d++ {
			canvas.SetNRGBA(x, panel.Min.Y+d, border)
			canvas.SetNRGBA(x, panel.Max.Y-1-d, border)
		}
	}
	for y := panel.Min.Y; y < panel.Max.Y; y++ {
		for d := 0; d < 2; d++ {
			canvas.SetNRGBA(panel.Min.X+d, y, border)
			canvas.SetNRGBA(panel.Max.X-1-d, y, border)
		}
	}

	const label = "NO GARMENT IMAGE"
	face := basicfont.Face7x13
	textW := font.MeasureString(face, label).Ceil()
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.NRGBA{R: 70, G: 70, B: 78, A: 255}),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I((r.size - textW) / 2),
			Y: fixed.I(r.size / 2),
		},
	}
	drawer.DrawString(label)
}

func fill(img *image.NRGBA, c color.NRGBA) {
	fillRect(img, img.Bounds(), c)
}

func fillRect(img *image.NRGBA, rect image.Rectangle, c color.NRGBA) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func clamp8(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
