package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog/log"
)

// blurShader is a 9-tap Gaussian along Dir. Running it once horizontally
// and once vertically gives a separable 2D blur.
var blurShader = []byte(`
//kage:unit pixels

package main

var Dir vec2
var Sigma float

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
    d := Dir * Sigma
    var result vec4
    result += imageSrc0At(srcPos - 4*d) * 0.0162
    result += imageSrc0At(srcPos - 3*d) * 0.0540
    result += imageSrc0At(srcPos - 2*d) * 0.1218
    result += imageSrc0At(srcPos - d) * 0.1954
    result += imageSrc0At(srcPos) * 0.2252
    result += imageSrc0At(srcPos + d) * 0.1954
    result += imageSrc0At(srcPos + 2*d) * 0.1218
    result += imageSrc0At(srcPos + 3*d) * 0.0540
    result += imageSrc0At(srcPos + 4*d) * 0.0162
    return result
}
`)

// Backdrop blurs and tints the screen behind modal dialogs.
type Backdrop struct {
	blur    *ebiten.Shader
	tempA   *ebiten.Image
	tempB   *ebiten.Image
	enabled bool
}

// NewBackdrop compiles the blur shader. When compilation fails the
// backdrop falls back to a flat tint.
func NewBackdrop() *Backdrop {
	b := &Backdrop{}
	s, err := ebiten.NewShader(blurShader)
	if err != nil {
		log.Warn().Err(err).Msg("blur shader unavailable, using flat backdrop")
		return b
	}
	b.blur = s
	b.enabled = true
	return b
}

// IsEnabled returns whether the blur is available.
func (b *Backdrop) IsEnabled() bool {
	return b != nil && b.enabled
}

func (b *Backdrop) ensureImages(w, h int) {
	if b.tempA == nil || b.tempA.Bounds().Dx() != w || b.tempA.Bounds().Dy() != h {
		if b.tempA != nil {
			b.tempA.Deallocate()
			b.tempB.Deallocate()
		}
		b.tempA = ebiten.NewImage(w, h)
		b.tempB = ebiten.NewImage(w, h)
	}
}

// Draw blurs the region (x, y, w, h) of screen, in screen pixels, and
// lays tint over it.
func (b *Backdrop) Draw(screen *ebiten.Image, x, y, w, h int, tint color.RGBA, sigma float64) {
	if w <= 0 || h <= 0 {
		return
	}
	if b.IsEnabled() {
		b.ensureImages(w, h)
		b.tempA.Clear()

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(-x), float64(-y))
		b.tempA.DrawImage(screen, op)

		b.pass(b.tempA, b.tempB, w, h, 1, 0, sigma)
		b.pass(b.tempB, b.tempA, w, h, 0, 1, sigma)

		back := &ebiten.DrawImageOptions{}
		back.GeoM.Translate(float64(x), float64(y))
		screen.DrawImage(b.tempA, back)
	}
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), tint, false)
}

func (b *Backdrop) pass(src, dst *ebiten.Image, w, h int, dx, dy, sigma float64) {
	dst.Clear()
	dst.DrawRectShader(w, h, b.blur, &ebiten.DrawRectShaderOptions{
		Uniforms: map[string]any{
			"Dir":   []float32{float32(dx), float32(dy)},
			"Sigma": float32(sigma),
		},
		Images: [4]*ebiten.Image{src},
	})
}
