package glitch

import (
	"image"
	"math/rand"
	"time"

	"github.com/disintegration/imaging"
)

// Transform distorts a single image by a non-negative amount. Zero amount is
// a no-op; larger amounts increase displacement and color-offset magnitude
// without changing dimensions.
type Transform interface {
	Glitch(src *image.NRGBA, amount float64) *image.NRGBA
}

// SeededTransform is implemented by transforms that can produce deterministic
// output for a given seed. The synthesizer type-asserts for it and falls back
// to Transform when unavailable.
type SeededTransform interface {
	GlitchSeeded(src *image.NRGBA, amount float64, seed int64) *image.NRGBA
}

// SliceTransform displaces random horizontal pixel slices and offsets the red
// channel, scaled by amount.
type SliceTransform struct{}

func NewSliceTransform() *SliceTransform {
	return &SliceTransform{}
}

func (t *SliceTransform) Glitch(src *image.NRGBA, amount float64) *image.NRGBA {
	return t.glitch(src, amount, rand.New(rand.NewSource(time.Now().UnixNano())))
}

func (t *SliceTransform) GlitchSeeded(src *image.NRGBA, amount float64, seed int64) *image.NRGBA {
	return t.glitch(src, amount, rand.New(rand.NewSource(seed)))
}

func (t *SliceTransform) glitch(src *image.NRGBA, amount float64, rng *rand.Rand) *image.NRGBA {
	if amount < 0 {
		amount = 0
	}

	dst := imaging.Clone(src)
	if amount == 0 {
		return dst
	}

	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return dst
	}

	sliceCount := int(amount * 10)
	if sliceCount < 1 {
		sliceCount = 1
	}
	maxSliceH := h / 25
	if maxSliceH < 1 {
		maxSliceH = 1
	}
	maxShift := int(amount * float64(w) / 100)
	if maxShift < 1 {
		maxShift = 1
	}

	for i := 0; i < sliceCount; i++ {
		y := rng.Intn(h)
		sliceH := 1 + rng.Intn(maxSliceH)
		if y+sliceH > h {
			sliceH = h - y
		}
		dx := rng.Intn(2*maxShift+1) - maxShift
		for row := y; row < y+sliceH; row++ {
			shiftRow(dst, row, dx)
		}
	}

	chDX := rng.Intn(2*maxShift+1) - maxShift
	chDY := rng.Intn(2*maxShift+1) - maxShift
	offsetRedChannel(dst, chDX, chDY)

	return dst
}

// shiftRow rotates row y horizontally by dx pixels with wrap-around.
func shiftRow(img *image.NRGBA, y, dx int) {
	w := img.Bounds().Dx()
	if w == 0 {
		return
	}
	dx = ((dx % w) + w) % w
	if dx == 0 {
		return
	}

	row := img.Pix[y*img.Stride : y*img.Stride+w*4]
	tmp := make([]byte, len(row))
	copy(tmp, row)
	for x := 0; x < w; x++ {
		src := (x - dx + w) % w
		copy(row[x*4:x*4+4], tmp[src*4:src*4+4])
	}
}

// offsetRedChannel shifts the red channel by (dx, dy) with wrap-around,
// leaving the other channels in place.
func offsetRedChannel(img *image.NRGBA, dx, dy int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || (dx == 0 && dy == 0) {
		return
	}

	red := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			red[y*w+x] = img.Pix[y*img.Stride+x*4]
		}
	}
	for y := 0; y < h; y++ {
		sy := ((y-dy)%h + h) % h
		for x := 0; x < w; x++ {
			sx := ((x-dx)%w + w) % w
			img.Pix[y*img.Stride+x*4] = red[sy*w+sx]
		}
	}
}
