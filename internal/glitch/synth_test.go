package glitch

import (
	"image"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestImage(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			i := y*img.Stride + x*4
			img.Pix[i] = byte(x * 4)
			img.Pix[i+1] = byte(y * 5)
			img.Pix[i+2] = 128
			img.Pix[i+3] = 255
		}
	}
	path := filepath.Join(dir, "source.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestWriteGIFCreatesLoopingAnimation(t *testing.T) {
	dir := t.TempDir()
	src := writeTestImage(t, dir)
	out := filepath.Join(dir, "out.gif")

	synth := NewSynthesizer(NewSliceTransform())
	created, err := synth.WriteGIF(src, out, 30, 5, Constant(0.7))
	require.NoError(t, err)
	assert.True(t, created)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	anim, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, anim.Image, 5)
	assert.Equal(t, 0, anim.LoopCount, "GIF loops forever")
	for _, frame := range anim.Image {
		assert.Equal(t, 64, frame.Bounds().Dx())
		assert.Equal(t, 48, frame.Bounds().Dy())
	}
}

func TestWriteGIFSkipsExistingOutput(t *testing.T) {
	dir := t.TempDir()
	src := writeTestImage(t, dir)
	out := filepath.Join(dir, "out.gif")
	require.NoError(t, os.WriteFile(out, []byte("sentinel"), 0644))

	synth := NewSynthesizer(NewSliceTransform())
	created, err := synth.WriteGIF(src, out, 30, 5, Constant(0.7))
	require.NoError(t, err)
	assert.False(t, created, "existing artifact must not be rebuilt")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "sentinel", string(data), "existing artifact left untouched")
}

func TestWriteGIFPromotesSingleFrameRequest(t *testing.T) {
	dir := t.TempDir()
	src := writeTestImage(t, dir)
	out := filepath.Join(dir, "out.gif")

	synth := NewSynthesizer(NewSliceTransform())
	created, err := synth.WriteGIF(src, out, 30, 1, Constant(0.5))
	require.NoError(t, err)
	assert.True(t, created)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	anim, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, anim.Image, 2, "degenerate single-frame request is promoted to 2")
}

// unseededTransform only implements Transform, exercising the fallback path
// for libraries without seed support.
type unseededTransform struct {
	calls int
}

func (u *unseededTransform) Glitch(src *image.NRGBA, amount float64) *image.NRGBA {
	u.calls++
	return src
}

func TestWriteGIFFallsBackWithoutSeedSupport(t *testing.T) {
	dir := t.TempDir()
	src := writeTestImage(t, dir)
	out := filepath.Join(dir, "out.gif")

	tr := &unseededTransform{}
	synth := NewSynthesizer(tr)
	created, err := synth.WriteGIF(src, out, 30, 4, Constant(1.0))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 4, tr.calls, "unseeded transform invoked once per frame")
}

func TestSliceTransformDeterministicWithSeed(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 50, 50))
	for i := range img.Pix {
		img.Pix[i] = byte(i * 7)
	}

	tr := NewSliceTransform()
	a := tr.GlitchSeeded(img, 2.0, 3)
	b := tr.GlitchSeeded(img, 2.0, 3)
	assert.Equal(t, a.Pix, b.Pix, "same seed, same output")

	c := tr.GlitchSeeded(img, 2.0, 4)
	assert.NotEqual(t, a.Pix, c.Pix, "different seed, different output")
}

func TestSliceTransformZeroAmountIsIdentity(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}

	tr := NewSliceTransform()
	out := tr.GlitchSeeded(img, 0, 1)
	assert.Equal(t, img.Pix, out.Pix)
}

func TestSliceTransformPreservesDimensions(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 80, 60))
	tr := NewSliceTransform()
	for _, amt := range []float64{0.1, 0.7, 3.0, 5.0, 10.0} {
		out := tr.GlitchSeeded(img, amt, 0)
		assert.Equal(t, img.Bounds(), out.Bounds())
	}
}
