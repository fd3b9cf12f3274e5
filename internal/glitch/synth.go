package glitch

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Synthesizer turns a source image into a looping animated GIF of glitched
// frames, one transform invocation per frame.
type Synthesizer struct {
	transform Transform
}

func NewSynthesizer(transform Transform) *Synthesizer {
	return &Synthesizer{transform: transform}
}

// WriteGIF synthesizes frameCount glitched frames from the image at imgPath
// and encodes them as a looping GIF at outPath. Returns true only when the
// file was created; an existing file is left untouched and reported as not
// created, regardless of whether the source image changed.
func (s *Synthesizer) WriteGIF(imgPath, outPath string, fps, frameCount int, schedule Schedule) (bool, error) {
	if _, err := os.Stat(outPath); err == nil {
		fmt.Printf("[SKIP] %s already exists (not overwriting)\n", outPath)
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return false, fmt.Errorf("failed to create output directory: %v", err)
	}

	if frameCount < 2 {
		frameCount = 2
	}

	fmt.Printf("[GLITCH] source=%s -> %s | fps=%d frames=%d\n", imgPath, outPath, fps, frameCount)

	src, err := imaging.Open(imgPath)
	if err != nil {
		return false, fmt.Errorf("failed to open source image: %v", err)
	}
	base := imaging.Clone(src)

	seeded, hasSeed := s.transform.(SeededTransform)

	delay := gifDelay(fps)
	anim := &gif.GIF{LoopCount: 0}
	logEvery := 1
	if frameCount > 120 {
		logEvery = frameCount / 60
	}

	for i := 0; i < frameCount; i++ {
		amount := schedule.AmountAt(i, frameCount)

		var frame *image.NRGBA
		if hasSeed {
			frame = seeded.GlitchSeeded(base, amount, int64(i))
		} else {
			frame = s.transform.Glitch(base, amount)
		}

		anim.Image = append(anim.Image, quantize(frame))
		anim.Delay = append(anim.Delay, delay)
		anim.Disposal = append(anim.Disposal, gif.DisposalBackground)

		if i%logEvery == 0 {
			fmt.Printf("[GLITCH] frame %d/%d amt=%.3f\n", i+1, frameCount, amount)
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		return false, fmt.Errorf("failed to create %s: %v", outPath, err)
	}
	defer out.Close()

	if err := gif.EncodeAll(out, anim); err != nil {
		return false, fmt.Errorf("failed to encode GIF: %v", err)
	}

	fmt.Printf("[GLITCH] wrote %s\n", outPath)
	return true, nil
}

// gifDelay converts fps to the GIF per-frame delay. The delay is derived in
// milliseconds as max(1, round(1000/fps)) and stored in the container's
// hundredths of a second; the assembler re-times frames anyway.
func gifDelay(fps int) int {
	ms := int(math.Round(1000 / float64(fps)))
	if ms < 1 {
		ms = 1
	}
	cs := ms / 10
	if cs < 1 {
		cs = 1
	}
	return cs
}

// quantize reduces a frame to an indexed palette for GIF encoding.
func quantize(frame *image.NRGBA) *image.Paletted {
	b := frame.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(p, b, frame, b.Min)
	return p
}
