package effects

import (
	"fmt"

	"glitchr/internal/video"
)

// Fixed harmonic ratios of the simulated camera movement. Presets scale the
// amplitudes; the functional form never changes.
const (
	xHarmonic1   = 3
	xHarmonic2   = 7
	yHarmonic1   = 2
	yHarmonic2   = 5
	rotHarmonic1 = 1
	rotHarmonic2 = 7
)

// Output frame geometry: portrait 9:16.
const (
	CropWidth  = 1080
	CropHeight = 1920
)

// MotionPreset is one intensity configuration for the zoom/pan/rotate stage.
// The overscan canvas is sized so the maximum pan/zoom/rotate excursion stays
// outside the final crop window.
type MotionPreset struct {
	Name      string  `json:"name"`
	BaseZoom  float64 `json:"base_zoom"`
	ZoomAmp   float64 `json:"zoom_amp"`
	XWobble1  float64 `json:"x_wobble_1"`
	XWobble2  float64 `json:"x_wobble_2"`
	YWobble1  float64 `json:"y_wobble_1"`
	YWobble2  float64 `json:"y_wobble_2"`
	RotMain   float64 `json:"rot_main"`
	RotJitter float64 `json:"rot_jitter"`
	PreScaleH int     `json:"pre_scale_h"`
	OverscanW int     `json:"overscan_w"`
	OverscanH int     `json:"overscan_h"`
}

// MotionPresets returns the named intensity configurations. "standard" keeps
// more of the picture visible; "high" pushes the motion much harder.
func MotionPresets() map[string]MotionPreset {
	return map[string]MotionPreset{
		"standard": {
			Name:      "standard",
			BaseZoom:  1.01,
			ZoomAmp:   0.01,
			XWobble1:  10,
			XWobble2:  4,
			YWobble1:  8,
			YWobble2:  3,
			RotMain:   0.006,
			RotJitter: 0.002,
			PreScaleH: 2400,
			OverscanW: 1152,
			OverscanH: 2048,
		},
		"high": {
			Name:      "high",
			BaseZoom:  1.10,
			ZoomAmp:   0.08,
			XWobble1:  24,
			XWobble2:  10,
			YWobble1:  18,
			YWobble2:  9,
			RotMain:   0.012,
			RotJitter: 0.004,
			PreScaleH: 2880,
			OverscanW: 1296,
			OverscanH: 2304,
		},
	}
}

// Zoom is the time-varying zoom factor. One full cycle over the clip length,
// so the zoom closes back on itself.
func (p MotionPreset) Zoom(clipLen float64, timeVar string) Expr {
	return Sum{
		Const(p.BaseZoom),
		SineTerm{Amp: p.ZoomAmp, Freq: 1 / clipLen, TimeVar: timeVar},
	}
}

// PanX is the horizontal wobble offset around the centered crop origin.
func (p MotionPreset) PanX(clipLen float64, timeVar string) Expr {
	return Sum{
		SineTerm{Amp: p.XWobble1, Freq: xHarmonic1 / clipLen, TimeVar: timeVar},
		SineTerm{Amp: p.XWobble2, Freq: xHarmonic2 / clipLen, TimeVar: timeVar},
	}
}

// PanY is the vertical wobble offset around the centered crop origin.
func (p MotionPreset) PanY(clipLen float64, timeVar string) Expr {
	return Sum{
		SineTerm{Amp: p.YWobble1, Freq: yHarmonic1 / clipLen, TimeVar: timeVar},
		SineTerm{Amp: p.YWobble2, Freq: yHarmonic2 / clipLen, TimeVar: timeVar},
	}
}

// Rotation is the small-angle sway in radians.
func (p MotionPreset) Rotation(clipLen float64) Expr {
	return Sum{
		SineTerm{Amp: p.RotMain, Freq: rotHarmonic1 / clipLen},
		SineTerm{Amp: p.RotJitter, Freq: rotHarmonic2 / clipLen},
	}
}

// MotionEffect applies the simulated camera movement: pre-scale, sine-driven
// zoompan on an overscan canvas, sine-driven rotation, then a fixed center
// crop to portrait.
type MotionEffect struct {
	encoder video.Encoder
	preset  MotionPreset
}

func NewMotionEffect(encoder video.Encoder, preset MotionPreset) *MotionEffect {
	return &MotionEffect{encoder: encoder, preset: preset}
}

func (m *MotionEffect) Apply(inputPath, outputPath string, fps int, duration float64) error {
	return m.encoder.Encode(video.Job{
		Inputs:        []video.Input{{Path: inputPath}},
		FilterComplex: m.BuildFilter(fps, duration),
		Output:        outputPath,
		FPS:           fps,
	})
}

// BuildFilter assembles the zoompan/rotate/crop filter graph. zoompan
// evaluates per output frame, so its expressions see time as on/fps; rotate
// sees t directly.
func (m *MotionEffect) BuildFilter(fps int, duration float64) string {
	p := m.preset
	tv := fmt.Sprintf("on/%d", fps)

	return fmt.Sprintf(
		"[0:v]fps=%d,setpts=N/(%d*TB),"+
			"scale=-1:%d,"+
			"zoompan=z='%s':"+
			"x='(iw-iw/zoom)/2+%s':"+
			"y='(ih-ih/zoom)/2+%s':"+
			"d=1:s=%dx%d:fps=%d,"+
			"rotate='%s':ow=rotw(iw):oh=roth(ih),"+
			"crop=%d:%d[v]",
		fps, fps,
		p.PreScaleH,
		p.Zoom(duration, tv).Render(),
		p.PanX(duration, tv).Render(),
		p.PanY(duration, tv).Render(),
		p.OverscanW, p.OverscanH, fps,
		p.Rotation(duration).Render(),
		CropWidth, CropHeight,
	)
}
