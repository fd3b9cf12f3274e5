package effects

import (
	"fmt"
	"math"

	"glitchr/internal/video"
)

// transitionWindow is how long the wobble and blur stay active at each end of
// the clip.
const transitionWindow = 0.5

// Canvas the transition stage works on before the final crop.
const (
	transitionScaleW = 1296
	transitionScaleH = 2304
)

// TransitionParams tunes the wobble-blur bookends.
type TransitionParams struct {
	WobbleMain   float64 `json:"wobble_main"`   // main wobble amplitude, radians
	WobbleJitter float64 `json:"wobble_jitter"` // jitter wobble amplitude, radians
	Freq1        float64 `json:"freq1"`         // main wobble frequency, Hz
	Freq2        float64 `json:"freq2"`         // jitter wobble frequency, Hz
	BlurSigma    int     `json:"blur_sigma"`
}

func DefaultTransitionParams() TransitionParams {
	return TransitionParams{
		WobbleMain:   0.008,
		WobbleJitter: 0.002,
		Freq1:        1.0,
		Freq2:        1.0,
		BlurSigma:    6,
	}
}

// TransitionEffect applies a rotational wobble and a gaussian blur during the
// first and last half second of the clip, leaving the middle untouched. Any
// audio track passes through unmodified.
type TransitionEffect struct {
	encoder video.Encoder
	params  TransitionParams
}

func NewTransitionEffect(encoder video.Encoder, params TransitionParams) *TransitionEffect {
	return &TransitionEffect{encoder: encoder, params: params}
}

func (te *TransitionEffect) Apply(inputPath, outputPath string, fps int, duration float64) error {
	return te.encoder.Encode(video.Job{
		Inputs:        []video.Input{{Path: inputPath}},
		FilterComplex: te.BuildFilter(fps, duration),
		Output:        outputPath,
		FPS:           fps,
		Duration:      duration,
		MapAudio:      true,
	})
}

// AngleExpr is the gated wobble angle: a dual-frequency sine that is zero
// outside the opening and closing windows.
func (te *TransitionEffect) AngleExpr(duration float64) Expr {
	endStart := math.Max(0, duration-transitionWindow)
	return Gate{
		Windows: []Window{
			{Start: 0, End: transitionWindow},
			{Start: endStart, End: math.Inf(1)},
		},
		Inner: Sum{
			SineTerm{Amp: te.params.WobbleMain, Freq: te.params.Freq1},
			SineTerm{Amp: te.params.WobbleJitter, Freq: te.params.Freq2},
		},
	}
}

// BlurEnable gates the gaussian blur over the same two windows, as its own
// expression rather than a shared variable with the wobble gate.
func (te *TransitionEffect) BlurEnable(duration float64) Enable {
	endStart := math.Max(0, duration-transitionWindow)
	return Enable{
		{Start: 0, End: transitionWindow},
		{Start: endStart, End: endStart + transitionWindow},
	}
}

func (te *TransitionEffect) BuildFilter(fps int, duration float64) string {
	return fmt.Sprintf(
		"[0:v]fps=%d,scale=%d:%d,"+
			"rotate='%s':ow=rotw(iw):oh=roth(ih),"+
			"gblur=sigma=%d:steps=3:enable='%s',"+
			"crop=%d:%d[v]",
		fps, transitionScaleW, transitionScaleH,
		te.AngleExpr(duration).Render(),
		te.params.BlurSigma,
		te.BlurEnable(duration).Render(),
		CropWidth, CropHeight,
	)
}
