package timing

import "math"

// calmSynthCap bounds how many seconds of unique calm frames are ever
// synthesized; the calm segment is looped by the encoder, so generating
// more than this is wasted work.
const calmSynthCap = 2.0

type Plan struct {
	FPS            int     `json:"fps"`
	TotalDuration  float64 `json:"total_duration"`
	ClimaxDuration float64 `json:"climax_duration"`
	CalmDuration   float64 `json:"calm_duration"`
}

// NewPlan splits a total duration into a looped calm segment followed by a
// climax segment. A climax longer than the total collapses the calm segment
// to zero; the downstream trims bound the actual output length.
func NewPlan(totalDuration, climaxDuration float64, fps int) Plan {
	return Plan{
		FPS:            fps,
		TotalDuration:  totalDuration,
		ClimaxDuration: climaxDuration,
		CalmDuration:   math.Max(0, totalDuration-climaxDuration),
	}
}

// FrameCount converts a segment duration to a frame count. Animated GIF
// looping needs at least two frames, so degenerate requests are promoted.
func FrameCount(duration float64, fps int) int {
	n := int(math.Round(duration * float64(fps)))
	if n < 2 {
		return 2
	}
	return n
}

// CalmFrames is the number of unique calm frames to synthesize. Capped at
// two seconds worth regardless of how long the calm segment plays back.
func (p Plan) CalmFrames() int {
	secs := p.CalmDuration
	if secs <= 0 {
		secs = calmSynthCap
	}
	if secs > calmSynthCap {
		secs = calmSynthCap
	}
	return FrameCount(secs, p.FPS)
}

// ClimaxFrames is the number of climax frames to synthesize.
func (p Plan) ClimaxFrames() int {
	return FrameCount(p.ClimaxDuration, p.FPS)
}

// FrameDelayMS is the per-frame GIF delay derived from the target fps.
func (p Plan) FrameDelayMS() int {
	d := int(math.Round(1000 / float64(p.FPS)))
	if d < 1 {
		return 1
	}
	return d
}
