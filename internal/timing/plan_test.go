package timing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPlanCalmDuration(t *testing.T) {
	cases := []struct {
		name     string
		total    float64
		climax   float64
		wantCalm float64
	}{
		{"normal split", 8.0, 2.0, 6.0},
		{"climax equals total", 5.0, 5.0, 0.0},
		{"climax exceeds total", 3.0, 5.0, 0.0},
		{"zero climax", 4.0, 0.0, 4.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPlan(tc.total, tc.climax, 30)
			assert.Equal(t, tc.wantCalm, p.CalmDuration)
			assert.Equal(t, tc.total, p.TotalDuration)
			assert.Equal(t, tc.climax, p.ClimaxDuration)
		})
	}
}

func TestFrameCount(t *testing.T) {
	assert.Equal(t, 60, FrameCount(2.0, 30))
	assert.Equal(t, 150, FrameCount(5.0, 30))
	assert.Equal(t, 2, FrameCount(0, 30), "zero duration promotes to two frames")
	assert.Equal(t, 2, FrameCount(0.01, 30), "sub-frame duration promotes to two frames")
	assert.Equal(t, 45, FrameCount(1.5, 30))
}

func TestCalmFramesCappedAtTwoSeconds(t *testing.T) {
	// Calm segment of 6s still only synthesizes 2s of unique frames.
	p := NewPlan(8.0, 2.0, 30)
	assert.Equal(t, 60, p.CalmFrames())

	// Calm under the cap synthesizes its real length.
	p = NewPlan(3.0, 1.5, 30)
	assert.Equal(t, 45, p.CalmFrames())

	// No calm segment at all still produces a loopable two-second GIF.
	p = NewPlan(2.0, 2.0, 30)
	assert.Equal(t, 60, p.CalmFrames())
}

func TestEndToEndScenario(t *testing.T) {
	// 5s total, 2s climax at 30fps: 3s calm (capped to 2s synthesis).
	p := NewPlan(5.0, 2.0, 30)
	assert.Equal(t, 3.0, p.CalmDuration)
	assert.Equal(t, 60, p.CalmFrames())
	assert.Equal(t, 60, p.ClimaxFrames())
}

func TestFrameDelayMS(t *testing.T) {
	assert.Equal(t, 33, Plan{FPS: 30}.FrameDelayMS())
	assert.Equal(t, 17, Plan{FPS: 60}.FrameDelayMS())
	assert.Equal(t, 1, Plan{FPS: 2000}.FrameDelayMS(), "delay floors at 1ms")
}
