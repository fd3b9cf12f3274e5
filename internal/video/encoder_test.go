package video

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildArgsConcatJob(t *testing.T) {
	e := NewFFmpegEncoder()

	args := e.buildArgs(Job{
		Inputs: []Input{
			{Path: "calm.gif", LoopForever: true},
			{Path: "climax.gif", PlayOnce: true},
		},
		FilterComplex: "[0:v][1:v]concat=n=2:v=1:a=0[v]",
		Output:        "raw.mp4",
		FPS:           30,
		Duration:      5.0,
	})

	joined := strings.Join(args, " ")
	assert.True(t, strings.HasPrefix(joined, "-n "), "never overwrite an existing artifact")
	assert.Contains(t, joined, "-stream_loop -1 -i calm.gif")
	assert.Contains(t, joined, "-ignore_loop 1 -i climax.gif")
	assert.Contains(t, joined, "-map [v]")
	assert.Contains(t, joined, "-r 30")
	assert.Contains(t, joined, "-t 5.000")
	assert.Contains(t, joined, "-c:v libx264 -pix_fmt yuv420p")
	assert.NotContains(t, joined, "-map 0:a?")
	assert.Equal(t, "raw.mp4", args[len(args)-1])
}

func TestBuildArgsAudioPassthrough(t *testing.T) {
	e := NewFFmpegEncoder()

	args := e.buildArgs(Job{
		Inputs:        []Input{{Path: "vfx.mp4"}},
		FilterComplex: "[0:v]crop=1080:1920[v]",
		Output:        "final.mp4",
		FPS:           30,
		Duration:      5.0,
		MapAudio:      true,
	})

	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-map [v] -map 0:a?", "audio is optional: absence must not fail the job")
	assert.Contains(t, joined, "-c:a copy")
}

func TestBuildArgsNoDurationCap(t *testing.T) {
	e := NewFFmpegEncoder()

	args := e.buildArgs(Job{
		Inputs:        []Input{{Path: "in.mp4"}},
		FilterComplex: "[0:v]null[v]",
		Output:        "out.mp4",
		FPS:           60,
	})

	assert.NotContains(t, strings.Join(args, " "), "-t ")
}
