package video

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Input is one source stream for a filter-graph job.
type Input struct {
	Path        string
	LoopForever bool // loop the input stream indefinitely (-stream_loop -1)
	PlayOnce    bool // ignore the GIF loop flag (-ignore_loop 1)
}

// Job is a single synchronous filter-graph invocation. The filter graph must
// label its video output [v].
type Job struct {
	Inputs        []Input
	FilterComplex string
	Output        string
	FPS           int
	Duration      float64 // output duration cap in seconds, 0 for none
	MapAudio      bool    // pass through the first input's audio, if any
}

// Encoder runs filter-graph jobs. Exit code zero means the output file was
// produced; anything else is a failure with no usable artifact.
type Encoder interface {
	Encode(job Job) error
}

type FFmpegEncoder struct{}

func NewFFmpegEncoder() *FFmpegEncoder {
	return &FFmpegEncoder{}
}

func (e *FFmpegEncoder) Encode(job Job) error {
	args := e.buildArgs(job)
	fmt.Printf("[CMD] ffmpeg %s\n", strings.Join(args, " "))

	cmd := exec.Command("ffmpeg", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %v\nOutput: %s", err, string(output))
	}

	return nil
}

// buildArgs assembles the ffmpeg invocation. The -n flag refuses to
// overwrite an existing output, matching the pipeline's at-most-once
// artifact policy.
func (e *FFmpegEncoder) buildArgs(job Job) []string {
	args := []string{"-n"}

	for _, in := range job.Inputs {
		if in.LoopForever {
			args = append(args, "-stream_loop", "-1")
		}
		if in.PlayOnce {
			args = append(args, "-ignore_loop", "1")
		}
		args = append(args, "-i", in.Path)
	}

	args = append(args, "-filter_complex", job.FilterComplex, "-map", "[v]")
	if job.MapAudio {
		args = append(args, "-map", "0:a?")
	}

	args = append(args, "-r", strconv.Itoa(job.FPS))
	if job.Duration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.3f", job.Duration))
	}

	args = append(args, "-c:v", "libx264", "-pix_fmt", "yuv420p")
	if job.MapAudio {
		args = append(args, "-c:a", "copy")
	}

	return append(args, job.Output)
}

// Preview extracts a single scaled frame, used by the web layer for job
// thumbnails.
func (e *FFmpegEncoder) Preview(inputPath, outputPath string, width, height int) error {
	cmd := exec.Command("ffmpeg", "-i", inputPath, "-vf", fmt.Sprintf("scale=%d:%d", width, height), "-frames:v", "1", outputPath, "-y")

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("preview generation failed: %v\nOutput: %s", err, string(output))
	}

	return nil
}
