package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"glitchr/internal/effects"
	"glitchr/internal/glitch"
	"glitchr/internal/timing"
	"glitchr/internal/video"
)

// Amplitude schedules for the two glitch segments: the calm loop holds a
// steady light distortion, the climax ramps up hard.
var (
	calmSchedule   = glitch.Constant(0.7)
	climaxSchedule = glitch.Ramp(3.0, 5.0)
)

type Config struct {
	ImagePath      string
	Base           string // base path for the five stage artifacts
	OutputPath     string // final copy destination, empty to skip the copy
	FPS            int
	Duration       float64
	ClimaxDuration float64
	Preset         effects.MotionPreset
	Transition     effects.TransitionParams
}

// Stage is one node of the pipeline graph: it declares the upstream
// artifacts it reads and the single artifact it produces.
type Stage struct {
	Name   string
	Inputs []string
	Output string
	Build  func(output string) error
}

// Pipeline runs the four-effect stage graph: glitch GIF synthesis, loop and
// concat assembly, camera motion, and wobble-blur transitions. Stages whose
// output already exists are skipped; a stage that rebuilds invalidates every
// downstream artifact first. Two concurrent runs must not share a base path.
type Pipeline struct {
	cfg     Config
	encoder video.Encoder
	synth   *glitch.Synthesizer
	plan    timing.Plan
	art     Artifacts
}

func New(cfg Config, encoder video.Encoder, synth *glitch.Synthesizer) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		encoder: encoder,
		synth:   synth,
		plan:    timing.NewPlan(cfg.Duration, cfg.ClimaxDuration, cfg.FPS),
		art:     ArtifactsFor(cfg.Base),
	}
}

func (p *Pipeline) Artifacts() Artifacts {
	return p.art
}

func (p *Pipeline) Run() error {
	if err := p.validate(); err != nil {
		return err
	}

	fmt.Printf("[SETUP] image=%s duration=%gs fps=%d climax=%gs preset=%s\n",
		p.cfg.ImagePath, p.cfg.Duration, p.cfg.FPS, p.cfg.ClimaxDuration, p.cfg.Preset.Name)
	fmt.Printf("[PLAN] calm(loop)=%.3fs climax=%.3fs\n", p.plan.CalmDuration, p.plan.ClimaxDuration)
	fmt.Printf("[FRAMES] calm=%d climax=%d\n", p.plan.CalmFrames(), p.plan.ClimaxFrames())

	dirty := make(map[string]bool)
	for _, stage := range p.stages() {
		for _, input := range stage.Inputs {
			if dirty[input] {
				removeArtifact(stage.Output)
				break
			}
		}

		created, err := p.runStage(stage)
		if err != nil {
			return fmt.Errorf("stage %s: %w", stage.Name, err)
		}
		if created {
			dirty[stage.Output] = true
		}
	}

	if p.cfg.OutputPath != "" {
		if err := copyFile(p.art.FinalVideo, p.cfg.OutputPath); err != nil {
			return fmt.Errorf("failed to copy final output: %v", err)
		}
		fmt.Printf("[DONE] output copied to %s\n", p.cfg.OutputPath)
	}

	return nil
}

func (p *Pipeline) validate() error {
	if p.cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be > 0, got %g", ErrInput, p.cfg.Duration)
	}
	if p.cfg.FPS <= 0 {
		return fmt.Errorf("%w: fps must be > 0, got %d", ErrInput, p.cfg.FPS)
	}
	if info, err := os.Stat(p.cfg.ImagePath); err != nil || info.IsDir() {
		return fmt.Errorf("%w: source image not found at %s", ErrInput, p.cfg.ImagePath)
	}
	return nil
}

func (p *Pipeline) stages() []Stage {
	return []Stage{
		{
			Name:   "glitch-calm",
			Output: p.art.CalmGIF,
			Build:  p.buildCalmGIF,
		},
		{
			Name:   "glitch-climax",
			Output: p.art.ClimaxGIF,
			Build:  p.buildClimaxGIF,
		},
		{
			Name:   "assemble",
			Inputs: []string{p.art.CalmGIF, p.art.ClimaxGIF},
			Output: p.art.RawVideo,
			Build:  p.buildRawVideo,
		},
		{
			Name:   "motion",
			Inputs: []string{p.art.RawVideo},
			Output: p.art.MotionVideo,
			Build:  p.buildMotionVideo,
		},
		{
			Name:   "transition",
			Inputs: []string{p.art.MotionVideo},
			Output: p.art.FinalVideo,
			Build:  p.buildFinalVideo,
		},
	}
}

// runStage skips a stage whose output already exists. This is an
// at-most-once-per-name policy, not a staleness check: a skipped stage never
// invalidates anything downstream. A failed build leaves no partial output.
func (p *Pipeline) runStage(stage Stage) (bool, error) {
	if _, err := os.Stat(stage.Output); err == nil {
		fmt.Printf("[SKIP] %s already exists (not overwriting)\n", stage.Output)
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(stage.Output), 0755); err != nil {
		return false, fmt.Errorf("failed to create artifact directory: %v", err)
	}

	if err := stage.Build(stage.Output); err != nil {
		removeArtifact(stage.Output)
		return false, err
	}

	return true, nil
}

func (p *Pipeline) buildCalmGIF(output string) error {
	_, err := p.synth.WriteGIF(p.cfg.ImagePath, output, p.cfg.FPS, p.plan.CalmFrames(), calmSchedule)
	return err
}

func (p *Pipeline) buildClimaxGIF(output string) error {
	_, err := p.synth.WriteGIF(p.cfg.ImagePath, output, p.cfg.FPS, p.plan.ClimaxFrames(), climaxSchedule)
	return err
}

// buildRawVideo loops the calm GIF indefinitely, trims both segments to
// their exact durations, and concatenates them at a constant frame clock.
// The total duration cap is a separate guard against trim rounding error.
func (p *Pipeline) buildRawVideo(output string) error {
	fps := p.cfg.FPS
	filter := fmt.Sprintf(
		"[0:v]fps=%d,setpts=N/(%d*TB),trim=duration=%g[a];"+
			"[1:v]fps=%d,setpts=N/(%d*TB),trim=duration=%g[b];"+
			"[a][b]concat=n=2:v=1:a=0[v]",
		fps, fps, p.plan.CalmDuration,
		fps, fps, p.plan.ClimaxDuration,
	)

	err := p.encoder.Encode(video.Job{
		Inputs: []video.Input{
			{Path: p.art.CalmGIF, LoopForever: true},
			{Path: p.art.ClimaxGIF, PlayOnce: true},
		},
		FilterComplex: filter,
		Output:        output,
		FPS:           fps,
		Duration:      p.plan.TotalDuration,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return nil
}

func (p *Pipeline) buildMotionVideo(output string) error {
	motion := effects.NewMotionEffect(p.encoder, p.cfg.Preset)
	if err := motion.Apply(p.art.RawVideo, output, p.cfg.FPS, p.cfg.Duration); err != nil {
		return fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return nil
}

func (p *Pipeline) buildFinalVideo(output string) error {
	transition := effects.NewTransitionEffect(p.encoder, p.cfg.Transition)
	if err := transition.Apply(p.art.MotionVideo, output, p.cfg.FPS, p.cfg.Duration); err != nil {
		return fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return nil
}

func removeArtifact(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := os.Remove(path); err != nil {
		fmt.Printf("[CLEAN][warn] could not remove %s: %v\n", path, err)
		return
	}
	fmt.Printf("[CLEAN] removed %s\n", path)
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
