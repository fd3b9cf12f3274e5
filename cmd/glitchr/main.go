package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"glitchr/internal/effects"
	"glitchr/internal/glitch"
	"glitchr/internal/pipeline"
	"glitchr/internal/server"
	"glitchr/internal/video"
)

func main() {
	var (
		webMode = flag.Bool("web", false, "run in web mode")
		port    = flag.String("port", "", "server port (web mode)")

		fps        = flag.Int("fps", 60, "frames per second")
		base       = flag.String("base", "", "artifact base path (default: image path without extension)")
		out        = flag.String("out", "", "final output path (default: no copy)")
		climax     = flag.Float64("climax", 2.0, "duration of heavy glitch segment in seconds")
		presetName = flag.String("preset", "standard", "motion preset: standard or high")

		wobbleMain   = flag.Float64("wobble-main", 0.008, "main wobble amplitude during transitions, radians")
		wobbleJitter = flag.Float64("wobble-jitter", 0.002, "jitter wobble amplitude during transitions, radians")
		wobbleF1     = flag.Float64("wobble-f1", 1.0, "wobble frequency 1, Hz")
		wobbleF2     = flag.Float64("wobble-f2", 1.0, "wobble frequency 2, Hz")
		blur         = flag.Int("blur", 6, "gaussian blur sigma during transitions")
	)
	flag.Parse()

	if *webMode {
		cfg := server.LoadConfig()
		if *port != "" {
			cfg.Port = *port
		}
		fmt.Printf("Starting web server on port %s\n", cfg.Port)
		if err := server.Start(cfg); err != nil {
			log.Fatal("Failed to start server:", err)
		}
		return
	}

	args := flag.Args()
	if len(args) != 2 {
		fmt.Println("Glitchr - Image to Glitch Video Generator")
		fmt.Println("Usage: glitchr [flags] <image> <duration_seconds>")
		fmt.Println("       glitchr -web to start web interface")
		os.Exit(2)
	}

	imagePath := args[0]
	duration, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		log.Fatalf("Invalid duration %q: %v", args[1], err)
	}

	preset, ok := effects.MotionPresets()[*presetName]
	if !ok {
		log.Fatalf("Unknown preset %q (want standard or high)", *presetName)
	}

	basePath := *base
	if basePath == "" {
		basePath = strings.TrimSuffix(imagePath, filepath.Ext(imagePath))
	}

	cfg := pipeline.Config{
		ImagePath:      imagePath,
		Base:           basePath,
		OutputPath:     *out,
		FPS:            *fps,
		Duration:       duration,
		ClimaxDuration: *climax,
		Preset:         preset,
		Transition: effects.TransitionParams{
			WobbleMain:   *wobbleMain,
			WobbleJitter: *wobbleJitter,
			Freq1:        *wobbleF1,
			Freq2:        *wobbleF2,
			BlurSigma:    *blur,
		},
	}

	synth := glitch.NewSynthesizer(glitch.NewSliceTransform())
	p := pipeline.New(cfg, video.NewFFmpegEncoder(), synth)

	if err := p.Run(); err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	art := p.Artifacts()
	fmt.Println("[DONE]")
	fmt.Printf(" - GIF 1: %s\n", art.CalmGIF)
	fmt.Printf(" - GIF 2: %s\n", art.ClimaxGIF)
	fmt.Printf(" - MP4 raw (looped+concat): %s\n", art.RawVideo)
	fmt.Printf(" - MP4 with VFX: %s\n", art.MotionVideo)
	fmt.Printf(" - MP4 final with transitions: %s\n", art.FinalVideo)
	if *out != "" {
		fmt.Printf(" - Out File: %s\n", *out)
	}
}
