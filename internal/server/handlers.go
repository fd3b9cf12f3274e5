package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"glitchr/internal/effects"
	"glitchr/internal/pipeline"
	"glitchr/internal/video"
	"glitchr/internal/workspace"
)

type Server struct {
	cfg       Config
	processor *Processor
	manager   *workspace.Manager
	analyzer  *video.Analyzer
	encoder   *video.FFmpegEncoder
	wsHub     *WSHub
	registry  *prometheus.Registry
}

func NewServer(cfg Config) *Server {
	wsHub := NewWSHub()
	go wsHub.Run()

	manager := workspace.NewManager(cfg.RunsDir)
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	encoder := video.NewFFmpegEncoder()

	processor := NewProcessor(cfg.Workers, wsHub, manager, encoder, metrics)
	processor.Start()

	return &Server{
		cfg:       cfg,
		processor: processor,
		manager:   manager,
		analyzer:  video.NewAnalyzer(),
		encoder:   encoder,
		wsHub:     wsHub,
		registry:  registry,
	}
}

func (s *Server) SetupRoutes() *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		api.POST("/generate", s.handleGenerate)
		api.GET("/runs", s.handleListRuns)
		api.GET("/runs/:id", s.handleGetRun)
		api.GET("/runs/:id/download", s.handleDownload)
		api.GET("/runs/:id/preview", s.handlePreview)
		api.POST("/runs/:id/scan", s.handleScanRun)
	}

	return r
}

type generateRequest struct {
	ImageURL     string  `json:"image_url"`
	Duration     float64 `json:"duration"`
	FPS          int     `json:"fps"`
	Climax       float64 `json:"climax"`
	Preset       string  `json:"preset"`
	WobbleMain   float64 `json:"wobble_main"`
	WobbleJitter float64 `json:"wobble_jitter"`
	WobbleF1     float64 `json:"wobble_f1"`
	WobbleF2     float64 `json:"wobble_f2"`
	Blur         int     `json:"blur"`
}

// handleGenerate accepts a multipart upload with an "image" file or a JSON
// body with an image URL, validates the basics, and queues a render run.
func (s *Server) handleGenerate(c *gin.Context) {
	var req generateRequest
	var upload io.Reader
	var uploadExt string

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		req = generateRequestFromForm(c)

		file, header, err := c.Request.FormFile("image")
		if err == nil {
			defer file.Close()
			upload = file
			uploadExt = filepath.Ext(header.Filename)
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
	}

	if req.Duration <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Duration must be > 0 seconds"})
		return
	}
	if upload == nil && req.ImageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide either an image upload or an image URL"})
		return
	}

	presetName := req.Preset
	if presetName == "" {
		presetName = "standard"
	}
	preset, ok := effects.MotionPresets()[presetName]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown preset %q", presetName)})
		return
	}

	run, err := s.manager.CreateRun(uuid.New().String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create run"})
		return
	}

	var srcPath string
	if upload != nil {
		if uploadExt == "" {
			uploadExt = ".png"
		}
		srcPath = filepath.Join(run.BasePath, "source"+uploadExt)
		out, err := os.Create(srcPath)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
			return
		}
		defer out.Close()
		if _, err := io.Copy(out, upload); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
			return
		}
	} else {
		srcPath, err = downloadImage(req.ImageURL, run.BasePath)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	fps := req.FPS
	if fps <= 0 {
		fps = 30
	}
	climax := req.Climax
	if climax <= 0 {
		climax = 2.0
	}

	transition := effects.DefaultTransitionParams()
	if req.WobbleMain > 0 {
		transition.WobbleMain = req.WobbleMain
	}
	if req.WobbleJitter > 0 {
		transition.WobbleJitter = req.WobbleJitter
	}
	if req.WobbleF1 > 0 {
		transition.Freq1 = req.WobbleF1
	}
	if req.WobbleF2 > 0 {
		transition.Freq2 = req.WobbleF2
	}
	if req.Blur > 0 {
		transition.BlurSigma = req.Blur
	}

	run.SourceFile = srcPath
	run.Duration = req.Duration
	run.FPS = fps
	run.Preset = presetName

	cfg := pipeline.Config{
		ImagePath:      srcPath,
		Base:           s.manager.ArtifactBase(run),
		OutputPath:     s.manager.OutputPath(run),
		FPS:            fps,
		Duration:       req.Duration,
		ClimaxDuration: climax,
		Preset:         preset,
		Transition:     transition,
	}

	s.processor.Enqueue(run, cfg)

	c.JSON(http.StatusOK, gin.H{"run_id": run.ID, "status": run.Status})
}

func generateRequestFromForm(c *gin.Context) generateRequest {
	return generateRequest{
		ImageURL:     c.PostForm("image_url"),
		Duration:     formFloat(c, "duration"),
		FPS:          int(formFloat(c, "fps")),
		Climax:       formFloat(c, "climax"),
		Preset:       c.PostForm("preset"),
		WobbleMain:   formFloat(c, "wobble_main"),
		WobbleJitter: formFloat(c, "wobble_jitter"),
		WobbleF1:     formFloat(c, "wobble_f1"),
		WobbleF2:     formFloat(c, "wobble_f2"),
		Blur:         int(formFloat(c, "blur")),
	}
}

func formFloat(c *gin.Context, field string) float64 {
	v, err := strconv.ParseFloat(c.PostForm(field), 64)
	if err != nil {
		return 0
	}
	return v
}

func (s *Server) handleListRuns(c *gin.Context) {
	runs, err := s.manager.ListRuns()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) handleGetRun(c *gin.Context) {
	run := s.lookupRun(c.Param("id"))
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}

	resp := gin.H{"run": run}
	if run.Status == "completed" && run.OutputFile != "" {
		if info, err := s.analyzer.AnalyzeVideo(run.OutputFile); err == nil {
			resp["info"] = info
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDownload(c *gin.Context) {
	run := s.lookupRun(c.Param("id"))
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}

	if run.Status != "completed" || run.OutputFile == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "Run has no completed output", "status": run.Status})
		return
	}

	c.FileAttachment(run.OutputFile, "glitched.mp4")
}

func (s *Server) handlePreview(c *gin.Context) {
	run := s.lookupRun(c.Param("id"))
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}

	if run.Status != "completed" || run.OutputFile == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "Run has no completed output", "status": run.Status})
		return
	}

	previewPath := filepath.Join(run.BasePath, "preview.jpg")
	if _, err := os.Stat(previewPath); err != nil {
		if err := s.encoder.Preview(run.OutputFile, previewPath, 270, 480); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.File(previewPath)
}

func (s *Server) handleScanRun(c *gin.Context) {
	runID := c.Param("id")

	if err := s.manager.ScanAndRecoverRun(runID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	run, err := s.manager.LoadRun(runID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run":     run,
		"message": "Run scanned and recovered successfully",
	})
}

// lookupRun prefers the processor's live state and falls back to persisted
// metadata for runs from earlier server lifetimes.
func (s *Server) lookupRun(id string) *workspace.Run {
	if run, exists := s.processor.GetRun(id); exists {
		return run
	}
	run, err := s.manager.LoadRun(id)
	if err != nil {
		return nil
	}
	return run
}
