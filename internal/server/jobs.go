package server

import (
	"fmt"
	"sync"
	"time"

	"glitchr/internal/glitch"
	"glitchr/internal/pipeline"
	"glitchr/internal/video"
	"glitchr/internal/workspace"
)

type HubInterface interface {
	BroadcastRunUpdate(runID, status string, progress float64)
}

type renderJob struct {
	run *workspace.Run
	cfg pipeline.Config
}

// Processor runs render jobs on a fixed worker pool. Run state is persisted
// through the workspace manager and pushed to WebSocket clients as it
// changes.
type Processor struct {
	runsMu  sync.RWMutex
	runs    map[string]*workspace.Run
	queue   chan *renderJob
	workers int
	hub     HubInterface
	manager *workspace.Manager
	encoder video.Encoder
	metrics *Metrics
}

func NewProcessor(workers int, hub HubInterface, manager *workspace.Manager, encoder video.Encoder, metrics *Metrics) *Processor {
	return &Processor{
		runs:    make(map[string]*workspace.Run),
		queue:   make(chan *renderJob, 100),
		workers: workers,
		hub:     hub,
		manager: manager,
		encoder: encoder,
		metrics: metrics,
	}
}

func (p *Processor) Start() {
	for i := 0; i < p.workers; i++ {
		go p.worker()
	}
}

func (p *Processor) Enqueue(run *workspace.Run, cfg pipeline.Config) {
	p.runsMu.Lock()
	run.Status = "queued"
	p.runs[run.ID] = run
	p.runsMu.Unlock()

	p.manager.SaveRun(run)
	p.queue <- &renderJob{run: run, cfg: cfg}
}

func (p *Processor) GetRun(id string) (*workspace.Run, bool) {
	p.runsMu.RLock()
	defer p.runsMu.RUnlock()
	run, exists := p.runs[id]
	return run, exists
}

func (p *Processor) GetAllRuns() []*workspace.Run {
	p.runsMu.RLock()
	defer p.runsMu.RUnlock()

	runs := make([]*workspace.Run, 0, len(p.runs))
	for _, run := range p.runs {
		runs = append(runs, run)
	}
	return runs
}

func (p *Processor) worker() {
	for job := range p.queue {
		fmt.Printf("Processing run: %s\n", job.run.ID)
		p.process(job)
	}
}

func (p *Processor) process(job *renderJob) {
	p.updateRun(job.run.ID, "processing", 0.1, "")
	if p.metrics != nil {
		p.metrics.RendersStarted.Inc()
	}
	start := time.Now()

	synth := glitch.NewSynthesizer(glitch.NewSliceTransform())
	err := pipeline.New(job.cfg, p.encoder, synth).Run()

	if err != nil {
		fmt.Printf("Run %s failed: %v\n", job.run.ID, err)
		if p.metrics != nil {
			p.metrics.RendersFailed.Inc()
		}
		p.updateRun(job.run.ID, "failed", 0, err.Error())
		return
	}

	if p.metrics != nil {
		p.metrics.RendersCompleted.Inc()
		p.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	}

	p.runsMu.Lock()
	if run, exists := p.runs[job.run.ID]; exists {
		run.OutputFile = job.cfg.OutputPath
	}
	p.runsMu.Unlock()

	p.updateRun(job.run.ID, "completed", 1.0, "")
}

func (p *Processor) updateRun(id, status string, progress float64, errorMsg string) {
	p.runsMu.Lock()
	defer p.runsMu.Unlock()

	run, exists := p.runs[id]
	if !exists {
		return
	}

	run.Status = status
	run.Progress = progress
	run.Error = errorMsg
	p.manager.SaveRun(run)

	if p.hub != nil {
		p.hub.BroadcastRunUpdate(id, status, progress)
	}
}
