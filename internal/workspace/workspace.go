package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Run is one image-to-video generation run. Every run gets its own directory
// so concurrent runs never share an artifact base path.
type Run struct {
	ID         string    `json:"id"`
	SourceFile string    `json:"source_file"`
	OutputFile string    `json:"output_file"`
	Duration   float64   `json:"duration"`
	FPS        int       `json:"fps"`
	Preset     string    `json:"preset"`
	Status     string    `json:"status"`
	Progress   float64   `json:"progress"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	BasePath   string    `json:"base_path"`
}

type Manager struct {
	runsDir string
}

func NewManager(runsDir string) *Manager {
	if runsDir == "" {
		runsDir = "runs"
	}
	os.MkdirAll(runsDir, 0755)

	return &Manager{runsDir: runsDir}
}

func (m *Manager) CreateRun(id string) (*Run, error) {
	runPath := filepath.Join(m.runsDir, id)

	if err := os.MkdirAll(runPath, 0755); err != nil {
		return nil, err
	}

	run := &Run{
		ID:        id,
		Status:    "created",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		BasePath:  runPath,
	}

	if err := m.SaveRun(run); err != nil {
		return nil, err
	}

	return run, nil
}

func (m *Manager) SaveRun(run *Run) error {
	run.UpdatedAt = time.Now()

	runFile := filepath.Join(run.BasePath, "run.json")
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(runFile, data, 0644)
}

func (m *Manager) LoadRun(id string) (*Run, error) {
	runFile := filepath.Join(m.runsDir, id, "run.json")

	data, err := os.ReadFile(runFile)
	if err != nil {
		return nil, err
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, err
	}

	return &run, nil
}

func (m *Manager) ListRuns() ([]*Run, error) {
	entries, err := os.ReadDir(m.runsDir)
	if err != nil {
		return nil, err
	}

	var runs []*Run
	for _, entry := range entries {
		if entry.IsDir() {
			run, err := m.LoadRun(entry.Name())
			if err != nil {
				continue
			}
			runs = append(runs, run)
		}
	}

	return runs, nil
}

// ArtifactBase is the base path the pipeline derives its five artifact names
// from for this run.
func (m *Manager) ArtifactBase(run *Run) string {
	return filepath.Join(run.BasePath, "clip")
}

// OutputPath is where the run's deliverable video is copied.
func (m *Manager) OutputPath(run *Run) string {
	return filepath.Join(run.BasePath, "output.mp4")
}

// ScanAndRecoverRun re-links a run's source and output files from whatever
// is on disk, for runs whose metadata was lost or half-written.
func (m *Manager) ScanAndRecoverRun(id string) error {
	run, err := m.LoadRun(id)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(run.BasePath)
	if err != nil {
		return fmt.Errorf("failed to scan run directory: %v", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch {
		case run.SourceFile == "" && strings.HasPrefix(name, "source"):
			run.SourceFile = filepath.Join(run.BasePath, name)
		case run.OutputFile == "" && name == "output.mp4":
			run.OutputFile = filepath.Join(run.BasePath, name)
			run.Status = "completed"
		}
	}

	return m.SaveRun(run)
}
