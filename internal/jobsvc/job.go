// Package jobsvc runs approximation jobs in the background: each Job
// wraps a *model.Model and a step budget, stepped by a worker goroutine
// until it converges, exhausts its budget, or is cancelled, with
// periodic checkpointing so it can be resumed after a restart.
package jobsvc

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/cwbudde/primify/internal/model"
	"github.com/cwbudde/primify/internal/shape"
)

// State is the lifecycle state of a Job.
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// JobConfig is the caller-supplied configuration for a new job.
type JobConfig struct {
	RefPath      string
	Background   *[4]int // nil = target average color
	Kinds        []shape.Kind
	Alpha        uint8
	ShapeCount   int
	MaxMutations int
	MaxThreads   int
	Seed         uint32
	TargetSteps  int // 0 = unbounded; stepped until converged or cancelled
	Convergence  ConvergenceConfig
}

// Job is one running or completed approximation run.
type Job struct {
	ID        string
	State     State
	Config    JobConfig
	Model     *model.Model
	Shapes    []model.ShapeResult
	StartTime time.Time
	EndTime   *time.Time
	Err       error

	cancel func()
}

// Manager tracks the set of jobs known to this process.
type Manager struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{jobs: make(map[string]*Job)}
}

// CreateJob registers a new pending job around m and config.
func (mgr *Manager) CreateJob(m *model.Model, config JobConfig) *Job {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	job := &Job{
		ID:        uuid.New().String(),
		State:     StatePending,
		Config:    config,
		Model:     m,
		StartTime: time.Now(),
	}
	mgr.jobs[job.ID] = job
	return job
}

// GetJob retrieves a job by ID.
func (mgr *Manager) GetJob(id string) (*Job, bool) {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	job, ok := mgr.jobs[id]
	return job, ok
}

// ListJobs returns every known job.
func (mgr *Manager) ListJobs() []*Job {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	jobs := make([]*Job, 0, len(mgr.jobs))
	for _, j := range mgr.jobs {
		jobs = append(jobs, j)
	}
	return jobs
}

// UpdateJob atomically applies fn to the job registered under id.
func (mgr *Manager) UpdateJob(id string, fn func(*Job)) error {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	job, ok := mgr.jobs[id]
	if !ok {
		return fmt.Errorf("job not found: %s", id)
	}
	fn(job)
	return nil
}

// DeleteJob removes a job from the registry. It does not touch any
// checkpoint persisted for it.
func (mgr *Manager) DeleteJob(id string) error {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	if _, ok := mgr.jobs[id]; !ok {
		return fmt.Errorf("job not found: %s", id)
	}
	delete(mgr.jobs, id)
	return nil
}

// GetRunningJobs returns every job currently in StateRunning.
func (mgr *Manager) GetRunningJobs() []*Job {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	var running []*Job
	for _, j := range mgr.jobs {
		if j.State == StateRunning {
			running = append(running, j)
		}
	}
	return running
}
