package conversation

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultIdleTTL is how long a session may sit untouched before eviction.
	DefaultIdleTTL = 30 * time.Minute
	// DefaultCleanupInterval is the default interval between cleanup runs.
	DefaultCleanupInterval = 5 * time.Minute
)

// CleanupConfig holds configuration for the cleanup job.
type CleanupConfig struct {
	IdleTTL         time.Duration // Maximum idle age before eviction (default: 30m)
	CleanupInterval time.Duration // Interval between cleanup runs (default: 5m)
}

// DefaultCleanupConfig returns the default cleanup configuration.
func DefaultCleanupConfig() CleanupConfig {
	return CleanupConfig{
		IdleTTL:         DefaultIdleTTL,
		CleanupInterval: DefaultCleanupInterval,
	}
}

// CleanupJob periodically evicts idle sessions from a Store.
type CleanupJob struct {
	store  *Store
	config CleanupConfig

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
}

// NewCleanupJob creates a new cleanup job.
func NewCleanupJob(store *Store, config CleanupConfig) *CleanupJob {
	if config.IdleTTL <= 0 {
		config.IdleTTL = DefaultIdleTTL
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultCleanupInterval
	}
	return &CleanupJob{
		store:  store,
		config: config,
	}
}

// Start begins the periodic cleanup job.
// This method is non-blocking and starts the cleanup in a goroutine.
func (j *CleanupJob) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		return
	}
	j.running = true
	j.stopChan = make(chan struct{})

	go j.run(ctx)

	slog.Info("conversation cleanup job started",
		"idle_ttl", j.config.IdleTTL,
		"interval", j.config.CleanupInterval)
}

// Stop stops the cleanup job.
func (j *CleanupJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.running {
		return
	}
	close(j.stopChan)
	j.running = false

	slog.Info("conversation cleanup job stopped")
}

// RunOnce executes a single cleanup run immediately.
func (j *CleanupJob) RunOnce() int {
	return j.store.CleanupIdle(j.config.IdleTTL)
}

// run is the main loop for the cleanup job.
func (j *CleanupJob) run(ctx context.Context) {
	ticker := time.NewTicker(j.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-j.stopChan:
			return
		case <-ticker.C:
			if deleted := j.RunOnce(); deleted > 0 {
				slog.Info("conversation cleanup completed", "deleted", deleted)
			}
		}
	}
}

// IsRunning returns whether the cleanup job is currently running.
func (j *CleanupJob) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}
