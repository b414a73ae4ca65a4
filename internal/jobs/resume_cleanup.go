package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"mockmate/internal/storage"
)

// gracePeriod protects freshly uploaded resumes whose interview row may not
// be committed yet.
const gracePeriod = time.Hour

// ResumeReferences reports every resume URL still referenced by an
// interview.
type ResumeReferences interface {
	ReferencedResumeURLs() (map[string]bool, error)
}

// ResumeCleanupConfig contains configuration for the cleanup job.
type ResumeCleanupConfig struct {
	Schedule string // Cron schedule (e.g., "0 * * * *" for hourly)
	Enabled  bool
}

// ResumeCleanupJob deletes stored resume PDFs that no interview references
// anymore. Uploads happen before question generation, so a failed generation
// can leave an object behind; this job sweeps them up.
type ResumeCleanupJob struct {
	store      storage.ObjectStore
	references ResumeReferences
	config     *ResumeCleanupConfig
	logger     *zap.Logger
	cron       *cron.Cron
}

func NewResumeCleanupJob(store storage.ObjectStore, references ResumeReferences, config *ResumeCleanupConfig, logger *zap.Logger) *ResumeCleanupJob {
	return &ResumeCleanupJob{
		store:      store,
		references: references,
		config:     config,
		logger:     logger,
		cron:       cron.New(),
	}
}

// Start begins the scheduled cleanup job.
func (job *ResumeCleanupJob) Start() error {
	if !job.config.Enabled {
		job.logger.Info("Resume cleanup is disabled, skipping scheduler")
		return nil
	}

	_, err := job.cron.AddFunc(job.config.Schedule, func() {
		if err := job.RunCleanup(context.Background()); err != nil {
			job.logger.Error("Resume cleanup run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule resume cleanup: %w", err)
	}

	job.cron.Start()
	job.logger.Info("Resume cleanup started", zap.String("schedule", job.config.Schedule))
	return nil
}

// Stop stops the scheduled cleanup job.
func (job *ResumeCleanupJob) Stop() {
	if job.cron != nil {
		job.cron.Stop()
	}
}

// RunCleanup performs a single sweep. Objects inside the grace period or
// still referenced by an interview are left alone; individual delete
// failures are logged and do not abort the sweep.
func (job *ResumeCleanupJob) RunCleanup(ctx context.Context) error {
	referenced, err := job.references.ReferencedResumeURLs()
	if err != nil {
		return fmt.Errorf("failed to load referenced resumes: %w", err)
	}

	objects, err := job.store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list stored resumes: %w", err)
	}

	cutoff := time.Now().Add(-gracePeriod)
	deleted := 0
	for _, object := range objects {
		if object.CreatedAt.After(cutoff) {
			continue
		}
		if referenced[job.store.PublicURL(object.Name)] {
			continue
		}
		if err := job.store.Delete(ctx, object.Name); err != nil {
			job.logger.Warn("Failed to delete orphaned resume",
				zap.String("object", object.Name), zap.Error(err))
			continue
		}
		deleted++
	}

	if deleted > 0 {
		job.logger.Info("Resume cleanup finished",
			zap.Int("deleted", deleted), zap.Int("scanned", len(objects)))
	}
	return nil
}
