package utils

import (
	"context"
	"time"

	"learnhub/logger"
	"learnhub/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StaleUploadAge is how long a presigned upload may stay PENDING before it is dropped.
const StaleUploadAge = 24 * time.Hour

type NotificationPruner interface {
	PruneRead(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionJob removes read notifications past the retention window and
// presigned uploads that never completed.
type RetentionJob struct {
	DB            *gorm.DB
	Notifications NotificationPruner
	RetentionDays int
	Log           *logger.Logger
	Now           func() time.Time
}

// InitializeRetentionScheduler runs the retention job nightly at 03:00.
func InitializeRetentionScheduler(job *RetentionJob) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc("0 3 * * *", func() { job.Run(context.Background()) }); err != nil {
		return nil, err
	}
	c.Start()
	job.Log.Info("retention scheduler started", "schedule", "0 3 * * *", "retention_days", job.RetentionDays)
	return c, nil
}

func (j *RetentionJob) Run(ctx context.Context) {
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}

	if j.Notifications != nil && j.RetentionDays > 0 {
		cutoff := now().AddDate(0, 0, -j.RetentionDays)
		n, err := j.Notifications.PruneRead(ctx, cutoff)
		if err != nil {
			j.Log.Error("pruning notifications failed", "error", err)
		} else {
			j.Log.Info("pruned read notifications", "count", n, "cutoff", cutoff)
		}
	}

	n, err := PruneStaleUploads(ctx, j.DB, now().Add(-StaleUploadAge))
	if err != nil {
		j.Log.Error("pruning stale uploads failed", "error", err)
		return
	}
	j.Log.Info("pruned stale uploads", "count", n)
}

// PruneStaleUploads deletes PENDING media assets created before cutoff.
func PruneStaleUploads(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.MediaStatusPending, cutoff).
		Delete(&models.MediaAsset{})
	return res.RowsAffected, res.Error
}
