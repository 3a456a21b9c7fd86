package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"goal-app/src/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultBackupInterval is used when a non-positive interval is supplied
const DefaultBackupInterval = time.Hour

// SnapshotSource produces the export document that gets backed up
type SnapshotSource interface {
	ExportGoals(ctx context.Context) (*domain.GoalExport, error)
}

// BackupJob periodically uploads goal exports
type BackupJob struct {
	source   SnapshotSource
	uploader Uploader
	prefix   string
	interval time.Duration
	logger   *logrus.Logger

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewBackupJob creates a job writing objects under prefix every interval
func NewBackupJob(source SnapshotSource, uploader Uploader, prefix string, interval time.Duration, logger *logrus.Logger) *BackupJob {
	if interval <= 0 {
		logger.WithField("interval", interval).Warn("バックアップ間隔が不正なためデフォルト値を使用します")
		interval = DefaultBackupInterval
	}
	return &BackupJob{
		source:   source,
		uploader: uploader,
		prefix:   prefix,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// BackupKey builds the object key for an export taken at t
func BackupKey(prefix string, t time.Time) string {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return fmt.Sprintf("%sgoals-%s-%s.json", prefix, t.UTC().Format("20060102T150405Z"), uuid.NewString()[:8])
}

// RunOnce exports the collection and uploads it, returning the object key
func (j *BackupJob) RunOnce(ctx context.Context) (string, error) {
	export, err := j.source.ExportGoals(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to export goals: %w", err)
	}

	body, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}

	key := BackupKey(j.prefix, export.ExportedAt)
	if err := j.uploader.Upload(ctx, key, body); err != nil {
		return "", err
	}
	return key, nil
}

// Interval returns the schedule period
func (j *BackupJob) Interval() time.Duration {
	return j.interval
}

// Start 定期的なバックアップを開始
func (j *BackupJob) Start(ctx context.Context) {
	if !j.started.CompareAndSwap(false, true) {
		return
	}
	ticker := time.NewTicker(j.interval)
	go func() {
		defer close(j.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if key, err := j.RunOnce(ctx); err != nil {
					j.logger.WithError(err).Error("定期バックアップに失敗")
				} else {
					j.logger.WithField("key", key).Debug("定期バックアップ完了")
				}
			case <-j.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	j.logger.WithField("interval", j.interval).Info("定期的なバックアップを開始しました")
}

// Stop halts the schedule and takes one final backup
func (j *BackupJob) Stop(ctx context.Context) error {
	j.stopOnce.Do(func() { close(j.stop) })

	if j.started.Load() {
		select {
		case <-j.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	j.logger.Info("最後のバックアップを実行中...")
	_, err := j.RunOnce(ctx)
	return err
}
