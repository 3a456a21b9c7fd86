package storage_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"goal-app/src/domain"
	"goal-app/src/storage"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type staticSource struct {
	export *domain.GoalExport
	err    error
}

func (s *staticSource) ExportGoals(ctx context.Context) (*domain.GoalExport, error) {
	return s.export, s.err
}

type recordingUploader struct {
	mu      sync.Mutex
	keys    []string
	bodies  [][]byte
	failErr error
}

func (u *recordingUploader) Upload(ctx context.Context, key string, body []byte) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.failErr != nil {
		return u.failErr
	}
	u.keys = append(u.keys, key)
	u.bodies = append(u.bodies, body)
	return nil
}

func (u *recordingUploader) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.keys)
}

var exportedAt = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func sampleExport() *domain.GoalExport {
	return &domain.GoalExport{
		ExportedAt: exportedAt,
		Items:      []domain.Goal{{ID: 1, Title: "Run", Priority: domain.PriorityLow, CreatedAt: exportedAt}},
	}
}

func TestBackupKey(t *testing.T) {
	key := storage.BackupKey("backups", exportedAt)
	assert.True(t, strings.HasPrefix(key, "backups/goals-20240615T100000Z-"), key)
	assert.True(t, strings.HasSuffix(key, ".json"))

	assert.NotEqual(t, key, storage.BackupKey("backups/", exportedAt))
	assert.True(t, strings.HasPrefix(storage.BackupKey("", exportedAt), "goals-"))
}

func TestBackupJob_RunOnce(t *testing.T) {
	uploader := &recordingUploader{}
	job := storage.NewBackupJob(&staticSource{export: sampleExport()}, uploader, "backups/", time.Hour, testLogger())

	key, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, uploader.count())
	assert.Equal(t, key, uploader.keys[0])

	var doc domain.GoalExport
	require.NoError(t, json.Unmarshal(uploader.bodies[0], &doc))
	assert.Len(t, doc.Items, 1)
	assert.True(t, doc.ExportedAt.Equal(exportedAt))
}

func TestBackupJob_RunOnceErrors(t *testing.T) {
	job := storage.NewBackupJob(&staticSource{err: errors.New("boom")}, &recordingUploader{}, "", time.Hour, testLogger())
	_, err := job.RunOnce(context.Background())
	assert.Error(t, err)

	job = storage.NewBackupJob(&staticSource{export: sampleExport()}, &recordingUploader{failErr: errors.New("denied")}, "", time.Hour, testLogger())
	_, err = job.RunOnce(context.Background())
	assert.ErrorContains(t, err, "denied")
}

func TestBackupJob_PeriodicAndFinal(t *testing.T) {
	uploader := &recordingUploader{}
	job := storage.NewBackupJob(&staticSource{export: sampleExport()}, uploader, "backups/", 10*time.Millisecond, testLogger())

	job.Start(context.Background())
	assert.Eventually(t, func() bool { return uploader.count() >= 2 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	before := uploader.count()
	require.NoError(t, job.Stop(ctx))
	assert.GreaterOrEqual(t, uploader.count(), before+1)
}

func TestBackupJob_StopWithoutStart(t *testing.T) {
	uploader := &recordingUploader{}
	job := storage.NewBackupJob(&staticSource{export: sampleExport()}, uploader, "", time.Hour, testLogger())

	require.NoError(t, job.Stop(context.Background()))
	assert.Equal(t, 1, uploader.count())
}

func TestBackupJob_NonPositiveInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Minute} {
		uploader := &recordingUploader{}
		job := storage.NewBackupJob(&staticSource{export: sampleExport()}, uploader, "", interval, testLogger())
		assert.Equal(t, storage.DefaultBackupInterval, job.Interval())

		ctx, cancel := context.WithCancel(context.Background())
		assert.NotPanics(t, func() { job.Start(ctx) })
		cancel()

		stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
		require.NoError(t, job.Stop(stopCtx))
		stopCancel()
		assert.Equal(t, 1, uploader.count())
	}
}

func TestS3Uploader_Upload(t *testing.T) {
	var (
		mu          sync.Mutex
		gotPath     string
		gotBody     string
		contentType string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		body, _ := io.ReadAll(r.Body)
		gotPath = r.URL.Path
		gotBody = string(body)
		contentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	uploader, err := storage.NewS3Uploader(&storage.S3Config{
		Endpoint:        server.URL,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		Region:          "us-east-1",
		Bucket:          "goal-app-backups",
	}, testLogger())
	require.NoError(t, err)

	require.NoError(t, uploader.Upload(context.Background(), "backups/goals.json", []byte(`{"items":[]}`)))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/goal-app-backups/backups/goals.json", gotPath)
	assert.Equal(t, `{"items":[]}`, gotBody)
	assert.Equal(t, "application/json", contentType)
}

func TestS3Uploader_UploadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`)
	}))
	defer server.Close()

	uploader, err := storage.NewS3Uploader(&storage.S3Config{
		Endpoint:        server.URL,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		Region:          "us-east-1",
		Bucket:          "goal-app-backups",
	}, testLogger())
	require.NoError(t, err)

	assert.Error(t, uploader.Upload(context.Background(), "k", []byte("{}")))
}
