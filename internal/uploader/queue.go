package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"filedrop/internal/domain"
	"filedrop/internal/notify"
)

var (
	ErrNoFiles       = errors.New("no files selected")
	ErrAllCompleted  = errors.New("all files already uploaded")
	ErrBusy          = errors.New("an upload pass is already running")
	ErrTaskActive    = errors.New("task is being uploaded")
	ErrNoSuchTask    = errors.New("no such task")
	ErrUploadsFailed = errors.New("some uploads failed")
)

// Transport sends one file to the upload endpoint and returns its URL.
type Transport interface {
	Upload(ctx context.Context, name, contentType string, size int64, body io.Reader, progress func(sent, total int64)) (string, error)
}

// Options configures a Queue. Zero values are fine.
type Options struct {
	Notifier notify.Notifier
	Logger   logrus.FieldLogger
	// OnBatchComplete runs after a pass that leaves every task completed.
	OnBatchComplete func(ctx context.Context)
	// Observer receives a snapshot after every state change, possibly from a
	// transport goroutine.
	Observer func([]domain.UploadTask)
	Now      func() time.Time
}

// Queue owns the upload tasks and uploads them one at a time, in selection order.
type Queue struct {
	transport Transport
	opts      Options

	mu      sync.RWMutex
	tasks   []*entry
	running bool
}

type entry struct {
	file    File
	state   domain.UploadTask
	started time.Time
	removed bool
}

func NewQueue(transport Transport, opts Options) *Queue {
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard{}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Queue{
		transport: transport,
		opts:      opts,
	}
}

// Add queues files in waiting state. A file whose name and size match a queued
// one is dropped. It returns how many files were added.
func (q *Queue) Add(files ...File) int {
	q.mu.Lock()
	added := 0
	for _, f := range files {
		if q.hasFile(f) {
			continue
		}
		q.tasks = append(q.tasks, &entry{
			file: f,
			state: domain.UploadTask{
				Name:        f.Name,
				Size:        f.Size,
				ContentType: f.ContentType,
				Status:      domain.TaskStatusWaiting,
			},
		})
		added++
	}
	q.mu.Unlock()

	if added > 0 {
		q.emit()
	}
	return added
}

func (q *Queue) hasFile(f File) bool {
	for _, t := range q.tasks {
		if t.state.SameFile(f.Name, f.Size) {
			return true
		}
	}
	return false
}

// Remove drops the task at index unless it is in flight.
func (q *Queue) Remove(index int) error {
	q.mu.Lock()
	if index < 0 || index >= len(q.tasks) {
		q.mu.Unlock()
		return ErrNoSuchTask
	}
	t := q.tasks[index]
	if t.state.Status.Active() {
		q.mu.Unlock()
		return ErrTaskActive
	}
	t.removed = true
	q.tasks = append(q.tasks[:index], q.tasks[index+1:]...)
	q.mu.Unlock()

	q.emit()
	return nil
}

// Clear drops every task except the one currently uploading.
func (q *Queue) Clear() {
	q.mu.Lock()
	kept := q.tasks[:0]
	for _, t := range q.tasks {
		if t.state.Status == domain.TaskStatusUploading {
			kept = append(kept, t)
			continue
		}
		t.removed = true
	}
	for i := len(kept); i < len(q.tasks); i++ {
		q.tasks[i] = nil
	}
	q.tasks = kept
	q.mu.Unlock()

	q.emit()
}

// Snapshot returns a copy of the tasks in queue order.
func (q *Queue) Snapshot() []domain.UploadTask {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.snapshotLocked()
}

func (q *Queue) snapshotLocked() []domain.UploadTask {
	out := make([]domain.UploadTask, len(q.tasks))
	for i, t := range q.tasks {
		out[i] = t.state
	}
	return out
}

// TotalProgress is the unweighted mean of per-task progress, 0 for an empty queue.
func (q *Queue) TotalProgress() float64 {
	return TotalProgress(q.Snapshot())
}

// TotalProgress averages the progress of tasks without weighting by size.
func TotalProgress(tasks []domain.UploadTask) float64 {
	if len(tasks) == 0 {
		return 0
	}
	var sum int
	for _, t := range tasks {
		sum += t.Progress
	}
	return float64(sum) / float64(len(tasks))
}

// Uploading reports whether a pass is in flight.
func (q *Queue) Uploading() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.running
}

// Upload runs one sequential pass over every task that is not completed.
// Failed tasks are left in error state and retried by the next pass.
func (q *Queue) Upload(ctx context.Context) error {
	pass, err := q.startPass()
	if err != nil {
		return err
	}
	defer func() {
		q.mu.Lock()
		q.running = false
		q.mu.Unlock()
	}()
	q.emit()

	failed := 0
	for _, t := range pass {
		if !q.uploadOne(ctx, t) {
			failed++
		}
	}

	if q.allCompleted() {
		q.opts.Notifier.Success("All files uploaded")
		if q.opts.OnBatchComplete != nil {
			q.opts.OnBatchComplete(ctx)
		}
		return nil
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrUploadsFailed, failed, len(pass))
	}
	return nil
}

func (q *Queue) startPass() ([]*entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.running {
		return nil, ErrBusy
	}
	if len(q.tasks) == 0 {
		q.opts.Notifier.Error("Select files first")
		return nil, ErrNoFiles
	}

	pass := make([]*entry, 0, len(q.tasks))
	for _, t := range q.tasks {
		if t.state.Status == domain.TaskStatusCompleted {
			continue
		}
		pass = append(pass, t)
	}
	if len(pass) == 0 {
		q.opts.Notifier.Info("All files are already uploaded")
		return nil, ErrAllCompleted
	}

	for _, t := range pass {
		t.state.Progress = 0
		t.state.UploadedBytes = 0
		t.state.Speed = 0
		t.state.ErrorMessage = ""
		t.state.Status = domain.TaskStatusWaiting
	}
	q.running = true
	return pass, nil
}

// uploadOne transfers a single task and reports whether it completed.
func (q *Queue) uploadOne(ctx context.Context, t *entry) bool {
	q.mu.Lock()
	if t.removed {
		q.mu.Unlock()
		return true
	}
	t.state.Status = domain.TaskStatusUploading
	t.started = q.opts.Now()
	q.mu.Unlock()
	q.emit()

	url, err := q.transfer(ctx, t)
	if err != nil {
		q.opts.Logger.WithError(err).WithField("file", t.file.Name).Warn("upload failed")
		q.mu.Lock()
		t.state.Status = domain.TaskStatusError
		t.state.ErrorMessage = err.Error()
		q.mu.Unlock()
		q.emit()
		q.opts.Notifier.Error(fmt.Sprintf("Failed to upload %s", t.file.Name))
		return false
	}

	q.mu.Lock()
	t.state.Status = domain.TaskStatusCompleted
	t.state.Progress = 100
	t.state.UploadedBytes = t.file.Size
	t.state.URL = url
	q.mu.Unlock()
	q.emit()
	return true
}

func (q *Queue) transfer(ctx context.Context, t *entry) (string, error) {
	if t.file.Open == nil {
		return "", fmt.Errorf("open %s: no reader", t.file.Name)
	}
	body, err := t.file.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", t.file.Name, err)
	}
	defer body.Close()

	return q.transport.Upload(ctx, t.file.Name, t.file.ContentType, t.file.Size, body, func(sent, total int64) {
		q.progress(t, sent, total)
	})
}

// progress applies a transfer notification; reaching 100% moves the task to processing.
func (q *Queue) progress(t *entry, sent, total int64) {
	q.mu.Lock()
	if t.state.Status != domain.TaskStatusUploading {
		q.mu.Unlock()
		return
	}

	percent := 100
	if total > 0 {
		percent = int(math.Round(float64(sent) / float64(total) * 100))
	}
	var speed float64
	if elapsed := q.opts.Now().Sub(t.started).Seconds(); elapsed > 0 {
		speed = float64(sent) / elapsed
	}

	t.state.UploadedBytes = sent
	t.state.Progress = percent
	t.state.Speed = speed
	if percent >= 100 {
		t.state.Progress = 100
		t.state.Status = domain.TaskStatusProcessing
	}
	q.mu.Unlock()

	q.emit()
}

func (q *Queue) allCompleted() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	for _, t := range q.tasks {
		if t.state.Status != domain.TaskStatusCompleted {
			return false
		}
	}
	return len(q.tasks) > 0
}

func (q *Queue) emit() {
	if q.opts.Observer == nil {
		return
	}
	q.opts.Observer(q.Snapshot())
}
