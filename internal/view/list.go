package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"filedrop/internal/domain"
	"filedrop/internal/notify"
)

var (
	ErrNoSuchFile = errors.New("no such file")
	ErrCancelled  = errors.New("cancelled")
)

// API is the part of the server client the file list needs.
type API interface {
	List(ctx context.Context) ([]domain.StoredObject, error)
	Delete(ctx context.Context, key string) error
}

// Confirmer asks the user a yes/no question.
type Confirmer func(prompt string) bool

// FileList holds the last fetched listing and runs the per-file actions.
type FileList struct {
	api       API
	clipboard Clipboard
	opener    Opener
	confirm   Confirmer
	notifier  notify.Notifier
	logger    logrus.FieldLogger

	mu    sync.RWMutex
	files []domain.StoredObject
}

func NewFileList(api API, clipboard Clipboard, opener Opener, confirm Confirmer, notifier notify.Notifier, logger logrus.FieldLogger) *FileList {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	if confirm == nil {
		confirm = func(string) bool { return false }
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &FileList{
		api:       api,
		clipboard: clipboard,
		opener:    opener,
		confirm:   confirm,
		notifier:  notifier,
		logger:    logger,
	}
}

// Refresh replaces the entries with a fresh listing. On failure the previous
// entries stay.
func (l *FileList) Refresh(ctx context.Context) error {
	files, err := l.api.List(ctx)
	if err != nil {
		l.logger.WithError(err).Error("failed to list files")
		l.notifier.Error("Failed to load files")
		return err
	}

	l.mu.Lock()
	l.files = files
	l.mu.Unlock()
	return nil
}

// Files returns a copy of the current entries.
func (l *FileList) Files() []domain.StoredObject {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.StoredObject(nil), l.files...)
}

func (l *FileList) at(index int) (domain.StoredObject, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if index < 0 || index >= len(l.files) {
		return domain.StoredObject{}, fmt.Errorf("%w: #%d", ErrNoSuchFile, index+1)
	}
	return l.files[index], nil
}

// Copy puts the signed URL of entry index on the clipboard.
func (l *FileList) Copy(index int) error {
	f, err := l.at(index)
	if err != nil {
		return err
	}
	if err := l.clipboard.Copy(f.URL); err != nil {
		l.notifier.Error("Failed to copy URL")
		return fmt.Errorf("copy url: %w", err)
	}
	l.notifier.Success("URL copied to clipboard!")
	return nil
}

// Open hands the signed URL of entry index to the system opener.
func (l *FileList) Open(index int) error {
	f, err := l.at(index)
	if err != nil {
		return err
	}
	if err := l.opener.Open(f.URL); err != nil {
		return fmt.Errorf("open %s: %w", DisplayName(f.Key), err)
	}
	return nil
}

// Delete removes entry index after confirmation, then refreshes the listing.
func (l *FileList) Delete(ctx context.Context, index int) error {
	f, err := l.at(index)
	if err != nil {
		return err
	}
	if !l.confirm(fmt.Sprintf("Delete %s?", DisplayName(f.Key))) {
		return ErrCancelled
	}

	if err := l.api.Delete(ctx, f.Key); err != nil {
		l.logger.WithError(err).WithField("key", f.Key).Error("failed to delete file")
		l.notifier.Error("Failed to delete file")
		return err
	}

	l.notifier.Success("File deleted!")
	return l.Refresh(ctx)
}
