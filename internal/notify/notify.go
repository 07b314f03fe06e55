// Package notify delivers short user-facing notifications.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Notifier shows transient messages to the user.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Error(msg string)
}

// LogNotifier routes notifications through a logrus logger.
type LogNotifier struct {
	logger logrus.FieldLogger
}

func NewLogNotifier(logger logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Success(msg string) {
	n.logger.WithField("kind", "success").Info(msg)
}

func (n *LogNotifier) Info(msg string) {
	n.logger.Info(msg)
}

func (n *LogNotifier) Error(msg string) {
	n.logger.Error(msg)
}

// WriterNotifier prints one line per notification, prefixed by its kind.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Success(msg string) { n.print("ok", msg) }

func (n *WriterNotifier) Info(msg string) { n.print("info", msg) }

func (n *WriterNotifier) Error(msg string) { n.print("error", msg) }

func (n *WriterNotifier) print(kind, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[%s] %s\n", kind, msg)
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Info(string)    {}
func (Discard) Error(string)   {}

var (
	_ Notifier = (*LogNotifier)(nil)
	_ Notifier = (*WriterNotifier)(nil)
	_ Notifier = Discard{}
)
