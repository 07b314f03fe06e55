// Package cli is the interactive terminal front end: an upload queue and a
// file list driven by typed commands.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"filedrop/internal/notify"
	"filedrop/internal/uploader"
	"filedrop/internal/view"
)

var errExit = errors.New("exit")

// Backend is the server API the app talks to.
type Backend interface {
	uploader.Transport
	view.API
}

type Options struct {
	In     io.Reader
	Out    io.Writer
	Color  bool
	Logger logrus.FieldLogger
	// Notifier defaults to printing on Out.
	Notifier notify.Notifier
	// Opener defaults to the platform URL handler.
	Opener view.Opener
	// Clipboard defaults to OSC 52 on Out.
	Clipboard view.Clipboard
}

type App struct {
	queue    *uploader.Queue
	files    *view.FileList
	printer  view.Printer
	progress *progressPrinter
	reader   *bufio.Reader
	out      io.Writer
	logger   logrus.FieldLogger

	assumeYes bool
}

func NewApp(backend Backend, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	// Progress lines arrive from transport goroutines.
	opts.Out = &lockedWriter{w: opts.Out}
	if opts.Notifier == nil {
		opts.Notifier = notify.NewWriterNotifier(opts.Out)
	}
	if opts.Opener == nil {
		opts.Opener = view.BrowserOpener{}
	}
	if opts.Clipboard == nil {
		opts.Clipboard = view.OSC52Clipboard{W: opts.Out}
	}

	a := &App{
		printer:  view.Printer{Color: opts.Color},
		progress: newProgressPrinter(opts.Out),
		reader:   bufio.NewReader(opts.In),
		out:      opts.Out,
		logger:   opts.Logger,
	}
	a.files = view.NewFileList(backend, opts.Clipboard, opts.Opener, a.confirm, opts.Notifier, opts.Logger)
	a.queue = uploader.NewQueue(backend, uploader.Options{
		Notifier:        opts.Notifier,
		Logger:          opts.Logger,
		Observer:        a.progress.observe,
		OnBatchComplete: a.refreshAfterBatch,
	})
	return a
}

// Run executes args as a single command, or starts the shell when args is empty.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) > 0 {
		err := a.Exec(ctx, args)
		if errors.Is(err, errExit) {
			return nil
		}
		return err
	}
	return a.Shell(ctx)
}

// Shell reads commands until exit, EOF or ctx is done.
func (a *App) Shell(ctx context.Context) error {
	fmt.Fprintln(a.out, "filedrop shell (type 'help' for commands)")
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(a.out, "filedrop> ")
		line, err := a.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := errors.Is(err, io.EOF)

		if parts := splitArgs(line); len(parts) > 0 {
			if execErr := a.Exec(ctx, parts); execErr != nil {
				if errors.Is(execErr, errExit) {
					return nil
				}
				a.logger.WithError(execErr).Debug("command failed")
				fmt.Fprintf(a.out, "error: %v\n", execErr)
			}
		}
		if eof {
			fmt.Fprintln(a.out)
			return nil
		}
	}
}

// splitArgs splits on whitespace; double quotes group a path with spaces.
func splitArgs(line string) []string {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		inArg   bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			inArg = true
		case !quoted && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}
	if inArg {
		args = append(args, current.String())
	}
	return args
}

func (a *App) refreshAfterBatch(ctx context.Context) {
	if err := a.files.Refresh(ctx); err != nil {
		return
	}
	_ = a.printer.Files(a.out, a.files.Files())
}

func (a *App) confirm(prompt string) bool {
	if a.assumeYes {
		return true
	}
	answer, err := GetSimpleText(a.reader, prompt+" [y/N]", a.out)
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
