package cli

import (
	"context"
	"errors"
	"fmt"

	"filedrop/internal/uploader"
)

const helpText = `Commands:
  add <path>...       queue files for upload
  upload [path]...    queue files and upload everything pending
  queue               show the upload queue
  remove <n>          drop row n from the queue
  clear               drop every queued file not currently uploading
  list                fetch and show uploaded files
  copy <n>            copy the link of file n to the clipboard
  open <n>            open the link of file n
  delete [-y] <n>     delete file n
  help                show this text
  exit                leave the shell`

// Exec runs one command.
func (a *App) Exec(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "help", "-h", "--help":
		fmt.Fprintln(a.out, helpText)
		return nil
	case "add":
		return a.add(rest)
	case "upload":
		if err := a.add(rest); err != nil {
			return err
		}
		return a.upload(ctx)
	case "queue", "status":
		return a.printer.Tasks(a.out, a.queue.Snapshot(), a.queue.TotalProgress())
	case "remove", "rm":
		return a.remove(rest)
	case "clear":
		a.queue.Clear()
		return nil
	case "list", "ls", "refresh":
		return a.list(ctx)
	case "copy":
		return a.withFile(ctx, rest, a.files.Copy)
	case "open":
		return a.withFile(ctx, rest, a.files.Open)
	case "delete", "del":
		return a.delete(ctx, rest)
	case "exit", "quit":
		return errExit
	default:
		return fmt.Errorf("unknown command %q, type 'help'", cmd)
	}
}

func (a *App) add(paths []string) error {
	files := make([]uploader.File, 0, len(paths))
	for _, p := range paths {
		f, err := uploader.FromPath(p)
		if err != nil {
			return err
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return nil
	}
	added := a.queue.Add(files...)
	if skipped := len(files) - added; skipped > 0 {
		fmt.Fprintf(a.out, "%d file(s) already queued\n", skipped)
	}
	return nil
}

func (a *App) upload(ctx context.Context) error {
	err := a.queue.Upload(ctx)
	if errors.Is(err, uploader.ErrNoFiles) || errors.Is(err, uploader.ErrAllCompleted) {
		// already reported through the notifier
		return nil
	}
	return err
}

func (a *App) remove(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: remove <n>")
	}
	i, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	return a.queue.Remove(i)
}

func (a *App) list(ctx context.Context) error {
	if err := a.files.Refresh(ctx); err != nil {
		return err
	}
	return a.printer.Files(a.out, a.files.Files())
}

// ensureFiles fetches the listing once so row numbers work in one-shot mode.
func (a *App) ensureFiles(ctx context.Context) error {
	if len(a.files.Files()) > 0 {
		return nil
	}
	return a.files.Refresh(ctx)
}

func (a *App) withFile(ctx context.Context, args []string, action func(int) error) error {
	if len(args) != 1 {
		return errors.New("usage: <command> <n>")
	}
	i, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	if err := a.ensureFiles(ctx); err != nil {
		return err
	}
	return action(i)
}

func (a *App) delete(ctx context.Context, args []string) error {
	yes := false
	var rest []string
	for _, arg := range args {
		if arg == "-y" || arg == "--yes" {
			yes = true
			continue
		}
		rest = append(rest, arg)
	}

	if yes {
		a.assumeYes = true
		defer func() { a.assumeYes = false }()
	}
	return a.withFile(ctx, rest, func(i int) error {
		err := a.files.Delete(ctx, i)
		if err != nil {
			return err
		}
		return a.printer.Files(a.out, a.files.Files())
	})
}
