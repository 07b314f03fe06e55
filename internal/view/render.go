package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"filedrop/internal/domain"
)

// 256-color codes of equal width keep tabwriter columns aligned.
var tagCodes = map[Tag]string{
	TagRed:    "\x1b[38;5;196m",
	TagBlue:   "\x1b[38;5;111m",
	TagGreen:  "\x1b[38;5;112m",
	TagOrange: "\x1b[38;5;208m",
	TagPurple: "\x1b[38;5;135m",
	TagYellow: "\x1b[38;5;220m",
	TagGray:   "\x1b[38;5;245m",
}

const resetCode = "\x1b[0m"

var statusTags = map[domain.TaskStatus]Tag{
	domain.TaskStatusWaiting:    TagGray,
	domain.TaskStatusUploading:  TagBlue,
	domain.TaskStatusProcessing: TagYellow,
	domain.TaskStatusCompleted:  TagGreen,
	domain.TaskStatusError:      TagRed,
}

// Printer writes tables, optionally with terminal colors.
type Printer struct {
	Color bool
}

func (p Printer) paint(tag Tag, s string) string {
	if !p.Color {
		return s
	}
	return tagCodes[tag] + s + resetCode
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Files renders a stored file listing.
func (p Printer) Files(w io.Writer, files []domain.StoredObject) error {
	if len(files) == 0 {
		_, err := fmt.Fprintln(w, "No files uploaded yet. Upload your first file with: filedrop upload <path>")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "#\tTYPE\tNAME\tURL")
	for i, f := range files {
		name := DisplayName(f.Key)
		ext := Extension(name)
		label := strings.ToUpper(ext)
		if label == "" {
			label = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, p.paint(ColorTag(ext), label), name, f.URL)
	}
	return tw.Flush()
}

// Tasks renders the upload queue with per-task status and an overall line.
func (p Printer) Tasks(w io.Writer, tasks []domain.UploadTask, total float64) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tNAME\tSIZE\tSTATUS\tPROGRESS\tSPEED")
	for i, t := range tasks {
		speed := "-"
		if t.Status == domain.TaskStatusUploading {
			speed = FormatSpeed(t.Speed)
		}
		status := string(t.Status)
		if t.Status == domain.TaskStatusError && t.ErrorMessage != "" {
			status += ": " + t.ErrorMessage
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%3d%%\t%s\n",
			i+1, t.Name, FormatSize(t.Size), p.paint(statusTags[t.Status], status), t.Progress, speed)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Total: %.0f%%\n", total)
	return err
}
