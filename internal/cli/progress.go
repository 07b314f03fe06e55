package cli

import (
	"fmt"
	"io"
	"sync"

	"filedrop/internal/domain"
	"filedrop/internal/uploader"
	"filedrop/internal/view"
)

type taskMark struct {
	status   domain.TaskStatus
	progress int
}

// progressPrinter prints a line per task whenever its status or percent moves.
type progressPrinter struct {
	mu   sync.Mutex
	w    io.Writer
	last map[string]taskMark
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{w: w, last: map[string]taskMark{}}
}

func (p *progressPrinter) observe(tasks []domain.UploadTask) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, t := range tasks {
		id := fmt.Sprintf("%s/%d", t.Name, t.Size)
		mark := taskMark{status: t.Status, progress: t.Progress}
		prev, seen := p.last[id]
		if seen && prev == mark {
			continue
		}
		p.last[id] = mark
		if !seen && t.Status == domain.TaskStatusWaiting {
			continue
		}

		switch t.Status {
		case domain.TaskStatusUploading:
			fmt.Fprintf(p.w, "%s: %3d%% %s of %s, %s (total %.0f%%)\n",
				t.Name, t.Progress, view.FormatSize(t.UploadedBytes), view.FormatSize(t.Size),
				view.FormatSpeed(t.Speed), uploader.TotalProgress(tasks))
		case domain.TaskStatusProcessing:
			fmt.Fprintf(p.w, "%s: processing\n", t.Name)
		case domain.TaskStatusCompleted:
			fmt.Fprintf(p.w, "%s: done %s\n", t.Name, t.URL)
		case domain.TaskStatusError:
			fmt.Fprintf(p.w, "%s: failed: %s\n", t.Name, t.ErrorMessage)
		}
	}
}
