package domain

type TaskStatus string

const (
	TaskStatusWaiting    TaskStatus = "waiting"
	TaskStatusUploading  TaskStatus = "uploading"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusError      TaskStatus = "error"
)

// Active reports whether a transfer for the task is in flight.
func (s TaskStatus) Active() bool {
	return s == TaskStatusUploading || s == TaskStatusProcessing
}

// UploadTask tracks one selected file through an upload pass.
type UploadTask struct {
	Name          string
	Size          int64
	ContentType   string
	Progress      int
	UploadedBytes int64
	Speed         float64
	Status        TaskStatus
	URL           string
	ErrorMessage  string
}

// SameFile reports whether two tasks refer to the same file by name and size.
func (t UploadTask) SameFile(name string, size int64) bool {
	return t.Name == name && t.Size == size
}
