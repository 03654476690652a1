package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Phase identifies the stage of an operation.
type Phase int

const (
	FetchStory Phase = iota
	ExportFormat
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchStory:
		return "fetch_story"
	case ExportFormat:
		return "export_format"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

// sendProgress sends update without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func fetchStoryUpdate(err error) ProgressUpdate {
	msg := "Fetched story image"
	if err != nil {
		msg = fmt.Sprintf("Story unavailable: %v", err)
	}
	return ProgressUpdate{Phase: FetchStory, Step: 1, Total: 1, Message: msg}
}

func exportCompletedUpdate(step, total int, res FormatResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFormat,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, res.Format, len(res.Files)),
		Data:    res,
	}
}

func exportFailedUpdate(step, total int, res FormatResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFormat,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Format, res.Error),
		Data:    res,
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{Phase: WriteManifest, Step: 1, Total: 1, Message: "Wrote manifest " + path}
}
