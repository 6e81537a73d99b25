package orchestrator

import (
	"fmt"
	"path/filepath"
)

// ProgressEvent reports a task lifecycle change during a reconstruction.
type ProgressEvent struct {
	File    string // base filename being rebuilt
	TaskID  int
	Level   int
	Leader  string
	Status  ProgressStatus
	Message string
}

// ProgressStatus is the state of one task.
type ProgressStatus string

const (
	ProgressPending  ProgressStatus = "pending"
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressFailed   ProgressStatus = "failed"
)

// ProgressReporter emits progress events through a buffered channel.
type ProgressReporter struct {
	ch chan ProgressEvent
}

// NewProgressReporter creates a ProgressReporter with a buffered channel of size 256.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		ch: make(chan ProgressEvent, 256),
	}
}

// Emit sends a progress event in a non-blocking fashion.
// If the channel is full, the event is silently dropped.
func (pr *ProgressReporter) Emit(event ProgressEvent) {
	select {
	case pr.ch <- event:
	default:
	}
}

// Subscribe returns a read-only channel for consuming progress events.
func (pr *ProgressReporter) Subscribe() <-chan ProgressEvent {
	return pr.ch
}

// Close closes the progress event channel. No Emit may follow.
func (pr *ProgressReporter) Close() {
	close(pr.ch)
}

// FormatProgress formats a ProgressEvent as a human-readable status line.
func FormatProgress(event ProgressEvent) string {
	name := filepath.Base(event.File)
	switch event.Status {
	case ProgressPending:
		return fmt.Sprintf("  ○ %s task %d L%d (pending)", name, event.TaskID, event.Level)
	case ProgressWorking:
		return fmt.Sprintf("  ● %s task %d L%d -> %s...", name, event.TaskID, event.Level, filepath.Base(event.Leader))
	case ProgressComplete:
		return fmt.Sprintf("  ✓ %s task %d L%d complete", name, event.TaskID, event.Level)
	case ProgressFailed:
		return fmt.Sprintf("  ✗ %s task %d L%d failed: %s", name, event.TaskID, event.Level, event.Message)
	default:
		return fmt.Sprintf("  ? %s task %d (unknown status)", name, event.TaskID)
	}
}
