package orchestrator

import "context"

// Task is one node of a merge tree: an ordered file list whose entries are
// concatenated onto the first one, plus a handle for its completion.
//
// A dispatched Task moves from created to running to joined exactly once.
// After it joins without error its leader holds the bytes of every entry and
// the other entries are gone.
type Task struct {
	// ID is unique within one tree, assigned in creation order.
	ID int

	// Level is 0 for leaves and grows by one per reduction.
	Level int

	// Files are concatenated onto Files[0] in order.
	Files []string

	// Children must all join before this task concatenates.
	Children []*Task

	done chan struct{}
	err  error
}

func newTask(id, level int, files []string, children []*Task) *Task {
	return &Task{
		ID:       id,
		Level:    level,
		Files:    files,
		Children: children,
		done:     make(chan struct{}),
	}
}

// Leader returns the file that accumulates this task's bytes, or "" for a
// task without files.
func (t *Task) Leader() string {
	if len(t.Files) == 0 {
		return ""
	}
	return t.Files[0]
}

// Done is closed once the task has joined. Tasks of an undispatched plan
// never join.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err reports how the task ended. Only meaningful after Done is closed.
func (t *Task) Err() error {
	return t.err
}

// Wait blocks until the task joins or ctx ends.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Task) finish(err error) {
	t.err = err
	close(t.done)
}
