package orchestrator

import (
	"errors"
	"fmt"
	"slices"
)

// ErrNoFragments is returned when a tree is requested for no fragments.
var ErrNoFragments = errors.New("no fragments to merge")

// Tree is a merge tree for one file. Root's leader ends up holding every
// fragment's bytes in sorted order.
type Tree struct {
	Root *Task

	// Tasks lists every task in creation order: leaves first, then each
	// reduction level in turn.
	Tasks []*Task

	// Height is the number of levels, 1 for a tree that is a single leaf.
	Height int
}

// Leaves returns the level-0 tasks in fragment order.
func (tr *Tree) Leaves() []*Task {
	var out []*Task
	for _, t := range tr.Tasks {
		if t.Level == 0 {
			out = append(out, t)
		}
	}
	return out
}

// Drain blocks until every task of a dispatched tree has joined.
func (tr *Tree) Drain() {
	for _, t := range tr.Tasks {
		<-t.done
	}
}

// Plan builds the merge tree for fragments without running anything. It is
// the same tree a Scheduler would dispatch with the same batch size.
func Plan(fragments []string, batchSize int) (*Tree, error) {
	b := &builder{batchSize: batchSize}
	return b.build(fragments)
}

// builder folds fragments into a merge tree. When start is set each task is
// handed to it right after creation, before any later task exists.
type builder struct {
	batchSize int
	start     func(*Task)
	tasks     []*Task
}

func (b *builder) build(fragments []string) (*Tree, error) {
	if len(fragments) == 0 {
		return nil, ErrNoFragments
	}
	if slices.Contains(fragments, "") {
		return nil, errors.New("fragment list contains an empty path")
	}
	if b.batchSize < MinBatchSize {
		return nil, fmt.Errorf("%w: %d", ErrBatchSize, b.batchSize)
	}

	// Popping from the reversed list yields fragments in forward order.
	stack := slices.Clone(fragments)
	slices.Reverse(stack)

	var level []*Task
	for {
		files := make([]string, 0, b.batchSize)
		for range b.batchSize {
			files = append(files, popString(&stack))
		}
		if files[0] == "" {
			break
		}
		level = append(level, b.add(0, trimPlaceholders(files), nil))
	}

	height := 1
	for len(level) > 1 {
		slices.Reverse(level)
		var next []*Task
		for {
			children := make([]*Task, 0, b.batchSize)
			for range b.batchSize {
				if len(level) == 0 {
					break
				}
				children = append(children, popTask(&level))
			}
			files := make([]string, len(children))
			for i, c := range children {
				files[i] = c.Leader()
			}
			next = append(next, b.add(height, files, children))
			if len(level) == 0 {
				break
			}
		}
		level = next
		height++
	}

	return &Tree{Root: level[0], Tasks: b.tasks, Height: height}, nil
}

func (b *builder) add(level int, files []string, children []*Task) *Task {
	t := newTask(len(b.tasks), level, files, children)
	b.tasks = append(b.tasks, t)
	if b.start != nil {
		b.start(t)
	}
	return t
}

func popString(stack *[]string) string {
	s := *stack
	if len(s) == 0 {
		return ""
	}
	v := s[len(s)-1]
	*stack = s[:len(s)-1]
	return v
}

func popTask(stack *[]*Task) *Task {
	s := *stack
	v := s[len(s)-1]
	*stack = s[:len(s)-1]
	return v
}

// trimPlaceholders drops the empty entries that pad the last leaf batch.
func trimPlaceholders(files []string) []string {
	end := len(files)
	for end > 1 && files[end-1] == "" {
		end--
	}
	return files[:end]
}
