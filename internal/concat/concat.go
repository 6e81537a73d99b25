package concat

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
)

// ErrIO classifies every failure of the filesystem concatenation.
// Callers match it with errors.Is; the underlying os error stays wrapped.
var ErrIO = errors.New("concat i/o failure")

// Concatenator appends files[1:] onto files[0], consuming the secondaries.
type Concatenator interface {
	Concat(files []string) error
}

// Func adapts a plain function to the Concatenator interface.
type Func func(files []string) error

// Concat calls f(files).
func (f Func) Concat(files []string) error {
	return f(files)
}

// Appender is the filesystem Concatenator.
type Appender struct {
	log    zerolog.Logger
	remove func(name string) error
}

// NewAppender creates an Appender that reports skipped secondaries to log.
func NewAppender(log zerolog.Logger) *Appender {
	return &Appender{log: log, remove: os.Remove}
}

// Concat opens files[0] for append and, for every later entry in order,
// appends its full content and then removes it. Empty entries and entries
// that no longer exist are skipped. A list of one entry, or one whose first
// entry is empty, is a no-op.
//
// There is no rollback of completed work: on failure the leader keeps every
// secondary appended so far and those secondaries stay deleted. Only the
// secondary being appended when the failure hit is cut back off the leader,
// so retrying the same list never duplicates bytes.
func (a *Appender) Concat(files []string) (err error) {
	if len(files) <= 1 || files[0] == "" {
		return nil
	}
	leader := files[0]

	out, err := os.OpenFile(leader, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("%w: open %s for append: %w", ErrIO, leader, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %w", ErrIO, leader, cerr)
		}
	}()

	info, err := out.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", ErrIO, leader, err)
	}
	size := info.Size()

	w := bufio.NewWriter(out)
	for _, name := range files[1:] {
		if name == "" {
			continue
		}
		if _, serr := os.Stat(name); errors.Is(serr, fs.ErrNotExist) {
			a.log.Debug().
				Str("leader", leader).
				Str("file", name).
				Msg("concat: secondary file missing, skipped")
			continue
		}

		data, rerr := os.ReadFile(name)
		if rerr != nil {
			return fmt.Errorf("%w: read %s: %w", ErrIO, name, rerr)
		}
		if _, werr := w.Write(data); werr != nil {
			a.truncate(out, size)
			return fmt.Errorf("%w: append %s to %s: %w", ErrIO, name, leader, werr)
		}
		// The bytes must reach the leader before the secondary disappears.
		if ferr := w.Flush(); ferr != nil {
			a.truncate(out, size)
			return fmt.Errorf("%w: append %s to %s: %w", ErrIO, name, leader, ferr)
		}
		if rmerr := a.remove(name); rmerr != nil {
			a.truncate(out, size)
			return fmt.Errorf("%w: remove %s: %w", ErrIO, name, rmerr)
		}
		size += int64(len(data))
	}
	return nil
}

// truncate cuts a half-appended secondary back off the leader.
func (a *Appender) truncate(out *os.File, size int64) {
	if err := out.Truncate(size); err != nil {
		a.log.Warn().
			Err(err).
			Str("leader", out.Name()).
			Int64("size", size).
			Msg("concat: could not cut back partial append")
	}
}
