// Package watch observes a results directory until output files appear or
// a time budget runs out.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultTimeout  = 60 * time.Second
	DefaultInterval = 2 * time.Second
)

// DefaultExtensions are the image types the try-on engine writes.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png"}

// State of a single Watch invocation.
type State int

const (
	Waiting State = iota
	Found
	TimedOut
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Found:
		return "found"
	case TimedOut:
		return "timed_out"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Options parameterize a ResultWatcher. A nil or empty Extensions list
// accepts every non-directory entry.
type Options struct {
	Timeout    time.Duration
	Interval   time.Duration
	Extensions []string
}

func DefaultOptions() Options {
	return Options{
		Timeout:    DefaultTimeout,
		Interval:   DefaultInterval,
		Extensions: append([]string(nil), DefaultExtensions...),
	}
}

func (o Options) Validate() error {
	if o.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", o.Timeout)
	}
	if o.Interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", o.Interval)
	}
	return nil
}

// Result is the outcome of one observation window.
type Result struct {
	Dir     string
	State   State
	Files   []string
	Polls   int
	Elapsed time.Duration
	Timeout time.Duration
}

// Err returns an *EmptyResultError when the window closed with nothing
// found, nil otherwise.
func (r Result) Err() error {
	if r.State != TimedOut {
		return nil
	}
	return &EmptyResultError{Dir: r.Dir, Timeout: r.Timeout, Polls: r.Polls}
}

// EmptyResultError reports a timed-out observation window.
type EmptyResultError struct {
	Dir     string
	Timeout time.Duration
	Polls   int
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no results in %s after %s (%d polls)", e.Dir, e.Timeout, e.Polls)
}

// ResultWatcher polls a directory at a fixed cadence. It keeps no state
// between calls, so restarting after a timeout opens a fresh window.
type ResultWatcher struct {
	opts   Options
	exts   map[string]struct{}
	logger logrus.FieldLogger
}

func NewResultWatcher(opts Options, logger logrus.FieldLogger) (*ResultWatcher, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = struct{}{}
	}

	return &ResultWatcher{opts: opts, exts: exts, logger: logger}, nil
}

// Watch checks dir immediately, then once per interval and a last time at
// the deadline, until a qualifying listing is seen or the timeout elapses.
// The wait never runs past the timeout. A timeout is reported
// through the returned Result, never as an error; the error is non-nil only
// when ctx is done first.
func (w *ResultWatcher) Watch(ctx context.Context, dir string) (Result, error) {
	log := w.logger.WithFields(logrus.Fields{
		"dir":      dir,
		"timeout":  w.opts.Timeout.String(),
		"interval": w.opts.Interval.String(),
	})
	log.Debug("Watching for results")

	start := time.Now()
	deadline := start.Add(w.opts.Timeout)
	res := Result{Dir: dir, State: Waiting, Timeout: w.opts.Timeout}

	for {
		res.Polls++
		files, err := w.Scan(dir)
		if err != nil {
			log.WithError(err).Warn("Results directory unreadable, retrying")
		}
		if len(files) > 0 {
			res.State = Found
			res.Files = files
			res.Elapsed = time.Since(start)
			log.WithFields(logrus.Fields{
				"files":   len(files),
				"polls":   res.Polls,
				"elapsed": res.Elapsed.String(),
			}).Info("New results found")
			return res, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}

		select {
		case <-ctx.Done():
			res.Elapsed = time.Since(start)
			return res, ctx.Err()
		case <-time.After(min(w.opts.Interval, remaining)):
		}
	}

	res.State = TimedOut
	res.Files = []string{}
	res.Elapsed = time.Since(start)
	log.WithField("polls", res.Polls).Warn("No new results were generated")
	return res, nil
}

// Scan lists the qualifying entries of dir as full paths in lexical order.
// A missing directory yields an empty listing and no error.
func (w *ResultWatcher) Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !w.accepts(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func (w *ResultWatcher) accepts(name string) bool {
	if len(w.exts) == 0 {
		return true
	}
	_, ok := w.exts[strings.ToLower(filepath.Ext(name))]
	return ok
}
