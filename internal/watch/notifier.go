package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	applog "anynow/internal/log"
)

// Poker is anything that can be asked for an immediate re-check.
type Poker interface {
	Poke()
}

// FileNotifier turns writes to a database file by any process into pokes,
// so watchers react before their next tick.
type FileNotifier struct {
	path    string
	targets []Poker
	w       *fsnotify.Watcher
}

// NewFileNotifier watches the directory holding path; sqlite replaces and
// appends to sibling -wal and -journal files, so the file alone is not enough.
func NewFileNotifier(path string, targets ...Poker) (*FileNotifier, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &FileNotifier{path: abs, targets: targets, w: w}, nil
}

func (n *FileNotifier) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	name, _ := filepath.Abs(ev.Name)
	return name == n.path || strings.HasPrefix(name, n.path+"-")
}

// Run delivers pokes until ctx ends and then closes the watcher.
func (n *FileNotifier) Run(ctx context.Context) error {
	defer n.w.Close()
	lg := applog.Component("watch").WithField("path", n.path)
	lg.Info("watch.file.start")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-n.w.Events:
			if !ok {
				return nil
			}
			if !n.relevant(ev) {
				continue
			}
			for _, t := range n.targets {
				t.Poke()
			}
		case err, ok := <-n.w.Errors:
			if !ok {
				return nil
			}
			lg.WithError(err).Warn("watch.file.error")
		}
	}
}
