package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driving"
)

var watchPolicy string

// settleDelay is how long a file must stay unchanged before it is decoded.
const settleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Decode photos as they arrive in a directory",
	Long: `Watches a directory and decodes every new .jpg, .jpeg, .png or .gif file
once it has finished being written. Codes are recorded in scan history
with the file name as batch ID. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchPolicy, "policy", "p", "", "pipeline policy (default from settings)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if scanService == nil {
		return errors.New("scan service not configured")
	}

	dir := args[0]
	cmd.Printf("Watching %s for photos...\n", dir)

	w := &dirWatcher{
		settle: settleDelay,
		handle: func(ctx context.Context, path string) {
			res, err := scanFile(cmd, path, driving.ScanOptions{
				Policy:  domain.Policy(watchPolicy),
				BatchID: filepath.Base(path),
			})
			if err != nil {
				cmd.PrintErrf("%s: %v\n", path, err)
				return
			}
			cmd.Printf("== %s (%d code(s), %s)\n", filepath.Base(path), len(res.Codes), res.Elapsed.Round(time.Millisecond))
			cmd.Println(renderer.Terminal(res.Codes))
		},
	}
	return w.run(cmd.Context(), dir)
}

// dirWatcher calls handle once per image file after writes to it settle.
// Calls to handle are sequential.
type dirWatcher struct {
	settle time.Duration
	handle func(ctx context.Context, path string)

	// ready is signalled once the watch is established.
	ready chan struct{}
}

func (w *dirWatcher) run(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	if w.ready != nil {
		close(w.ready)
	}

	settled := make(chan string, 16)
	files := newSettler(w.settle, func(path string) {
		select {
		case settled <- path:
		case <-ctx.Done():
		}
	})
	defer files.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case path := <-settled:
			w.handle(ctx, path)

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !isImageFile(ev.Name) {
				continue
			}

			files.touch(ev.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		}
	}
}

// settler calls fire once per path after touches to it stop for delay.
// Every touch replaces the path's timer under a fresh sequence number, so a
// timer that fired while being replaced finds itself stale and does nothing.
type settler struct {
	delay time.Duration
	fire  func(path string)

	mu      sync.Mutex
	seq     uint64
	pending map[string]*settleTimer
}

type settleTimer struct {
	timer *time.Timer
	seq   uint64
}

func newSettler(delay time.Duration, fire func(path string)) *settler {
	return &settler{delay: delay, fire: fire, pending: make(map[string]*settleTimer)}
}

// touch restarts the quiet period of path and returns its sequence number.
func (s *settler) touch(path string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.pending[path]; ok {
		p.timer.Stop()
	}
	s.seq++
	seq := s.seq
	s.pending[path] = &settleTimer{
		seq:   seq,
		timer: time.AfterFunc(s.delay, func() { s.expire(path, seq) }),
	}
	return seq
}

func (s *settler) expire(path string, seq uint64) {
	s.mu.Lock()
	p, ok := s.pending[path]
	if !ok || p.seq != seq {
		s.mu.Unlock()
		return
	}
	delete(s.pending, path)
	s.mu.Unlock()

	s.fire(path)
}

func (s *settler) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, path)
	}
}

func isImageFile(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	default:
		return false
	}
}
