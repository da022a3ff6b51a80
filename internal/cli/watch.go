package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/urmzd/oag/pkg/config"
)

// watchDebounce coalesces bursts of filesystem events (editors often write a
// file several times per save).
const watchDebounce = 250 * time.Millisecond

// Watch runs Generate, then re-runs it whenever the spec or config file
// changes. Generation errors are reported and watching continues.
func (r *Runner) Watch(ctx context.Context, opts generateOpts) error {
	regenerate := func() {
		if err := r.Generate(ctx, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	regenerate()

	paths, err := r.watchPaths(opts)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(paths))
	for _, p := range paths {
		watched[p] = true
		// Watch the directory: editors replace files on save, which drops
		// direct file watches.
		if err := watcher.Add(filepath.Dir(p)); err != nil {
			return err
		}
	}
	fmt.Fprintln(os.Stderr, "watching for changes (ctrl-c to stop)")

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		case <-fire:
			regenerate()
		}
	}
}

// watchPaths resolves the files whose changes trigger regeneration.
func (r *Runner) watchPaths(opts generateOpts) ([]string, error) {
	cfg, err := r.loadConfig(opts.configPath, opts.input)
	if err != nil {
		return nil, err
	}

	var paths []string
	add := func(p string) {
		if p == "" {
			return
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return
		}
		paths = append(paths, filepath.Clean(abs))
	}
	add(cfg.Input)
	if opts.configPath != "" {
		add(opts.configPath)
	} else if cwd, err := os.Getwd(); err == nil {
		if discovered := config.Discover(cwd); discovered != "" {
			add(discovered)
		}
	}
	return paths, nil
}
