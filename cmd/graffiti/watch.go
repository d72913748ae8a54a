package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pterm/pterm"

	"github.com/gogpu/graffiti"
)

// watchDelay coalesces the burst of events editors produce per save.
const watchDelay = 150 * time.Millisecond

// watchFiles calls run whenever one of paths changes, until ctx is done.
// Files are watched through their directory so that editors replacing a
// file on save are still seen. Errors from run are printed, not returned.
func watchFiles(ctx context.Context, paths []string, run func() error) error {
	if len(paths) == 0 {
		pterm.Info.Println("nothing to watch: pass --rules, --presets or --glyphs")
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	relevant := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		dir := filepath.Dir(abs)
		if fi, err := os.Stat(abs); err == nil && fi.IsDir() {
			dir = abs
		}
		relevant[abs] = true
		if !dirs[dir] {
			if err := w.Add(dir); err != nil {
				return err
			}
			dirs[dir] = true
		}
	}
	pterm.Info.Printf("watching %d path(s), interrupt to stop\n", len(paths))

	timer := time.NewTimer(watchDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, _ := filepath.Abs(ev.Name)
			if !relevant[name] && !relevant[filepath.Dir(name)] {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			graffiti.Logger().Debug("graffiti: change", "file", ev.Name, "op", ev.Op.String())
			timer.Reset(watchDelay)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			graffiti.Logger().Warn("graffiti: watch", "err", err)
		case <-timer.C:
			if err := run(); err != nil {
				pterm.Error.Println(err)
			}
		}
	}
}
