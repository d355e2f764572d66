// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package poll implements bounded waits: a fixed number of attempts spaced by
// a fixed interval, never an open-ended sleep.
package poll

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/scenecap/editor"
)

// Config bounds a wait.
type Config struct {
	Interval    time.Duration
	MaxAttempts int
}

// DefaultConfig waits at most 5s, checking every 100ms.
func DefaultConfig() Config {
	return Config{Interval: 100 * time.Millisecond, MaxAttempts: 50}
}

// MaxWait is the longest a wait with this config can take.
func (c Config) MaxWait() time.Duration {
	return time.Duration(c.MaxAttempts) * c.Interval
}

func (c Config) normalized() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultConfig().Interval
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 1
	}
	return c
}

// Until calls cond once immediately and then once per interval until it
// returns true, returns an error, or the attempts run out. Exhaustion is
// reported as editor.ErrTimeout.
func Until(ctx context.Context, cfg Config, cond func() (bool, error)) error {
	return until(ctx, cfg, nil, cond)
}

func until(ctx context.Context, cfg Config, wake <-chan struct{}, cond func() (bool, error)) error {
	cfg = cfg.normalized()

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for attempt := 0; ; {
		done, err := cond()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if attempt >= cfg.MaxAttempts {
			return fmt.Errorf("gave up after %d attempts over %v: %w", cfg.MaxAttempts, cfg.MaxWait(), editor.ErrTimeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			attempt++
		case <-wake:
			// re-check without spending an attempt
		}
	}
}

// WaitForFile waits for path to exist. A directory watch wakes the loop
// early when the file is created; the ticker still bounds the wait if the
// watch cannot be set up.
func WaitForFile(ctx context.Context, path string, cfg Config) error {
	wake, stop := watchDir(filepath.Dir(path))
	defer stop()

	err := until(ctx, cfg, wake, func() (bool, error) {
		_, err := os.Stat(path)
		if err == nil {
			return true, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	})
	if errors.Is(err, editor.ErrTimeout) {
		return fmt.Errorf("%s did not appear: %w", path, err)
	}
	return err
}

func watchDir(dir string) (<-chan struct{}, func()) {
	wake := make(chan struct{}, 1)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return wake, func() {}
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return wake, func() {}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Rename) {
					select {
					case wake <- struct{}{}:
					default:
					}
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return wake, func() {
		_ = w.Close()
		<-done
	}
}
