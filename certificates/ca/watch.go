/*
 * MIT License
 *
 * Copyright (c) 2026 sfnul-go contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package ca

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/binary1248/sfnul-go/logger"
)

// Watcher reloads a directory of PEM-encoded CA certificate files whenever
// one is created, written, renamed, or removed, handing the refreshed
// bundle to an onChange callback (spec §4.6's deferred certificate
// selection, extended from server certificates to CA trust stores so a
// long-lived server can adopt rotated CAs without a restart).
type Watcher struct {
	w    *fsnotify.Watcher
	log  logger.Logger
	done chan struct{}
}

// WatchDir starts watching dir and immediately performs one synchronous
// load, calling onChange with the result before returning. Every
// filesystem event under dir afterward triggers a reload and another
// onChange call with the full bundle, not a delta.
func WatchDir(dir string, log logger.Logger, onChange func([]Cert)) (*Watcher, error) {
	if log == nil {
		log = logger.Discard
	}
	log = log.WithFields(logger.Fields{"component": "certificates/ca", "dir": dir})

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}

	watcher := &Watcher{w: fw, log: log, done: make(chan struct{})}

	reload := func() {
		certs, err := loadDir(dir)
		if err != nil {
			log.Warning("ca directory reload failed", logger.Fields{"error": err.Error()})
			return
		}
		onChange(certs)
	}
	reload()

	go watcher.loop(reload)
	return watcher, nil
}

func (w *Watcher) loop(reload func()) {
	for {
		select {
		case _, ok := <-w.w.Events:
			if !ok {
				return
			}
			reload()
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.log.Warning("ca directory watch error", logger.Fields{"error": err.Error()})
		case <-w.done:
			return
		}
	}
}

// Close stops the watch. Safe to call once; further calls are no-ops.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
		close(w.done)
	}
	return w.w.Close()
}

func loadDir(dir string) ([]Cert, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var certs []Cert
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".pem") && !strings.HasSuffix(name, ".crt") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		certs = append(certs, Cert(data))
	}
	return certs, nil
}
