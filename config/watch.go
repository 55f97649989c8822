/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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
 *
 *
 */

package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports that the configuration file on disk changed. It never
// applies the change itself: the engine owns the decision of whether and
// when to restart with a freshly loaded File.
type Watcher struct {
	w    *fsnotify.Watcher
	path string
}

// Watch starts observing the directory containing path (fsnotify watches
// directories, not bare files, so renames-over-path are caught too).
func Watch(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}

	return &Watcher{w: w, path: filepath.Clean(path)}, nil
}

// Changed returns a channel that receives a value when a write/create/
// rename event touches the watched file. At most one notification is
// buffered: events arriving while one is still unread are dropped. The
// channel is closed when Close is called.
func (w *Watcher) Changed() <-chan struct{} {
	out := make(chan struct{}, 1)

	go func() {
		defer close(out)
		for {
			select {
			case ev, ok := <-w.w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != w.path {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				select {
				case out <- struct{}{}:
				default:
				}
			case _, ok := <-w.w.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out
}

func (w *Watcher) Close() error {
	return w.w.Close()
}
