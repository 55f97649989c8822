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

package logger

import (
	"io"
	"sync"

	"github.com/nabbar/localhost/logger/level"
	"github.com/sirupsen/logrus"
)

type mod struct {
	mu     sync.Mutex
	entry  *logrus.Entry
	stdout *writerHook
	file   *writerHook
}

func (m *mod) SetLevel(lvl level.Level) {
	m.entry.Logger.SetLevel(lvl.Logrus())
	if m.stdout != nil {
		m.stdout.setLevel(lvl)
	}
	if m.file != nil {
		m.file.setLevel(lvl)
	}
}

func (m *mod) Level() level.Level {
	return level.ParseFromUint32(uint32(m.entry.Logger.GetLevel()))
}

func (m *mod) clone(e *logrus.Entry) Logger {
	return &mod{entry: e, stdout: m.stdout, file: m.file}
}

func (m *mod) WithField(key string, val interface{}) Logger {
	return m.clone(m.entry.WithField(key, val))
}

func (m *mod) WithFields(fields map[string]interface{}) Logger {
	return m.clone(m.entry.WithFields(fields))
}

func (m *mod) WithError(err error) Logger {
	return m.clone(m.entry.WithError(err))
}

func (m *mod) Debug(args ...interface{}) { m.entry.Debug(args...) }
func (m *mod) Info(args ...interface{})  { m.entry.Info(args...) }
func (m *mod) Warn(args ...interface{})  { m.entry.Warn(args...) }
func (m *mod) Error(args ...interface{}) { m.entry.Error(args...) }
func (m *mod) Fatal(args ...interface{}) { m.entry.Error(args...) }

func (m *mod) Debugf(format string, args ...interface{}) { m.entry.Debugf(format, args...) }
func (m *mod) Infof(format string, args ...interface{})  { m.entry.Infof(format, args...) }
func (m *mod) Warnf(format string, args ...interface{})  { m.entry.Warnf(format, args...) }
func (m *mod) Errorf(format string, args ...interface{}) { m.entry.Errorf(format, args...) }
func (m *mod) Fatalf(format string, args ...interface{}) { m.entry.Errorf(format, args...) }

// SetFileOutput wires or disables the optional file sink. The write side is
// best-effort: a broken pipe here must never stall request handling.
func (m *mod) SetFileOutput(w io.WriteCloser) {
	m.mu.Lock()
	defer m.mu.Unlock()

	logg := m.entry.Logger

	if m.file != nil {
		removeHook(logg, m.file)
		_ = m.file.closeOutput()
		m.file = nil
	}

	if w == nil {
		return
	}

	h := newFileHook(m.Level(), w)
	logg.AddHook(h)
	m.file = h
}

func removeHook(l *logrus.Logger, h *writerHook) {
	for lvl, hooks := range l.Hooks {
		kept := hooks[:0]
		for _, existing := range hooks {
			if existing != h {
				kept = append(kept, existing)
			}
		}
		l.Hooks[lvl] = kept
	}
}
