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

// Package logger wraps logrus with the level taxonomy from logger/level
// and a small set of hooks (stdout, optional file) selected at startup.
package logger

import (
	"io"

	"github.com/nabbar/localhost/logger/level"
	"github.com/sirupsen/logrus"
)

// Logger is the leveled logging facade used throughout the server.
// Field attachment returns a new Logger so call sites can chain without
// mutating a shared instance.
type Logger interface {
	SetLevel(lvl level.Level)
	Level() level.Level

	WithField(key string, val interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger

	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})

	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})

	// SetFileOutput adds a rotating-free file sink in addition to stdout.
	// Passing nil disables it again.
	SetFileOutput(w io.WriteCloser)
}

// New builds a Logger at the given level, writing to stdout only.
func New(lvl level.Level) Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(lvl.Logrus())
	l.SetOutput(io.Discard)

	m := &mod{entry: logrus.NewEntry(l)}
	m.stdout = newStdoutHook(lvl)
	l.AddHook(m.stdout)

	return m
}
