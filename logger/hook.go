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
	"bufio"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/nabbar/localhost/logger/level"
	"github.com/sirupsen/logrus"
)

// writerHook formats each entry and writes it through a buffered writer.
// Write failures are swallowed: a logging sink must never propagate an
// error back into the event loop.
type writerHook struct {
	mu  sync.Mutex
	lvl atomic.Uint32
	fmt logrus.Formatter
	out io.WriteCloser
	buf *bufio.Writer
}

func newStdoutHook(lvl level.Level) *writerHook {
	h := &writerHook{
		fmt: &logrus.TextFormatter{FullTimestamp: true},
		out: os.Stdout,
	}
	h.buf = bufio.NewWriter(h.out)
	h.lvl.Store(lvl.Uint32())
	return h
}

func newFileHook(lvl level.Level, w io.WriteCloser) *writerHook {
	h := &writerHook{
		fmt: &logrus.JSONFormatter{},
		out: w,
	}
	h.buf = bufio.NewWriter(w)
	h.lvl.Store(lvl.Uint32())
	return h
}

func (h *writerHook) setLevel(lvl level.Level) {
	h.lvl.Store(lvl.Uint32())
}

func (h *writerHook) Levels() []logrus.Level {
	max := level.ParseFromUint32(h.lvl.Load())
	out := make([]logrus.Level, 0, int(max)+1)
	for l := level.PanicLevel; l <= max && l != level.NilLevel; l++ {
		out = append(out, l.Logrus())
	}
	return out
}

func (h *writerHook) Fire(e *logrus.Entry) error {
	if h.lvl.Load() == level.NilLevel.Uint32() {
		return nil
	}

	b, err := h.fmt.Format(e)
	if err != nil {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, werr := h.buf.Write(b); werr != nil {
		return nil
	}
	_ = h.buf.Flush()
	return nil
}

func (h *writerHook) closeOutput() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_ = h.buf.Flush()
	if h.out == os.Stdout {
		return nil
	}
	return h.out.Close()
}
