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

package httpserver

import (
	"time"

	"github.com/nabbar/localhost/httpproto"
)

// phase is a connection's position in the read/write lifecycle.
type phase uint8

const (
	phaseReading phase = iota
	phaseWriting
	phaseClosed
)

const connDeadline = 30 * time.Second

// connection is one accepted client socket, exclusively owned by the run
// loop and referenced by file descriptor.
type connection struct {
	fd          int
	ingressPort int

	phase    phase
	deadline time.Time
	keepAlive bool

	parser   *httpproto.Parser
	writeBuf []byte

	remoteAddr string
}

func newConnection(fd, ingressPort int, maxBody uint64, now time.Time) *connection {
	return &connection{
		fd:          fd,
		ingressPort: ingressPort,
		phase:       phaseReading,
		deadline:    now.Add(connDeadline),
		keepAlive:   true,
		parser:      httpproto.NewParser(maxBody),
	}
}

// resetForReuse prepares the connection for the next keep-alive request.
func (c *connection) resetForReuse(now time.Time) {
	c.parser.Reset()
	c.writeBuf = nil
	c.phase = phaseReading
	c.deadline = now.Add(connDeadline)
}

func (c *connection) expired(now time.Time) bool {
	return !now.Before(c.deadline)
}
