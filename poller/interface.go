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

// Package poller wraps the OS readiness multiplexer (epoll on Linux,
// kqueue on BSD/Darwin) behind one interface returning readable/writable
// batches keyed by an opaque token. The engine is the sole owner; every
// other subsystem only ever reads the events it hands out.
package poller

// Event reports readiness for one registered file descriptor. The token
// argument of the Register calls is not stored: Token is always set to
// Fd, which is also what the engine passes as the token.
type Event struct {
	Fd       int
	Token    int
	Readable bool
	Writable bool
}

// Poller is the readiness multiplexer contract. Unregister operations are
// idempotent: unregistering an fd that was never registered, or twice,
// never returns an error.
type Poller interface {
	RegisterRead(fd int, token int) error
	RegisterWrite(fd int, token int) error
	UnregisterRead(fd int) error
	UnregisterWrite(fd int) error

	// Wait blocks for up to timeoutMs milliseconds and returns whatever
	// readiness batch the kernel has for us. A timeout or an interrupted
	// syscall both surface as an empty, nil-error batch; only
	// construction and fatal syscall failures return an error.
	Wait(timeoutMs int) ([]Event, error)

	Close() error
}
