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

//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package poller

import (
	"sync"

	"golang.org/x/sys/unix"
)

type kqueuePoller struct {
	mu   sync.Mutex
	fd   int
	read map[int]bool
	wrte map[int]bool
}

// New opens the kqueue instance backing this process's event loop.
func New() (Poller, error) {
	fd, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	return &kqueuePoller{fd: fd, read: make(map[int]bool), wrte: make(map[int]bool)}, nil
}

func (p *kqueuePoller) change(fd int, filter int16, flags uint16) error {
	ev := []unix.Kevent_t{{
		Ident:  uint64(fd),
		Filter: filter,
		Flags:  flags,
	}}
	_, err := unix.Kevent(p.fd, ev, nil, nil)
	return err
}

func (p *kqueuePoller) RegisterRead(fd int, _ int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.change(fd, unix.EVFILT_READ, unix.EV_ADD|unix.EV_ENABLE); err != nil {
		return err
	}
	p.read[fd] = true
	return nil
}

func (p *kqueuePoller) RegisterWrite(fd int, _ int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.change(fd, unix.EVFILT_WRITE, unix.EV_ADD|unix.EV_ENABLE); err != nil {
		return err
	}
	p.wrte[fd] = true
	return nil
}

func (p *kqueuePoller) UnregisterRead(fd int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.read[fd] {
		return nil
	}
	delete(p.read, fd)
	_ = p.change(fd, unix.EVFILT_READ, unix.EV_DELETE)
	return nil
}

func (p *kqueuePoller) UnregisterWrite(fd int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.wrte[fd] {
		return nil
	}
	delete(p.wrte, fd)
	_ = p.change(fd, unix.EVFILT_WRITE, unix.EV_DELETE)
	return nil
}

func (p *kqueuePoller) Wait(timeoutMs int) ([]Event, error) {
	ts := unix.NsecToTimespec(int64(timeoutMs) * int64(1_000_000))
	raw := make([]unix.Kevent_t, 128)

	n, err := unix.Kevent(p.fd, nil, raw, &ts)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}

	byFd := make(map[int]*Event, n)
	order := make([]int, 0, n)

	for i := 0; i < n; i++ {
		fd := int(raw[i].Ident)
		e, ok := byFd[fd]
		if !ok {
			e = &Event{Fd: fd, Token: fd}
			byFd[fd] = e
			order = append(order, fd)
		}
		switch raw[i].Filter {
		case unix.EVFILT_READ:
			e.Readable = true
		case unix.EVFILT_WRITE:
			e.Writable = true
		}
		if raw[i].Flags&(unix.EV_EOF|unix.EV_ERROR) != 0 {
			e.Readable = true
			e.Writable = true
		}
	}

	out := make([]Event, 0, len(order))
	for _, fd := range order {
		out = append(out, *byFd[fd])
	}
	return out, nil
}

func (p *kqueuePoller) Close() error {
	return unix.Close(p.fd)
}
