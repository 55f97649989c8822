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

//go:build linux

package poller

import (
	"sync"

	"golang.org/x/sys/unix"
)

type epollPoller struct {
	mu   sync.Mutex
	fd   int
	mask map[int]uint32 // fd -> currently-registered epoll event mask
}

// New opens the epoll instance backing this process's event loop.
func New() (Poller, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &epollPoller{fd: fd, mask: make(map[int]uint32)}, nil
}

func (p *epollPoller) ctl(fd int, want uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	cur, existed := p.mask[fd]
	ev := unix.EpollEvent{Fd: int32(fd), Events: want}

	op := unix.EPOLL_CTL_ADD
	if existed {
		op = unix.EPOLL_CTL_MOD
		ev.Events |= cur
	}

	if err := unix.EpollCtl(p.fd, op, fd, &ev); err != nil {
		if op == unix.EPOLL_CTL_ADD && err == unix.EEXIST {
			op = unix.EPOLL_CTL_MOD
			if err2 := unix.EpollCtl(p.fd, op, fd, &ev); err2 != nil {
				return err2
			}
		} else {
			return err
		}
	}

	p.mask[fd] = ev.Events
	return nil
}

func (p *epollPoller) RegisterRead(fd int, _ int) error {
	return p.ctl(fd, unix.EPOLLIN)
}

func (p *epollPoller) RegisterWrite(fd int, _ int) error {
	return p.ctl(fd, unix.EPOLLOUT)
}

func (p *epollPoller) unregisterBit(fd int, bit uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	cur, existed := p.mask[fd]
	if !existed {
		return nil
	}

	cur &^= bit
	if cur == 0 {
		delete(p.mask, fd)
		_ = unix.EpollCtl(p.fd, unix.EPOLL_CTL_DEL, fd, nil)
		return nil
	}

	ev := unix.EpollEvent{Fd: int32(fd), Events: cur}
	if err := unix.EpollCtl(p.fd, unix.EPOLL_CTL_MOD, fd, &ev); err != nil {
		return nil
	}
	p.mask[fd] = cur
	return nil
}

func (p *epollPoller) UnregisterRead(fd int) error {
	return p.unregisterBit(fd, unix.EPOLLIN)
}

func (p *epollPoller) UnregisterWrite(fd int) error {
	return p.unregisterBit(fd, unix.EPOLLOUT)
}

func (p *epollPoller) Wait(timeoutMs int) ([]Event, error) {
	raw := make([]unix.EpollEvent, 128)

	n, err := unix.EpollWait(p.fd, raw, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}

	out := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		fd := int(raw[i].Fd)
		out = append(out, Event{
			Fd:       fd,
			Token:    fd,
			Readable: raw[i].Events&(unix.EPOLLIN|unix.EPOLLHUP|unix.EPOLLERR) != 0,
			Writable: raw[i].Events&(unix.EPOLLOUT|unix.EPOLLHUP|unix.EPOLLERR) != 0,
		})
	}
	return out, nil
}

func (p *epollPoller) Close() error {
	return unix.Close(p.fd)
}
