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

// Package httpserver runs the readiness-driven event loop: it binds one
// listening socket per configured port, accepts connections without
// blocking, feeds read bytes through httpproto's incremental parser,
// dispatches complete requests to the matching server instance and
// writes the serialized response back out, all on a single goroutine.
package httpserver

import (
	"strconv"
	"strings"
	"time"

	"github.com/nabbar/localhost/config"
	"github.com/nabbar/localhost/errors"
	"github.com/nabbar/localhost/httpproto"
	"github.com/nabbar/localhost/logger"
	"github.com/nabbar/localhost/poller"
	"github.com/nabbar/localhost/session"
	"golang.org/x/sys/unix"
)

const (
	pollTimeoutMs  = 100
	readBufferSize = 8 * 1024
)

// serverKey identifies one configured server by the port it listens on
// and its lowercased virtual-host name.
type serverKey struct {
	port int
	name string
}

// Server owns every listener, the connection table and the readiness
// poller for one running configuration.
type Server struct {
	cfg  *config.File
	log  logger.Logger
	poll poller.Poller

	maxBody     uint64
	idleTimeout time.Duration

	listeners map[int]*listener // port -> listener
	byKey     map[serverKey]*instance
	defaults  map[int]*instance // port -> first server declared for it

	conns map[int]*connection // fd -> connection

	sessions *session.Store

	closing bool
}

// New builds a Server from a validated configuration. It binds one
// listener per distinct port across every configured server, reusing a
// single listener when multiple servers share a port (name-based
// virtual hosting on top of one socket).
func New(cfg *config.File, log logger.Logger) (*Server, error) {
	p, err := poller.New()
	if err != nil {
		return nil, ErrorNoInstance.Error(err)
	}

	s := &Server{
		cfg:         cfg,
		log:         log,
		poll:        p,
		maxBody:     cfg.ClientMaxBodySize,
		idleTimeout: time.Duration(cfg.ClientTimeoutSecs) * time.Second,
		listeners:   make(map[int]*listener),
		byKey:       make(map[serverKey]*instance),
		defaults:    make(map[int]*instance),
		conns:       make(map[int]*connection),
		sessions:    session.New(config.DefaultSessionTimeout * time.Second),
	}

	if s.maxBody == 0 {
		s.maxBody = config.DefaultClientMaxBodySize
	}
	if s.idleTimeout == 0 {
		s.idleTimeout = config.DefaultClientTimeoutSecs * time.Second
	}

	if len(cfg.Servers) == 0 {
		return nil, ErrorNoInstance.Error(nil)
	}

	for i := range cfg.Servers {
		sv := cfg.Servers[i]
		for _, port := range sv.Ports {
			in := newInstance(sv, port)

			key := serverKey{port: port, name: strings.ToLower(sv.Name)}
			s.byKey[key] = in
			if _, ok := s.defaults[port]; !ok {
				s.defaults[port] = in
			}

			if _, ok := s.listeners[port]; !ok {
				ln, err := bindListener(sv.Address, port)
				if err != nil {
					return nil, err
				}
				s.listeners[port] = ln
			}
		}
	}

	for _, ln := range s.listeners {
		if err := s.poll.RegisterRead(ln.fd, ln.fd); err != nil {
			return nil, ErrorPollerRegister.Error(err)
		}
	}

	return s, nil
}

// Run drives the event loop until Close is called, then returns nil. A
// failure of the poller's Wait ends the loop and is returned as ErrorAccept.
func (s *Server) Run() error {
	for !s.closing {
		events, err := s.poll.Wait(pollTimeoutMs)
		if err != nil {
			return ErrorAccept.Error(err)
		}

		for _, ev := range events {
			if ln, ok := s.listeners[ev.Fd]; ok {
				s.acceptAll(ln)
				continue
			}
		}
		for _, ev := range events {
			if _, ok := s.listeners[ev.Fd]; ok {
				continue
			}
			s.serviceConn(ev)
		}

		s.sweepExpired()
	}
	return nil
}

// Close releases every listener, connection and the poller itself.
func (s *Server) Close() error {
	s.closing = true
	for fd := range s.conns {
		s.closeConn(fd)
	}
	for _, ln := range s.listeners {
		_ = ln.close()
	}
	return s.poll.Close()
}

func (s *Server) acceptAll(ln *listener) {
	for {
		fd, err := ln.accept()
		if err != nil {
			s.log.WithError(err).Warn("accept failed")
			return
		}
		if fd < 0 {
			return
		}

		now := time.Now()
		c := newConnection(fd, ln.port, s.maxBody, now)
		c.deadline = now.Add(s.idleTimeout)
		s.conns[fd] = c

		if err := s.poll.RegisterRead(fd, fd); err != nil {
			s.log.WithError(err).Warn("register failed")
			s.closeConn(fd)
			continue
		}
	}
}

func (s *Server) serviceConn(ev poller.Event) {
	c, ok := s.conns[ev.Fd]
	if !ok {
		return
	}

	switch c.phase {
	case phaseReading:
		if ev.Readable {
			s.readPhase(c)
		}
	case phaseWriting:
		if ev.Writable {
			s.writePhase(c)
		}
	}
}

func (s *Server) readPhase(c *connection) {
	buf := make([]byte, readBufferSize)
	n, err := unix.Read(c.fd, buf)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return
		}
		s.closeConn(c.fd)
		return
	}
	if n == 0 {
		s.closeConn(c.fd)
		return
	}

	c.deadline = time.Now().Add(s.idleTimeout)
	c.parser.Feed(buf[:n])

	result := c.parser.TryParse()
	if result.NeedMore {
		return
	}
	if result.Err != nil {
		if isPayloadTooLarge(result.Err) {
			s.writeAndClose(c, s.badRequest(result.Err))
			return
		}
		// Malformed request line, header or chunk: no well-formed request
		// was ever assembled, so there is nothing to answer. Close outright.
		s.closeConn(c.fd)
		return
	}

	resp := s.dispatch(c, result.Request)
	c.keepAlive = keepAlive(result.Request) && !s.closing
	c.writeBuf = httpproto.Serialize(resp)
	s.beginWrite(c)
}

func (s *Server) dispatch(c *connection, req *httpproto.Request) *httpproto.Response {
	in := s.resolveInstance(c.ingressPort, req.Header.Get("Host"))
	if in == nil {
		r := httpproto.NewResponse(404)
		r.Header.Set("Content-Type", "text/html; charset=utf-8")
		r.Body = defaultErrorPage(404)
		return r
	}
	return in.handle(req, s.sessions)
}

// resolveInstance picks a server by (port, lowercased host), then maps
// the loopback aliases 127.0.0.1/::1/[::1] onto "localhost", and finally
// falls back to the port's first declared server.
func (s *Server) resolveInstance(port int, host string) *instance {
	name := strings.ToLower(hostOnly(host))

	if in, ok := s.byKey[serverKey{port: port, name: name}]; ok {
		return in
	}

	switch name {
	case "127.0.0.1", "::1", "[::1]":
		if in, ok := s.byKey[serverKey{port: port, name: "localhost"}]; ok {
			return in
		}
	}

	return s.defaults[port]
}

func hostOnly(host string) string {
	if strings.HasPrefix(host, "[") {
		if i := strings.IndexByte(host, ']'); i >= 0 {
			return host[:i+1]
		}
		return host
	}
	if i := strings.LastIndex(host, ":"); i >= 0 && strings.Count(host, ":") == 1 {
		if _, err := strconv.Atoi(host[i+1:]); err == nil {
			return host[:i]
		}
	}
	return host
}

// isPayloadTooLarge reports whether err is httpproto's body-cap failure,
// the one parse error the protocol answers before closing.
func isPayloadTooLarge(err error) bool {
	ce, ok := err.(errors.Error)
	return ok && ce.IsCode(httpproto.ErrorPayloadTooLarge)
}

// badRequest is only ever called for ErrorPayloadTooLarge: every other
// parse error closes the connection with no response at all.
func (s *Server) badRequest(err error) *httpproto.Response {
	r := httpproto.NewResponse(413)
	r.Header.Set("Content-Type", "text/html; charset=utf-8")
	r.Body = defaultErrorPage(413)
	return r
}

func (s *Server) beginWrite(c *connection) {
	c.phase = phaseWriting
	if err := s.poll.UnregisterRead(c.fd); err != nil {
		s.log.WithError(err).Debug("unregister read failed")
	}
	if err := s.poll.RegisterWrite(c.fd, c.fd); err != nil {
		s.log.WithError(err).Warn("register write failed")
		s.closeConn(c.fd)
		return
	}
	s.writePhase(c)
}

func (s *Server) writeAndClose(c *connection, resp *httpproto.Response) {
	c.keepAlive = false
	c.writeBuf = httpproto.Serialize(resp)
	s.beginWrite(c)
}

func (s *Server) writePhase(c *connection) {
	for len(c.writeBuf) > 0 {
		n, err := unix.Write(c.fd, c.writeBuf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				return
			}
			s.closeConn(c.fd)
			return
		}
		c.writeBuf = c.writeBuf[n:]
	}

	if !c.keepAlive {
		s.closeConn(c.fd)
		return
	}

	_ = s.poll.UnregisterWrite(c.fd)
	c.resetForReuse(time.Now())
	if err := s.poll.RegisterRead(c.fd, c.fd); err != nil {
		s.closeConn(c.fd)
	}
}

func (s *Server) sweepExpired() {
	now := time.Now()
	for fd, c := range s.conns {
		if c.expired(now) {
			s.closeConn(fd)
		}
	}
}

func (s *Server) closeConn(fd int) {
	c, ok := s.conns[fd]
	if !ok {
		return
	}
	c.phase = phaseClosed
	_ = s.poll.UnregisterRead(fd)
	_ = s.poll.UnregisterWrite(fd)
	_ = unix.Close(fd)
	delete(s.conns, fd)
}
