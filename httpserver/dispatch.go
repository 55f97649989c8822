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
	"fmt"
	"strconv"
	"strings"

	"github.com/nabbar/localhost/errors"
	"github.com/nabbar/localhost/handlers"
	"github.com/nabbar/localhost/httpproto"
	"github.com/nabbar/localhost/router"
	"github.com/nabbar/localhost/session"
)

// handle resolves in's route for req and invokes the matching handler,
// falling back to the instance's error pages on any failure.
func (in *instance) handle(req *httpproto.Request, sessions *session.Store) *httpproto.Response {
	decision, err := in.router.Match(req.Path, string(req.Method))
	if err != nil {
		return in.errorResponse(statusOf(err, 404))
	}

	resp, err := in.invoke(decision, req)
	if err != nil {
		return in.errorResponse(statusOf(err, 500))
	}

	in.injectSession(resp, req, sessions)
	return resp
}

func (in *instance) invoke(d router.Decision, req *httpproto.Request) (*httpproto.Response, error) {
	switch d.Kind {
	case router.KindCGI:
		return in.cgi.Execute(d.ResolvedPath, d.Interpreter, req)
	case router.KindDelete:
		return handlers.Delete(d.ResolvedPath)
	case router.KindUpload:
		return handlers.Upload(req, d.Route.UploadDir)
	case router.KindDirectoryListing:
		return handlers.DirectoryListing(d.ResolvedPath, req.Path)
	case router.KindDefaultFile:
		return handlers.DefaultFile(d.ResolvedPath, d.Route.DefaultFile)
	case router.KindStatic:
		return handlers.Static(d.ResolvedPath)
	case router.KindRedirect:
		status := 301
		if d.Route.RedirectType == "302" {
			status = 302
		}
		return handlers.Redirect(status, d.Route.Redirect, req.Path), nil
	case router.KindForbidden:
		return nil, statusOnlyErr(403)
	default:
		return nil, statusOnlyErr(500)
	}
}

// errorResponse renders status through the instance's error-page lookup.
func (in *instance) errorResponse(status int) *httpproto.Response {
	r := httpproto.NewResponse(status)
	r.Header.Set("Content-Type", "text/html; charset=utf-8")
	r.Body = in.errorPage(status)
	return r
}

// injectSession sets the session cookie on resp, minting a new session id
// when req carried none or an expired one.
func (in *instance) injectSession(resp *httpproto.Response, req *httpproto.Request, sessions *session.Store) {
	if sessions == nil {
		return
	}

	incoming := req.Cookies[session.CookieName]
	sess, err := sessions.Touch(incoming)
	if err != nil {
		return
	}
	if sess.ID != incoming {
		maxAge := int(sessions.Timeout().Seconds())
		resp.Header.Add("Set-Cookie", fmt.Sprintf("%s=%s; Path=/; HttpOnly; Max-Age=%d", session.CookieName, sess.ID, maxAge))
	}
}

// keepAlive decides persistence per the request's Connection header,
// defaulting to true for HTTP/1.1 and false for HTTP/1.0.
func keepAlive(req *httpproto.Request) bool {
	conn := strings.ToLower(req.Header.Get("Connection"))
	switch conn {
	case "close":
		return false
	case "keep-alive":
		return true
	}
	return req.Version == "1.1" || req.Version == "HTTP/1.1"
}

type plainStatusError struct {
	status int
}

func (e *plainStatusError) Error() string { return "status " + strconv.Itoa(e.status) }

func statusOnlyErr(status int) error {
	return &plainStatusError{status: status}
}

// statusOf extracts the HTTP status an error carries, falling back to
// def when none is attached.
func statusOf(err error, def int) int {
	switch e := err.(type) {
	case *handlers.StatusError:
		return e.Status
	case *plainStatusError:
		return e.status
	}

	if ce, ok := err.(errors.Error); ok {
		switch {
		case ce.IsCode(router.ErrorNoRoute):
			return 404
		case ce.IsCode(router.ErrorMethodNotAllowed):
			return 405
		case ce.IsCode(router.ErrorPathEscapesRoot):
			return 403
		}
	}
	return def
}
