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
	"os"
	"path/filepath"

	"github.com/nabbar/localhost/cgi"
	"github.com/nabbar/localhost/config"
	"github.com/nabbar/localhost/httpproto"
	"github.com/nabbar/localhost/router"
)

// instance pairs one validated server definition with the router and CGI
// executor built over it.
type instance struct {
	cfg    config.Server
	router *router.Router
	cgi    *cgi.Executor
}

func newInstance(cfg config.Server, port int) *instance {
	return &instance{
		cfg:    cfg,
		router: router.New(cfg),
		cgi:    cgi.NewExecutor(cfg.Name, port),
	}
}

// errorPage renders the instance's custom page for status if one is
// configured and readable, else a built-in HTML fallback.
func (in *instance) errorPage(status int) []byte {
	if page, ok := in.cfg.Errors[fmt.Sprintf("%d", status)]; ok {
		path := page.Filename
		if !filepath.IsAbs(path) {
			path = filepath.Join(in.cfg.CanonicalRoot, path)
		}
		if b, err := os.ReadFile(path); err == nil {
			return b
		}
	}
	return defaultErrorPage(status)
}

func defaultErrorPage(status int) []byte {
	reason := httpproto.ReasonPhrase(status)
	return []byte(fmt.Sprintf(
		"<!DOCTYPE html>\n<html><head><title>%d %s</title></head>"+
			"<body><h1>%d %s</h1></body></html>\n",
		status, reason, status, reason,
	))
}
