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
	"os"
	"path/filepath"
	"time"

	"github.com/nabbar/localhost/config"
	"github.com/nabbar/localhost/httpproto"
	"github.com/nabbar/localhost/session"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func newTestRequest(method, path string) *httpproto.Request {
	return &httpproto.Request{
		Method:  httpproto.Method(method),
		Target:  path,
		Path:    path,
		Query:   map[string][]string{},
		Version: "HTTP/1.1",
		Header:  httpproto.NewHeader(),
		Cookies: map[string]string{},
	}
}

var _ = Describe("instance.handle", func() {
	var (
		root string
		in   *instance
	)

	BeforeEach(func() {
		root, _ = os.MkdirTemp("", "localhost-httpserver-*")
		Expect(os.WriteFile(filepath.Join(root, "index.html"), []byte("hello"), 0o644)).To(Succeed())

		srv := config.Server{
			Name:          "example.test",
			CanonicalRoot: root,
			Routes: map[string]config.Route{
				"/": {
					Prefix:  "/",
					Methods: []string{"GET"},
				},
			},
		}
		in = newInstance(srv, 8080)
	})

	AfterEach(func() {
		_ = os.RemoveAll(root)
	})

	It("serves a matched static file with 200", func() {
		req := newTestRequest("GET", "/index.html")
		resp := in.handle(req, nil)
		Expect(resp.Status).To(Equal(200))
		Expect(resp.Body).To(Equal([]byte("hello")))
	})

	It("renders the built-in 404 page when the matched file does not exist", func() {
		req := newTestRequest("GET", "/nope.html")
		resp := in.handle(req, nil)
		Expect(resp.Status).To(Equal(404))
		Expect(string(resp.Body)).To(ContainSubstring("404"))
	})

	It("mints a session cookie on first contact", func() {
		store := session.New(30 * time.Minute)
		req := newTestRequest("GET", "/index.html")
		resp := in.handle(req, store)
		Expect(resp.Header.Get("Set-Cookie")).To(ContainSubstring(session.CookieName + "="))
		Expect(resp.Header.Get("Set-Cookie")).To(ContainSubstring("Max-Age=1800"))
	})

	It("does not re-set the cookie when the request already carries a live one", func() {
		store := session.New(30 * time.Minute)
		sess, err := store.Touch("")
		Expect(err).ToNot(HaveOccurred())

		req := newTestRequest("GET", "/index.html")
		req.Cookies[session.CookieName] = sess.ID

		resp := in.handle(req, store)
		Expect(resp.Header.Get("Set-Cookie")).To(Equal(""))
	})
})

var _ = Describe("keepAlive", func() {
	It("defaults to true for HTTP/1.1 with no Connection header", func() {
		req := newTestRequest("GET", "/")
		Expect(keepAlive(req)).To(BeTrue())
	})

	It("honors an explicit Connection: close", func() {
		req := newTestRequest("GET", "/")
		req.Header.Set("Connection", "close")
		Expect(keepAlive(req)).To(BeFalse())
	})
})

var _ = Describe("resolveInstance", func() {
	It("falls back to the port's default server when the host is unknown", func() {
		s := &Server{
			byKey:    map[serverKey]*instance{},
			defaults: map[int]*instance{8080: &instance{}},
		}
		Expect(s.resolveInstance(8080, "unknown.test")).To(Equal(s.defaults[8080]))
	})

	It("maps loopback host aliases onto the localhost virtual host", func() {
		want := &instance{}
		s := &Server{
			byKey:    map[serverKey]*instance{{port: 8080, name: "localhost"}: want},
			defaults: map[int]*instance{},
		}
		Expect(s.resolveInstance(8080, "127.0.0.1")).To(Equal(want))
	})
})
