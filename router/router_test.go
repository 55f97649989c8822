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

package router_test

import (
	"os"
	"path/filepath"

	"github.com/nabbar/localhost/config"
	"github.com/nabbar/localhost/router"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Router", func() {
	var (
		root string
		srv  config.Server
	)

	BeforeEach(func() {
		root, _ = os.MkdirTemp("", "localhost-router-*")
		Expect(os.MkdirAll(filepath.Join(root, "static"), 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, "static", "test.txt"), []byte("Hello, World!"), 0o644)).To(Succeed())

		srv = config.Server{
			CanonicalRoot: root,
			Routes: map[string]config.Route{
				"/static": {
					Prefix:    "/static",
					Methods:   []string{"GET"},
					Directory: "static",
				},
				"/old": {
					Prefix:       "/old",
					Methods:      []string{"GET"},
					Redirect:     "/new",
					RedirectType: "301",
				},
				"/delete_me.txt": {
					Prefix:  "/delete_me.txt",
					Methods: []string{"DELETE"},
				},
			},
			CgiHandlers: map[string]string{".py": "/usr/bin/python3"},
		}
	})

	AfterEach(func() {
		_ = os.RemoveAll(root)
	})

	It("resolves a boundary-aligned prefix match under a directory route", func() {
		d, err := router.New(srv).Match("/static/test.txt", "GET")
		Expect(err).ToNot(HaveOccurred())
		Expect(d.Kind).To(Equal(router.KindStatic))
		Expect(d.ResolvedPath).To(Equal(filepath.Join(root, "static", "test.txt")))
	})

	It("returns NoRoute when nothing matches", func() {
		_, err := router.New(srv).Match("/nope", "GET")
		Expect(err).To(HaveOccurred())
	})

	It("returns MethodNotAllowed when the method is not listed", func() {
		_, err := router.New(srv).Match("/static/test.txt", "POST")
		Expect(err).To(HaveOccurred())
	})

	It("classifies a redirect route without resolving a path", func() {
		d, err := router.New(srv).Match("/old", "GET")
		Expect(err).ToNot(HaveOccurred())
		Expect(d.Kind).To(Equal(router.KindRedirect))
		Expect(d.Route.Redirect).To(Equal("/new"))
	})

	It("classifies DELETE on an exact route", func() {
		d, err := router.New(srv).Match("/delete_me.txt", "DELETE")
		Expect(err).ToNot(HaveOccurred())
		Expect(d.Kind).To(Equal(router.KindDelete))
	})

	It("confines a traversal attempt under a directory route to the root", func() {
		d, err := router.New(srv).Match("/static/../../../etc/passwd", "GET")
		// sanitizeRelative runs path.Clean on the rest of the path, which
		// drops the leading ".." segments, and strips any ".." segment left,
		// so this must resolve inside root or fail outright.
		if err == nil {
			Expect(d.ResolvedPath).To(HavePrefix(root))
		}
	})

	It("classifies a cgi extension via the server's handler map", func() {
		srv.Routes["/cgi_test.py"] = config.Route{Prefix: "/cgi_test.py", Methods: []string{"GET", "POST"}}
		Expect(os.WriteFile(filepath.Join(root, "cgi_test.py"), []byte("#"), 0o755)).To(Succeed())

		d, err := router.New(srv).Match("/cgi_test.py", "GET")
		Expect(err).ToNot(HaveOccurred())
		Expect(d.Kind).To(Equal(router.KindCGI))
		Expect(d.Interpreter).To(Equal("/usr/bin/python3"))
	})
})
