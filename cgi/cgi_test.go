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

package cgi_test

import (
	"os"
	"path/filepath"
	"runtime"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/localhost/cgi"
	"github.com/nabbar/localhost/httpproto"
)

func writeScript(dir, name, body string) string {
	p := filepath.Join(dir, name)
	Expect(os.WriteFile(p, []byte(body), 0o755)).To(Succeed())
	return p
}

var _ = Describe("Executor", func() {
	BeforeEach(func() {
		if runtime.GOOS == "windows" {
			Skip("cgi execution requires a posix shell")
		}
	})

	It("runs a script through an interpreter and parses its output", func() {
		dir := GinkgoT().TempDir()
		script := writeScript(dir, "hello.sh", "#!/bin/sh\n"+
			"printf 'Content-Type: text/plain\\r\\n\\r\\nhello from cgi'\n")

		req := &httpproto.Request{
			Method:  httpproto.MethodGet,
			Target:  "/cgi-bin/hello.sh",
			Path:    "/cgi-bin/hello.sh",
			Version: "1.1",
			Header:  httpproto.NewHeader(),
		}

		exec := cgi.NewExecutor("localhost", 8080)
		resp, err := exec.Execute(script, "/bin/sh", req)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.Status).To(Equal(200))
		Expect(resp.Header.Get("Content-Type")).To(Equal("text/plain"))
		Expect(string(resp.Body)).To(Equal("hello from cgi"))
	})

	It("honors a Status header from the script", func() {
		dir := GinkgoT().TempDir()
		script := writeScript(dir, "notfound.sh", "#!/bin/sh\n"+
			"printf 'Status: 404 Not Found\\r\\nContent-Type: text/plain\\r\\n\\r\\nnope'\n")

		req := &httpproto.Request{Method: httpproto.MethodGet, Version: "1.1", Header: httpproto.NewHeader()}

		exec := cgi.NewExecutor("localhost", 8080)
		resp, err := exec.Execute(script, "/bin/sh", req)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.Status).To(Equal(404))
	})

	It("feeds the request body to the script's stdin", func() {
		dir := GinkgoT().TempDir()
		script := writeScript(dir, "echo.sh", "#!/bin/sh\n"+
			"body=$(cat)\n"+
			"printf 'Content-Type: text/plain\\r\\n\\r\\necho:%s' \"$body\"\n")

		req := &httpproto.Request{
			Method:  httpproto.MethodPost,
			Version: "1.1",
			Header:  httpproto.NewHeader(),
			Body:    []byte("ping"),
		}

		exec := cgi.NewExecutor("localhost", 8080)
		resp, err := exec.Execute(script, "/bin/sh", req)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(resp.Body)).To(Equal("echo:ping"))
	})

	It("surfaces a non-zero exit as an error", func() {
		dir := GinkgoT().TempDir()
		script := writeScript(dir, "fail.sh", "#!/bin/sh\necho broke >&2\nexit 1\n")

		req := &httpproto.Request{Method: httpproto.MethodGet, Version: "1.1", Header: httpproto.NewHeader()}

		exec := cgi.NewExecutor("localhost", 8080)
		_, err := exec.Execute(script, "/bin/sh", req)
		Expect(err).To(HaveOccurred())
	})

	It("reports a missing script as an error", func() {
		req := &httpproto.Request{Method: httpproto.MethodGet, Version: "1.1", Header: httpproto.NewHeader()}
		exec := cgi.NewExecutor("localhost", 8080)
		_, err := exec.Execute(filepath.Join(GinkgoT().TempDir(), "missing.sh"), "/bin/sh", req)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("BuildEnv", func() {
	It("exposes request fields and headers as CGI variables", func() {
		req := &httpproto.Request{
			Method:  httpproto.MethodGet,
			Target:  "/cgi-bin/x.py?a=1",
			Path:    "/cgi-bin/x.py",
			Query:   map[string][]string{"a": {"1"}},
			Version: "1.1",
			Header:  httpproto.NewHeader(),
		}
		req.Header.Set("User-Agent", "test-agent")

		env := cgi.BuildEnv(req, "/var/www/cgi-bin/x.py", "localhost", 8080)

		Expect(env).To(ContainElement("REQUEST_METHOD=GET"))
		Expect(env).To(ContainElement("SERVER_NAME=localhost"))
		Expect(env).To(ContainElement("SERVER_PORT=8080"))
		Expect(env).To(ContainElement("HTTP_USER_AGENT=test-agent"))
		Expect(env).To(ContainElement("QUERY_STRING=a=1"))
	})
})
