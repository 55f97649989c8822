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

package handlers_test

import (
	stderrors "errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/localhost/handlers"
	"github.com/nabbar/localhost/httpproto"
)

func errorsAs(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

var _ = Describe("Static", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello"), 0o644)).To(Succeed())
	})

	It("serves an existing file with a mime type from its extension", func() {
		resp, err := handlers.Static(filepath.Join(dir, "hello.txt"))
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.Status).To(Equal(200))
		Expect(resp.Header.Get("Content-Type")).To(Equal("text/plain"))
		Expect(resp.Body).To(Equal([]byte("hello")))
	})

	It("surfaces a missing file as a 404 StatusError", func() {
		_, err := handlers.Static(filepath.Join(dir, "missing.txt"))
		Expect(err).To(HaveOccurred())
		var se *handlers.StatusError
		Expect(errorsAs(err, &se)).To(BeTrue())
		Expect(se.Status).To(Equal(404))
	})

	It("joins dir and name for DefaultFile", func() {
		resp, err := handlers.DefaultFile(dir, "hello.txt")
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.Body).To(Equal([]byte("hello")))
	})
})

var _ = Describe("DirectoryListing", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		Expect(os.Mkdir(filepath.Join(dir, "sub"), 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dir, "b.txt"), []byte("xy"), 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dir, "a.txt"), []byte("z"), 0o644)).To(Succeed())
	})

	It("lists directories before files, each lexicographically, with a parent link", func() {
		resp, err := handlers.DirectoryListing(dir, "/static/")
		Expect(err).ToNot(HaveOccurred())
		body := string(resp.Body)

		subIdx := indexOf(body, "sub/")
		aIdx := indexOf(body, "a.txt")
		bIdx := indexOf(body, "b.txt")
		Expect(subIdx).To(BeNumerically(">=", 0))
		Expect(subIdx).To(BeNumerically("<", aIdx))
		Expect(aIdx).To(BeNumerically("<", bIdx))
		Expect(body).To(ContainSubstring(`href="../"`))
	})

	It("omits the parent link at the root path", func() {
		resp, err := handlers.DirectoryListing(dir, "/")
		Expect(err).ToNot(HaveOccurred())
		Expect(string(resp.Body)).ToNot(ContainSubstring(`href="../"`))
	})
})

var _ = Describe("Delete", func() {
	It("removes an existing file and returns 200 with a confirmation body", func() {
		dir := GinkgoT().TempDir()
		p := filepath.Join(dir, "gone.txt")
		Expect(os.WriteFile(p, []byte("x"), 0o644)).To(Succeed())

		resp, err := handlers.Delete(p)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.Status).To(Equal(200))
		Expect(string(resp.Body)).To(Equal("File deleted successfully"))
		_, statErr := os.Stat(p)
		Expect(os.IsNotExist(statErr)).To(BeTrue())
	})

	It("reports a missing file as 404", func() {
		dir := GinkgoT().TempDir()
		_, err := handlers.Delete(filepath.Join(dir, "missing.txt"))
		Expect(err).To(HaveOccurred())
		var se *handlers.StatusError
		Expect(errorsAs(err, &se)).To(BeTrue())
		Expect(se.Status).To(Equal(404))
	})

	It("reports a directory target as 403 and leaves it in place", func() {
		dir := GinkgoT().TempDir()
		sub := filepath.Join(dir, "subdir")
		Expect(os.Mkdir(sub, 0o755)).To(Succeed())

		_, err := handlers.Delete(sub)
		Expect(err).To(HaveOccurred())
		var se *handlers.StatusError
		Expect(errorsAs(err, &se)).To(BeTrue())
		Expect(se.Status).To(Equal(403))

		info, statErr := os.Stat(sub)
		Expect(statErr).ToNot(HaveOccurred())
		Expect(info.IsDir()).To(BeTrue())
	})
})

var _ = Describe("Redirect", func() {
	It("uses an absolute target as-is", func() {
		resp := handlers.Redirect(301, "/new", "/old")
		Expect(resp.Status).To(Equal(301))
		Expect(resp.Header.Get("Location")).To(Equal("/new"))
	})

	It("resolves a relative target against the request path's directory", func() {
		resp := handlers.Redirect(302, "new.html", "/dir/old.html")
		Expect(resp.Header.Get("Location")).To(Equal("/dir/new.html"))
	})

	It("passes through a target carrying a scheme", func() {
		resp := handlers.Redirect(302, "https://example.com/x", "/old")
		Expect(resp.Header.Get("Location")).To(Equal("https://example.com/x"))
	})
})

var _ = Describe("Upload", func() {
	It("stores a multipart file under its given filename and mime type", func() {
		dir := GinkgoT().TempDir()
		boundary := "XYZ"
		body := "--" + boundary + "\r\n" +
			`Content-Disposition: form-data; name="file"; filename="note.txt"` + "\r\n" +
			"Content-Type: text/plain\r\n\r\n" +
			"hello upload\r\n" +
			"--" + boundary + "--\r\n"

		req := &httpproto.Request{Header: httpproto.NewHeader(), Body: []byte(body)}
		req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)

		resp, err := handlers.Upload(req, dir)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.Status).To(Equal(201))

		stored, statErr := os.ReadFile(filepath.Join(dir, "note.txt"))
		Expect(statErr).ToNot(HaveOccurred())
		Expect(string(stored)).To(Equal("hello upload"))
	})

	It("disambiguates a colliding filename with a numeric suffix", func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "note.txt"), []byte("old"), 0o644)).To(Succeed())

		boundary := "XYZ"
		body := "--" + boundary + "\r\n" +
			`Content-Disposition: form-data; name="file"; filename="note.txt"` + "\r\n" +
			"Content-Type: text/plain\r\n\r\n" +
			"new content\r\n" +
			"--" + boundary + "--\r\n"

		req := &httpproto.Request{Header: httpproto.NewHeader(), Body: []byte(body)}
		req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)

		resp, err := handlers.Upload(req, dir)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.Status).To(Equal(201))

		_, statErr := os.Stat(filepath.Join(dir, "note_1.txt"))
		Expect(statErr).ToNot(HaveOccurred())
	})

	It("rejects a mime type outside the allow-list", func() {
		dir := GinkgoT().TempDir()
		req := &httpproto.Request{Header: httpproto.NewHeader(), Body: []byte("#!/bin/sh\n")}
		req.Header.Set("Content-Type", "application/x-sh")
		req.Header.Set("Content-Disposition", `attachment; filename="script.sh"`)

		_, err := handlers.Upload(req, dir)
		Expect(err).To(HaveOccurred())
		var se *handlers.StatusError
		Expect(errorsAs(err, &se)).To(BeTrue())
		Expect(se.Status).To(Equal(400))
	})

	It("creates the upload directory when it does not yet exist", func() {
		dir := filepath.Join(GinkgoT().TempDir(), "nested", "uploads")
		req := &httpproto.Request{Header: httpproto.NewHeader(), Body: []byte("plain body")}
		req.Header.Set("Content-Type", "text/plain")
		req.Header.Set("Content-Disposition", `attachment; filename="plain.txt"`)

		resp, err := handlers.Upload(req, dir)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.Status).To(Equal(201))

		stored, statErr := os.ReadFile(filepath.Join(dir, "plain.txt"))
		Expect(statErr).ToNot(HaveOccurred())
		Expect(string(stored)).To(Equal("plain body"))
	})

	It("falls back to the raw body and Content-Disposition when not multipart", func() {
		dir := GinkgoT().TempDir()
		req := &httpproto.Request{Header: httpproto.NewHeader(), Body: []byte("plain body")}
		req.Header.Set("Content-Type", "text/plain")
		req.Header.Set("Content-Disposition", `attachment; filename="plain.txt"`)

		resp, err := handlers.Upload(req, dir)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.Status).To(Equal(201))

		stored, statErr := os.ReadFile(filepath.Join(dir, "plain.txt"))
		Expect(statErr).ToNot(HaveOccurred())
		Expect(string(stored)).To(Equal("plain body"))
	})
})

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
