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

package httpproto

import (
	"bytes"
	"strings"
)

// MultipartPart is one body part of a multipart/form-data payload.
type MultipartPart struct {
	Header   *Header
	Filename string
	Name     string
	Content  []byte
}

// ParseBoundary extracts the boundary parameter from a Content-Type value,
// e.g. `multipart/form-data; boundary=----xyz`.
func ParseBoundary(contentType string) (string, bool) {
	if !strings.HasPrefix(strings.ToLower(contentType), "multipart/form-data") {
		return "", false
	}
	for _, field := range strings.Split(contentType, ";") {
		field = strings.TrimSpace(field)
		if strings.HasPrefix(strings.ToLower(field), "boundary=") {
			v := field[len("boundary="):]
			v = strings.Trim(v, `"`)
			if v == "" {
				return "", false
			}
			return v, true
		}
	}
	return "", false
}

// SplitParts splits a multipart body on the given boundary and parses each
// part's headers and content. The terminal "--boundary--" delimiter ends
// the scan; preamble and epilogue bytes outside any delimiter are ignored.
func SplitParts(body []byte, boundary string) []MultipartPart {
	delim := []byte("--" + boundary)
	var out []MultipartPart

	segments := bytes.Split(body, delim)
	for _, seg := range segments {
		seg = bytes.TrimPrefix(seg, []byte("\r\n"))
		if len(seg) == 0 || bytes.HasPrefix(seg, []byte("--")) {
			continue
		}
		seg = bytes.TrimSuffix(seg, []byte("\r\n"))

		headerEnd := bytes.Index(seg, []byte("\r\n\r\n"))
		if headerEnd < 0 {
			continue
		}
		rawHeaders := seg[:headerEnd]
		content := seg[headerEnd+4:]

		h := newHeader()
		for _, line := range bytes.Split(rawHeaders, []byte("\r\n")) {
			s := string(line)
			i := strings.IndexByte(s, ':')
			if i <= 0 {
				continue
			}
			h.Add(s[:i], strings.TrimSpace(s[i+1:]))
		}

		name, filename := parseContentDisposition(h.Get("Content-Disposition"))

		out = append(out, MultipartPart{
			Header:   h,
			Name:     name,
			Filename: filename,
			Content:  content,
		})
	}

	return out
}

// parseContentDisposition extracts name="..." and filename="..." from a
// Content-Disposition value. Either may be absent.
func parseContentDisposition(value string) (name, filename string) {
	for _, field := range strings.Split(value, ";") {
		field = strings.TrimSpace(field)
		switch {
		case strings.HasPrefix(field, `name="`):
			name = strings.TrimSuffix(strings.TrimPrefix(field, `name="`), `"`)
		case strings.HasPrefix(field, `filename="`):
			filename = strings.TrimSuffix(strings.TrimPrefix(field, `filename="`), `"`)
		}
	}
	return
}
