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

package handlers

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nabbar/localhost/httpproto"
)

// uploadResult is the JSON body returned on a successful upload.
type uploadResult struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
}

// Upload writes the request's body to dir, picking the filename and mime
// type from a multipart/form-data payload when the Content-Type header
// carries a boundary, or else from Content-Disposition/Content-Type on
// the request itself. A filename already present in dir is disambiguated
// by inserting a "_N" suffix before the extension. The response body is
// a JSON object describing the stored file.
func Upload(req *httpproto.Request, dir string) (*httpproto.Response, error) {
	filename, mime, content, err := extractUpload(req)
	if err != nil {
		return nil, err
	}
	if filename == "" {
		return nil, statusErr(400, ErrorNoFilename.Error(nil))
	}
	if !mimeAllowed(mime) {
		return nil, statusErr(400, ErrorMimeRejected.Error(nil))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, statusErr(500, ErrorWriteFile.Error(err))
	}

	filename = filepath.Base(filename)
	dest := uniquePath(dir, filename)

	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return nil, statusErr(500, ErrorWriteFile.Error(err))
	}

	body, _ := json.Marshal(uploadResult{
		Status:   "ok",
		Message:  "file stored",
		Filename: filepath.Base(dest),
		MimeType: mime,
	})

	r := httpproto.NewResponse(201)
	r.Header.Set("Content-Type", "application/json")
	r.Body = body
	return r, nil
}

func extractUpload(req *httpproto.Request) (filename, mime string, content []byte, err error) {
	ct := req.Header.Get("Content-Type")
	if boundary, ok := httpproto.ParseBoundary(ct); ok {
		parts := httpproto.SplitParts(req.Body, boundary)
		for _, p := range parts {
			if p.Filename == "" {
				continue
			}
			m := p.Header.Get("Content-Type")
			if m == "" {
				m = mimeFromExt(p.Filename)
			}
			return p.Filename, m, p.Content, nil
		}
		return "", "", nil, statusErr(400, ErrorNoFilename.Error(nil))
	}

	filename = filenameFromDisposition(req.Header.Get("Content-Disposition"))
	mime = ct
	if mime == "" {
		mime = mimeFromExt(filename)
	}
	return filename, mime, req.Body, nil
}

func filenameFromDisposition(v string) string {
	for _, part := range strings.Split(v, ";") {
		part = strings.TrimSpace(part)
		if !strings.HasPrefix(part, "filename=") {
			continue
		}
		name := strings.TrimPrefix(part, "filename=")
		name = strings.Trim(name, `"`)
		return name
	}
	return ""
}

// uniquePath returns a path under dir for name that does not yet exist,
// inserting "_N" before the extension on collision.
func uniquePath(dir, name string) string {
	candidate := filepath.Join(dir, name)
	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return candidate
	}

	ext := extOf(name)
	base := strings.TrimSuffix(name, ext)
	for n := 1; ; n++ {
		candidate = filepath.Join(dir, base+"_"+strconv.Itoa(n)+ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
