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
	"os"
	"path/filepath"

	"github.com/nabbar/localhost/httpproto"
)

// Static reads path into memory and returns a 200 response with a
// Content-Type picked from the file's extension. A missing file surfaces
// as a 404 StatusError; any other read failure surfaces as 500.
func Static(path string) (*httpproto.Response, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, statusErr(404, ErrorReadFile.Error(err))
		}
		return nil, statusErr(500, ErrorReadFile.Error(err))
	}

	r := httpproto.NewResponse(200)
	r.Header.Set("Content-Type", mimeFromExt(path))
	r.Body = b
	return r, nil
}

// DefaultFile joins dir with name and serves it through Static.
func DefaultFile(dir, name string) (*httpproto.Response, error) {
	return Static(filepath.Join(dir, name))
}
