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

	"github.com/nabbar/localhost/httpproto"
)

// Delete removes the file at path. A missing file is a 404, a directory
// or other non-regular file is a 403, a permission failure is a 403, any
// other failure is a 500. Success reports 200 with a plain-text body.
func Delete(path string) (*httpproto.Response, error) {
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return nil, statusErr(404, ErrorWriteFile.Error(err))
	case err != nil:
		return nil, statusErr(500, ErrorWriteFile.Error(err))
	case !info.Mode().IsRegular():
		return nil, statusErr(403, ErrorWriteFile.Error(nil))
	}

	if err := os.Remove(path); err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, statusErr(404, ErrorWriteFile.Error(err))
		case os.IsPermission(err):
			return nil, statusErr(403, ErrorWriteFile.Error(err))
		default:
			return nil, statusErr(500, ErrorWriteFile.Error(err))
		}
	}

	r := httpproto.NewResponse(200)
	r.Header.Set("Content-Type", "text/plain; charset=utf-8")
	r.Body = []byte("File deleted successfully")
	return r, nil
}
