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
	"strings"

	"github.com/nabbar/localhost/httpproto"
)

// Redirect builds a bare-body response pointing Location at target, using
// status (301 or 302). A target starting with "/" or containing "://" is
// used as-is; anything else is resolved relative to requestPath's
// directory.
func Redirect(status int, target, requestPath string) *httpproto.Response {
	loc := target
	if !strings.HasPrefix(target, "/") && !strings.Contains(target, "://") {
		dir := requestPath
		if i := strings.LastIndexByte(requestPath, '/'); i >= 0 {
			dir = requestPath[:i+1]
		}
		loc = dir + target
	}

	r := httpproto.NewResponse(status)
	r.Header.Set("Location", loc)
	return r
}
