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
	"fmt"
	"strconv"
	"time"
)

const ServerIdentifier = "localhost/1.0"

// Serialize renders a Response to wire bytes. A default Server and Date
// header are injected if the caller didn't set them. Bodies are dropped
// for statuses that must never carry one, and chunked framing and
// Content-Length are mutually exclusive.
func Serialize(r *Response) []byte {
	if !r.Header.Has("Server") {
		r.Header.Set("Server", ServerIdentifier)
	}
	if !r.Header.Has("Date") {
		r.Header.Set("Date", time.Now().UTC().Format(http11Date))
	}

	body := r.Body
	if SuppressesBody(r.Status) {
		body = nil
		r.Header.Del("Content-Length")
	}

	if r.Chunked {
		r.Header.Del("Content-Length")
		r.Header.Set("Transfer-Encoding", "chunked")
	} else if !SuppressesBody(r.Status) && !r.Header.Has("Content-Length") {
		r.Header.Set("Content-Length", strconv.Itoa(len(body)))
	}

	var out []byte
	out = append(out, []byte(fmt.Sprintf("HTTP/1.1 %d %s\r\n", r.Status, ReasonPhrase(r.Status)))...)

	r.Header.Range(func(name, value string) {
		out = append(out, []byte(name)...)
		out = append(out, ':', ' ')
		out = append(out, []byte(value)...)
		out = append(out, '\r', '\n')
	})
	out = append(out, '\r', '\n')

	if SuppressesBody(r.Status) {
		return out
	}

	if r.Chunked {
		out = append(out, chunkFrame(body)...)
	} else {
		out = append(out, body...)
	}

	return out
}

// http11Date is the IMF-fixdate layout required for the Date header.
const http11Date = "Mon, 02 Jan 2006 15:04:05 GMT"

func chunkFrame(body []byte) []byte {
	if len(body) == 0 {
		return []byte("0\r\n\r\n")
	}
	out := append([]byte(fmt.Sprintf("%x\r\n", len(body))), body...)
	out = append(out, '\r', '\n')
	out = append(out, '0', '\r', '\n', '\r', '\n')
	return out
}
