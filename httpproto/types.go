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

import "strings"

// Method enumerates the nine verbs the parser accepts.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodDelete  Method = "DELETE"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodConnect Method = "CONNECT"
	MethodTrace   Method = "TRACE"
)

func parseMethod(s string) (Method, bool) {
	switch Method(s) {
	case MethodGet, MethodPost, MethodDelete, MethodPut, MethodPatch,
		MethodHead, MethodOptions, MethodConnect, MethodTrace:
		return Method(s), true
	}
	return "", false
}

// HasRequestBody reports whether the method, by convention, carries a body
// when no framing header says otherwise.
func (m Method) HasRequestBody() bool {
	return m == MethodPost || m == MethodPut || m == MethodPatch
}

// Header is a case-insensitive multi-map preserving insertion order for
// duplicate names and the original casing of the first occurrence.
type Header struct {
	order []string
	names map[string]string
	vals  map[string][]string
}

func newHeader() *Header {
	return &Header{names: map[string]string{}, vals: map[string][]string{}}
}

// Add appends a value under name, preserving any prior values.
func (h *Header) Add(name, value string) {
	key := strings.ToLower(name)
	if _, ok := h.names[key]; !ok {
		h.names[key] = name
		h.order = append(h.order, key)
	}
	h.vals[key] = append(h.vals[key], value)
}

// Set replaces all values under name with a single value.
func (h *Header) Set(name, value string) {
	key := strings.ToLower(name)
	if _, ok := h.names[key]; !ok {
		h.order = append(h.order, key)
	}
	h.names[key] = name
	h.vals[key] = []string{value}
}

// Get returns the first value for name, or "".
func (h *Header) Get(name string) string {
	v := h.vals[strings.ToLower(name)]
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

// Values returns every value stored for name.
func (h *Header) Values(name string) []string {
	return h.vals[strings.ToLower(name)]
}

// Has reports whether name was set at least once.
func (h *Header) Has(name string) bool {
	_, ok := h.names[strings.ToLower(name)]
	return ok
}

// Del removes name entirely.
func (h *Header) Del(name string) {
	key := strings.ToLower(name)
	if _, ok := h.names[key]; !ok {
		return
	}
	delete(h.names, key)
	delete(h.vals, key)
	for i, k := range h.order {
		if k == key {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

// Range iterates names in first-insertion order, calling fn once per value.
func (h *Header) Range(fn func(name, value string)) {
	for _, key := range h.order {
		name := h.names[key]
		for _, v := range h.vals[key] {
			fn(name, v)
		}
	}
}

// Request is the fully-parsed inbound message.
type Request struct {
	Method  Method
	Target  string
	Path    string
	Query   map[string][]string
	Version string
	Header  *Header
	Body    []byte
	Cookies map[string]string
}

// Response is the outbound message the handler set and server engine build
// before handing it to the serializer.
type Response struct {
	Status  int
	Header  *Header
	Body    []byte
	Chunked bool
}

// NewResponse returns a Response with an initialized header map.
func NewResponse(status int) *Response {
	return &Response{Status: status, Header: newHeader()}
}

// NewHeader exposes the header constructor to callers outside the package
// that build a Request by hand (tests, CGI response parsing).
func NewHeader() *Header { return newHeader() }

var noBodyStatus = map[int]bool{
	204: true,
	304: true,
}

// SuppressesBody reports whether status must never carry a body,
// regardless of what the caller set.
func SuppressesBody(status int) bool {
	if status >= 100 && status < 200 {
		return true
	}
	return noBodyStatus[status]
}

// ReasonPhrase returns the standard reason phrase for a status code, or
// "Unknown" if unrecognized.
func ReasonPhrase(status int) string {
	switch status {
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 204:
		return "No Content"
	case 301:
		return "Moved Permanently"
	case 302:
		return "Found"
	case 304:
		return "Not Modified"
	case 400:
		return "Bad Request"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 411:
		return "Length Required"
	case 413:
		return "Payload Too Large"
	case 500:
		return "Internal Server Error"
	case 504:
		return "Gateway Timeout"
	}
	return "Unknown"
}
