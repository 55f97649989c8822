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

import "github.com/nabbar/localhost/errors"

// StatusError carries an HTTP status alongside the underlying cause, so
// the engine can translate a handler failure into the right error page
// without re-deriving the status from the error text.
type StatusError struct {
	Status int
	Err    error
}

func (e *StatusError) Error() string {
	if e.Err == nil {
		return "status error"
	}
	return e.Err.Error()
}

func (e *StatusError) Unwrap() error { return e.Err }

func statusErr(status int, err error) error {
	return &StatusError{Status: status, Err: err}
}

const (
	ErrorReadFile errors.CodeError = iota + errors.MinPkgHandlers
	ErrorWriteFile
	ErrorMimeRejected
	ErrorNoFilename
)

func init() {
	errors.RegisterIdFctMessage(ErrorReadFile, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorReadFile:
		return "could not read file"
	case ErrorWriteFile:
		return "could not write uploaded file"
	case ErrorMimeRejected:
		return "mime type not in the upload allow-list"
	case ErrorNoFilename:
		return "no filename could be determined for the upload"
	}
	return ""
}
