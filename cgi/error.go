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

package cgi

import "github.com/nabbar/localhost/errors"

const (
	ErrorScriptNotFound errors.CodeError = iota + errors.MinPkgCgi
	ErrorScriptNotFile
	ErrorSpawn
	ErrorWriteStdin
	ErrorReadStdout
	ErrorExitNonZero
	ErrorMalformedOutput
	ErrorBadStatusHeader
)

func init() {
	errors.RegisterIdFctMessage(ErrorScriptNotFound, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorScriptNotFound:
		return "cgi script not found"
	case ErrorScriptNotFile:
		return "cgi script path is not a regular file"
	case ErrorSpawn:
		return "could not spawn cgi process"
	case ErrorWriteStdin:
		return "could not write request body to cgi stdin"
	case ErrorReadStdout:
		return "could not read cgi stdout"
	case ErrorExitNonZero:
		return "cgi script exited with a non-zero status"
	case ErrorMalformedOutput:
		return "cgi output is missing the header/body separator"
	case ErrorBadStatusHeader:
		return "cgi output carries a malformed Status header"
	}
	return ""
}
