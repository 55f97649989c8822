/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package httpserver

import "github.com/nabbar/localhost/errors"

const (
	ErrorNoInstance errors.CodeError = iota + errors.MinPkgHttpServer
	ErrorListen
	ErrorAccept
	ErrorPollerRegister
	ErrorRead
	ErrorWrite
	ErrorDispatch
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorNoInstance)
	errors.RegisterIdFctMessage(ErrorNoInstance, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UnknownError:
		return ""
	case ErrorNoInstance:
		return "no server instance could be built from the configuration"
	case ErrorListen:
		return "could not bind a listening socket"
	case ErrorAccept:
		return "accept failed on a listening socket"
	case ErrorPollerRegister:
		return "could not register a file descriptor with the readiness poller"
	case ErrorRead:
		return "read failed on a client connection"
	case ErrorWrite:
		return "write failed on a client connection"
	case ErrorDispatch:
		return "dispatch failed to resolve a server instance for the request"
	}

	return ""
}
