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

package router

import "github.com/nabbar/localhost/errors"

const (
	ErrorNoRoute errors.CodeError = iota + errors.MinPkgRouter
	ErrorMethodNotAllowed
	ErrorPathEscapesRoot
)

func init() {
	errors.RegisterIdFctMessage(ErrorNoRoute, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorNoRoute:
		return "no route matches the request path"
	case ErrorMethodNotAllowed:
		return "method not allowed on the matched route"
	case ErrorPathEscapesRoot:
		return "resolved path escapes the server root"
	}
	return ""
}
