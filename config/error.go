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

package config

import (
	"github.com/nabbar/localhost/errors"
)

const (
	ErrorFileRead errors.CodeError = iota + errors.MinPkgConfig
	ErrorFileParse
	ErrorValidation
	ErrorNoServers
	ErrorRouteTargets
	ErrorPortSharing
	ErrorRootNotDir
)

func init() {
	errors.RegisterIdFctMessage(ErrorFileRead, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorFileRead:
		return "could not read configuration file"
	case ErrorFileParse:
		return "could not parse configuration file as toml"
	case ErrorValidation:
		return "configuration failed struct validation"
	case ErrorNoServers:
		return "no server definition survived validation"
	case ErrorRouteTargets:
		return "a route names more than one of filename, directory, redirect"
	case ErrorPortSharing:
		return "servers sharing a port disagree on bind address or reuse a server_name"
	case ErrorRootNotDir:
		return "server root does not exist or is not a directory"
	}
	return ""
}
