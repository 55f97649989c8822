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

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nabbar/localhost/httpproto"
)

const softwareID = "localhost/1.0"

// BuildEnv constructs the RFC 3875 environment for running scriptPath
// against req. scriptPath should already be resolved to an existing file;
// SCRIPT_FILENAME is its canonicalized absolute form when available, the
// given path otherwise.
func BuildEnv(req *httpproto.Request, scriptPath, serverName string, serverPort int) []string {
	env := map[string]string{
		"REQUEST_METHOD":   string(req.Method),
		"REQUEST_URI":      req.Target,
		"SCRIPT_NAME":      req.Path,
		"QUERY_STRING":     encodeQuery(req.Query),
		"PATH_INFO":        "",
		"PATH_TRANSLATED":  "",
		"SERVER_NAME":      serverName,
		"SERVER_PORT":      strconv.Itoa(serverPort),
		"SERVER_PROTOCOL":  "HTTP/" + strings.TrimPrefix(req.Version, "HTTP/"),
		"SERVER_SOFTWARE":  softwareID,
		"GATEWAY_INTERFACE": "CGI/1.1",
		"REMOTE_ADDR":      "127.0.0.1",
		"REMOTE_HOST":      "",
		"DOCUMENT_ROOT":    "",
		"CONTENT_LENGTH":   strconv.Itoa(len(req.Body)),
	}

	if ct := req.Header.Get("Content-Type"); ct != "" {
		env["CONTENT_TYPE"] = ct
	}

	if abs, err := filepath.Abs(scriptPath); err == nil {
		if real, err := filepath.EvalSymlinks(abs); err == nil {
			abs = real
		}
		env["SCRIPT_FILENAME"] = abs
	} else {
		env["SCRIPT_FILENAME"] = scriptPath
	}

	req.Header.Range(func(name, value string) {
		key := "HTTP_" + strings.ReplaceAll(strings.ToUpper(name), "-", "_")
		if _, ok := env[key]; !ok {
			env[key] = value
		}
	})

	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	return out
}

func encodeQuery(q map[string][]string) string {
	if len(q) == 0 {
		return ""
	}
	var b strings.Builder
	first := true
	for k, values := range q {
		for _, v := range values {
			if !first {
				b.WriteByte('&')
			}
			first = false
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	return b.String()
}
