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
	"bytes"
	"strconv"
	"strings"

	"github.com/nabbar/localhost/httpproto"
)

// parseOutput splits a CGI script's raw stdout into headers and body on
// the first blank line, then turns it into a Response. A Status header
// selects the status code (numeric prefix, reason phrase ignored); its
// absence defaults to 200.
func parseOutput(raw []byte) (*httpproto.Response, error) {
	sep := []byte("\r\n\r\n")
	idx := bytes.Index(raw, sep)
	sepLen := len(sep)
	if idx < 0 {
		sep = []byte("\n\n")
		sepLen = len(sep)
		idx = bytes.Index(raw, sep)
	}
	if idx < 0 {
		return nil, ErrorMalformedOutput.Error(nil)
	}

	headerBlock := string(raw[:idx])
	body := raw[idx+sepLen:]

	h := httpproto.NewHeader()
	status := 200

	for _, line := range strings.Split(strings.ReplaceAll(headerBlock, "\r\n", "\n"), "\n") {
		if line == "" {
			continue
		}
		i := strings.IndexByte(line, ':')
		if i <= 0 {
			continue
		}
		name := strings.TrimSpace(line[:i])
		value := strings.TrimSpace(line[i+1:])

		if strings.EqualFold(name, "Status") {
			code, err := parseStatusHeader(value)
			if err != nil {
				return nil, err
			}
			status = code
			continue
		}
		h.Add(name, value)
	}

	resp := &httpproto.Response{Status: status, Header: h, Body: body}
	return resp, nil
}

func parseStatusHeader(value string) (int, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return 0, ErrorBadStatusHeader.Error(nil)
	}
	code, err := strconv.Atoi(fields[0])
	if err != nil || code < 100 || code > 599 {
		return 0, ErrorBadStatusHeader.Error(err)
	}
	return code, nil
}
