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
	"strings"
)

// parseCookies is a best-effort parse of a Cookie header value: split on
// "; ", then each pair on the first "=". A bare token with no "=" is kept
// with an empty value. Malformed pairs are skipped, not fatal.
func parseCookies(header string) map[string]string {
	out := map[string]string{}
	if header == "" {
		return out
	}

	for _, pair := range strings.Split(header, "; ") {
		if pair == "" {
			continue
		}
		if i := strings.IndexByte(pair, '='); i >= 0 {
			name := strings.TrimSpace(pair[:i])
			if name == "" {
				continue
			}
			out[name] = pair[i+1:]
		} else {
			name := strings.TrimSpace(pair)
			if name == "" {
				continue
			}
			out[name] = ""
		}
	}
	return out
}

// SetCookieOptions controls the Set-Cookie line produced by FormatSetCookie.
type SetCookieOptions struct {
	Path     string
	MaxAge   int
	HttpOnly bool
}

// FormatSetCookie renders one Set-Cookie header value for name=value.
func FormatSetCookie(name, value string, opt SetCookieOptions) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('=')
	b.WriteString(value)

	if opt.Path != "" {
		b.WriteString("; Path=")
		b.WriteString(opt.Path)
	}
	if opt.MaxAge > 0 {
		b.WriteString(fmt.Sprintf("; Max-Age=%d", opt.MaxAge))
	}
	if opt.HttpOnly {
		b.WriteString("; HttpOnly")
	}
	return b.String()
}
