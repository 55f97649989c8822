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

import (
	"fmt"
	"html"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/nabbar/localhost/httpproto"
)

// DirectoryListing renders an HTML page listing dir's entries, directories
// first then files, lexicographic within each group. requestPath is the
// path as seen by the client, used to build entry links and the "../"
// link. Entry names are both URL-encoded (for the href) and HTML-escaped
// (for the visible text), fixing the source's unescaped-name rendering.
func DirectoryListing(dir, requestPath string) (*httpproto.Response, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, statusErr(500, ErrorReadFile.Error(err))
	}

	var dirs, files []os.DirEntry
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e)
		} else {
			files = append(files, e)
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name() < dirs[j].Name() })
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><title>Index of ")
	b.WriteString(html.EscapeString(requestPath))
	b.WriteString("</title></head><body>\n<h1>Index of ")
	b.WriteString(html.EscapeString(requestPath))
	b.WriteString("</h1>\n<ul>\n")

	if requestPath != "/" && requestPath != "" {
		b.WriteString(`<li><a href="../">../</a></li>` + "\n")
	}

	for _, e := range dirs {
		writeEntry(&b, e.Name()+"/", e.Name()+"/", "-")
	}
	for _, e := range files {
		size := "-"
		if info, err := e.Info(); err == nil {
			size = fmt.Sprintf("%d", info.Size())
		}
		writeEntry(&b, e.Name(), e.Name(), size)
	}

	b.WriteString("</ul>\n</body></html>\n")

	r := httpproto.NewResponse(200)
	r.Header.Set("Content-Type", "text/html")
	r.Body = []byte(b.String())
	return r, nil
}

func writeEntry(b *strings.Builder, href, label, size string) {
	b.WriteString(`<li><a href="`)
	b.WriteString(url.PathEscape(href))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(label))
	b.WriteString(`</a> (`)
	b.WriteString(size)
	b.WriteString(")</li>\n")
}
