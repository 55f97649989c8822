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

import "strings"

var mimeByExt = map[string]string{
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".json": "application/json",
	".txt":  "text/plain",
	".xml":  "application/xml",
	".pdf":  "application/pdf",
	".zip":  "application/zip",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".mp4":  "video/mp4",
	".mp3":  "audio/mpeg",
}

const defaultMime = "application/octet-stream"

// mimeFromExt returns the MIME type for a filename's extension, falling
// back to application/octet-stream.
func mimeFromExt(name string) string {
	ext := strings.ToLower(extOf(name))
	if m, ok := mimeByExt[ext]; ok {
		return m
	}
	return defaultMime
}

func extOf(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return name[i:]
}

// uploadAllowList is the MIME types accepted by the Upload handler.
var uploadAllowList = map[string]bool{
	"text/html":               true,
	"text/css":                true,
	"application/javascript":  true,
	"application/json":        true,
	"text/plain":              true,
	"application/xml":         true,
	"application/pdf":         true,
	"application/zip":         true,
	"image/png":               true,
	"image/jpeg":              true,
	"image/gif":               true,
	"image/webp":              true,
	"image/svg+xml":           true,
	"image/x-icon":            true,
	"video/mp4":               true,
	"audio/mpeg":              true,
}

func mimeAllowed(mime string) bool {
	return uploadAllowList[mime]
}
