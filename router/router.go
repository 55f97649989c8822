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

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/nabbar/localhost/config"
)

// Kind classifies which handler should serve a matched, resolved request.
type Kind uint8

const (
	KindCGI Kind = iota
	KindDelete
	KindUpload
	KindDirectoryListing
	KindDefaultFile
	KindStatic
	KindRedirect
	KindForbidden
)

// Decision is the outcome of routing one request: the matched route, the
// resolved absolute filesystem path (when applicable) and the handler
// kind the server engine should invoke.
type Decision struct {
	Route        config.Route
	ResolvedPath string
	Kind         Kind
	Interpreter  string // set only for KindCGI, "" means "run the script directly"
}

// Router matches requests against one ServerInstance's route table.
type Router struct {
	server config.Server
}

// New returns a Router bound to server.
func New(server config.Server) *Router {
	return &Router{server: server}
}

// Match implements §4.4 steps 1–4: route match, method check, target
// resolution and handler classification.
func (rt *Router) Match(reqPath, method string) (Decision, error) {
	route, ok := rt.matchRoute(reqPath)
	if !ok {
		return Decision{}, ErrorNoRoute.Error(nil)
	}

	// Redirects fire before the method allow-list check, so a route
	// configured with a redirect answers every method with 301/302 even
	// when its methods list would otherwise reject PATCH/DELETE.
	if route.Redirect != "" {
		return Decision{Route: route, Kind: KindRedirect}, nil
	}

	if len(route.Methods) > 0 && !methodAllowed(route.Methods, method) {
		return Decision{}, ErrorMethodNotAllowed.Error(nil)
	}

	resolved, err := rt.resolveTarget(reqPath, route)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{Route: route, ResolvedPath: resolved}
	d.Kind, d.Interpreter = rt.classify(resolved, method, route)
	return d, nil
}

// matchRoute tries an exact match first, then the longest boundary-aligned
// prefix.
func (rt *Router) matchRoute(reqPath string) (config.Route, bool) {
	if r, ok := rt.server.Routes[reqPath]; ok {
		return r, true
	}

	var (
		best    config.Route
		bestLen = -1
		found   bool
	)

	for prefix, r := range rt.server.Routes {
		if !strings.HasPrefix(reqPath, prefix) {
			continue
		}
		if prefix != "/" && len(reqPath) > len(prefix) && reqPath[len(prefix)] != '/' {
			continue
		}
		if len(prefix) > bestLen {
			best = r
			bestLen = len(prefix)
			found = true
		}
	}

	return best, found
}

func methodAllowed(methods []string, method string) bool {
	for _, m := range methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// sanitizeRelative rejects any ".." path component and normalizes
// separators. The result never begins with "/" or "..".
func sanitizeRelative(p string) string {
	clean := path.Clean("/" + p)
	clean = strings.TrimPrefix(clean, "/")
	parts := strings.Split(clean, "/")
	safe := make([]string, 0, len(parts))
	for _, seg := range parts {
		if seg == ".." || seg == "." || seg == "" {
			continue
		}
		safe = append(safe, seg)
	}
	return strings.Join(safe, "/")
}

func (rt *Router) resolveTarget(reqPath string, route config.Route) (string, error) {
	root := rt.server.CanonicalRoot

	var resolved string
	switch {
	case route.Filename != "":
		resolved = joinRoot(root, route.Filename)
	case route.Directory != "":
		rest := strings.TrimPrefix(reqPath, route.Prefix)
		resolved = joinRoot(joinRoot(root, route.Directory), sanitizeRelative(rest))
	default:
		resolved = joinRoot(root, sanitizeRelative(reqPath))
	}

	if !withinRoot(root, resolved) {
		return "", ErrorPathEscapesRoot.Error(nil)
	}
	return resolved, nil
}

func joinRoot(root, rel string) string {
	if rel == "" {
		return root
	}
	if path.IsAbs(rel) {
		rel = sanitizeRelative(rel)
	}
	return path.Join(root, rel)
}

func withinRoot(root, resolved string) bool {
	return resolved == root || strings.HasPrefix(resolved, root+"/")
}

func (rt *Router) classify(resolvedPath, method string, route config.Route) (Kind, string) {
	if interp, ok := rt.cgiInterpreter(resolvedPath, route); ok {
		return KindCGI, interp
	}

	switch strings.ToUpper(method) {
	case "DELETE":
		return KindDelete, ""
	case "POST":
		if route.UploadDir != "" {
			return KindUpload, ""
		}
	}

	if info, err := os.Stat(resolvedPath); err == nil && info.IsDir() {
		if route.DefaultFile != "" {
			if _, err := os.Stat(filepath.Join(resolvedPath, route.DefaultFile)); err == nil {
				return KindDefaultFile, ""
			}
		}
		if route.DirectoryListing {
			return KindDirectoryListing, ""
		}
		return KindForbidden, ""
	}

	return KindStatic, ""
}

// cgiInterpreter resolves resolvedPath's extension against the route's
// cgi_extension (if set) or the server's cgi_handlers map.
func (rt *Router) cgiInterpreter(resolvedPath string, route config.Route) (string, bool) {
	ext := strings.TrimPrefix(path.Ext(resolvedPath), ".")
	if ext == "" {
		return "", false
	}

	if route.CgiExtension != "" && route.CgiExtension == ext {
		if interp, ok := rt.server.CgiHandlers["."+ext]; ok {
			return interp, true
		}
		return "", true // configured for CGI but no interpreter: run directly
	}

	if interp, ok := rt.server.CgiHandlers["."+ext]; ok {
		return interp, true
	}
	return "", false
}
