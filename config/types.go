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

// Package config loads and validates the TOML configuration file: global
// timeouts and body-size cap, the server list, their route tables, error
// pages and CGI interpreter maps.
package config

// Route is one entry of a server's route map, keyed by URL prefix.
// At most one of Filename, Directory, Redirect may be set.
type Route struct {
	Prefix            string   `mapstructure:"-"`
	Methods           []string `mapstructure:"methods" validate:"required,min=1,dive,oneof=GET POST DELETE PUT PATCH HEAD OPTIONS"`
	Filename          string   `mapstructure:"filename"`
	Directory         string   `mapstructure:"directory"`
	DefaultFile       string   `mapstructure:"default_file"`
	DirectoryListing  bool     `mapstructure:"directory_listing"`
	UploadDir         string   `mapstructure:"upload_dir"`
	Redirect          string   `mapstructure:"redirect"`
	RedirectType      string   `mapstructure:"redirect_type" validate:"omitempty,oneof=301 302"`
	CgiExtension      string   `mapstructure:"cgi_extension"`
}

// ErrorPage maps a status code to a custom HTML file.
type ErrorPage struct {
	Filename string `mapstructure:"filename" validate:"required"`
}

// Admin carries the optional admin_access credential pair. Present only
// when the `[admin]` table is set, in which case both fields are
// mandatory.
type Admin struct {
	Username string `mapstructure:"username" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
}

// Server is one `[[servers]]` block.
type Server struct {
	Address      string               `mapstructure:"server_address" validate:"required,ip"`
	Ports        []int                `mapstructure:"ports" validate:"required,min=1,dive,min=1,max=65535"`
	Name         string               `mapstructure:"server_name" validate:"required"`
	Root         string               `mapstructure:"root" validate:"required"`
	AdminAccess  bool                 `mapstructure:"admin_access"`
	Routes       map[string]Route     `mapstructure:"routes" validate:"dive"`
	Errors       map[string]ErrorPage `mapstructure:"errors" validate:"dive"`
	CgiHandlers  map[string]string    `mapstructure:"cgi_handlers"`

	// CanonicalRoot is computed at load time (absolute and cleaned;
	// symlinks are not resolved) and used by the router as the traversal
	// boundary.
	CanonicalRoot string `mapstructure:"-"`
}

// File is the root of the TOML document.
type File struct {
	ClientTimeoutSecs  uint64   `mapstructure:"client_timeout_secs"`
	ClientMaxBodySize  uint64   `mapstructure:"client_max_body_size"`
	Servers            []Server `mapstructure:"servers" validate:"dive"`
	Admin              *Admin   `mapstructure:"admin"`
}

const (
	DefaultClientTimeoutSecs = 30
	DefaultClientMaxBodySize = 10 * 1024 * 1024
	DefaultSessionTimeout    = 3600
)

var validErrorCodes = map[string]bool{
	"400": true, "403": true, "404": true, "405": true, "413": true, "500": true,
}
