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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nabbar/localhost/errors/pool"
	"github.com/spf13/viper"
)

// Load reads, parses and validates the TOML configuration at path. On
// success, every Server.CanonicalRoot is populated and every Route.Prefix
// is set from its map key.
func Load(path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	v.SetDefault("client_timeout_secs", DefaultClientTimeoutSecs)
	v.SetDefault("client_max_body_size", DefaultClientMaxBodySize)

	if err := v.ReadInConfig(); err != nil {
		return nil, ErrorFileRead.Error(err)
	}

	f := &File{}
	if err := v.Unmarshal(f); err != nil {
		return nil, ErrorFileParse.Error(err)
	}

	for i := range f.Servers {
		for prefix, route := range f.Servers[i].Routes {
			route.Prefix = prefix
			f.Servers[i].Routes[prefix] = route
		}
	}

	if err := validateStruct(f); err != nil {
		return nil, ErrorValidation.Error(err)
	}

	survivors := make([]Server, 0, len(f.Servers))
	for i := range f.Servers {
		s := f.Servers[i]
		if err := canonicalizeAndCheck(&s); err != nil {
			continue
		}
		survivors = append(survivors, s)
	}
	f.Servers = survivors

	if len(f.Servers) == 0 {
		return nil, ErrorNoServers.Error(nil)
	}

	if err := checkRouteTargets(f); err != nil {
		return nil, err
	}
	if err := checkPortSharing(f); err != nil {
		return nil, err
	}

	return f, nil
}

func validateStruct(f *File) error {
	vd := validator.New()
	return vd.Struct(f)
}

func canonicalizeAndCheck(s *Server) error {
	abs, err := filepath.Abs(s.Root)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return ErrorRootNotDir.Error(err)
	}
	s.CanonicalRoot = abs
	return nil
}

// checkRouteTargets validates every server's route table, error-page map
// and CGI handler map. Every violation found is collected in p rather
// than returning on the first one, so a misconfigured file is reported
// in full on a single run.
func checkRouteTargets(f *File) error {
	p := pool.New()

	for _, s := range f.Servers {
		for prefix, r := range s.Routes {
			if !strings.HasPrefix(prefix, "/") {
				p.Add(ErrorValidation.Error(fmt.Errorf("route prefix %q must start with '/'", prefix)))
			}
			count := 0
			if r.Filename != "" {
				count++
			}
			if r.Directory != "" {
				count++
			}
			if r.Redirect != "" {
				count++
			}
			if count > 1 {
				p.Add(ErrorRouteTargets.Error(fmt.Errorf("route %q on server %q", prefix, s.Name)))
			}
		}
		for code := range s.Errors {
			if !validErrorCodes[code] {
				p.Add(ErrorValidation.Error(fmt.Errorf("unsupported error code %q on server %q", code, s.Name)))
			}
		}
		for ext := range s.CgiHandlers {
			if !strings.HasPrefix(ext, ".") {
				p.Add(ErrorValidation.Error(fmt.Errorf("cgi_handlers key %q must start with '.'", ext)))
			}
		}
	}

	return p.Error()
}

// checkPortSharing enforces: servers sharing a port agree on bind address
// and carry unique (case-insensitive) server_name values.
func checkPortSharing(f *File) error {
	addrByPort := map[int]string{}
	namesByPort := map[int]map[string]bool{}

	for _, s := range f.Servers {
		for _, port := range s.Ports {
			if addr, ok := addrByPort[port]; ok {
				if addr != s.Address {
					return ErrorPortSharing.Error(fmt.Errorf("port %d: %q vs %q", port, addr, s.Address))
				}
			} else {
				addrByPort[port] = s.Address
				namesByPort[port] = map[string]bool{}
			}

			lname := strings.ToLower(s.Name)
			if namesByPort[port][lname] {
				return ErrorPortSharing.Error(fmt.Errorf("port %d: duplicate server_name %q", port, s.Name))
			}
			namesByPort[port][lname] = true
		}
	}
	return nil
}
