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
	"os"

	"github.com/nabbar/localhost/httpproto"
)

// Executor runs CGI scripts on behalf of the server engine. It holds no
// state of its own; every call is independent.
type Executor struct {
	ServerName string
	ServerPort int
}

// NewExecutor returns an Executor reporting serverName/serverPort to
// scripts through SERVER_NAME/SERVER_PORT.
func NewExecutor(serverName string, serverPort int) *Executor {
	return &Executor{ServerName: serverName, ServerPort: serverPort}
}

// Execute spawns scriptPath (through interpreter when non-empty), feeds
// it req's body on stdin, waits for it to exit and parses its stdout
// into a Response. A non-zero exit status surfaces as an error carrying
// the script's stderr.
//
// TODO: wait() blocks the event loop goroutine for the scripts's whole
// lifetime. Tracking the child's pidfd (Linux) or EVFILT_PROC (BSD)
// through the poller would let a slow script wait on the readiness loop
// like any other fd instead of stalling every other connection.
func (e *Executor) Execute(scriptPath, interpreter string, req *httpproto.Request) (*httpproto.Response, error) {
	info, err := os.Stat(scriptPath)
	if err != nil {
		return nil, ErrorScriptNotFound.Error(err)
	}
	if info.IsDir() {
		return nil, ErrorScriptNotFile.Error(nil)
	}

	env := BuildEnv(req, scriptPath, e.ServerName, e.ServerPort)

	p, err := spawn(scriptPath, interpreter, env, len(req.Body) > 0)
	if err != nil {
		return nil, err
	}

	if err := p.writeStdin(req.Body); err != nil {
		p.kill()
		return nil, err
	}

	code, err := p.wait()
	if err != nil {
		return nil, ErrorSpawn.Error(err)
	}
	if code != 0 {
		return nil, ErrorExitNonZero.Error(fmt.Errorf("exit %d: %s", code, p.stderr.String()))
	}

	return parseOutput(p.stdout.Bytes())
}
