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
	"io"
	"os/exec"
	"path/filepath"
)

// process wraps a running CGI child and its captured output.
type process struct {
	cmd        *exec.Cmd
	scriptPath string
	stdin      io.WriteCloser
	stdout     *bytes.Buffer
	stderr     *bytes.Buffer
}

// spawn starts scriptPath, through interpreter when non-empty, with env
// as its entire environment and cwd set to the script's directory. When
// hasStdin is true a stdin pipe is opened for the caller to write the
// request body to and close.
func spawn(scriptPath, interpreter string, env []string, hasStdin bool) (*process, error) {
	var cmd *exec.Cmd
	if interpreter != "" {
		cmd = exec.Command(interpreter, scriptPath)
	} else {
		cmd = exec.Command(scriptPath)
	}
	cmd.Env = env
	cmd.Dir = filepath.Dir(scriptPath)

	p := &process{cmd: cmd, scriptPath: scriptPath, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	cmd.Stdout = p.stdout
	cmd.Stderr = p.stderr

	if hasStdin {
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, ErrorSpawn.Error(err)
		}
		p.stdin = stdin
	}

	if err := cmd.Start(); err != nil {
		return nil, ErrorSpawn.Error(err)
	}
	return p, nil
}

// writeStdin writes data to the child's stdin and closes it.
func (p *process) writeStdin(data []byte) error {
	if p.stdin == nil {
		return nil
	}
	_, err := p.stdin.Write(data)
	closeErr := p.stdin.Close()
	if err != nil {
		return ErrorWriteStdin.Error(err)
	}
	if closeErr != nil {
		return ErrorWriteStdin.Error(closeErr)
	}
	return nil
}

// wait blocks until the child exits, returning its exit code.
func (p *process) wait() (int, error) {
	err := p.cmd.Wait()
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// kill terminates the child if it is still running.
func (p *process) kill() {
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
}
