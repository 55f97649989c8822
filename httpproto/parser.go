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
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nabbar/localhost/errors"
)

// Phase is the parser's current state.
type Phase uint8

const (
	PhaseRequestLine Phase = iota
	PhaseHeaders
	PhaseBodySized
	PhaseBodyChunked
	PhaseComplete
	PhaseError
)

// headerSlack bounds the bytes buffered while the parser is still looking
// for the end of the request line or of a header line; it does not depend
// on the body cap.
const headerSlack = 8 * 1024

// chunkState tracks where inside a chunked body the parser currently sits.
type chunkState uint8

const (
	chunkReadingSize chunkState = iota
	chunkReadingData
	chunkReadingDataCRLF
	chunkReadingTrailerCRLF
)

// Parser incrementally builds a Request from fed bytes. One Parser exists
// per connection and is reset for keep-alive reuse.
type Parser struct {
	phase Phase
	buf   []byte

	maxBody uint64

	req *Request

	contentLength  int64
	haveLength     bool
	bodyAccum      int64
	chunkRemaining int64
	chunkSt        chunkState

	err error
}

// NewParser returns a Parser enforcing maxBody bytes of decoded body.
func NewParser(maxBody uint64) *Parser {
	p := &Parser{maxBody: maxBody}
	p.Reset()
	return p
}

// Reset clears all state so the Parser can be reused on the next request of
// a keep-alive connection. Bytes fed but not yet consumed are dropped
// intentionally: a reset only happens once a response has been written for
// the prior request.
func (p *Parser) Reset() {
	p.phase = PhaseRequestLine
	p.buf = nil
	p.req = nil
	p.contentLength = 0
	p.haveLength = false
	p.bodyAccum = 0
	p.chunkRemaining = 0
	p.chunkSt = chunkReadingSize
	p.err = nil
}

// Feed appends newly read bytes to the internal buffer.
func (p *Parser) Feed(b []byte) {
	p.buf = append(p.buf, b...)
}

// Result is what TryParse returns: exactly one of NeedMore, Request or Err
// is populated at a time.
type Result struct {
	NeedMore bool
	Request  *Request
	Err      error
}

// TryParse drives the state machine as far as the currently buffered bytes
// allow, returning NeedMore until a full request (or a terminal error) is
// available.
func (p *Parser) TryParse() Result {
	for {
		switch p.phase {
		case PhaseRequestLine:
			line, rest, ok := cutCRLF(p.buf)
			if !ok {
				if len(p.buf) > headerSlack {
					return p.fail(ErrorMalformedLine)
				}
				return Result{NeedMore: true}
			}
			p.buf = rest
			if err := p.parseRequestLine(line); err != nil {
				return p.failErr(err)
			}
			p.phase = PhaseHeaders

		case PhaseHeaders:
			line, rest, ok := cutCRLF(p.buf)
			if !ok {
				if len(p.buf) > headerSlack {
					return p.fail(ErrorBadHeader)
				}
				return Result{NeedMore: true}
			}
			p.buf = rest
			if len(line) == 0 {
				if err := p.enterBody(); err != nil {
					return p.failErr(err)
				}
				continue
			}
			if err := p.parseHeaderLine(line); err != nil {
				return p.failErr(err)
			}

		case PhaseBodySized:
			need := p.contentLength - p.bodyAccum
			if int64(len(p.buf)) < need {
				if err := p.checkCap(int64(len(p.buf))); err != nil {
					return p.failErr(err)
				}
				return Result{NeedMore: true}
			}
			p.req.Body = append(p.req.Body, p.buf[:need]...)
			p.buf = p.buf[need:]
			p.bodyAccum += need
			p.phase = PhaseComplete

		case PhaseBodyChunked:
			done, err := p.stepChunk()
			if err != nil {
				return p.failErr(err)
			}
			if !done {
				return Result{NeedMore: true}
			}
			p.phase = PhaseComplete

		case PhaseComplete:
			finishRequest(p.req)
			return Result{Request: p.req}

		case PhaseError:
			return Result{Err: p.err}
		}
	}
}

func (p *Parser) fail(code errors.CodeError) Result {
	return p.failErr(code.Error(nil))
}

func (p *Parser) failErr(err error) Result {
	p.phase = PhaseError
	p.err = err
	return Result{Err: err}
}

func (p *Parser) checkCap(pending int64) error {
	if p.maxBody == 0 {
		return nil
	}
	if uint64(p.bodyAccum+pending) > p.maxBody {
		return ErrorPayloadTooLarge.Error(nil)
	}
	return nil
}

func cutCRLF(b []byte) (line, rest []byte, ok bool) {
	i := bytes.Index(b, []byte("\r\n"))
	if i < 0 {
		return nil, b, false
	}
	return b[:i], b[i+2:], true
}

func (p *Parser) parseRequestLine(line []byte) error {
	if !utf8.Valid(line) {
		return ErrorInvalidUtf8.Error(nil)
	}
	parts := strings.Split(string(line), " ")
	if len(parts) != 3 {
		return ErrorMalformedLine.Error(nil)
	}

	m, ok := parseMethod(parts[0])
	if !ok {
		return ErrorUnknownMethod.Error(nil)
	}
	if parts[2] != "HTTP/1.1" {
		return ErrorUnsupportedVersion.Error(nil)
	}

	target := parts[1]
	path := target
	query := map[string][]string{}
	if i := strings.IndexByte(target, '?'); i >= 0 {
		path = target[:i]
		for _, kv := range strings.Split(target[i+1:], "&") {
			if kv == "" {
				continue
			}
			k, v, _ := strings.Cut(kv, "=")
			query[k] = append(query[k], v)
		}
	}

	p.req = &Request{
		Method:  m,
		Target:  target,
		Path:    path,
		Query:   query,
		Version: parts[2],
		Header:  newHeader(),
	}
	return nil
}

func (p *Parser) parseHeaderLine(line []byte) error {
	if !utf8.Valid(line) {
		return ErrorInvalidUtf8.Error(nil)
	}
	s := string(line)
	i := strings.IndexByte(s, ':')
	if i <= 0 {
		return ErrorBadHeader.Error(nil)
	}
	name := s[:i]
	value := strings.TrimSpace(s[i+1:])
	p.req.Header.Add(name, value)
	return nil
}

func (p *Parser) enterBody() error {
	h := p.req.Header

	if strings.EqualFold(h.Get("Transfer-Encoding"), "chunked") {
		p.phase = PhaseBodyChunked
		p.chunkSt = chunkReadingSize
		return nil
	}

	if cl := h.Get("Content-Length"); cl != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(cl), 10, 64)
		if err != nil || n < 0 {
			return ErrorBadHeader.Error(nil)
		}
		if p.maxBody != 0 && uint64(n) > p.maxBody {
			return ErrorPayloadTooLarge.Error(nil)
		}
		p.contentLength = n
		p.haveLength = true
		p.phase = PhaseBodySized
		if n == 0 {
			p.phase = PhaseComplete
		}
		return nil
	}

	if p.req.Method.HasRequestBody() {
		// Best-effort: no declared framing. Take the bytes already
		// buffered, up to the cap, as the whole body and complete the
		// request; bytes fed later are not part of this body.
		p.contentLength = int64(len(p.buf))
		if err := p.checkCap(int64(len(p.buf))); err != nil {
			return err
		}
		p.req.Body = append(p.req.Body, p.buf...)
		p.bodyAccum += int64(len(p.buf))
		p.buf = nil
		p.phase = PhaseComplete
		return nil
	}

	p.phase = PhaseComplete
	return nil
}

func (p *Parser) stepChunk() (bool, error) {
	for {
		switch p.chunkSt {
		case chunkReadingSize:
			line, rest, ok := cutCRLF(p.buf)
			if !ok {
				return false, nil
			}
			p.buf = rest
			sizeStr := string(line)
			if i := strings.IndexByte(sizeStr, ';'); i >= 0 {
				sizeStr = sizeStr[:i]
			}
			sizeStr = strings.TrimSpace(sizeStr)
			n, err := strconv.ParseInt(sizeStr, 16, 64)
			if err != nil || n < 0 {
				return false, ErrorInvalidChunkSize.Error(nil)
			}
			if err := p.checkCap(n); err != nil {
				return false, err
			}
			p.chunkRemaining = n
			if n == 0 {
				p.chunkSt = chunkReadingTrailerCRLF
			} else {
				p.chunkSt = chunkReadingData
			}

		case chunkReadingData:
			if int64(len(p.buf)) < p.chunkRemaining {
				return false, nil
			}
			p.req.Body = append(p.req.Body, p.buf[:p.chunkRemaining]...)
			p.bodyAccum += p.chunkRemaining
			p.buf = p.buf[p.chunkRemaining:]
			p.chunkRemaining = 0
			p.chunkSt = chunkReadingDataCRLF

		case chunkReadingDataCRLF:
			if len(p.buf) < 2 {
				return false, nil
			}
			if p.buf[0] != '\r' || p.buf[1] != '\n' {
				return false, ErrorInvalidChunkSize.Error(nil)
			}
			p.buf = p.buf[2:]
			p.chunkSt = chunkReadingSize

		case chunkReadingTrailerCRLF:
			// Trailer headers, if any, are not merged; only scan for
			// the terminating blank line.
			line, rest, ok := cutCRLF(p.buf)
			if !ok {
				return false, nil
			}
			p.buf = rest
			if len(line) == 0 {
				return true, nil
			}
			// Skip one trailer header line and keep scanning.
		}
	}
}

func finishRequest(r *Request) {
	r.Cookies = parseCookies(r.Header.Get("Cookie"))
}
