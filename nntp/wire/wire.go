/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package wire implements the byte-framed request/response channel NNTP runs
// over: CRLF-terminated lines, dot-stuffed multi-line bodies, and formatted
// command writes. It has no knowledge of NNTP semantics.
package wire

import (
	"fmt"
	"io"
	"strings"

	liberr "github/sabouaram/golib/errors"
)

// MaxLineSize is the largest single line this framer will accept before
// reporting ErrorProtocolOverflow.
const MaxLineSize = 8192

// Framer reads and writes CRLF-framed NNTP traffic over an arbitrary
// io.ReadWriter (a plain TCP conn or a *tls.Conn look identical here).
type Framer struct {
	rw io.ReadWriter
}

// New wraps rw in a Framer.
func New(rw io.ReadWriter) *Framer {
	return &Framer{rw: rw}
}

// ReadLine reads bytes one at a time until a CRLF terminator, returning the
// line with the terminator stripped. A closed or errored transport before
// any terminator is seen yields ErrorTransportClosed; a line longer than
// MaxLineSize yields ErrorProtocolOverflow once the terminator is finally
// found (the stream is drained to stay in sync).
func (f *Framer) ReadLine() (string, liberr.Error) {
	var (
		buf      = make([]byte, 0, 128)
		one      = make([]byte, 1)
		overflow = false
		prev     byte
	)

	for {
		n, e := f.rw.Read(one)
		if n <= 0 || e != nil {
			return "", ErrorTransportClosed.Error(e)
		}

		if !overflow {
			buf = append(buf, one[0])
		}

		if prev == '\r' && one[0] == '\n' {
			break
		}
		prev = one[0]

		if len(buf) >= MaxLineSize {
			overflow = true
		}
	}

	if overflow {
		return "", ErrorProtocolOverflow.Error(nil)
	}

	return string(buf[:len(buf)-2]), nil
}

// ReadMultiline repeatedly calls ReadLine until a line consisting of a
// single "." terminates the block. Each returned content line has its
// dot-stuffing reversed: a line beginning with ".." loses one leading dot.
func (f *Framer) ReadMultiline() ([]string, liberr.Error) {
	out := make([]string, 0, 64)

	for {
		line, err := f.ReadLine()
		if err != nil {
			return nil, err
		}

		if line == "." {
			break
		}

		if strings.HasPrefix(line, ".") {
			line = line[1:]
		}

		out = append(out, line)
	}

	return out, nil
}

// Sendf formats a command, appends CRLF if the caller did not already, and
// writes the whole buffer in one call. A partial write is reported as
// ErrorShortWrite.
func (f *Framer) Sendf(format string, args ...interface{}) liberr.Error {
	buf := fmt.Sprintf(format, args...)

	if !strings.HasSuffix(buf, "\r\n") {
		buf += "\r\n"
	}

	n, e := io.WriteString(f.rw, buf)
	if e != nil {
		return ErrorTransportClosed.Error(e)
	}

	if n != len(buf) {
		return ErrorShortWrite.Error(nil)
	}

	return nil
}
