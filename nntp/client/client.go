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

// Package client implements the subset of NNTP this pipeline speaks:
// greeting, STARTTLS, AUTHINFO, GROUP, XOVER and HEAD, each returning the
// numeric status code from the first reply line.
package client

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	liberr "github/sabouaram/golib/errors"
	"github/sabouaram/golib/nntp/transport"
	"github/sabouaram/golib/nntp/wire"
)

// Client drives one NNTP session (one transport.Session) through the
// command set. It is not safe for concurrent use across goroutines; each
// worker session owns exactly one Client, matching the "per-worker NNTP
// session" requirement.
type Client struct {
	mu      sync.Mutex
	fr      *wire.Framer
	session *transport.Session
	group   string
}

// New wraps an already-dialed transport.Session in a protocol Client.
func New(session *transport.Session) *Client {
	return &Client{
		fr:      wire.New(session),
		session: session,
	}
}

// Session returns the underlying transport session, so the caller can issue
// a TLS upgrade between STARTTLS and the next command.
func (c *Client) Session() *transport.Session {
	return c.session
}

// SelectedGroup returns the name of the group this session most recently
// selected successfully, or "" if none.
func (c *Client) SelectedGroup() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.group
}

// statusOf extracts the three-digit numeric status code from the first
// reply line. A malformed line parses to 0, which callers treat as failure.
func statusOf(line string) int {
	if len(line) < 3 {
		return 0
	}
	n, e := strconv.Atoi(line[:3])
	if e != nil {
		return 0
	}
	return n
}

func is2xx(code int) bool { return code >= 200 && code < 300 }

// ReadGreeting reads the server's initial banner line.
func (c *Client) ReadGreeting() (int, liberr.Error) {
	line, err := c.fr.ReadLine()
	if err != nil {
		return 0, err
	}

	code := statusOf(line)
	if code >= 400 {
		return code, ErrorGreetingRejected.Error(fmt.Errorf("greeting: %s", line))
	}

	return code, nil
}

// STARTTLS sends the STARTTLS command and returns its status. It does not
// perform the handshake itself; the caller composes this with
// transport.Session.StartTLSUpgrade on a 2xx reply.
func (c *Client) STARTTLS() (int, liberr.Error) {
	if err := c.fr.Sendf("STARTTLS"); err != nil {
		return 0, err
	}

	line, err := c.fr.ReadLine()
	if err != nil {
		return 0, err
	}

	return statusOf(line), nil
}

// AuthInfo sends AUTHINFO USER, and if the server replies 381, follows up
// with AUTHINFO PASS. The final status is returned; 4xx/5xx is reported as
// ErrorAuthFailed.
func (c *Client) AuthInfo(user, pass string) (int, liberr.Error) {
	if err := c.fr.Sendf("AUTHINFO USER %s", user); err != nil {
		return 0, err
	}

	line, err := c.fr.ReadLine()
	if err != nil {
		return 0, err
	}

	code := statusOf(line)
	if code == 381 {
		if err = c.fr.Sendf("AUTHINFO PASS %s", pass); err != nil {
			return 0, err
		}

		line, err = c.fr.ReadLine()
		if err != nil {
			return 0, err
		}

		code = statusOf(line)
	}

	if code >= 400 {
		return code, ErrorAuthFailed.Error(fmt.Errorf("authinfo: %s", line))
	}

	return code, nil
}

// SelectGroup sends GROUP <name>. On a 2xx reply it parses the count, first
// and last article numbers following the status code and records the group
// as selected on this session.
func (c *Client) SelectGroup(name string) (count, first, last int64, err liberr.Error) {
	if e := c.fr.Sendf("GROUP %s", name); e != nil {
		return 0, 0, 0, e
	}

	line, e := c.fr.ReadLine()
	if e != nil {
		return 0, 0, 0, e
	}

	code := statusOf(line)
	if !is2xx(code) {
		return 0, 0, 0, ErrorGroupSelectFailed.Error(fmt.Errorf("group %s: %s", name, line))
	}

	fields := strings.Fields(line)
	// fields[0] is the status code; count, first, last follow.
	if len(fields) >= 4 {
		count, _ = strconv.ParseInt(fields[1], 10, 64)
		first, _ = strconv.ParseInt(fields[2], 10, 64)
		last, _ = strconv.ParseInt(fields[3], 10, 64)
	}

	c.mu.Lock()
	c.group = name
	c.mu.Unlock()

	return count, first, last, nil
}

// Overview sends XOVER firstN-lastN and, on a 2xx reply, returns the raw
// multi-line body (one entry per article, tab-delimited). A non-2xx status
// returns an empty slice with no error: the spec treats this as a logged
// warning at the caller, not a hard failure.
func (c *Client) Overview(firstN, lastN int64) ([]string, liberr.Error) {
	if e := c.fr.Sendf("XOVER %d-%d", firstN, lastN); e != nil {
		return nil, e
	}

	line, e := c.fr.ReadLine()
	if e != nil {
		return nil, e
	}

	if !is2xx(statusOf(line)) {
		return nil, nil
	}

	return c.fr.ReadMultiline()
}

// Head sends HEAD <artnum> and, on a 2xx reply, returns the raw header
// block lines. A non-2xx status returns an empty slice with no error; the
// pool treats this as retryable.
func (c *Client) Head(artnum int64) ([]string, liberr.Error) {
	if e := c.fr.Sendf("HEAD %d", artnum); e != nil {
		return nil, e
	}

	line, e := c.fr.ReadLine()
	if e != nil {
		return nil, e
	}

	if !is2xx(statusOf(line)) {
		return nil, nil
	}

	return c.fr.ReadMultiline()
}
