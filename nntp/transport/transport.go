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

// Package transport dials the NNTP server and manages the plain/TLS socket
// underneath a session: TCP dial across every resolved address, direct-TLS,
// in-band STARTTLS upgrade, and idempotent close.
package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"

	liberr "github/sabouaram/golib/errors"
)

// Session owns one NNTP socket, plain or TLS. It is not safe for concurrent
// use; each worker (or the orchestrator's main session) owns exactly one.
type Session struct {
	mu   sync.Mutex
	conn net.Conn
	host string
	tls  bool
}

// Dial resolves every address candidate for host and attempts each in turn,
// returning the first that accepts a connection.
func Dial(ctx context.Context, host, port string) (*Session, liberr.Error) {
	res := net.DefaultResolver

	addrs, e := res.LookupHost(ctx, host)
	if e != nil || len(addrs) == 0 {
		return nil, ErrorDNSFailure.Error(e)
	}

	var (
		conn net.Conn
		last error
		d    net.Dialer
	)

	for _, a := range addrs {
		conn, last = d.DialContext(ctx, "tcp", net.JoinHostPort(a, port))
		if last == nil {
			break
		}
	}

	if conn == nil {
		return nil, ErrorConnectFailed.Error(last)
	}

	return &Session{conn: conn, host: host}, nil
}

// Conn returns the current underlying connection for framing.
func (s *Session) Conn() net.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// Read implements io.Reader by delegating to the current underlying
// connection, so a Session can be handed to wire.New once and keep working
// across a StartTLSUpgrade that swaps the plain socket for a *tls.Conn.
func (s *Session) Read(p []byte) (int, error) {
	conn := s.Conn()
	if conn == nil {
		return 0, net.ErrClosed
	}
	return conn.Read(p)
}

// Write implements io.Writer the same way Read does.
func (s *Session) Write(p []byte) (int, error) {
	conn := s.Conn()
	if conn == nil {
		return 0, net.ErrClosed
	}
	return conn.Write(p)
}

// IsTLS reports whether the session has completed a TLS handshake.
func (s *Session) IsTLS() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tls
}

// StartDirectTLS wraps the socket in a TLS client using system default roots
// and performs the handshake immediately (used for implicit-TLS ports such
// as 563, before any NNTP traffic is exchanged).
func (s *Session) StartDirectTLS(ctx context.Context) liberr.Error {
	return s.upgrade(ctx)
}

// StartTLSUpgrade performs the TLS handshake in place on the already-open
// socket. The caller is responsible for having issued STARTTLS and checked
// for a 2xx reply first; this method only does the handshake.
func (s *Session) StartTLSUpgrade(ctx context.Context) liberr.Error {
	return s.upgrade(ctx)
}

func (s *Session) upgrade(ctx context.Context) liberr.Error {
	s.mu.Lock()
	conn := s.conn
	host := s.host
	s.mu.Unlock()

	if conn == nil {
		return ErrorAlreadyClosed.Error(nil)
	}

	tc := tls.Client(conn, clientTLSConfig(host))
	if e := tc.HandshakeContext(ctx); e != nil {
		return ErrorTLSFailure.Error(e)
	}

	s.mu.Lock()
	s.conn = tc
	s.tls = true
	s.mu.Unlock()

	return nil
}

// Close performs a best-effort TLS shutdown (if active) then closes the
// socket. Idempotent: closing twice is a no-op.
func (s *Session) Close() liberr.Error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn == nil {
		return nil
	}

	if tc, ok := conn.(*tls.Conn); ok {
		_ = tc.Close()
		return nil
	}

	if e := conn.Close(); e != nil {
		return ErrorAlreadyClosed.Error(fmt.Errorf("closing socket: %w", e))
	}

	return nil
}
