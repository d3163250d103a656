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

// Package socket defines the transport-neutral connection handle that
// server implementations (transport/tcp) pass to a HandlerFunc: a
// Context wrapping net.Conn, with no TLS or datagram variants since this
// service has no transport security to model.
package socket

import (
	"net"
	"time"
)

// Context is the per-connection handle a HandlerFunc operates on.
type Context interface {
	Read(b []byte) (int, error)
	Write(b []byte) (int, error)
	Close() error

	LocalAddr() net.Addr
	RemoteAddr() net.Addr

	// SetReadDeadline refreshes the per-socket inactivity timeout. Call it
	// before every read.
	SetReadDeadline(t time.Time) error

	// SessionID is a monotonic, per-process connection identifier
	// assigned by the acceptor.
	SessionID() uint64
}

// HandlerFunc processes one accepted connection to completion.
type HandlerFunc func(c Context)

type conn struct {
	net.Conn
	id uint64
}

// NewContext wraps c as a Context carrying the given session id.
func NewContext(c net.Conn, id uint64) Context {
	return &conn{Conn: c, id: id}
}

func (c *conn) SessionID() uint64 { return c.id }
