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

// Package tcp is the acceptor: it owns the listening socket, accepts
// connections, and spawns one HandlerFunc per connection. It never
// blocks on a session and never inspects wire-level content — that is the
// session package's job.
package tcp

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	libptc "github.com/sabouaram/pkgindexd/network/protocol"
	libsck "github.com/sabouaram/pkgindexd/socket"
)

// Config configures the listening socket.
type Config struct {
	Network     libptc.NetworkProtocol
	Address     string
	ReadTimeout time.Duration

	// Backlog documents the expected listen backlog. The Go runtime does
	// not expose a portable knob for the kernel listen(2) backlog separate
	// from net.Listen, whose OS-default backlog is already generous; the
	// field exists so config.Config has somewhere to carry the value
	// through for documentation and future tuning.
	Backlog int
}

// ServerTCP is the acceptor contract; Listen blocks until ctx is canceled
// or the listener errors, so callers run it in its own goroutine.
type ServerTCP interface {
	Listen(ctx context.Context) error
	Close() error
	IsRunning() bool
	IsGone() bool
	OpenConnections() int64
}

type server struct {
	cfg     Config
	handler libsck.HandlerFunc

	mu       sync.Mutex
	listener net.Listener
	running  atomic.Bool
	gone     atomic.Bool
	open     atomic.Int64
	nextID   atomic.Uint64
}

// New returns a ServerTCP that will call handler once per accepted
// connection. The listener is not opened until Listen is called.
func New(handler libsck.HandlerFunc, cfg Config) (ServerTCP, error) {
	return &server{cfg: cfg, handler: handler}, nil
}

// Listen opens the listening socket and accepts connections until ctx is
// canceled or the listener is closed. Each accepted connection gets its
// own monotonically increasing session id and runs handler on its own
// goroutine; Listen itself never blocks on a session.
func (s *server) Listen(ctx context.Context) error {
	network := s.cfg.Network
	if network == 0 {
		network = libptc.NetworkTCP
	}

	lis, err := net.Listen(network.Code(), s.cfg.Address)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = lis
	s.mu.Unlock()

	s.running.Store(true)
	defer func() {
		s.running.Store(false)
		s.gone.Store(true)
	}()

	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()

	for {
		conn, err := lis.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		id := s.nextID.Add(1)
		s.open.Add(1)

		go func(c net.Conn, sid uint64) {
			defer func() {
				s.open.Add(-1)
			}()
			s.handler(libsck.NewContext(c, sid))
		}(conn, id)
	}
}

func (s *server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *server) IsRunning() bool { return s.running.Load() }
func (s *server) IsGone() bool    { return s.gone.Load() }

func (s *server) OpenConnections() int64 { return s.open.Load() }
