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

// Package session implements the per-connection protocol loop: read,
// decode, dispatch to the graph, reply, and enforce the session-lifetime
// and error-tolerance limits.
package session

import (
	"bytes"
	"time"

	"github.com/google/uuid"

	"github.com/sabouaram/pkgindexd/config"
	"github.com/sabouaram/pkgindexd/graph"
	"github.com/sabouaram/pkgindexd/logger"
	"github.com/sabouaram/pkgindexd/metrics"
	"github.com/sabouaram/pkgindexd/socket"
	"github.com/sabouaram/pkgindexd/wire"
	"github.com/sabouaram/pkgindexd/xerrors"
)

// Handler builds a socket.HandlerFunc bound to g, cfg, log and m. The
// returned func is what transport/tcp.New spawns one goroutine per.
func Handler(g *graph.Graph, cfg config.Config, log logger.Logger, m *metrics.Metrics) socket.HandlerFunc {
	return func(c socket.Context) {
		run(c, g, cfg, log, m)
	}
}

func run(c socket.Context, g *graph.Graph, cfg config.Config, log logger.Logger, m *metrics.Metrics) {
	start := time.Now()
	defer func() {
		_ = c.Close()
		if m != nil {
			m.SessionDuration.Observe(time.Since(start).Seconds())
		}
	}()

	if m != nil {
		m.SessionsAccepted.Inc()
		m.OpenConnections.Inc()
		defer m.OpenConnections.Dec()
	}

	budget := cfg.SessionBudget
	maxErrors := cfg.MaxErrors
	maxPacket := cfg.MaxPacketBytes
	if maxPacket <= 0 {
		maxPacket = config.DefaultMaxPacketBytes
	}

	var nErrors int64
	lastAction := time.Now()

	var buf bytes.Buffer
	read := make([]byte, maxPacket)

	flog := log
	if flog != nil {
		flog = flog.WithFields(logger.Fields{
			"session_id": c.SessionID(),
			"trace_id":   uuid.NewString(),
		})
	}

	for {
		if budget <= 0 || nErrors > maxErrors {
			return
		}

		line, got, err := nextLine(c, &buf, read, maxPacket, cfg.ReadTimeout)
		if err != nil {
			return
		}
		if !got {
			// Oversized frame: the accumulated buffer exceeded
			// max_packet_bytes without finding a newline.
			writeReply(c, wire.Error)
			nErrors++
			if flog != nil {
				flog.Debug("malformed frame", logger.Fields{"reason": xerrors.CodeMalformedFrame.String()})
			}
			recordReply(m, wire.Error, "")
			continue
		}

		readDone := time.Now()

		frame, ok := wire.Decode(line)
		if !ok {
			writeReply(c, wire.Error)
			nErrors++
			if flog != nil {
				flog.Debug("malformed frame", logger.Fields{"line": line})
			}
			recordReply(m, wire.Error, "")
			continue
		}

		reply, code := dispatch(g, frame)
		writeReply(c, reply)
		recordReply(m, reply, string(frame.Verb))

		if flog != nil {
			fields := logger.Fields{"verb": string(frame.Verb), "name": frame.Name, "reply": string(reply)}
			if reply == wire.Fail {
				fields["reason"] = code.String()
			}
			flog.Debug("dispatched", fields)
		}

		budget -= readDone.Sub(lastAction)
		lastAction = time.Now()
	}
}

// dispatch routes a decoded Frame to the graph and maps its Result to a
// wire.Reply, also returning the Result's code for logging.
func dispatch(g *graph.Graph, f wire.Frame) (wire.Reply, xerrors.CodeError) {
	var res graph.Result

	switch f.Verb {
	case wire.Index:
		res = g.Index(f.Name, f.Deps)
	case wire.Remove:
		res = g.Remove(f.Name)
	case wire.Query:
		res = g.Query(f.Name)
	default:
		return wire.Error, xerrors.CodeMalformedFrame
	}

	if res.OK {
		return wire.OK, res.Code
	}
	return wire.Fail, res.Code
}

func writeReply(c socket.Context, r wire.Reply) {
	_, _ = c.Write(r.Bytes())
}

func recordReply(m *metrics.Metrics, r wire.Reply, verb string) {
	if m == nil {
		return
	}
	m.Replies.WithLabelValues(string(r), verb).Inc()
}

// nextLine returns the next newline-terminated frame (without its
// trailing \n). If the accumulated, unterminated data exceeds maxPacket
// bytes, it returns got=false (oversized/malformed) and discards the
// buffered data so the connection can resync on the next newline. Any
// read error (including read-timeout expiry) is returned as err and ends
// the session.
func nextLine(c socket.Context, buf *bytes.Buffer, read []byte, maxPacket int, readTimeout time.Duration) (line string, got bool, err error) {
	for {
		if idx := bytes.IndexByte(buf.Bytes(), '\n'); idx >= 0 {
			full := buf.Next(idx + 1)
			return string(full[:idx]), true, nil
		}

		if buf.Len() >= maxPacket {
			buf.Reset()
			return "", false, nil
		}

		if readTimeout > 0 {
			if e := c.SetReadDeadline(time.Now().Add(readTimeout)); e != nil {
				return "", false, e
			}
		}

		n, rerr := c.Read(read)
		if n > 0 {
			buf.Write(read[:n])
		}
		if rerr != nil {
			return "", false, rerr
		}
	}
}
