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

package tcp_test

import (
	"context"
	"io"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libptc "github.com/sabouaram/pkgindexd/network/protocol"
	libsck "github.com/sabouaram/pkgindexd/socket"
	libtcp "github.com/sabouaram/pkgindexd/transport/tcp"
)

func echoHandler(c libsck.Context) {
	defer func() { _ = c.Close() }()
	_, _ = io.Copy(c, c)
}

var _ = Describe("ServerTCP", func() {
	It("accepts a connection and runs the handler", func() {
		addr := getTestAddress()

		srv, err := libtcp.New(echoHandler, libtcp.Config{
			Network: libptc.NetworkTCP,
			Address: addr,
		})
		Expect(err).ToNot(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go func() {
			defer GinkgoRecover()
			_ = srv.Listen(ctx)
		}()

		Expect(waitUntil(srv.IsRunning, time.Second)).To(BeTrue())

		conn, err := net.Dial("tcp", addr)
		Expect(err).ToNot(HaveOccurred())
		defer conn.Close()

		_, err = conn.Write([]byte("ping"))
		Expect(err).ToNot(HaveOccurred())

		buf := make([]byte, 4)
		_, err = io.ReadFull(conn, buf)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(buf)).To(Equal("ping"))

		cancel()
		Expect(waitUntil(srv.IsGone, time.Second)).To(BeTrue())
	})

	It("tracks OpenConnections while a handler is in flight", func() {
		addr := getTestAddress()
		release := make(chan struct{})

		srv, err := libtcp.New(func(c libsck.Context) {
			defer c.Close()
			<-release
		}, libtcp.Config{Network: libptc.NetworkTCP, Address: addr})
		Expect(err).ToNot(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go func() {
			defer GinkgoRecover()
			_ = srv.Listen(ctx)
		}()
		Expect(waitUntil(srv.IsRunning, time.Second)).To(BeTrue())

		conn, err := net.Dial("tcp", addr)
		Expect(err).ToNot(HaveOccurred())
		defer conn.Close()

		Expect(waitUntil(func() bool { return srv.OpenConnections() == 1 }, time.Second)).To(BeTrue())

		close(release)
		Expect(waitUntil(func() bool { return srv.OpenConnections() == 0 }, time.Second)).To(BeTrue())
	})
})
