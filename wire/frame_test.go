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

package wire_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/pkgindexd/wire"
)

var _ = Describe("Decode", func() {
	It("parses a well-formed INDEX frame", func() {
		f, ok := wire.Decode("INDEX|alpha|beta,gamma")
		Expect(ok).To(BeTrue())
		Expect(f.Verb).To(Equal(wire.Index))
		Expect(f.Name).To(Equal("alpha"))
		Expect(f.Deps).To(Equal([]string{"beta", "gamma"}))
	})

	It("parses REMOVE and QUERY with an empty deps field", func() {
		f, ok := wire.Decode("REMOVE|alpha|")
		Expect(ok).To(BeTrue())
		Expect(f.Verb).To(Equal(wire.Remove))
		Expect(f.Deps).To(BeEmpty())

		f, ok = wire.Decode("QUERY|alpha|")
		Expect(ok).To(BeTrue())
		Expect(f.Verb).To(Equal(wire.Query))
	})

	It("dedups dependencies, keeping first-seen order", func() {
		f, ok := wire.Decode("INDEX|alpha|beta,gamma,beta,delta,gamma")
		Expect(ok).To(BeTrue())
		Expect(f.Deps).To(Equal([]string{"beta", "gamma", "delta"}))
	})

	DescribeTable("rejects malformed lines",
		func(line string) {
			_, ok := wire.Decode(line)
			Expect(ok).To(BeFalse())
		},
		Entry("wrong separator count, too few", "INDEX|alpha"),
		Entry("wrong separator count, too many", "INDEX|alpha|beta|extra"),
		Entry("unknown verb", "INSERT|alpha|beta"),
		Entry("empty name", "INDEX||beta"),
		Entry("leading whitespace on verb", " INDEX|alpha|beta"),
		Entry("trailing whitespace on name", "INDEX|alpha |beta"),
		Entry("lowercase verb", "index|alpha|beta"),
	)
})

var _ = Describe("Reply", func() {
	It("encodes with a trailing newline", func() {
		Expect(wire.OK.Bytes()).To(Equal([]byte("OK\n")))
		Expect(wire.Fail.Bytes()).To(Equal([]byte("FAIL\n")))
		Expect(wire.Error.Bytes()).To(Equal([]byte("ERROR\n")))
	})
})
