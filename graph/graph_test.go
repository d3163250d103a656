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

package graph_test

import (
	"fmt"
	"sort"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/pkgindexd/graph"
)

var _ = Describe("Graph", func() {
	var g *graph.Graph

	BeforeEach(func() {
		g = graph.New()
	})

	It("bootstraps a small dependency chain (S1)", func() {
		Expect(g.Index("A", nil).OK).To(BeTrue())
		Expect(g.Index("B", nil).OK).To(BeTrue())
		Expect(g.Index("C", nil).OK).To(BeTrue())
		Expect(g.Index("D", []string{"A", "B", "C"}).OK).To(BeTrue())

		Expect(g.Query("D").OK).To(BeTrue())
	})

	It("fails INDEX on a missing dependency and leaves the graph unchanged (S2)", func() {
		Expect(g.Index("A", nil).OK).To(BeTrue())

		Expect(g.Index("E", []string{"X"}).OK).To(BeFalse())
		Expect(g.Query("E").OK).To(BeFalse())
	})

	It("rejects a self-dependency without running the cycle check (S3)", func() {
		Expect(g.Index("A", nil).OK).To(BeTrue())

		Expect(g.Index("A", []string{"A"}).OK).To(BeFalse())

		res := g.Query("A")
		Expect(res.OK).To(BeTrue())
		deps, ok := g.Dependencies("A")
		Expect(ok).To(BeTrue())
		Expect(deps).To(BeEmpty())
	})

	It("rejects an indirect cycle and leaves the graph unchanged (S4)", func() {
		Expect(g.Index("A", nil).OK).To(BeTrue())
		Expect(g.Index("B", []string{"A"}).OK).To(BeTrue())
		Expect(g.Index("C", []string{"B"}).OK).To(BeTrue())

		Expect(g.Index("A", []string{"C"}).OK).To(BeFalse())

		deps, _ := g.Dependencies("A")
		Expect(deps).To(BeEmpty())
	})

	It("blocks REMOVE while dependees exist, then allows it once they're gone (S5)", func() {
		Expect(g.Index("A", nil).OK).To(BeTrue())
		Expect(g.Index("B", []string{"A"}).OK).To(BeTrue())

		Expect(g.Remove("A").OK).To(BeFalse())

		Expect(g.Remove("B").OK).To(BeTrue())
		Expect(g.Remove("A").OK).To(BeTrue())
	})

	It("treats REMOVE of an absent package as a no-op OK (idempotence, invariant 5)", func() {
		res := g.Remove("never-indexed")
		Expect(res.OK).To(BeTrue())
	})

	It("is read-only under QUERY (invariant 4)", func() {
		Expect(g.Index("A", nil).OK).To(BeTrue())

		first := g.Query("A")
		second := g.Query("A")
		Expect(first).To(Equal(second))
	})

	It("re-indexing an existing package can drop and add edges without introducing a cycle", func() {
		Expect(g.Index("A", nil).OK).To(BeTrue())
		Expect(g.Index("B", nil).OK).To(BeTrue())
		Expect(g.Index("C", []string{"A"}).OK).To(BeTrue())

		Expect(g.Index("C", []string{"B"}).OK).To(BeTrue())

		deps, _ := g.Dependencies("C")
		Expect(deps).To(Equal([]string{"B"}))

		Expect(g.Remove("A").OK).To(BeTrue())
	})

	It("keeps the forward/reverse adjacency consistent (invariant 1)", func() {
		Expect(g.Index("A", nil).OK).To(BeTrue())
		Expect(g.Index("B", []string{"A"}).OK).To(BeTrue())
		Expect(g.Index("C", []string{"A"}).OK).To(BeTrue())

		Expect(g.Remove("A").OK).To(BeFalse())

		Expect(g.Remove("B").OK).To(BeTrue())
		Expect(g.Remove("A").OK).To(BeFalse())

		Expect(g.Remove("C").OK).To(BeTrue())
		Expect(g.Remove("A").OK).To(BeTrue())
	})

	It("accepts N concurrent INDEX calls with unique names, then N concurrent QUERY calls (S7)", func() {
		const n = 64

		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func(i int) {
				defer wg.Done()
				defer GinkgoRecover()
				Expect(g.Index(fmt.Sprintf("P%d", i), nil).OK).To(BeTrue())
			}(i)
		}
		wg.Wait()

		wg.Add(n)
		for i := 0; i < n; i++ {
			go func(i int) {
				defer wg.Done()
				defer GinkgoRecover()
				Expect(g.Query(fmt.Sprintf("P%d", i)).OK).To(BeTrue())
			}(i)
		}
		wg.Wait()
	})

	It("never reports an ordering-dependent dependency list", func() {
		Expect(g.Index("A", nil).OK).To(BeTrue())
		Expect(g.Index("B", nil).OK).To(BeTrue())
		Expect(g.Index("D", []string{"A", "B"}).OK).To(BeTrue())

		deps, _ := g.Dependencies("D")
		sort.Strings(deps)
		Expect(deps).To(Equal([]string{"A", "B"}))
	})
})
