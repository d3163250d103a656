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

// Package graph is the in-memory package index: a name->node map
// enforcing that every dependency is itself indexed and
// that the dependency graph never contains a cycle. All three operations
// (Index, Remove, Query) run under one coarse mutex; no operation blocks
// while holding it, and no operation performs I/O while holding it.
package graph

import (
	"sync"

	"github.com/sabouaram/pkgindexd/xerrors"
)

// Result is the outcome of a graph operation, with an internal code for
// logging when OK is false. It never leaks further than the
// session package, which maps it to a wire.Reply.
type Result struct {
	OK   bool
	Code xerrors.CodeError
}

func ok() Result                      { return Result{OK: true} }
func fail(c xerrors.CodeError) Result { return Result{OK: false, Code: c} }

// Graph is the package dependency index. The zero value is not usable;
// call New.
type Graph struct {
	mu     sync.Mutex
	byName map[string]int32
	nodes  []*node
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{byName: make(map[string]int32)}
}

// Index creates or updates the package "name" with dependency list deps.
// deps is deduplicated by the caller (wire.Decode).
func (g *Graph) Index(name string, deps []string) Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, d := range deps {
		if d == name {
			return fail(xerrors.CodeSelfDependency)
		}
	}

	depIDs := make([]int32, 0, len(deps))
	for _, d := range deps {
		id, present := g.byName[d]
		if !present || !g.nodes[id].alive {
			return fail(xerrors.CodeMissingDependency)
		}
		depIDs = append(depIDs, id)
	}

	id, exists := g.byName[name]
	if !exists {
		n := newNode(name)
		id = g.add(n)
		for _, did := range depIDs {
			n.deps[did] = struct{}{}
			g.nodes[did].dependees[id] = struct{}{}
		}
		return ok()
	}

	n := g.nodes[id]

	newSet := make(map[int32]struct{}, len(depIDs))
	var added []int32
	for _, did := range depIDs {
		newSet[did] = struct{}{}
		if _, already := n.deps[did]; !already {
			added = append(added, did)
		}
	}

	if g.reaches(added, id) {
		return fail(xerrors.CodeCycleDetected)
	}

	// Commit: drop edges no longer present, add the new ones.
	for did := range n.deps {
		if _, keep := newSet[did]; !keep {
			delete(g.nodes[did].dependees, id)
		}
	}
	for _, did := range added {
		g.nodes[did].dependees[id] = struct{}{}
	}
	n.deps = newSet

	return ok()
}

// Remove deletes "name" if it has no dependees. Removing an absent
// package is idempotent and returns OK.
func (g *Graph) Remove(name string) Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, exists := g.byName[name]
	if !exists {
		return ok()
	}

	n := g.nodes[id]
	if len(n.dependees) > 0 {
		return fail(xerrors.CodeHasDependees)
	}

	for did := range n.deps {
		delete(g.nodes[did].dependees, id)
	}

	n.alive = false
	n.deps = nil
	n.dependees = nil
	delete(g.byName, name)

	return ok()
}

// Query reports whether "name" is currently indexed.
func (g *Graph) Query(name string) Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id, exists := g.byName[name]; exists && g.nodes[id].alive {
		return ok()
	}
	return fail(xerrors.CodeUnknown)
}

// Dependencies returns the current dependency list of name, for tests and
// diagnostics. Order is not meaningful and not guaranteed stable across
// calls.
func (g *Graph) Dependencies(name string) ([]string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, exists := g.byName[name]
	if !exists {
		return nil, false
	}

	out := make([]string, 0, len(g.nodes[id].deps))
	for did := range g.nodes[id].deps {
		out = append(out, g.nodes[did].name)
	}
	return out, true
}

// add appends n to the arena and registers it by name, returning its id.
func (g *Graph) add(n *node) int32 {
	id := int32(len(g.nodes))
	g.nodes = append(g.nodes, n)
	g.byName[n.name] = id
	return id
}

// reaches is the cycle-prevention DFS: it walks forward (dependencies)
// edges starting only from the newly added
// edge set and reports whether target is reachable. Because every
// previously committed edge was already known acyclic, a fresh cycle can
// only be introduced through one of the new edges, so there is no need to
// re-walk the whole graph or memoise across calls.
func (g *Graph) reaches(from []int32, target int32) bool {
	if len(from) == 0 {
		return false
	}

	visited := make(map[int32]struct{})
	stack := append([]int32(nil), from...)

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n == target {
			return true
		}
		if _, seen := visited[n]; seen {
			continue
		}
		visited[n] = struct{}{}

		for next := range g.nodes[n].deps {
			stack = append(stack, next)
		}
	}

	return false
}
