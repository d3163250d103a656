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

// Package limiter bounds the number of simultaneously active sessions so a
// connection spike cannot spawn unbounded goroutines. It is a thin
// wrapper around golang.org/x/sync/semaphore.
package limiter

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Limiter admits at most N concurrent holders of a slot.
type Limiter interface {
	// Acquire blocks until a slot is available or ctx is done.
	Acquire(ctx context.Context) error
	// Release returns a slot acquired via Acquire.
	Release()
}

type weighted struct {
	sem *semaphore.Weighted
}

// New returns a Limiter admitting at most n concurrent holders. n <= 0
// means "effectively unbounded" — the caller only needs this large enough
// for expected concurrency, not a hard protocol ceiling.
func New(n int64) Limiter {
	if n <= 0 {
		n = 1 << 20
	}
	return &weighted{sem: semaphore.NewWeighted(n)}
}

func (w *weighted) Acquire(ctx context.Context) error {
	return w.sem.Acquire(ctx, 1)
}

func (w *weighted) Release() {
	w.sem.Release(1)
}
