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

// Package pool parallelizes per-article HEAD fetching across N worker NNTP
// sessions draining a shared work queue, grounded on main.c's
// WorkQueue/WorkerArgs/thread_connect/head_worker, with goroutines and
// sync.WaitGroup standing in for the original's pthread create/join loop.
package pool

import "sync"

// Queue is a mutex-guarded FIFO of article numbers, the Go equivalent of
// the original's array-backed WorkQueue.
type Queue struct {
	mu    sync.Mutex
	items []int64
	next  int
}

// NewQueue builds a queue preloaded with article numbers first..last
// inclusive, in increasing order.
func NewQueue(first, last int64) *Queue {
	if last < first {
		return &Queue{}
	}

	items := make([]int64, 0, last-first+1)
	for n := first; n <= last; n++ {
		items = append(items, n)
	}

	return &Queue{items: items}
}

// Pop removes and returns the next article number. ok is false once the
// queue is drained.
func (q *Queue) Pop() (artnum int64, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.next >= len(q.items) {
		return 0, false
	}

	artnum = q.items[q.next]
	q.next++
	return artnum, true
}

// Len reports how many items remain to be popped.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.next
}
