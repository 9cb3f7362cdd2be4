/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

package ship

import (
	"sync"

	"github.com/pbsgopi/ship-proxy-system/internal/wire"
)

// queuedRequest is one item waiting to be framed and sent on the uplink.
type queuedRequest struct {
	id      wire.CorrelationID
	payload []byte
}

// requestQueue is the bounded FIFO feeding the uplink Writer. The
// specification's minimum core describes an unbounded queue; this
// implementation instead enforces QueueCapacity and rejects new work with
// ErrorQueueFull once full, per the specification's own design note
// recommending bounded backpressure over unbounded growth.
type requestQueue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	items    []queuedRequest
	capacity int
	closed   bool
}

func newRequestQueue(capacity int) *requestQueue {
	q := &requestQueue{capacity: capacity}
	q.notEmpty = sync.NewCond(&q.mu)

	return q
}

// Push appends req at the tail. Returns ErrorQueueFull if the queue is at
// capacity.
func (q *requestQueue) Push(req queuedRequest) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrorUplinkDown.Error()
	}

	if len(q.items) >= q.capacity {
		return ErrorQueueFull.Error()
	}

	q.items = append(q.items, req)
	q.notEmpty.Signal()

	return nil
}

// PushFront re-queues req at the head, used by the Writer to preserve
// at-least-once delivery after a failed send.
func (q *requestQueue) PushFront(req queuedRequest) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append([]queuedRequest{req}, q.items...)
	q.notEmpty.Signal()
}

// Pop blocks until an item is available or the queue is closed, in which
// case ok is false.
func (q *requestQueue) Pop() (req queuedRequest, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.notEmpty.Wait()
	}

	if len(q.items) == 0 {
		return queuedRequest{}, false
	}

	req = q.items[0]
	q.items = q.items[1:]

	return req, true
}

// Close wakes every blocked Pop and makes further Push calls fail.
func (q *requestQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.notEmpty.Broadcast()
}
