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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pbsgopi/ship-proxy-system/internal/wire"
)

var _ = Describe("[TC-RQ] bounded request queue", func() {
	It("[TC-RQ-001] pops items in FIFO order", func() {
		q := newRequestQueue(4)
		id1, _ := wire.NewCorrelationID()
		id2, _ := wire.NewCorrelationID()

		Expect(q.Push(queuedRequest{id: id1})).To(Succeed())
		Expect(q.Push(queuedRequest{id: id2})).To(Succeed())

		first, ok := q.Pop()
		Expect(ok).To(BeTrue())
		Expect(first.id).To(Equal(id1))

		second, ok := q.Pop()
		Expect(ok).To(BeTrue())
		Expect(second.id).To(Equal(id2))
	})

	It("[TC-RQ-002] rejects a push once at capacity", func() {
		q := newRequestQueue(1)
		id, _ := wire.NewCorrelationID()

		Expect(q.Push(queuedRequest{id: id})).To(Succeed())
		Expect(q.Push(queuedRequest{id: id})).To(HaveOccurred())
	})

	It("[TC-RQ-003] PushFront re-queues ahead of existing items", func() {
		q := newRequestQueue(4)
		id1, _ := wire.NewCorrelationID()
		id2, _ := wire.NewCorrelationID()

		Expect(q.Push(queuedRequest{id: id1})).To(Succeed())
		q.PushFront(queuedRequest{id: id2})

		first, _ := q.Pop()
		Expect(first.id).To(Equal(id2))
	})

	It("[TC-RQ-004] Pop blocks until an item is pushed", func() {
		q := newRequestQueue(4)
		id, _ := wire.NewCorrelationID()

		result := make(chan queuedRequest, 1)
		go func() {
			req, ok := q.Pop()
			if ok {
				result <- req
			}
		}()

		time.Sleep(20 * time.Millisecond)
		Expect(q.Push(queuedRequest{id: id})).To(Succeed())

		Eventually(result).Should(Receive(Equal(queuedRequest{id: id})))
	})

	It("[TC-RQ-005] Close wakes a blocked Pop with ok=false", func() {
		q := newRequestQueue(4)

		done := make(chan bool, 1)
		go func() {
			_, ok := q.Pop()
			done <- ok
		}()

		time.Sleep(20 * time.Millisecond)
		q.Close()

		Eventually(done).Should(Receive(BeFalse()))
	})
})
