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

var _ = Describe("[TC-PT] correlation table", func() {
	It("[TC-PT-001] delivers a response to the registered entry exactly once", func() {
		t := NewPendingTable()
		id, _ := wire.NewCorrelationID()

		entry, ok := t.Register(id)
		Expect(ok).To(BeTrue())

		t.Dispatch(id, []byte("HTTP/1.1 200 OK\r\n\r\n"))

		select {
		case <-entry.done:
			Expect(entry.result).To(Equal([]byte("HTTP/1.1 200 OK\r\n\r\n")))
		case <-time.After(time.Second):
			Fail("entry was never delivered")
		}
	})

	It("[TC-PT-002] rejects a second registration for the same id", func() {
		t := NewPendingTable()
		id, _ := wire.NewCorrelationID()

		_, ok := t.Register(id)
		Expect(ok).To(BeTrue())

		_, ok = t.Register(id)
		Expect(ok).To(BeFalse())
	})

	It("[TC-PT-003] logs and drops a response for an unknown id", func() {
		t := NewPendingTable()
		id, _ := wire.NewCorrelationID()

		Expect(func() { t.Dispatch(id, []byte("data")) }).NotTo(Panic())
	})

	It("[TC-PT-004] routes every frame to a tunnel sink without removing the entry", func() {
		t := NewPendingTable()
		id, _ := wire.NewCorrelationID()

		var received [][]byte
		_, ok := t.RegisterTunnel(id, func(payload []byte) {
			received = append(received, payload)
		})
		Expect(ok).To(BeTrue())

		t.Dispatch(id, []byte("chunk-1"))
		t.Dispatch(id, []byte("chunk-2"))

		Expect(received).To(Equal([][]byte{[]byte("chunk-1"), []byte("chunk-2")}))
	})

	It("[TC-PT-005] RemoveAll releases every waiter", func() {
		t := NewPendingTable()
		id1, _ := wire.NewCorrelationID()
		id2, _ := wire.NewCorrelationID()

		e1, _ := t.Register(id1)
		e2, _ := t.Register(id2)

		t.RemoveAll()

		Eventually(e1.done).Should(BeClosed())
		Eventually(e2.done).Should(BeClosed())
	})
})
