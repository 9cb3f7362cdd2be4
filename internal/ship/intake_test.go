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

	"github.com/pbsgopi/ship-proxy-system/internal/xerrors"
)

var _ = Describe("[TC-IN] request head parsing", func() {
	It("[TC-IN-001] splits method, target and proto from the request line", func() {
		method, target, proto, ok := parseRequestLine("GET http://example.test/hello HTTP/1.1")
		Expect(ok).To(BeTrue())
		Expect(method).To(Equal("GET"))
		Expect(target).To(Equal("http://example.test/hello"))
		Expect(proto).To(Equal("HTTP/1.1"))
	})

	It("[TC-IN-002] rejects a malformed request line", func() {
		_, _, _, ok := parseRequestLine("not a request line")
		Expect(ok).To(BeFalse())
	})

	It("[TC-IN-003] reads Content-Length case-insensitively", func() {
		Expect(contentLengthOf([]string{"content-length: 42"})).To(Equal(42))
		Expect(contentLengthOf([]string{"Host: example.test"})).To(Equal(0))
	})

	It("[TC-IN-004] treats HTTP/1.1 as keep-alive unless Connection: close is sent", func() {
		Expect(keepAlive("HTTP/1.1", nil)).To(BeTrue())
		Expect(keepAlive("HTTP/1.1", []string{"Connection: close"})).To(BeFalse())
		Expect(keepAlive("HTTP/1.0", nil)).To(BeFalse())
	})

	It("[TC-IN-005] rebuilds request bytes preserving header order and casing", func() {
		got := buildRequestBytes("GET / HTTP/1.1", []string{"Host: example.test", "X-Trace-Id: abc"}, []byte("body"))
		Expect(string(got)).To(Equal("GET / HTTP/1.1\r\nHost: example.test\r\nX-Trace-Id: abc\r\n\r\nbody"))
	})
})

var _ = Describe("[TC-FW] forward/timeout behavior", func() {
	It("[TC-FW-001] returns the response once the uplink delivers it", func() {
		pending := NewPendingTable()
		queue := newRequestQueue(4)
		in := NewIntake(pending, queue, time.Second)

		go func() {
			req, ok := queue.Pop()
			if !ok {
				return
			}
			pending.Dispatch(req.id, []byte("HTTP/1.1 200 OK\r\n\r\n"))
		}()

		resp, err := in.forward([]byte("GET / HTTP/1.1\r\n\r\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp).To(Equal([]byte("HTTP/1.1 200 OK\r\n\r\n")))
	})

	It("[TC-FW-002] returns ErrorRequestTimeout on timeout so the caller sends 504, and removes the entry", func() {
		pending := NewPendingTable()
		queue := newRequestQueue(4)
		in := NewIntake(pending, queue, 30*time.Millisecond)

		resp, err := in.forward([]byte("GET / HTTP/1.1\r\n\r\n"))
		Expect(err).To(HaveOccurred())
		Expect(xerrors.IsCode(err, ErrorRequestTimeout)).To(BeTrue())
		Expect(resp).To(BeNil())

		req, _ := queue.Pop()
		// Register succeeds only if the timed-out entry was removed.
		_, reRegistered := pending.Register(req.id)
		Expect(reRegistered).To(BeTrue())
	})

	It("[TC-FW-003] surfaces a full queue as an error", func() {
		pending := NewPendingTable()
		queue := newRequestQueue(0)
		in := NewIntake(pending, queue, time.Second)

		_, err := in.forward([]byte("GET / HTTP/1.1\r\n\r\n"))
		Expect(err).To(HaveOccurred())
	})
})
