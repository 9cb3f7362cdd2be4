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

package offshore

import (
	"bufio"
	"net"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("[TC-OR] host:port extraction", func() {
	It("[TC-OR-001] defaults to port 80 when the Host header carries none", func() {
		host, port, ok := hostPortFromRequest([]byte("GET / HTTP/1.1\r\nHost: example.test\r\n\r\n"))
		Expect(ok).To(BeTrue())
		Expect(host).To(Equal("example.test"))
		Expect(port).To(Equal(80))
	})

	It("[TC-OR-002] honors an explicit port", func() {
		host, port, ok := hostPortFromRequest([]byte("GET / HTTP/1.1\r\nHost: example.test:8443\r\n\r\n"))
		Expect(ok).To(BeTrue())
		Expect(host).To(Equal("example.test"))
		Expect(port).To(Equal(8443))
	})

	It("[TC-OR-003] fails when no Host header is present", func() {
		_, _, ok := hostPortFromRequest([]byte("GET / HTTP/1.1\r\n\r\n"))
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("[TC-CC] Connection: close enforcement", func() {
	It("[TC-CC-001] replaces an existing Connection header", func() {
		got := forceConnectionClose([]byte("GET / HTTP/1.1\r\nConnection: keep-alive\r\nHost: x\r\n\r\n"))
		Expect(string(got)).To(ContainSubstring("Connection: close"))
		Expect(string(got)).NotTo(ContainSubstring("keep-alive"))
	})

	It("[TC-CC-002] inserts the header when absent", func() {
		got := forceConnectionClose([]byte("GET / HTTP/1.1\r\nHost: x\r\n\r\n"))
		Expect(string(got)).To(ContainSubstring("Connection: close"))
	})
})

var _ = Describe("[TC-FO] origin fetch", func() {
	It("[TC-FO-001] reads the full response until the origin closes", func() {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		defer ln.Close()

		go func() {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()

			reader := bufio.NewReader(conn)
			for {
				line, err := reader.ReadString('\n')
				if err != nil || line == "\r\n" {
					break
				}
			}

			_, _ = conn.Write([]byte("HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello"))
		}()

		host, portStr, err := net.SplitHostPort(ln.Addr().String())
		Expect(err).NotTo(HaveOccurred())

		port, err := strconv.Atoi(portStr)
		Expect(err).NotTo(HaveOccurred())

		resp, err := fetchOrigin(host, port, []byte("GET / HTTP/1.1\r\nHost: "+host+"\r\n\r\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(resp)).To(Equal("HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello"))
	})
})
