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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pbsgopi/ship-proxy-system/internal/wire"
)

var _ = Describe("[TC-DP] frame dispatch", func() {
	It("[TC-DP-001] fetches the origin and frames the response back under the same id", func() {
		origin, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		defer origin.Close()

		go func() {
			conn, err := origin.Accept()
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

			_, _ = conn.Write([]byte("HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok"))
		}()

		uplinkA, uplinkB := net.Pipe()
		defer uplinkA.Close()
		defer uplinkB.Close()

		fw := wire.NewFrameWriter(uplinkB)
		d := NewDispatcher(fw)

		id, _ := wire.NewCorrelationID()
		requestBytes := []byte("GET / HTTP/1.1\r\nHost: " + origin.Addr().String() + "\r\n\r\n")

		d.HandleFrame(id, requestBytes)

		gotID, payload, err := wire.ReadFrame(uplinkA)
		Expect(err).NotTo(HaveOccurred())
		Expect(gotID).To(Equal(id))
		Expect(string(payload)).To(Equal("HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok"))
	})

	It("[TC-DP-002] replies 500 when the Host header cannot be parsed", func() {
		uplinkA, uplinkB := net.Pipe()
		defer uplinkA.Close()
		defer uplinkB.Close()

		fw := wire.NewFrameWriter(uplinkB)
		d := NewDispatcher(fw)

		id, _ := wire.NewCorrelationID()
		d.HandleFrame(id, []byte("GET / HTTP/1.1\r\n\r\n"))

		gotID, payload, err := wire.ReadFrame(uplinkA)
		Expect(err).NotTo(HaveOccurred())
		Expect(gotID).To(Equal(id))
		Expect(string(payload)).To(ContainSubstring("500"))
	})

	It("[TC-DP-003] establishes a CONNECT tunnel and relays bytes in both directions", func() {
		target, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		defer target.Close()

		go func() {
			conn, err := target.Accept()
			if err != nil {
				return
			}
			defer conn.Close()

			buf := make([]byte, 5)
			_, _ = conn.Read(buf)
			_, _ = conn.Write([]byte("world"))
		}()

		uplinkA, uplinkB := net.Pipe()
		defer uplinkA.Close()
		defer uplinkB.Close()

		fw := wire.NewFrameWriter(uplinkB)
		d := NewDispatcher(fw)

		id, _ := wire.NewCorrelationID()
		d.HandleFrame(id, []byte("CONNECT "+target.Addr().String()+" HTTP/1.1\r\n\r\n"))

		gotID, payload, err := wire.ReadFrame(uplinkA)
		Expect(err).NotTo(HaveOccurred())
		Expect(gotID).To(Equal(id))
		Expect(string(payload)).To(Equal("HTTP/1.1 200 Connection established\r\n\r\n"))

		d.HandleFrame(id, []byte("hello"))

		done := make(chan []byte, 1)
		go func() {
			_, p, err := wire.ReadFrame(uplinkA)
			if err == nil {
				done <- p
			}
		}()

		select {
		case p := <-done:
			Expect(string(p)).To(Equal("world"))
		case <-time.After(2 * time.Second):
			Fail("did not receive relayed tunnel bytes in time")
		}
	})
})
