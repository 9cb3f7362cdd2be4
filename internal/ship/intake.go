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

// Package ship implements the LocalNode: the client-facing HTTP proxy that
// funnels every accepted request over the single persistent uplink to the
// offshore node and demultiplexes the correlated response back.
package ship

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pbsgopi/ship-proxy-system/internal/wire"
	"github.com/pbsgopi/ship-proxy-system/internal/xerrors"
	"github.com/pbsgopi/ship-proxy-system/internal/xlog"
)

const readBufferSize = 8192

var (
	response500 = []byte("HTTP/1.1 500 Internal Server Error\r\nConnection: close\r\n\r\n")
	response504 = []byte("HTTP/1.1 504 Gateway Timeout\r\nConnection: close\r\n\r\n")
	response501 = []byte("HTTP/1.1 501 Not Implemented\r\nConnection: close\r\n\r\n")
	response400 = []byte("HTTP/1.1 400 Bad Request\r\nConnection: close\r\n\r\n")
)

// Intake is the client-facing side of the LocalNode: it owns the
// correlation table and the outgoing queue feeding the uplink, and turns
// raw client bytes into framed requests and framed responses back into raw
// client bytes.
type Intake struct {
	pending        *PendingTable
	queue          *requestQueue
	requestTimeout time.Duration
}

// NewIntake builds an Intake wired to the given correlation table and
// uplink queue.
func NewIntake(pending *PendingTable, queue *requestQueue, requestTimeout time.Duration) *Intake {
	return &Intake{pending: pending, queue: queue, requestTimeout: requestTimeout}
}

// Serve accepts connections on ln until it is closed, spawning one
// goroutine per client connection, mirroring the reference
// ThreadingHTTPServer's one-thread-per-request model.
func (in *Intake) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}

		go in.handleConn(conn)
	}
}

func (in *Intake) handleConn(conn net.Conn) {
	defer conn.Close()

	r := bufio.NewReaderSize(conn, readBufferSize)

	for {
		requestLine, headerLines, err := readRequestHead(r)
		if err != nil {
			return
		}

		method, target, proto, ok := parseRequestLine(requestLine)
		if !ok {
			_, _ = conn.Write(response400)
			return
		}

		if strings.EqualFold(method, "CONNECT") {
			in.handleConnect(conn, target, requestLine, headerLines)
			return
		}

		contentLength := contentLengthOf(headerLines)

		body := make([]byte, contentLength)
		if contentLength > 0 {
			if _, err := io.ReadFull(r, body); err != nil {
				return
			}
		}

		full := buildRequestBytes(requestLine, headerLines, body)

		resp, err := in.forward(full)
		if err != nil {
			xlog.LogError("request forwarding failed", nil, err)
			if xerrors.IsCode(err, ErrorQueueFull) {
				_, _ = conn.Write([]byte("HTTP/1.1 503 Service Unavailable\r\nConnection: close\r\n\r\n"))
			} else {
				_, _ = conn.Write(response504)
			}
			continue
		}

		if _, err := conn.Write(resp); err != nil {
			return
		}

		if !keepAlive(proto, headerLines) {
			return
		}
	}
}

// forward mints a CorrelationId, registers a pending entry, enqueues the
// request, and blocks until the correlated response arrives or
// requestTimeout elapses.
func (in *Intake) forward(requestBytes []byte) ([]byte, error) {
	id, err := wire.NewCorrelationID()
	if err != nil {
		return nil, err
	}

	entry, ok := in.pending.Register(id)
	if !ok {
		return nil, ErrorCorrelationCollision.Error()
	}

	if err := in.queue.Push(queuedRequest{id: id, payload: requestBytes}); err != nil {
		in.pending.Remove(id)
		return nil, err
	}

	timer := time.NewTimer(in.requestTimeout)
	defer timer.Stop()

	select {
	case <-entry.done:
		return entry.result, nil
	case <-timer.C:
		in.pending.Remove(id)
		return nil, ErrorRequestTimeout.Error()
	}
}

// handleConnect implements the CONNECT tunnel: the first frame carries the
// CONNECT request line itself and waits for the synthesized 200 response
// like any other request; once established, the pending entry is switched
// to tunnel mode and bytes flow both ways as subsequent frames under the
// same CorrelationId.
func (in *Intake) handleConnect(conn net.Conn, target, requestLine string, headerLines []string) {
	full := buildRequestBytes(requestLine, headerLines, nil)

	id, err := wire.NewCorrelationID()
	if err != nil {
		_, _ = conn.Write(response500)
		return
	}

	entry, ok := in.pending.Register(id)
	if !ok {
		_, _ = conn.Write(response500)
		return
	}

	if err := in.queue.Push(queuedRequest{id: id, payload: full}); err != nil {
		in.pending.Remove(id)
		_, _ = conn.Write(response500)
		return
	}

	timer := time.NewTimer(in.requestTimeout)
	defer timer.Stop()

	select {
	case <-entry.done:
		if entry.result == nil {
			_, _ = conn.Write(response500)
			return
		}
		if _, err := conn.Write(entry.result); err != nil {
			return
		}
	case <-timer.C:
		in.pending.Remove(id)
		_, _ = conn.Write(response504)
		return
	}

	if !bytes.Contains(entry.result, []byte(" 200 ")) {
		return
	}

	xlog.WithFields(xlog.NewFields().Add("correlation_id", id.String()).Add("target", target)).
		Info("CONNECT tunnel established")

	done := make(chan struct{})
	var closeOnce sync.Once
	closeTunnel := func() {
		closeOnce.Do(func() {
			close(done)
			in.pending.Remove(id)
		})
	}

	_, ok = in.pending.RegisterTunnel(id, func(payload []byte) {
		if len(payload) == 0 {
			closeTunnel()
			return
		}

		if _, err := conn.Write(payload); err != nil {
			closeTunnel()
		}
	})
	if !ok {
		return
	}

	buf := make([]byte, readBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			if perr := in.queue.Push(queuedRequest{id: id, payload: append([]byte(nil), buf[:n]...)}); perr != nil {
				break
			}
		}

		if err != nil {
			_ = in.queue.Push(queuedRequest{id: id, payload: nil})
			break
		}

		select {
		case <-done:
			return
		default:
		}
	}

	<-done
}

func readRequestHead(r *bufio.Reader) (requestLine string, headerLines []string, err error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", nil, err
	}
	requestLine = strings.TrimRight(line, "\r\n")

	for {
		line, err = r.ReadString('\n')
		if err != nil {
			return "", nil, err
		}

		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" {
			break
		}

		headerLines = append(headerLines, trimmed)
	}

	return requestLine, headerLines, nil
}

func parseRequestLine(line string) (method, target, proto string, ok bool) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return "", "", "", false
	}

	return parts[0], parts[1], parts[2], true
}

func contentLengthOf(headerLines []string) int {
	for _, h := range headerLines {
		name, value, ok := splitHeaderLine(h)
		if ok && strings.EqualFold(name, "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err == nil && n > 0 {
				return n
			}
		}
	}

	return 0
}

func keepAlive(proto string, headerLines []string) bool {
	for _, h := range headerLines {
		name, value, ok := splitHeaderLine(h)
		if ok && strings.EqualFold(name, "Connection") {
			return !strings.EqualFold(strings.TrimSpace(value), "close")
		}
	}

	return strings.EqualFold(strings.TrimSpace(proto), "HTTP/1.1")
}

func splitHeaderLine(h string) (name, value string, ok bool) {
	i := strings.Index(h, ":")
	if i < 0 {
		return "", "", false
	}

	return h[:i], h[i+1:], true
}

func buildRequestBytes(requestLine string, headerLines []string, body []byte) []byte {
	var sb bytes.Buffer

	sb.WriteString(requestLine)
	sb.WriteString("\r\n")

	for _, h := range headerLines {
		sb.WriteString(h)
		sb.WriteString("\r\n")
	}

	sb.WriteString("\r\n")
	sb.Write(body)

	return sb.Bytes()
}
