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
	"strings"

	"github.com/pbsgopi/ship-proxy-system/internal/wire"
	"github.com/pbsgopi/ship-proxy-system/internal/xlog"
)

// Dispatcher handles every frame arriving on the single uplink connection.
// For a CorrelationId with an established CONNECT session it forwards the
// payload directly to the origin; otherwise it spawns an independent
// worker, matching the reference implementation's one-thread-per-request
// model.
type Dispatcher struct {
	fw       *wire.FrameWriter
	sessions *sessionTable
}

// NewDispatcher builds a Dispatcher that frames responses back through fw.
func NewDispatcher(fw *wire.FrameWriter) *Dispatcher {
	return &Dispatcher{fw: fw, sessions: newSessionTable()}
}

// HandleFrame is called once per frame read off the uplink. It never
// blocks on request/response I/O itself: standard requests and new CONNECT
// dials are handed to their own goroutine so the uplink reader keeps
// draining frames for other in-flight sessions.
func (d *Dispatcher) HandleFrame(id wire.CorrelationID, payload []byte) {
	if sess, ok := d.sessions.lookup(id); ok {
		handleTunnelFrame(sess, payload)
		return
	}

	if isConnectRequest(payload) {
		go d.startConnect(id, payload)
		return
	}

	go d.handleStandardRequest(id, payload)
}

func (d *Dispatcher) handleStandardRequest(id wire.CorrelationID, requestBytes []byte) {
	host, port, ok := hostPortFromRequest(requestBytes)
	if !ok {
		xlog.WithFields(xlog.NewFields().Add("correlation_id", id.String())).
			Warn("could not parse host from request")
		_ = d.fw.WriteFrame(id, []byte("HTTP/1.1 500 Internal Server Error\r\n\r\n"))
		return
	}

	resp, err := fetchOrigin(host, port, requestBytes)
	if err != nil {
		xlog.LogError("origin fetch failed", xlog.NewFields().Add("correlation_id", id.String()).Add("host", host), err)
		_ = d.fw.WriteFrame(id, []byte("HTTP/1.1 500 Internal Server Error\r\n\r\n"))
		return
	}

	_ = d.fw.WriteFrame(id, resp)
}

func isConnectRequest(requestBytes []byte) bool {
	i := indexOf(requestBytes, ' ')
	if i <= 0 {
		return false
	}

	return strings.EqualFold(string(requestBytes[:i]), "CONNECT")
}
