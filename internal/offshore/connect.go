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
	"net"
	"strconv"
	"strings"

	"github.com/pbsgopi/ship-proxy-system/internal/wire"
	"github.com/pbsgopi/ship-proxy-system/internal/xlog"
)

var connectEstablished = []byte("HTTP/1.1 200 Connection established\r\n\r\n")
var connectFailed = []byte("HTTP/1.1 500 Internal Server Error\r\n\r\n")

// startConnect parses the CONNECT target from requestLine, dials it,
// registers the session, frames back the synthesized 200 response, and
// spawns the origin->ship relay half of the tunnel. The ship->origin half arrives as
// later frames dispatched to the registered session by handleFrame.
func (d *Dispatcher) startConnect(id wire.CorrelationID, requestBytes []byte) {
	requestLine := requestBytes
	if i := indexOf(requestBytes, '\r'); i >= 0 {
		requestLine = requestBytes[:i]
	}

	fields := strings.Fields(string(requestLine))
	if len(fields) < 2 {
		_ = d.fw.WriteFrame(id, connectFailed)
		return
	}

	host, portStr, err := net.SplitHostPort(fields[1])
	if err != nil {
		_ = d.fw.WriteFrame(id, connectFailed)
		return
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		_ = d.fw.WriteFrame(id, connectFailed)
		return
	}

	target, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), originDialTimeout)
	if err != nil {
		xlog.LogError("CONNECT target dial failed", xlog.NewFields().Add("correlation_id", id.String()).Add("target", fields[1]), err)
		_ = d.fw.WriteFrame(id, connectFailed)
		return
	}

	d.sessions.register(id, target)

	if err := d.fw.WriteFrame(id, connectEstablished); err != nil {
		d.sessions.remove(id)
		return
	}

	go d.relayOriginToShip(id, target)
}

// relayOriginToShip reads from the tunnel's target connection and frames
// each chunk back to the ship under the tunnel's CorrelationId until the
// target closes, at which point it sends the zero-length half-close
// sentinel and tears the session down.
func (d *Dispatcher) relayOriginToShip(id wire.CorrelationID, target net.Conn) {
	buf := make([]byte, originBufferSize)

	for {
		n, err := target.Read(buf)
		if n > 0 {
			if werr := d.fw.WriteFrame(id, buf[:n]); werr != nil {
				break
			}
		}

		if err != nil {
			break
		}
	}

	_ = d.fw.WriteFrame(id, nil)
	d.sessions.remove(id)
}

// handleTunnelFrame writes a subsequent ship->origin frame to the tunnel's
// target connection, or tears the session down on the half-close sentinel.
func handleTunnelFrame(sess *OriginSession, payload []byte) {
	if len(payload) == 0 {
		_ = sess.target.Close()
		return
	}

	_, _ = sess.target.Write(payload)
}

func indexOf(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}

	return -1
}
