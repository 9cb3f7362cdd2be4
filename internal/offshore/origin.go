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

// Package offshore implements the RemoteNode: it accepts the single uplink
// connection from a ship node, dispatches each framed request to an
// outbound origin fetch or an established CONNECT tunnel, and frames the
// result back with the same CorrelationId.
package offshore

import (
	"bytes"
	"net"
	"strconv"
	"strings"
	"time"
)

const originBufferSize = 8192
const originDialTimeout = 10 * time.Second

// hostPortFromRequest extracts the origin host:port from a request's Host
// header, defaulting to port 80 the way the reference implementation does.
func hostPortFromRequest(requestBytes []byte) (host string, port int, ok bool) {
	lines := bytes.Split(requestBytes, []byte("\r\n"))

	for _, line := range lines {
		s := string(line)
		if len(s) < 5 || !strings.EqualFold(s[:5], "host:") {
			continue
		}

		value := strings.TrimSpace(s[5:])
		if value == "" {
			return "", 0, false
		}

		if h, p, err := net.SplitHostPort(value); err == nil {
			n, err := strconv.Atoi(p)
			if err != nil {
				return "", 0, false
			}
			return h, n, true
		}

		return value, 80, true
	}

	return "", 0, false
}

// forceConnectionClose replaces or inserts a `Connection: close` header so
// the "read until close" response-collection strategy below is valid: the
// origin is trusted to close its end once its response is fully sent.
func forceConnectionClose(requestBytes []byte) []byte {
	lines := bytes.Split(requestBytes, []byte("\r\n"))
	out := make([][]byte, 0, len(lines)+1)

	replaced := false
	sawBlank := false

	for _, line := range lines {
		if !sawBlank && len(line) >= 11 && strings.EqualFold(string(line[:11]), "connection:") {
			out = append(out, []byte("Connection: close"))
			replaced = true
			continue
		}

		if len(line) == 0 && !sawBlank {
			if !replaced {
				out = append(out, []byte("Connection: close"))
			}
			sawBlank = true
		}

		out = append(out, line)
	}

	return bytes.Join(out, []byte("\r\n"))
}

// fetchOrigin dials host:port, replays requestBytes verbatim (with
// Connection: close enforced), and reads until the origin closes the
// connection, per the specification's permitted "read until close"
// simplification.
func fetchOrigin(host string, port int, requestBytes []byte) ([]byte, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	conn, err := net.DialTimeout("tcp", addr, originDialTimeout)
	if err != nil {
		return nil, ErrorOriginDial.Errorf("dial %s: %v", addr, err)
	}
	defer conn.Close()

	if _, err := conn.Write(forceConnectionClose(requestBytes)); err != nil {
		return nil, ErrorOriginIO.Errorf("write to %s: %v", addr, err)
	}

	var buf bytes.Buffer
	chunk := make([]byte, originBufferSize)

	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}

		if err != nil {
			break
		}
	}

	return buf.Bytes(), nil
}
