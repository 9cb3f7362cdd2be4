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

	"github.com/pbsgopi/ship-proxy-system/atomic"
	"github.com/pbsgopi/ship-proxy-system/internal/wire"
)

// OriginSession is the per-CorrelationId transient state the reader's
// dispatcher consults before spawning a new worker: once a CONNECT tunnel
// is established, every subsequent frame bearing its id is routed here
// instead of starting a fresh origin dial.
type OriginSession struct {
	target net.Conn
}

// sessionTable tracks every live CONNECT tunnel by CorrelationId.
type sessionTable struct {
	m atomic.MapTyped[wire.CorrelationID, *OriginSession]
}

func newSessionTable() *sessionTable {
	return &sessionTable{m: atomic.NewMapTyped[wire.CorrelationID, *OriginSession]()}
}

func (s *sessionTable) register(id wire.CorrelationID, target net.Conn) *OriginSession {
	sess := &OriginSession{target: target}
	s.m.Store(id, sess)

	return sess
}

func (s *sessionTable) lookup(id wire.CorrelationID) (*OriginSession, bool) {
	return s.m.Load(id)
}

func (s *sessionTable) remove(id wire.CorrelationID) {
	if sess, ok := s.m.LoadAndDelete(id); ok {
		_ = sess.target.Close()
	}
}
