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
	"sync"

	"github.com/pbsgopi/ship-proxy-system/atomic"
	"github.com/pbsgopi/ship-proxy-system/internal/wire"
	"github.com/pbsgopi/ship-proxy-system/internal/xlog"
)

// pendingEntry is what the correlation table stores for one in-flight
// CorrelationId. A request awaiting a single response uses deliver/done; a
// CONNECT tunnel that stays registered for its whole lifetime routes every
// subsequent frame through the tunnel sink instead.
type pendingEntry struct {
	done    chan struct{}
	once    sync.Once
	result  []byte
	tunnel  func(payload []byte)
	isTunnel bool
}

func newOneShotEntry() *pendingEntry {
	return &pendingEntry{done: make(chan struct{})}
}

func newTunnelEntry(sink func(payload []byte)) *pendingEntry {
	return &pendingEntry{done: make(chan struct{}), tunnel: sink, isTunnel: true}
}

// deliver completes a one-shot entry exactly once; later deliveries (a
// duplicate or late frame) are dropped silently.
func (p *pendingEntry) deliver(payload []byte) {
	p.once.Do(func() {
		p.result = payload
		close(p.done)
	})
}

// close releases a tunnel entry's waiters without a result payload, used
// when the tunnel session ends.
func (p *pendingEntry) close() {
	p.once.Do(func() {
		close(p.done)
	})
}

// PendingTable is the LocalNode correlation table: CorrelationId -> the
// waiting handler's sink. Built on the module's generic typed atomic map so
// concurrent Reader dispatch and concurrent handler registration never race.
type PendingTable struct {
	m atomic.MapTyped[wire.CorrelationID, *pendingEntry]
}

// NewPendingTable returns an empty correlation table.
func NewPendingTable() *PendingTable {
	return &PendingTable{m: atomic.NewMapTyped[wire.CorrelationID, *pendingEntry]()}
}

// Register inserts a fresh one-shot entry for id. Returns false if id is
// already pending (a CorrelationId collision, which must never happen given
// a correctly implemented NewCorrelationID, but is guarded against anyway).
func (t *PendingTable) Register(id wire.CorrelationID) (*pendingEntry, bool) {
	e := newOneShotEntry()
	if _, loaded := t.m.LoadOrStore(id, e); loaded {
		return nil, false
	}

	return e, true
}

// RegisterTunnel inserts a persistent entry for id that routes every
// subsequent frame to sink instead of completing after one delivery.
func (t *PendingTable) RegisterTunnel(id wire.CorrelationID, sink func(payload []byte)) (*pendingEntry, bool) {
	e := newTunnelEntry(sink)
	if _, loaded := t.m.LoadOrStore(id, e); loaded {
		return nil, false
	}

	return e, true
}

// Dispatch routes a response frame to its waiting entry, if any. Frames for
// an unknown id are logged and dropped, matching the original's "unknown
// request ID" warning.
func (t *PendingTable) Dispatch(id wire.CorrelationID, payload []byte) {
	e, ok := t.m.Load(id)
	if !ok {
		xlog.WithFields(xlog.NewFields().Add("correlation_id", id.String())).
			Warn("received response for unknown correlation id")
		return
	}

	if e.isTunnel {
		e.tunnel(payload)
		return
	}

	t.m.Delete(id)
	e.deliver(payload)
}

// Remove deletes id unconditionally, used on handler timeout and on tunnel
// teardown.
func (t *PendingTable) Remove(id wire.CorrelationID) {
	t.m.Delete(id)
}

// RemoveAll evicts every entry and releases their waiters, called at
// process shutdown so no handler blocks forever.
func (t *PendingTable) RemoveAll() {
	t.m.Range(func(id wire.CorrelationID, e *pendingEntry) bool {
		t.m.Delete(id)
		e.close()
		return true
	})
}
