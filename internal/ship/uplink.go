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
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/pbsgopi/ship-proxy-system/internal/wire"
	"github.com/pbsgopi/ship-proxy-system/internal/xlog"
)

// UplinkState is the tri-state lifecycle of the single uplink connection.
type UplinkState uint8

const (
	// Disconnected: no live socket; the Connector is dialing or backing off.
	Disconnected UplinkState = iota
	// Connecting: a dial attempt is in flight.
	Connecting
	// Connected: a live socket exists; Writer/Reader are running.
	Connected
)

// Uplink owns the single persistent TCP connection to the offshore node,
// and the three-goroutine Connector/Writer/Reader trio that keeps it alive,
// drains the outgoing queue onto it, and dispatches incoming frames to the
// pending table.
type Uplink struct {
	host    string
	port    int
	backoff time.Duration

	queue   *requestQueue
	pending *PendingTable

	mu    sync.Mutex
	state UplinkState
	conn  net.Conn
	fw    *wire.FrameWriter

	closeOnce sync.Once
	stopCh    chan struct{}
}

// NewUplink constructs an Uplink bound to the given offshore address. Call
// Start to launch its goroutines.
func NewUplink(host string, port int, backoff time.Duration, queue *requestQueue, pending *PendingTable) *Uplink {
	return &Uplink{
		host:    host,
		port:    port,
		backoff: backoff,
		queue:   queue,
		pending: pending,
		stopCh:  make(chan struct{}),
	}
}

// State returns the current connection state.
func (u *Uplink) State() UplinkState {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.state
}

// Start launches the Connector goroutine, which in turn launches Writer and
// Reader each time a connection is established.
func (u *Uplink) Start(ctx context.Context) {
	go u.connector(ctx)
}

// Stop tears down the uplink and wakes every blocked goroutine.
func (u *Uplink) Stop() {
	u.closeOnce.Do(func() {
		close(u.stopCh)
	})

	u.queue.Close()

	u.mu.Lock()
	if u.conn != nil {
		_ = u.conn.Close()
	}
	u.mu.Unlock()
}

func (u *Uplink) connector(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-u.stopCh:
			return
		default:
		}

		u.setState(Connecting)

		addr := fmt.Sprintf("%s:%d", u.host, u.port)
		xlog.Logf(xlog.InfoLevel, "connecting to offshore proxy at %s", addr)

		conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
		if err != nil {
			xlog.LogError("offshore dial failed, retrying", nil, err)
			u.setState(Disconnected)
			if !u.sleepOrStop(ctx) {
				return
			}
			continue
		}

		xlog.Log(xlog.InfoLevel, "connected to offshore proxy")

		u.mu.Lock()
		u.conn = conn
		u.fw = wire.NewFrameWriter(conn)
		u.state = Connected
		u.mu.Unlock()

		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()
			u.writer(conn)
		}()

		go func() {
			defer wg.Done()
			u.reader(conn)
		}()

		wg.Wait()

		u.mu.Lock()
		u.conn = nil
		u.fw = nil
		u.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		case <-u.stopCh:
			return
		default:
		}
	}
}

func (u *Uplink) sleepOrStop(ctx context.Context) bool {
	timer := time.NewTimer(u.backoff)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	case <-u.stopCh:
		return false
	}
}

func (u *Uplink) setState(s UplinkState) {
	u.mu.Lock()
	u.state = s
	u.mu.Unlock()
}

// writer drains the outgoing queue onto conn until a write fails, at which
// point it re-queues the failed item at the head and returns so the
// Connector can redial.
func (u *Uplink) writer(conn net.Conn) {
	for {
		req, ok := u.queue.Pop()
		if !ok {
			return
		}

		u.mu.Lock()
		fw := u.fw
		u.mu.Unlock()

		if fw == nil {
			u.queue.PushFront(req)
			return
		}

		if err := fw.WriteFrame(req.id, req.payload); err != nil {
			xlog.LogError("uplink write failed, re-queueing and reconnecting", xlog.NewFields().Add("correlation_id", req.id.String()), err)
			u.queue.PushFront(req)
			u.setState(Disconnected)
			_ = conn.Close()
			return
		}
	}
}

// reader repeatedly reads frames off conn and dispatches them to the
// pending table until a read fails, at which point it marks the uplink
// Disconnected and closes conn. The Connector redials only once the Writer
// has returned as well; a Writer blocked on an empty queue returns on its
// next dequeued item, whose write to the closed conn fails and re-queues
// it, so with no outgoing traffic the uplink stays down.
func (u *Uplink) reader(conn net.Conn) {
	for {
		id, payload, err := wire.ReadFrame(conn)
		if err != nil {
			xlog.LogError("uplink read failed, reconnecting", nil, err)
			u.setState(Disconnected)
			_ = conn.Close()
			return
		}

		u.pending.Dispatch(id, payload)
	}
}
