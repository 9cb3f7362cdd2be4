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
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pbsgopi/ship-proxy-system/internal/config"
	"github.com/pbsgopi/ship-proxy-system/internal/xlog"
)

const shutdownTimeout = 10 * time.Second

// Node wires together the Intake listener and the Uplink supervisor into
// one process lifecycle: Run blocks until SIGINT/SIGTERM/SIGQUIT, then
// drains both in order.
type Node struct {
	cfg *config.Ship

	ln      net.Listener
	intake  *Intake
	uplink  *Uplink
	pending *PendingTable

	running atomic.Bool
}

// NewNode builds a Node from cfg. The listener is bound immediately so
// startup failures surface before Run is called.
func NewNode(cfg *config.Ship) (*Node, error) {
	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return nil, err
	}

	pending := NewPendingTable()
	queue := newRequestQueue(cfg.QueueCapacity)
	uplink := NewUplink(cfg.OffshoreHost, cfg.OffshorePort, cfg.ReconnectBackoff, queue, pending)
	intake := NewIntake(pending, queue, cfg.RequestTimeout)

	return &Node{
		cfg:     cfg,
		ln:      ln,
		intake:  intake,
		uplink:  uplink,
		pending: pending,
	}, nil
}

// Run starts the uplink supervisor and the client-facing accept loop, then
// blocks until a termination signal arrives or ctx is cancelled.
func (n *Node) Run(ctx context.Context) error {
	n.running.Store(true)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	n.uplink.Start(ctx)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- n.intake.Serve(n.ln)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sig)

	var serveFailure error

	select {
	case <-sig:
		xlog.Log(xlog.InfoLevel, "shutdown signal received")
	case err := <-serveErr:
		if n.running.Load() {
			serveFailure = err
			xlog.LogError("accept loop exited unexpectedly", nil, err)
		}
	case <-ctx.Done():
	}

	if err := n.Shutdown(); err != nil && serveFailure == nil {
		return err
	}

	return serveFailure
}

// Shutdown stops accepting new connections, releases every blocked handler,
// and tears down the uplink, bounded by shutdownTimeout.
func (n *Node) Shutdown() error {
	n.running.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := n.ln.Close()

	done := make(chan struct{})
	go func() {
		n.pending.RemoveAll()
		n.uplink.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		xlog.Log(xlog.WarnLevel, "shutdown timed out before uplink teardown completed")
	}

	return err
}
