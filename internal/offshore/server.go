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
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/pbsgopi/ship-proxy-system/internal/config"
	"github.com/pbsgopi/ship-proxy-system/internal/wire"
	"github.com/pbsgopi/ship-proxy-system/internal/xlog"
)

// Node is the RemoteNode process: it accepts exactly one uplink connection
// at a time and runs a Dispatcher over it until the uplink drops, then
// accepts the next one.
type Node struct {
	cfg *config.Offshore
	ln  net.Listener
}

// NewNode binds the uplink listener.
func NewNode(cfg *config.Offshore) (*Node, error) {
	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return nil, err
	}

	return &Node{cfg: cfg, ln: ln}, nil
}

// Run accepts uplink connections, one at a time, until a termination
// signal arrives or ctx is cancelled. A failed or closed uplink connection
// simply loops back to Accept for the next ship.
func (n *Node) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	acceptErr := make(chan error, 1)
	go func() {
		acceptErr <- n.acceptLoop(ctx)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sig)

	select {
	case <-sig:
		xlog.Log(xlog.InfoLevel, "shutdown signal received")
	case err := <-acceptErr:
		return err
	case <-ctx.Done():
	}

	return n.Shutdown()
}

func (n *Node) acceptLoop(ctx context.Context) error {
	for {
		conn, err := n.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}

		xlog.WithFields(xlog.NewFields().Add("remote_addr", conn.RemoteAddr().String())).
			Info("ship uplink connected")

		n.serveUplink(conn)
	}
}

// serveUplink runs the reader loop for a single uplink connection until it
// closes, matching the reference implementation's synchronous
// accept-then-serve main loop: only one ship connection is served at a
// time.
func (n *Node) serveUplink(conn net.Conn) {
	defer conn.Close()

	fw := wire.NewFrameWriter(conn)
	dispatcher := NewDispatcher(fw)

	for {
		id, payload, err := wire.ReadFrame(conn)
		if err != nil {
			xlog.Log(xlog.InfoLevel, "uplink connection closed")
			return
		}

		dispatcher.HandleFrame(id, payload)
	}
}

// Shutdown stops accepting new uplink connections.
func (n *Node) Shutdown() error {
	return n.ln.Close()
}
