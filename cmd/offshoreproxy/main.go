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

// Command offshoreproxy runs the RemoteNode: it accepts the single uplink
// connection from a ship node and performs the outbound origin fetches and
// CONNECT tunnels on its behalf.
package main

import (
	"context"
	"os"

	"github.com/pbsgopi/ship-proxy-system/internal/config"
	"github.com/pbsgopi/ship-proxy-system/internal/offshore"
	"github.com/pbsgopi/ship-proxy-system/internal/xlog"
)

func main() {
	cfg, err := config.LoadOffshore()
	if err != nil {
		xlog.LogError("invalid configuration", nil, err)
		os.Exit(1)
	}

	config.ApplyLogging(cfg.LogLevel, cfg.LogFormat)

	xlog.Logf(xlog.InfoLevel, "offshore proxy starting, listening on %s", cfg.ListenAddr)

	node, err := offshore.NewNode(cfg)
	if err != nil {
		xlog.LogError("failed to start offshore node", nil, err)
		os.Exit(1)
	}

	if err := node.Run(context.Background()); err != nil {
		xlog.LogError("offshore node exited with error", nil, err)
		os.Exit(1)
	}
}
