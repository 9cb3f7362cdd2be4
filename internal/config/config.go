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

// Package config loads the environment-driven settings for both nodes
// through viper, the same configuration library the teacher module reaches
// for everywhere it needs layered config (env, defaults, optional file).
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pbsgopi/ship-proxy-system/internal/xerrors"
	"github.com/pbsgopi/ship-proxy-system/internal/xlog"
)

// Ship holds the LocalNode's settings.
type Ship struct {
	// ListenAddr is the address the client-facing HTTP proxy binds to.
	ListenAddr string

	// OffshoreHost/OffshorePort address the RemoteNode this ship dials.
	OffshoreHost string
	OffshorePort int

	// RequestTimeout bounds how long a client handler waits for a
	// correlated response before failing with 504.
	RequestTimeout time.Duration

	// ReconnectBackoff is the delay between failed uplink dial attempts.
	ReconnectBackoff time.Duration

	// QueueCapacity bounds the uplink request queue; a full queue fails
	// new requests with 503 rather than growing without bound.
	QueueCapacity int

	// LogLevel/LogFormat configure xlog at startup.
	LogLevel  string
	LogFormat string
}

// Offshore holds the RemoteNode's settings.
type Offshore struct {
	// ListenAddr is the address the uplink listener binds to.
	ListenAddr string

	LogLevel  string
	LogFormat string
}

func newViper(prefix string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// LoadShip reads LocalNode settings from the environment, falling back to
// the reference implementation's defaults where a variable is unset.
func LoadShip() (*Ship, error) {
	v := newViper("")

	v.SetDefault("LISTEN_ADDR", ":8080")
	v.SetDefault("OFFSHORE_HOST", "localhost")
	v.SetDefault("OFFSHORE_PORT", 9999)
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 60)
	v.SetDefault("RECONNECT_BACKOFF_SECONDS", 5)
	v.SetDefault("QUEUE_CAPACITY", 1024)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	port := v.GetInt("OFFSHORE_PORT")
	if port <= 0 || port > 65535 {
		return nil, xerrors.New(MinPkgConfigOffset, "OFFSHORE_PORT out of range")
	}

	return &Ship{
		ListenAddr:       v.GetString("LISTEN_ADDR"),
		OffshoreHost:     v.GetString("OFFSHORE_HOST"),
		OffshorePort:     port,
		RequestTimeout:   time.Duration(v.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,
		ReconnectBackoff: time.Duration(v.GetInt("RECONNECT_BACKOFF_SECONDS")) * time.Second,
		QueueCapacity:    v.GetInt("QUEUE_CAPACITY"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        v.GetString("LOG_FORMAT"),
	}, nil
}

// LoadOffshore reads RemoteNode settings from the environment.
func LoadOffshore() (*Offshore, error) {
	v := newViper("")

	v.SetDefault("LISTEN_ADDR", "0.0.0.0:9999")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	return &Offshore{
		ListenAddr: v.GetString("LISTEN_ADDR"),
		LogLevel:   v.GetString("LOG_LEVEL"),
		LogFormat:  v.GetString("LOG_FORMAT"),
	}, nil
}

// ApplyLogging wires level/format onto xlog at process startup.
func ApplyLogging(level, format string) {
	xlog.SetLevel(xlog.GetLevelString(level))

	if strings.EqualFold(format, "json") {
		xlog.SetFormat(xlog.JsonFormat)
	} else {
		xlog.SetFormat(xlog.TextFormat)
	}
}
