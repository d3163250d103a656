/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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

// Package config holds the single configuration component this service
// needs, bound through viper without a multi-component registry (this
// service has exactly one component).
package config

import (
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Default values for the service's tunables.
const (
	DefaultPort                 = 8080
	DefaultMaxPacketBytes       = 1024
	DefaultMaxQueuedConnections = 100
	DefaultReadTimeout          = 30 * time.Second
	DefaultSessionBudget        = 120 * time.Second
	// DefaultMaxErrors is "effectively unbounded": a session is never cut
	// on the first, or the hundredth, malformed frame.
	DefaultMaxErrors = 1 << 30
)

// Config is the full set of tunables for the service.
type Config struct {
	Debug       bool
	Localhost   bool
	Port        int
	MetricsAddr string

	MaxPacketBytes       int
	MaxQueuedConnections int
	ReadTimeout          time.Duration
	SessionBudget        time.Duration
	MaxErrors            int64
}

// Default returns a Config populated with the recommended constants
// above.
func Default() Config {
	return Config{
		Port:                 DefaultPort,
		MaxPacketBytes:       DefaultMaxPacketBytes,
		MaxQueuedConnections: DefaultMaxQueuedConnections,
		ReadTimeout:          DefaultReadTimeout,
		SessionBudget:        DefaultSessionBudget,
		MaxErrors:            DefaultMaxErrors,
	}
}

// Load builds a Config from defaults, overridden by anything viper picked
// up from flags or the environment (prefix PKGINDEX_).
func Load(v *viper.Viper) Config {
	c := Default()

	if v == nil {
		return c
	}

	if v.IsSet("debug") {
		c.Debug = v.GetBool("debug")
	}
	if v.IsSet("localhost") {
		c.Localhost = v.GetBool("localhost")
	}
	if v.IsSet("port") {
		c.Port = v.GetInt("port")
	}
	if v.IsSet("metrics-addr") {
		c.MetricsAddr = v.GetString("metrics-addr")
	}

	return c
}

// BindAddress returns the address to pass to net.Listen: "127.0.0.1:port"
// when Localhost is set, otherwise ":port", which listens on every
// interface; it does not look up the machine's primary IP.
func (c Config) BindAddress() string {
	host := ""
	if c.Localhost {
		host = "127.0.0.1"
	}

	port := c.Port
	if port <= 0 {
		port = DefaultPort
	}

	return host + ":" + strconv.Itoa(port)
}
