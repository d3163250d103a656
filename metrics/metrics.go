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

// Package metrics exposes the Prometheus counters and gauges for the
// package index service. Metrics are purely observational: nothing here
// influences the wire protocol or graph semantics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors the session handler and acceptor update.
type Metrics struct {
	Replies          *prometheus.CounterVec
	OpenConnections  prometheus.Gauge
	SessionsAccepted prometheus.Counter
	SessionDuration  prometheus.Histogram
}

// New registers and returns a fresh set of collectors against reg. Passing
// a nil reg registers against the default Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		Replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pkgindex",
			Name:      "replies_total",
			Help:      "Replies sent to clients, labeled by reply (OK, FAIL, ERROR) and verb.",
		}, []string{"reply", "verb"}),
		OpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pkgindex",
			Name:      "open_connections",
			Help:      "Currently open client connections.",
		}),
		SessionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pkgindex",
			Name:      "sessions_accepted_total",
			Help:      "Total accepted TCP connections.",
		}),
		SessionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pkgindex",
			Name:      "session_duration_seconds",
			Help:      "Duration of a session from accept to teardown.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.Replies, m.OpenConnections, m.SessionsAccepted, m.SessionDuration)

	return m
}

// Handler returns the HTTP handler to mount at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
