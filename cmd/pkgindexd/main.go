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

// Command pkgindexd runs the package dependency index TCP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sabouaram/pkgindexd/config"
	"github.com/sabouaram/pkgindexd/graph"
	"github.com/sabouaram/pkgindexd/limiter"
	"github.com/sabouaram/pkgindexd/logger"
	loglvl "github.com/sabouaram/pkgindexd/logger/level"
	"github.com/sabouaram/pkgindexd/metrics"
	libptc "github.com/sabouaram/pkgindexd/network/protocol"
	"github.com/sabouaram/pkgindexd/session"
	"github.com/sabouaram/pkgindexd/socket"
	libtcp "github.com/sabouaram/pkgindexd/transport/tcp"
)

const appName = "pkgindexd"

func main() {
	v := viper.New()
	v.SetEnvPrefix("pkgindex")
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:     appName,
		Short:   "In-memory package dependency index server",
		Long:    "pkgindexd accepts TCP connections speaking a line-delimited INDEX/REMOVE/QUERY protocol over an in-memory, cycle-free package dependency graph.",
		Version: "dev",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v)
		},
	}

	flags := root.PersistentFlags()
	flags.Bool("debug", false, "enable debug-level logging")
	flags.Bool("localhost", false, "bind to 127.0.0.1 instead of all interfaces")
	flags.Int("port", config.DefaultPort, "TCP port to listen on")
	flags.String("metrics-addr", "", "address to serve Prometheus /metrics on (disabled if empty)")

	_ = v.BindPFlag("debug", flags.Lookup("debug"))
	_ = v.BindPFlag("localhost", flags.Lookup("localhost"))
	_ = v.BindPFlag("port", flags.Lookup("port"))
	_ = v.BindPFlag("metrics-addr", flags.Lookup("metrics-addr"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, v *viper.Viper) error {
	cfg := config.Load(v)

	log := logger.New(os.Stdout)
	if cfg.Debug {
		log.SetLevel(loglvl.DebugLevel)
	}

	m := metrics.New(nil)
	g := graph.New()
	lim := limiter.New(int64(cfg.MaxQueuedConnections))

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil && err != http.ErrServerClosed {
				log.Error("metrics listener stopped", logger.Fields{"error": err.Error()})
			}
		}()
		log.Info("metrics listening", logger.Fields{"addr": cfg.MetricsAddr})
	}

	handler := limitedHandler(ctx, session.Handler(g, cfg, log, m), lim, log)

	srv, err := libtcp.New(handler, libtcp.Config{
		Network:     libptc.NetworkTCP,
		Address:     cfg.BindAddress(),
		ReadTimeout: cfg.ReadTimeout,
		Backlog:     cfg.MaxQueuedConnections,
	})
	if err != nil {
		return err
	}

	log.Info("listening", logger.Fields{"addr": cfg.BindAddress()})

	return srv.Listen(ctx)
}

// limitedHandler bounds concurrently-served connections to the configured
// queue size: a connection that can't acquire a slot blocks until ctx is
// canceled or one frees up, rather than being dropped or rejected outright.
func limitedHandler(ctx context.Context, next socket.HandlerFunc, lim limiter.Limiter, log logger.Logger) socket.HandlerFunc {
	return func(c socket.Context) {
		if err := lim.Acquire(ctx); err != nil {
			log.Warning("connection rejected, server shutting down", logger.Fields{"session_id": c.SessionID()})
			_ = c.Close()
			return
		}
		defer lim.Release()

		next(c)
	}
}
