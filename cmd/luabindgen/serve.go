// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/zeus-cpp/lua-binding-generator/pkg/metrics"
)

var (
	metricsOnce sync.Once
	metricsReg  = prometheus.NewRegistry()
	metricsColl *metrics.Collector
)

// metricsCollector returns the process-wide metrics.Collector, created
// lazily and shared between "generate", "watch", and "serve" so a
// single "serve" process reports counters from every run it triggers —
// the same shared-registry pattern cmd/cie/index.go's --metrics-addr
// wiring uses.
func metricsCollector() *metrics.Collector {
	metricsOnce.Do(func() {
		metricsColl = metrics.NewCollector(metricsReg)
	})
	return metricsColl
}

// runServe exposes a /metrics endpoint (promhttp, as cmd/cie/index.go
// wires for its own --metrics-addr) and a /healthz liveness endpoint,
// without running any generation itself; pair it with "watch" in a
// sidecar process for continuous regeneration plus observability.
func runServe(gf globalFlags, args []string) error {
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	addr := flags.String("addr", ":9090", "address to listen on")
	if err := flags.Parse(args); err != nil {
		return err
	}

	metricsCollector()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metricsReg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: *addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	fmt.Printf("luabindgen: serving metrics on %s/metrics\n", *addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
