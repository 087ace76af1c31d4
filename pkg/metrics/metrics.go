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

// Package metrics exposes the generator's run counters as Prometheus
// gauges/counters, following the same promhttp.Handler pattern this
// generator's ancestor used for its own optional --metrics-addr server
// (cmd/cie/index.go).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector implements driver.Metrics against a Prometheus registry.
type Collector struct {
	FilesGenerated prometheus.Counter
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	DirtySetSize   prometheus.Gauge
	ParseErrors    prometheus.Counter
}

// NewCollector registers the generator's counters on reg and returns a
// Collector. Passing prometheus.NewRegistry() keeps the metrics scoped
// to one process rather than polluting the default global registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		FilesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "luabindgen",
			Name:      "files_generated_total",
			Help:      "Number of .cpp binding files successfully (re)generated.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "luabindgen",
			Name:      "cache_hits_total",
			Help:      "Number of input files classified Clean against the incremental cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "luabindgen",
			Name:      "cache_misses_total",
			Help:      "Number of input files classified Dirty against the incremental cache.",
		}),
		DirtySetSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "luabindgen",
			Name:      "dirty_set_size",
			Help:      "Number of files classified Dirty in the most recent run, after dependency propagation.",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "luabindgen",
			Name:      "parse_errors_total",
			Help:      "Number of per-file pipeline failures (parse, infer, or emit).",
		}),
	}
	reg.MustRegister(c.FilesGenerated, c.CacheHits, c.CacheMisses, c.DirtySetSize, c.ParseErrors)
	return c
}

func (c *Collector) IncFilesGenerated()      { c.FilesGenerated.Inc() }
func (c *Collector) IncCacheHit()            { c.CacheHits.Inc() }
func (c *Collector) IncCacheMiss()           { c.CacheMisses.Inc() }
func (c *Collector) ObserveDirtySetSize(n int) { c.DirtySetSize.Set(float64(n)) }
func (c *Collector) IncParseError()          { c.ParseErrors.Inc() }
