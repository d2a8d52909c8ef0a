/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package telemetry instruments chart gestures and render passes with
// Prometheus metrics. Metrics live on a private registry and are only served
// when a listen address is configured.
package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	applog "gochartview/internal/log"
	"gochartview/internal/version"
)

// Config controls the optional /metrics listener.
//
// Environment variables (read by FromEnv):
//   - GCV_METRICS_ADDR: listen address such as 127.0.0.1:9464; empty disables serving
//   - GCV_METRICS_RUNTIME: "1", "true", "yes" to add Go runtime and process collectors
type Config struct {
	Addr    string `yaml:"addr"`
	Runtime bool   `yaml:"runtime"`
}

func FromEnv() Config {
	return Config{
		Addr:    strings.TrimSpace(os.Getenv("GCV_METRICS_ADDR")),
		Runtime: parseBool(os.Getenv("GCV_METRICS_RUNTIME")),
	}
}

func parseBool(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	gestures *prometheus.CounterVec
	clamps   *prometheus.CounterVec
	frames   *prometheus.CounterVec
	render   *prometheus.HistogramVec
}

// New registers the chart collectors on a fresh registry.
func New(cfg Config) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		gestures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gochartview",
			Name:      "gestures_total",
			Help:      "View gestures applied, by kind (pan, zoom, focus, reset, undo, redo).",
		}, []string{"kind"}),
		clamps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gochartview",
			Name:      "clamps_total",
			Help:      "Gestures stopped at a data boundary or zoom limit, by axis and edge.",
		}, []string{"axis", "edge"}),
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gochartview",
			Name:      "frames_total",
			Help:      "Frames rendered, by render driver.",
		}, []string{"driver"}),
		render: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gochartview",
			Name:      "render_seconds",
			Help:      "Time spent drawing one frame, by render driver.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"driver"}),
	}
	reg.MustRegister(m.gestures, m.clamps, m.frames, m.render)
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   "gochartview",
		Name:        "build_info",
		Help:        "Build information.",
		ConstLabels: prometheus.Labels{"version": version.String()},
	}, func() float64 { return 1 }))
	if cfg.Runtime {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return m
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Default returns the process-wide metrics, built from env on first use.
func Default() *Metrics {
	defaultOnce.Do(func() { defaultMetrics = New(FromEnv()) })
	return defaultMetrics
}

// Gesture counts one applied view gesture.
func (m *Metrics) Gesture(kind string) {
	if m == nil {
		return
	}
	m.gestures.WithLabelValues(kind).Inc()
}

// Clamp counts a gesture that hit a boundary.
func (m *Metrics) Clamp(axis, edge string) {
	if m == nil {
		return
	}
	m.clamps.WithLabelValues(axis, edge).Inc()
}

// Frame records one rendered frame and how long it took.
func (m *Metrics) Frame(driver string, d time.Duration) {
	if m == nil {
		return
	}
	m.frames.WithLabelValues(driver).Inc()
	m.render.WithLabelValues(driver).Observe(d.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Serve runs a /metrics listener on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	l := applog.WithOperation(applog.WithComponent("telemetry"), "serve")
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	l.Info("metrics listener started", slog.String("addr", addr))

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			l.Error("metrics shutdown failed", slog.Any("err", err))
		}
		return nil
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
