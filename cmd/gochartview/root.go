/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"gochartview/internal/chart"
	"gochartview/internal/config"
	"gochartview/internal/crash"
	"gochartview/internal/dataset"
	"gochartview/internal/labels"
	applog "gochartview/internal/log"
	"gochartview/internal/storage"
	"gochartview/internal/telemetry"
)

// storePrefix selects a stored dataset instead of a file: db:<name>.
const storePrefix = "db:"

// app is the state shared by every subcommand once the root has loaded config.
type app struct {
	cfg      config.AppConfig
	password string
	fs       afero.Fs
	metrics  *telemetry.Metrics
	log      *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{fs: afero.NewOsFs()}
	var cfgFile string
	root := &cobra.Command{
		Use:           "gochartview",
		Short:         "Pan and zoom through large series charts",
		Long:          `gochartview renders datasets (JSON, YAML, XLSX or a SQL store) as charts, to files, the terminal or a desktop window.`,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				if err := os.Setenv(config.EnvConfigPath, cfgFile); err != nil {
					return err
				}
			}
			return a.init()
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is the per-user config.yaml)")

	root.AddCommand(
		newVersionCmd(),
		newInspectCmd(a),
		newRenderCmd(a),
		newImportCmd(a),
		newListCmd(a),
		newViewCmd(a),
		newUICmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, pw, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg, a.password = cfg, pw
	applog.Init(cfg.Logging.Options())
	a.log = applog.WithComponent("cli")
	if err := crash.Setup(crash.Options{ReportDir: cfg.Crash.ReportDir, SentryDSN: cfg.Crash.SentryDSN}); err != nil {
		a.log.Warn("crash reporting disabled", slog.Any("err", err))
	}
	a.metrics = telemetry.New(telemetry.Config{Addr: cfg.Metrics.Addr, Runtime: cfg.Metrics.Runtime})
	return nil
}

func (a *app) openStore(ctx context.Context) (*storage.Store, error) {
	ds := a.cfg.Datasource
	return storage.Open(ctx, storage.Options{Driver: ds.Driver, DSN: ds.DSN, User: ds.User, Password: a.password})
}

// loadDocument reads a dataset file, or a stored dataset for "db:<name>".
func (a *app) loadDocument(ctx context.Context, src string) (dataset.Document, error) {
	crash.SetTag("dataset", src)
	if name, ok := strings.CutPrefix(src, storePrefix); ok {
		s, err := a.openStore(ctx)
		if err != nil {
			return dataset.Document{}, err
		}
		defer func() { _ = s.Close() }()
		return s.Load(ctx, name)
	}
	return dataset.Load(a.fs, src)
}

// chartFlags are the per-invocation overrides of the chart config section.
type chartFlags struct {
	width, height int
	fixedY        bool
	timeUnit      string
}

func (f *chartFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.width, "width", 0, "Surface width in pixels (default from config)")
	cmd.Flags().IntVar(&f.height, "height", 0, "Surface height in pixels (default from config)")
	cmd.Flags().BoolVar(&f.fixedY, "fixed-y", false, "Keep the y axis on the whole data range instead of fitting the visible window")
	cmd.Flags().StringVar(&f.timeUnit, "x-time-unit", "", "Label x as timestamps counted in this unit (s, ms, us, ns or a duration)")
}

// buildChart loads src and builds a chart sized by flags or config.
func (a *app) buildChart(ctx context.Context, src string, f chartFlags) (*chart.Chart, dataset.Document, error) {
	doc, err := a.loadDocument(ctx, src)
	if err != nil {
		return nil, doc, err
	}
	cfg, err := a.cfg.Chart.ToChart()
	if err != nil {
		return nil, doc, err
	}
	if f.width > 0 {
		cfg.Width = f.width
	}
	if f.height > 0 {
		cfg.Height = f.height
	}
	if f.fixedY {
		cfg.AutoFitY = false
	}
	if f.timeUnit != "" {
		if cfg.XTimeUnit, err = labels.ParseTimeUnit(f.timeUnit); err != nil {
			return nil, doc, err
		}
	}
	list, err := doc.Adapters()
	if err != nil {
		return nil, doc, err
	}
	c, err := chart.New(doc.Title, cfg, list, chart.WithMetrics(a.metrics))
	if err != nil {
		return nil, doc, fmt.Errorf("build chart: %w", err)
	}
	return c, doc, nil
}

// colors collects the per-series colour hints of doc.
func colors(doc dataset.Document) map[string]string {
	out := map[string]string{}
	for _, s := range doc.Series {
		if s.Color != "" {
			out[s.Name] = s.Color
		}
	}
	return out
}
