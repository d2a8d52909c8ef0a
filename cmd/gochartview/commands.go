/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"gochartview/internal/chart"
	"gochartview/internal/config"
	"gochartview/internal/crash"
	"gochartview/internal/dataset"
	"gochartview/internal/export"
	"gochartview/internal/labels"
	"gochartview/internal/tui"
	"gochartview/internal/ui"
	"gochartview/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "gochartview", version.String())
			return err
		},
	}
}

func newInspectCmd(a *app) *cobra.Command {
	var flags chartFlags
	cmd := &cobra.Command{
		Use:   "inspect <dataset>",
		Short: "Validate a dataset and print its series and initial window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, doc, err := a.buildChart(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "title: %s\n", doc.Title)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SERIES\tSHAPE\tSAMPLES\tX\tY")
			for _, s := range c.Series() {
				b := s.Bounds()
				fmt.Fprintf(tw, "%s\t%s\t%d\t[%g, %g]\t[%g, %g]\n", s.Name(), s.Shape(), s.Len(), b.X.Min, b.X.Max, b.Y.Min, b.Y.Max)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			v := c.View()
			if v.Degenerate() {
				fmt.Fprintln(out, "window: degenerate (no drawable range)")
				return nil
			}
			x, y := v.X.Window(), v.Y.Window()
			_, err = fmt.Fprintf(out, "window: x [%g, %g] y [%g, %g]\n", x.Min, x.Max, y.Min, y.Max)
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		flags    chartFlags
		out      string
		preset   string
		formats  []string
		cursor   float64
		opt      export.Options
		zoom     float64
		pan      float64
		fontPath string
	)
	cmd := &cobra.Command{
		Use:   "render <dataset>",
		Short: "Render a dataset to SVG, PNG and/or PDF files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, doc, err := a.buildChart(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			if zoom != 0 {
				c.Zoom(zoom)
			}
			if pan != 0 {
				c.Pan(pan, 0)
			}
			fo := chart.FrameOptions{Colors: colors(doc), Labels: labels.NewOTProvider(), Font: labels.FontSpec{Path: fontPath}}
			if cmd.Flags().Changed("cursor") {
				fo.Cursor = &cursor
			}
			fmts, err := renderFormats(out, preset, formats)
			if err != nil {
				return err
			}
			if out == "" {
				base := filepath.Base(strings.TrimPrefix(args[0], storePrefix))
				out = strings.TrimSuffix(base, filepath.Ext(base))
			}
			jobs := export.Jobs(out, fmts)
			b := export.Batch{Fs: a.fs, Options: opt, Metrics: a.metrics}
			if err := b.Run(cmd.Context(), c.Frame(fo), jobs); err != nil {
				return err
			}
			for _, j := range jobs {
				fmt.Fprintln(cmd.OutOrStdout(), j.Path)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path; the extension picks the format unless --format or --preset is given")
	cmd.Flags().StringVar(&preset, "preset", "", "Export preset: web (svg, png) or print (pdf, svg)")
	cmd.Flags().StringSliceVar(&formats, "format", nil, "Formats to write (svg, png, pdf)")
	cmd.Flags().Float64Var(&cursor, "cursor", 0, "Draw the tooltip for this pointer x (pixels)")
	cmd.Flags().Float64Var(&zoom, "zoom", 0, "Wheel notches applied before rendering (positive zooms in)")
	cmd.Flags().Float64Var(&pan, "pan", 0, "Horizontal drag in pixels applied before rendering")
	cmd.Flags().BoolVar(&opt.Markers, "markers", false, "Dot every visible sample")
	cmd.Flags().BoolVar(&opt.Grid, "grid", true, "Draw grid lines at the ticks")
	cmd.Flags().StringVar(&fontPath, "font", "", "TTF/OTF file used to measure tick labels (default: built-in 7x13)")
	return cmd
}

// renderFormats resolves --format, then --preset, then the output extension.
func renderFormats(out, preset string, names []string) ([]export.Format, error) {
	if len(names) > 0 {
		fmts := make([]export.Format, 0, len(names))
		for _, n := range names {
			f, err := export.ParseFormat(n)
			if err != nil {
				return nil, err
			}
			fmts = append(fmts, f)
		}
		return fmts, nil
	}
	if preset != "" {
		return export.PresetFormats(export.PresetName(preset)), nil
	}
	if out != "" {
		if f, err := export.FormatOf(out); err == nil {
			return []export.Format{f}, nil
		}
	}
	return []export.Format{export.FormatSVG}, nil
}

func newImportCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Store dataset files in the configured database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name != "" && len(args) > 1 {
				return errors.New("--name only applies to a single file")
			}
			ctx := cmd.Context()
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			// Parse concurrently; the store serialises the writes.
			docs := make([]struct {
				name string
				doc  dataset.Document
			}, len(args))
			g, gctx := errgroup.WithContext(ctx)
			for i, path := range args {
				g.Go(func() error {
					doc, err := a.loadDocument(gctx, path)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					n := name
					if n == "" {
						n = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
					}
					docs[i].name, docs[i].doc = n, doc
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			for _, d := range docs {
				if err := s.Save(ctx, d.name, d.doc); err != nil {
					return err
				}
				a.log.Info("imported", slog.String("dataset", d.name))
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", storePrefix, d.name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Dataset name (default: file name without extension)")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List datasets in the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			list, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTITLE\tSERIES\tSAMPLES\tUPDATED")
			for _, d := range list {
				fmt.Fprintf(tw, "%s%s\t%s\t%d\t%d\t%s\n", storePrefix, d.Name, d.Title, d.Series, d.Points, d.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
}

func newViewCmd(a *app) *cobra.Command {
	var (
		flags   chartFlags
		noColor bool
	)
	cmd := &cobra.Command{
		Use:   "view <dataset>",
		Short: "Explore a dataset in the terminal (arrows/drag pan, wheel/+/- zoom)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			crash.SetTag("command", "view")
			c, _, err := a.buildChart(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if addr := a.cfg.Metrics.Addr; addr != "" {
				go func() {
					if err := a.metrics.Serve(ctx, addr); err != nil {
						a.log.Error("metrics listener failed", slog.Any("err", err))
					}
				}()
			}
			return tui.Run(ctx, c, tui.WithMetrics(a.metrics), tui.WithColor(!noColor))
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Draw every series in the terminal's default colour")
	return cmd
}

func newUICmd(a *app) *cobra.Command {
	var flags chartFlags
	cmd := &cobra.Command{
		Use:   "ui <dataset>",
		Short: "Open a dataset in the desktop viewer (build with -tags fyne)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			crash.SetTag("command", "ui")
			c, doc, err := a.buildChart(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			return ui.Run(c, ui.Options{Metrics: a.metrics, Colors: colors(doc), Export: export.Options{Grid: true}})
		},
	}
	flags.register(cmd)
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <command>",
		Short: "Configuration commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer func() { _ = enc.Close() }()
			return enc.Encode(a.cfg)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set-password",
		Short: "Read the datasource password from stdin and keep it in the OS keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			pw := strings.TrimRight(line, "\r\n")
			if pw == "" {
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				return errors.New("empty password")
			}
			return config.Save(a.cfg, pw)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "forget-password",
		Short: "Remove the datasource password from the OS keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.ForgetPassword(a.cfg.Datasource.User)
		},
	})
	return cmd
}
