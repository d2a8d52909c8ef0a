/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"gochartview/internal/chart"
	applog "gochartview/internal/log"
	"gochartview/internal/telemetry"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// PresetFormats lists the formats a preset writes; unknown presets write all.
func PresetFormats(p PresetName) []Format {
	switch p {
	case PresetWeb:
		return []Format{FormatSVG, FormatPNG}
	case PresetPrint:
		return []Format{FormatPDF, FormatSVG}
	}
	return []Format{FormatSVG, FormatPNG, FormatPDF}
}

// Job is one output file.
type Job struct {
	Format Format
	Path   string
}

// Jobs names one output per format as base.<format>.
func Jobs(base string, formats []Format) []Job {
	base = strings.TrimSuffix(base, filepath.Ext(base))
	out := make([]Job, 0, len(formats))
	for _, f := range formats {
		out = append(out, Job{Format: f, Path: base + "." + string(f)})
	}
	return out
}

// Batch renders one frame to several files concurrently.
type Batch struct {
	Fs      afero.Fs
	Options Options
	Metrics *telemetry.Metrics
	Limit   int // concurrent drivers; <= 0 means one per job
}

// Run writes every job and returns the first failure. Jobs that have not
// started when ctx is cancelled are skipped.
func (b Batch) Run(ctx context.Context, f chart.Frame, jobs []Job) error {
	fs := b.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	l := applog.WithOperation(applog.WithComponent("export"), "batch")
	g, ctx := errgroup.WithContext(ctx)
	if b.Limit > 0 {
		g.SetLimit(b.Limit)
	}
	for _, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			if err := WriteFile(fs, j.Path, j.Format, f, b.Options); err != nil {
				l.Error("export failed", slog.String("path", j.Path), slog.String("format", string(j.Format)), slog.Any("err", err))
				return err
			}
			d := time.Since(start)
			b.Metrics.Frame(string(j.Format), d)
			l.Info("exported", slog.String("path", j.Path), slog.String("format", string(j.Format)), slog.Duration("took", d))
			return nil
		})
	}
	return g.Wait()
}

// WriteFile renders f into path on fs, creating parent directories.
func WriteFile(fs afero.Fs, path string, format Format, f chart.Frame, opt Options) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure out dir: %w", err)
		}
	}
	out, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", format, err)
	}
	if err := Render(out, format, f, opt); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", format, err)
	}
	return nil
}
