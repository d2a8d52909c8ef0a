/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"

	"gochartview/internal/chart"
	"gochartview/internal/domain"
	"gochartview/internal/labels"
	"gochartview/internal/series"
	"gochartview/internal/telemetry"
)

func sampleFrame(t *testing.T, pairs ...domain.Pair) chart.Frame {
	t.Helper()
	if len(pairs) == 0 {
		pairs = []domain.Pair{domain.P(0, 1), domain.P(1, 3), domain.PNull(2), domain.P(3, 2), domain.P(4, 5)}
	}
	a, err := series.New(domain.RawSeries{SeriesSpec: domain.SeriesSpec{Name: "loss <train>"}, Pairs: pairs})
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	cfg := chart.DefaultConfig()
	cfg.Width, cfg.Height = 320, 200
	c, err := chart.New("Test & Chart", cfg, []series.Adapter{a})
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	cursor := c.View().X.ToPixel(3.5)
	return c.Frame(chart.FrameOptions{Cursor: &cursor, Labels: labels.BasicProvider{}})
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"svg": FormatSVG, " PNG ": FormatPNG, "Pdf": FormatPDF} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("gif"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if f, err := FormatOf("out/chart.PDF"); err != nil || f != FormatPDF {
		t.Fatalf("FormatOf = %q, %v", f, err)
	}
}

func TestRenderSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, FormatSVG, sampleFrame(t), Options{Grid: true, Markers: true}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<?xml") || !strings.HasSuffix(out, "</svg>\n") {
		t.Fatalf("not an svg document:\n%s", out)
	}
	if !strings.Contains(out, "<title>Test &amp; Chart</title>") {
		t.Fatalf("title not escaped")
	}
	if !strings.Contains(out, "loss &lt;train&gt;: 2.00") {
		t.Fatalf("tooltip text missing:\n%s", out)
	}
	var line string
	for _, l := range strings.Split(out, "\n") {
		if strings.Contains(l, "stroke-linejoin") && strings.Contains(l, "#1f77b4") {
			line = l
		}
	}
	if line == "" {
		t.Fatalf("series path missing:\n%s", out)
	}
	if n := strings.Count(line, "M"); n != 2 {
		t.Fatalf("null sample should split the path into 2 runs, got %d: %s", n, line)
	}
	if strings.Count(out, "<g clip-path") != 1 || strings.Count(out, "</g>") != 1 {
		t.Fatalf("series should be drawn inside one clip group")
	}
}

func TestRenderDegenerate(t *testing.T) {
	a, _ := series.New(domain.RawSeries{SeriesSpec: domain.SeriesSpec{Name: "one", Shape: domain.ShapePointTimestamped}, Pairs: []domain.Pair{domain.P(5, 1)}})
	c, err := chart.New("flat", chart.DefaultConfig(), []series.Adapter{a})
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	var buf bytes.Buffer
	if err := Render(&buf, FormatSVG, c.Frame(chart.FrameOptions{}), Options{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), ">no data</text>") || strings.Contains(buf.String(), "<path") {
		t.Fatalf("degenerate frame should draw the placeholder only:\n%s", buf.String())
	}
}

func TestRenderPNGAndPDF(t *testing.T) {
	f := sampleFrame(t)
	var png, pdf bytes.Buffer
	if err := Render(&png, FormatPNG, f, Options{Markers: true}); err != nil {
		t.Fatalf("png: %v", err)
	}
	if !bytes.HasPrefix(png.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatalf("png signature missing")
	}
	if err := Render(&pdf, FormatPDF, f, Options{Grid: true}); err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(pdf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("pdf header missing")
	}
}

func TestRenderImage(t *testing.T) {
	f := sampleFrame(t)
	img, err := RenderImage(f, Options{})
	if err != nil {
		t.Fatalf("render image: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != int(math.Ceil(f.Width)) || b.Dy() != int(math.Ceil(f.Height)) {
		t.Fatalf("bounds = %v for %vx%v", b, f.Width, f.Height)
	}
	if c := img.RGBAAt(0, 0); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Fatalf("corner should be background white, got %v", c)
	}
	if _, err := RenderImage(chart.Frame{}, Options{}); err == nil {
		t.Fatalf("expected error for an empty frame")
	}
}

func TestBatchWritesEveryFormat(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := telemetry.New(telemetry.Config{})
	jobs := Jobs("out/charts/loss.svg", PresetFormats(""))
	if len(jobs) != 3 || jobs[1].Path != "out/charts/loss.png" {
		t.Fatalf("jobs = %+v", jobs)
	}
	b := Batch{Fs: fs, Metrics: m, Limit: 2}
	if err := b.Run(context.Background(), sampleFrame(t), jobs); err != nil {
		t.Fatalf("batch: %v", err)
	}
	for _, j := range jobs {
		st, err := fs.Stat(j.Path)
		if err != nil {
			t.Fatalf("stat %s: %v", j.Path, err)
		}
		if st.Size() <= 0 {
			t.Fatalf("%s empty", j.Path)
		}
	}
	n, err := testutil.GatherAndCount(m.Registry, "gochartview_frames_total")
	if err != nil || n != 3 {
		t.Fatalf("expected frame counters for 3 drivers, got %d (%v)", n, err)
	}
}

func TestBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fs := afero.NewMemMapFs()
	err := Batch{Fs: fs}.Run(ctx, sampleFrame(t), Jobs("x", PresetFormats(PresetWeb)))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if ok, _ := afero.Exists(fs, "x.svg"); ok {
		t.Fatalf("no file should be written after cancel")
	}
}

func TestBatchUnknownFormat(t *testing.T) {
	err := Batch{Fs: afero.NewMemMapFs()}.Run(context.Background(), sampleFrame(t), []Job{{Format: "gif", Path: "a.gif"}})
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}
