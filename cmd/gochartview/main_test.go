/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gochartview/internal/config"
	"gochartview/internal/export"
	"gochartview/internal/labels"
)

type memStore map[string]string

func (m memStore) Get(service, key string) (string, error) {
	v, ok := m[service+"/"+key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}
func (m memStore) Set(service, key, value string) error { m[service+"/"+key] = value; return nil }
func (m memStore) Delete(service, key string) error     { delete(m, service+"/"+key); return nil }

const runsJSON = `{"title": "runs", "series": [{"name": "loss", "data": [[0, 1], [1, 3], [2, 2], [3, 5], [4, 4]]}]}`

// sandbox isolates config, keyring and database under a temp dir and
// returns a dataset file inside it.
func sandbox(t *testing.T) (dir, file string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv(config.EnvConfigPath, filepath.Join(dir, "config.yaml"))
	t.Setenv(config.EnvDSDriver, "sqlite")
	t.Setenv(config.EnvDSDSN, filepath.Join(dir, "store.db"))
	t.Setenv(config.EnvLogLevel, "error")
	old := config.SetTokenStore(memStore{})
	t.Cleanup(func() { config.SetTokenStore(old) })
	file = filepath.Join(dir, "runs.json")
	if err := os.WriteFile(file, []byte(runsJSON), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return dir, file
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestVersion(t *testing.T) {
	sandbox(t)
	if got := run(t, "version"); !strings.HasPrefix(got, "gochartview ") {
		t.Fatalf("version output = %q", got)
	}
}

func TestInspect(t *testing.T) {
	_, file := sandbox(t)
	got := run(t, "inspect", file)
	for _, want := range []string{"title: runs", "loss", "pointIndexed", "window: x [0, 5]"} {
		if !strings.Contains(got, want) {
			t.Fatalf("inspect output missing %q:\n%s", want, got)
		}
	}
}

func TestRenderWritesRequestedFormats(t *testing.T) {
	dir, file := sandbox(t)
	base := filepath.Join(dir, "out", "chart")
	got := run(t, "render", file, "-o", base, "--format", "svg,png", "--zoom", "1", "--markers")
	for _, ext := range []string{".svg", ".png"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Fatalf("missing %s: %v", ext, err)
		}
		if !strings.Contains(got, base+ext) {
			t.Fatalf("output does not list %s:\n%s", base+ext, got)
		}
	}
	if _, err := os.Stat(base + ".pdf"); err == nil {
		t.Fatalf("pdf was not requested")
	}
}

func TestRenderTimeLabels(t *testing.T) {
	dir, file := sandbox(t)
	out := filepath.Join(dir, "time.svg")
	run(t, "render", file, "-o", out, "--x-time-unit", "s")
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read render: %v", err)
	}
	if !strings.Contains(string(b), "00:00:02") {
		t.Fatalf("x ticks not printed as times:\n%s", b)
	}

	t.Setenv(config.EnvXTimeUnit, "fortnight")
	cmd := newRootCmd()
	cmd.SetArgs([]string{"render", file, "-o", out})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); !errors.Is(err, labels.ErrUnknownTimeUnit) {
		t.Fatalf("expected ErrUnknownTimeUnit, got %v", err)
	}
}

func TestImportListAndRenderFromStore(t *testing.T) {
	dir, file := sandbox(t)
	if got := run(t, "import", file); strings.TrimSpace(got) != "db:runs" {
		t.Fatalf("import output = %q", got)
	}
	list := run(t, "list")
	if !strings.Contains(list, "db:runs") || !strings.Contains(list, "runs") {
		t.Fatalf("list output:\n%s", list)
	}
	out := filepath.Join(dir, "stored.svg")
	run(t, "render", "db:runs", "-o", out)
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read render: %v", err)
	}
	if !strings.Contains(string(b), "<title>runs</title>") {
		t.Fatalf("stored dataset title not rendered")
	}
}

func TestConfigShowAndPassword(t *testing.T) {
	sandbox(t)
	if got := run(t, "config", "show"); !strings.Contains(got, "driver: sqlite") {
		t.Fatalf("config show:\n%s", got)
	}
	cmd := newRootCmd()
	cmd.SetArgs([]string{"config", "set-password"})
	cmd.SetIn(strings.NewReader("s3cret\n"))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("set-password: %v", err)
	}
	_, pw, err := config.Load()
	if err != nil || pw != "s3cret" {
		t.Fatalf("password = %q, %v", pw, err)
	}
}

func TestRenderFormats(t *testing.T) {
	got, err := renderFormats("x.pdf", "", nil)
	if err != nil || len(got) != 1 || got[0] != export.FormatPDF {
		t.Fatalf("extension: %v %v", got, err)
	}
	got, _ = renderFormats("x", "web", nil)
	if len(got) != 2 || got[0] != export.FormatSVG || got[1] != export.FormatPNG {
		t.Fatalf("preset: %v", got)
	}
	if _, err := renderFormats("", "", []string{"gif"}); !errors.Is(err, export.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	got, _ = renderFormats("", "", nil)
	if len(got) != 1 || got[0] != export.FormatSVG {
		t.Fatalf("default: %v", got)
	}
}

func TestMissingDatasetFails(t *testing.T) {
	dir, _ := sandbox(t)
	cmd := newRootCmd()
	cmd.SetArgs([]string{"inspect", filepath.Join(dir, "nope.json")})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
