/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getsentry/sentry-go"
)

func TestWriteReportCreatesFileInTemp(t *testing.T) {
	path, err := writeReport("", nil, "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(path) })
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "gochartview crash report") {
		t.Fatalf("report header missing")
	}
	if !strings.Contains(s, "Panic: boom") {
		t.Fatalf("panic content missing: %s", s)
	}
}

func TestWriteReportIncludesTags(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	path, err := writeReport(dir, map[string]string{"dataset": "runs.json", "command": "view"}, "kaboom", []byte("stack"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("expected report under %s, got %s", dir, path)
	}
	b, _ := os.ReadFile(path)
	s := string(b)
	if !strings.Contains(s, "command: view\ndataset: runs.json\n") {
		t.Fatalf("tags missing or unsorted: %s", s)
	}
}

func quietStderr(t *testing.T) {
	t.Helper()
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	t.Cleanup(func() {
		_ = w.Close()
		os.Stderr = old
		_, _ = io.Copy(io.Discard, r)
	})
}

func stubExit(t *testing.T) *int {
	t.Helper()
	code := 0
	old := exitFn
	exitFn = func(c int) { code = c }
	t.Cleanup(func() { exitFn = old })
	return &code
}

func reports(t *testing.T, dir string) []string {
	t.Helper()
	files, _ := os.ReadDir(dir)
	var out []string
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "crash-") && strings.HasSuffix(f.Name(), ".log") {
			out = append(out, filepath.Join(dir, f.Name()))
		}
	}
	return out
}

func TestRecoverWritesReportAndExits(t *testing.T) {
	quietStderr(t)
	code := stubExit(t)
	dir := t.TempDir()
	if err := Setup(Options{ReportDir: dir}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	t.Cleanup(func() { _ = Setup(Options{}) })

	func() {
		defer Recover()
		panic("boom")
	}()

	found := reports(t, dir)
	if len(found) != 1 {
		t.Fatalf("expected one crash report, got %v", found)
	}
	b, _ := os.ReadFile(found[0])
	if !strings.Contains(string(b), "Panic: boom") {
		t.Fatalf("report does not contain panic: %s", b)
	}
	if *code != 2 {
		t.Fatalf("expected exit code 2, got %d", *code)
	}
}

func TestRecoverWithoutPanicIsNoop(t *testing.T) {
	code := stubExit(t)
	func() {
		defer Recover()
	}()
	if *code != 0 {
		t.Fatalf("exit called without a panic")
	}
}

func TestRecoverSendsSentryEvent(t *testing.T) {
	quietStderr(t)
	stubExit(t)
	var got *sentry.Event
	beforeSend = func(e *sentry.Event, _ *sentry.EventHint) *sentry.Event {
		got = e
		return nil
	}
	t.Cleanup(func() {
		beforeSend = nil
		_ = Setup(Options{})
	})
	if err := Setup(Options{ReportDir: t.TempDir(), SentryDSN: "https://public@example.com/1"}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	SetTag("dataset", "runs.json")

	func() {
		defer Recover()
		panic("upload me")
	}()

	if got == nil {
		t.Fatalf("no sentry event captured")
	}
	if got.Tags["dataset"] != "runs.json" {
		t.Fatalf("tags = %v", got.Tags)
	}
}

func TestSetupRejectsBadDSN(t *testing.T) {
	t.Cleanup(func() { _ = Setup(Options{}) })
	if err := Setup(Options{SentryDSN: "::not a dsn"}); err == nil {
		t.Fatalf("expected error for malformed DSN")
	}
}
