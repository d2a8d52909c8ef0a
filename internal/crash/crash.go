/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a log entry, a crash report file and,
// when a DSN is configured, a Sentry event.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"

	applog "gochartview/internal/log"
	"gochartview/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// beforeSend lets tests observe events without a network round trip.
var beforeSend func(*sentry.Event, *sentry.EventHint) *sentry.Event

// Options configures crash handling. An empty ReportDir means os.TempDir;
// an empty SentryDSN disables uploads.
type Options struct {
	ReportDir string
	SentryDSN string
}

var (
	mu      sync.Mutex
	opts    Options
	tags    = map[string]string{}
	enabled bool
)

// Setup installs opts for later Recover calls.
func Setup(o Options) error {
	mu.Lock()
	defer mu.Unlock()
	opts = o
	enabled = false
	if o.SentryDSN == "" {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              o.SentryDSN,
		AttachStacktrace: true,
		Release:          version.String(),
		BeforeSend:       beforeSend,
	})
	if err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	enabled = true
	applog.WithComponent("crash").Debug("sentry enabled")
	return nil
}

// SetTag records context (dataset, command, ...) that is written into the
// report and attached to the Sentry event.
func SetTag(key, value string) {
	mu.Lock()
	tags[key] = value
	mu.Unlock()
}

// Recover captures a panic, logs an error with stacktrace, writes an error
// report file, uploads it when Sentry is enabled, and exits with code 2.
//
// Usage: defer crash.Recover()
func Recover() {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	mu.Lock()
	o, upload, t := opts, enabled, snapshotTags()
	mu.Unlock()

	reportPath, err := writeReport(o.ReportDir, t, r, stack)
	if err != nil {
		l.Error("write crash report failed", slog.Any("err", err))
	}
	if upload {
		hub := sentry.CurrentHub().Clone()
		hub.ConfigureScope(func(scope *sentry.Scope) {
			for k, v := range t {
				if v != "" {
					scope.SetTag(k, v)
				}
			}
		})
		hub.Recover(r)
		if !sentry.Flush(2 * time.Second) {
			l.Warn("sentry flush timed out")
		}
	}

	if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
		l.Error("failed to write crash message to stderr", slog.Any("err", err))
	}
	if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
		l.Error("failed to write version info to stderr", slog.Any("err", err))
	}
	exitFn(2)
}

func snapshotTags() map[string]string {
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		out[k] = v
	}
	return out
}

func writeReport(dir string, tags map[string]string, panicVal any, stack []byte) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("crash-%s.log", stamp))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return path, err
	}

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "gochartview crash report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(&buf, "%s: %s\n", k, tags[k])
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("crash").Error("failed to close crash report file", slog.Any("err", err), slog.String("path", path))
		}
	}()
	if _, err := f.Write(buf.Bytes()); err != nil {
		return path, err
	}
	_ = f.Sync()
	return path, nil
}
