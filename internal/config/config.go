/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"

	"gochartview/internal/axis"
	"gochartview/internal/chart"
	"gochartview/internal/labels"
	applog "gochartview/internal/log"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Fields missing from the file keep their defaults.

type PaddingConfig struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

type AxisConfig struct {
	Padding  PaddingConfig `yaml:"padding"`
	DeltaMin float64       `yaml:"delta_min"`
	DeltaMax float64       `yaml:"delta_max"` // 0 means unbounded
}

type ChartConfig struct {
	Width     int        `yaml:"width"`
	Height    int        `yaml:"height"`
	Density   float64    `yaml:"density"`
	Precision int        `yaml:"precision"`
	ZoomStep  float64    `yaml:"zoom_step"`
	AutoFitY  bool       `yaml:"auto_fit_y"`
	TickCount int        `yaml:"tick_count"`
	XTimeUnit string     `yaml:"x_time_unit"` // e.g. "s" or "ms"; empty prints plain numbers
	X         AxisConfig `yaml:"x"`
	Y         AxisConfig `yaml:"y"`
}

type DatasourceConfig struct {
	Driver string `yaml:"driver"` // "sqlite" | "pgx"
	DSN    string `yaml:"dsn"`
	User   string `yaml:"user"`
	// Password is not stored on disk; it lives in the OS keychain.
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type CrashConfig struct {
	ReportDir string `yaml:"report_dir"`
	SentryDSN string `yaml:"sentry_dsn"`
}

type MetricsConfig struct {
	Addr    string `yaml:"addr"` // empty disables the /metrics listener
	Runtime bool   `yaml:"runtime"`
}

type AppConfig struct {
	ConfigVersion int              `yaml:"config_version"`
	Chart         ChartConfig      `yaml:"chart"`
	Datasource    DatasourceConfig `yaml:"datasource"`
	Logging       LoggingConfig    `yaml:"logging"`
	Crash         CrashConfig      `yaml:"crash"`
	Metrics       MetricsConfig    `yaml:"metrics"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	c := chart.DefaultConfig()
	return AppConfig{
		ConfigVersion: 1,
		Chart: ChartConfig{
			Width: c.Width, Height: c.Height, Density: c.Density, Precision: c.Precision,
			ZoomStep: c.ZoomStep, AutoFitY: c.AutoFitY, TickCount: c.TickCount,
			X: AxisConfig{Padding: PaddingConfig{c.X.Padding.Start, c.X.Padding.End}, DeltaMin: c.X.DeltaMin},
			Y: AxisConfig{Padding: PaddingConfig{c.Y.Padding.Start, c.Y.Padding.End}, DeltaMin: c.Y.DeltaMin},
		},
		Datasource: DatasourceConfig{Driver: "sqlite", DSN: "gochartview.db"},
		Logging:    LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath   = "GCV_CONFIG"
	EnvChartWidth   = "GCV_CHART_WIDTH"
	EnvChartHeight  = "GCV_CHART_HEIGHT"
	EnvChartDensity = "GCV_CHART_DENSITY"
	EnvAutoFitY     = "GCV_CHART_AUTO_FIT_Y"
	EnvXTimeUnit    = "GCV_CHART_X_TIME_UNIT"
	EnvDSDriver     = "GCV_DATASOURCE_DRIVER"
	EnvDSDSN        = "GCV_DATASOURCE_DSN"
	EnvDSUser       = "GCV_DATASOURCE_USER"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "GCV_LOG_LEVEL"
	EnvLogFormat = "GCV_LOG_FORMAT"
	EnvLogSource = "GCV_LOG_SOURCE"
	EnvLogFile   = "GCV_LOG_FILE"
	// EnvSentryDSN Crash envs
	EnvSentryDSN = "GCV_SENTRY_DSN"
	EnvCrashDir  = "GCV_CRASH_DIR"
	// EnvMetricsAddr Metrics envs
	EnvMetricsAddr    = "GCV_METRICS_ADDR"
	EnvMetricsRuntime = "GCV_METRICS_RUNTIME"
)

// Service/keys for OS keyring.
const (
	keyringService  = "gochartview"
	keyringPassword = "datasource_password"
)

// tokenStore abstracts keyring, so we can stub in tests.
var tokenStore TokenStore = osKeyring{}

type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// SetTokenStore swaps the secret store and returns the previous one.
func SetTokenStore(s TokenStore) TokenStore {
	old := tokenStore
	tokenStore = s
	return old
}

// osKeyring implements TokenStore using the OS keyring via github.com/zalando/go-keyring.
type osKeyring struct{}

func (osKeyring) Get(service, key string) (string, error) { return keyring.Get(service, key) }
func (osKeyring) Set(service, key, value string) error    { return keyring.Set(service, key, value) }
func (osKeyring) Delete(service, key string) error        { return keyring.Delete(service, key) }

func passwordKey(user string) string {
	if user == "" {
		return keyringPassword
	}
	return keyringPassword + ":" + user
}

// ConfigPath returns the per-user config file path; GCV_CONFIG overrides it.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GoChartView")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GoChartView")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "gochartview")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads user config file (if present), applies defaults, and merges environment overrides.
// It also loads the datasource password from keyring (not kept inside the struct; returned separately).
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		fileCfg := Defaults()
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, "", fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	}
	applyEnvOverrides(&cfg)
	pw, _ := tokenStore.Get(keyringService, passwordKey(cfg.Datasource.User))
	return cfg, pw, nil
}

// Save writes the user config YAML and persists the password into OS keyring (if non-empty).
func Save(cfg AppConfig, password string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if password != "" {
		if err := tokenStore.Set(keyringService, passwordKey(cfg.Datasource.User), password); err != nil {
			return err
		}
	}
	return nil
}

// ForgetPassword removes the stored datasource password for user.
func ForgetPassword(user string) error {
	return tokenStore.Delete(keyringService, passwordKey(user))
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// chart: positive numbers only, booleans copied so user preferences persist
	if src.Chart.Width > 0 {
		dst.Chart.Width = src.Chart.Width
	}
	if src.Chart.Height > 0 {
		dst.Chart.Height = src.Chart.Height
	}
	if src.Chart.Density > 0 {
		dst.Chart.Density = src.Chart.Density
	}
	if src.Chart.Precision >= 0 {
		dst.Chart.Precision = src.Chart.Precision
	}
	if src.Chart.ZoomStep > 0 {
		dst.Chart.ZoomStep = src.Chart.ZoomStep
	}
	if src.Chart.TickCount > 0 {
		dst.Chart.TickCount = src.Chart.TickCount
	}
	dst.Chart.AutoFitY = src.Chart.AutoFitY
	if u := strings.TrimSpace(src.Chart.XTimeUnit); u != "" {
		dst.Chart.XTimeUnit = u
	}
	dst.Chart.X = src.Chart.X
	dst.Chart.Y = src.Chart.Y
	// datasource
	if d := strings.ToLower(strings.TrimSpace(src.Datasource.Driver)); d != "" {
		dst.Datasource.Driver = d
	}
	if strings.TrimSpace(src.Datasource.DSN) != "" {
		dst.Datasource.DSN = strings.TrimSpace(src.Datasource.DSN)
	}
	dst.Datasource.User = strings.TrimSpace(src.Datasource.User)
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
	dst.Crash = src.Crash
	dst.Metrics = src.Metrics
}

func parseBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvChartWidth)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Chart.Width = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvChartHeight)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Chart.Height = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvChartDensity)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Chart.Density = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvAutoFitY)); v != "" {
		cfg.Chart.AutoFitY = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvXTimeUnit)); v != "" {
		cfg.Chart.XTimeUnit = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDSDriver)); v != "" {
		cfg.Datasource.Driver = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvDSDSN)); v != "" {
		cfg.Datasource.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDSUser)); v != "" {
		cfg.Datasource.User = v
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSentryDSN)); v != "" {
		cfg.Crash.SentryDSN = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCrashDir)); v != "" {
		cfg.Crash.ReportDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvMetricsAddr)); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvMetricsRuntime)); v != "" {
		cfg.Metrics.Runtime = parseBool(v)
	}
}

var envKeys = map[string]string{
	"chart.width":       EnvChartWidth,
	"chart.height":      EnvChartHeight,
	"chart.density":     EnvChartDensity,
	"chart.auto_fit_y":  EnvAutoFitY,
	"chart.x_time_unit": EnvXTimeUnit,
	"datasource.driver": EnvDSDriver,
	"datasource.dsn":    EnvDSDSN,
	"datasource.user":   EnvDSUser,
	"logging.level":     EnvLogLevel,
	"logging.format":    EnvLogFormat,
	"logging.source":    EnvLogSource,
	"logging.file":      EnvLogFile,
	"crash.sentry_dsn":  EnvSentryDSN,
	"crash.report_dir":  EnvCrashDir,
	"metrics.addr":      EnvMetricsAddr,
	"metrics.runtime":   EnvMetricsRuntime,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	if env, ok := envKeys[key]; ok && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}

// ToChart converts the chart section; invalid clamp ranges surface as
// axis.ErrInvalidClampRange.
func (c ChartConfig) ToChart() (chart.Config, error) {
	out := chart.DefaultConfig()
	out.Width, out.Height = c.Width, c.Height
	out.Density = c.Density
	out.Precision = c.Precision
	out.ZoomStep = c.ZoomStep
	out.AutoFitY = c.AutoFitY
	if c.TickCount > 0 {
		out.TickCount = c.TickCount
	}
	unit, err := labels.ParseTimeUnit(c.XTimeUnit)
	if err != nil {
		return out, err
	}
	out.XTimeUnit = unit
	out.X = c.X.toChart()
	out.Y = c.Y.toChart()
	if err := out.Validate(); err != nil {
		return out, err
	}
	return out, nil
}

func (a AxisConfig) toChart() chart.AxisConfig {
	dmax := a.DeltaMax
	if dmax == 0 {
		dmax = math.Inf(1)
	}
	return chart.AxisConfig{
		Padding:  axis.Padding{Start: a.Padding.Start, End: a.Padding.End},
		DeltaMin: a.DeltaMin,
		DeltaMax: dmax,
	}
}

// Options converts the logging section for log.Init.
func (l LoggingConfig) Options() applog.Options {
	return applog.Options{Level: l.Level, Format: l.Format, AddSource: l.Source, File: l.File}
}
