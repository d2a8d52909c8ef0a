/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package dataset reads chart datasets: JSON or YAML documents validated
// against an embedded JSON schema, and XLSX sheets.
package dataset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"gochartview/internal/domain"
	applog "gochartview/internal/log"
	"gochartview/internal/series"
)

//go:embed dataset.schema.json
var schemaJSON []byte

var ErrInvalidDocument = errors.New("dataset: invalid document")

var schema = gojsonschema.NewBytesLoader(schemaJSON)

// Document is a titled list of series.
type Document struct {
	Title  string             `json:"title,omitempty"`
	Series []domain.RawSeries `json:"series"`
}

// Adapters builds one adapter per series.
func (d Document) Adapters() ([]series.Adapter, error) { return series.NewAll(d.Series) }

// Names lists the series names in document order.
func (d Document) Names() []string {
	out := make([]string, len(d.Series))
	for i, s := range d.Series {
		out[i] = s.Name
	}
	return out
}

// Validate checks a JSON document against the dataset schema. Violations are
// joined into one ErrInvalidDocument.
func Validate(data []byte) error {
	res, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
}

// DecodeJSON validates and decodes a JSON document.
func DecodeJSON(data []byte) (Document, error) {
	if err := Validate(data); err != nil {
		return Document{}, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	for i := range doc.Series {
		sh, err := domain.ParseShape(string(doc.Series[i].Shape))
		if err != nil {
			return Document{}, fmt.Errorf("%w: series %q: %v", ErrInvalidDocument, doc.Series[i].Name, err)
		}
		doc.Series[i].Shape = sh
	}
	return doc, nil
}

// DecodeYAML converts a YAML document to JSON and decodes that, so both
// formats go through the same schema.
func DecodeYAML(data []byte) (Document, error) {
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	js, err := json.Marshal(generic)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return DecodeJSON(js)
}

// Decode picks the decoder by file extension; anything but .yaml/.yml is JSON.
func Decode(name string, data []byte) (Document, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	}
	return DecodeJSON(bytes.TrimSpace(data))
}

// Load reads a dataset file of any supported format from fs.
func Load(fs afero.Fs, path string) (Document, error) {
	l := applog.WithOperation(applog.WithComponent("dataset"), "load")
	var (
		doc Document
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		doc, err = LoadXLSX(fs, path, "")
	default:
		var data []byte
		data, err = afero.ReadFile(fs, path)
		if err == nil {
			doc, err = Decode(path, data)
		}
	}
	if err != nil {
		l.Error("load failed", slog.String("path", path), slog.Any("err", err))
		return Document{}, fmt.Errorf("load %s: %w", path, err)
	}
	if doc.Title == "" {
		doc.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	l.Info("dataset loaded", slog.String("path", path), slog.Int("series", len(doc.Series)))
	return doc, nil
}

// Encode writes doc as indented JSON.
func (d Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
