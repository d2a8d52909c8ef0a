/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dataset

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"gochartview/internal/domain"
)

const pairsJSON = `{
  "title": "training",
  "series": [
    {"name": "loss", "color": "#ff8800", "data": [[0, 1.5], [1, null], [2, 0.75]]},
    {"name": "lr", "shape": "point-timestamped", "data": [[10, 0.1], [20, 0.01]]}
  ]
}`

func TestDecodeJSON(t *testing.T) {
	doc, err := DecodeJSON([]byte(pairsJSON))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Title != "training" || len(doc.Series) != 2 {
		t.Fatalf("doc = %+v", doc)
	}
	if got := doc.Series[1].Shape; got != domain.ShapePointTimestamped {
		t.Fatalf("shape alias not normalised: %q", got)
	}
	if p := doc.Series[0].Pairs[1]; p[1] != nil {
		t.Fatalf("null y should decode to nil")
	}
	adapters, err := doc.Adapters()
	if err != nil {
		t.Fatalf("adapters: %v", err)
	}
	if adapters[0].Shape() != domain.ShapePointIndexed {
		t.Fatalf("loss should be detected as indexed, got %q", adapters[0].Shape())
	}
	if strings.Join(doc.Names(), ",") != "loss,lr" {
		t.Fatalf("names = %v", doc.Names())
	}
}

func TestSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"no series":     `{"title": "x"}`,
		"no name":       `{"series": [{"data": []}]}`,
		"bad colour":    `{"series": [{"name": "a", "color": "red", "data": []}]}`,
		"triple sample": `{"series": [{"name": "a", "data": [[1, 2, 3]]}]}`,
		"string sample": `{"series": [{"name": "a", "data": ["1"]}]}`,
		"not json":      `{"series": [`,
	}
	for name, in := range cases {
		if _, err := DecodeJSON([]byte(in)); !errors.Is(err, ErrInvalidDocument) {
			t.Fatalf("%s: expected ErrInvalidDocument, got %v", name, err)
		}
	}
	if _, err := DecodeJSON([]byte(`{"series": [{"name": "a", "shape": "bars", "data": []}]}`)); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("unknown shape should be invalid, got %v", err)
	}
}

func TestDecodeYAMLRecords(t *testing.T) {
	in := `
series:
  - name: cpu
    valueField: load
    data:
      - {timestamp: 100, load: 0.5, host: a}
      - {timestamp: 160, load: 0.7, host: a}
      - {timestamp: 130, host: a}
`
	doc, err := Decode("metrics.yml", []byte(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n := len(doc.Series[0].Records); n != 3 {
		t.Fatalf("records = %d", n)
	}
	adapters, err := doc.Adapters()
	if err != nil {
		t.Fatalf("adapters: %v", err)
	}
	a := adapters[0]
	if a.Shape() != domain.ShapeObjectTimestamped {
		t.Fatalf("shape = %q", a.Shape())
	}
	if b := a.Bounds(); b.X != (domain.Extent{Min: 100, Max: 160}) || b.Y != (domain.Extent{Min: 0.5, Max: 0.7}) {
		t.Fatalf("bounds = %+v", b)
	}
}

func TestLoadFromFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/data/run-7.json", []byte(`{"series": [{"name": "a", "data": [[0, 1], [1, 2]]}]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc, err := Load(fs, "/data/run-7.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Title != "run-7" {
		t.Fatalf("title should default to the file name, got %q", doc.Title)
	}
	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	again, err := DecodeJSON(buf.Bytes())
	if err != nil {
		t.Fatalf("re-decode: %v\n%s", err, buf.String())
	}
	if again.Series[0].Len() != 2 {
		t.Fatalf("re-decoded %d samples", again.Series[0].Len())
	}
	if _, err := Load(fs, "/data/missing.json"); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := "Sheet1"
	f.SetCellValue(sheet, "A1", "step")
	f.SetCellValue(sheet, "B1", "loss")
	f.SetCellValue(sheet, "C1", "acc")
	f.SetCellValue(sheet, "A2", 0)
	f.SetCellValue(sheet, "B2", 2.5)
	f.SetCellValue(sheet, "C2", 0.1)
	f.SetCellValue(sheet, "A3", 1)
	f.SetCellValue(sheet, "B3", 1.25)
	f.SetCellValue(sheet, "A4", "total")
	f.SetCellValue(sheet, "B4", 9)
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "runs.xlsx", buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	doc, err := Load(fs, "runs.xlsx")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Title != "Sheet1" || strings.Join(doc.Names(), ",") != "loss,acc" {
		t.Fatalf("doc = %q %v", doc.Title, doc.Names())
	}
	loss, acc := doc.Series[0].Pairs, doc.Series[1].Pairs
	if len(loss) != 2 || *loss[1][1] != 1.25 {
		t.Fatalf("loss = %v", loss)
	}
	if acc[1][1] != nil {
		t.Fatalf("missing acc cell should be null")
	}
}

func TestFromRowsNeedsHeader(t *testing.T) {
	if _, err := fromRows("s", [][]string{{"x"}}); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
}
