/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"gochartview/internal/domain"
)

// LoadXLSX reads one sheet (the first when sheet is empty). Row 1 holds the
// headers: column A is x, every other column is a series named by its header.
// Rows whose x is not numeric are skipped; empty or non-numeric values are nulls.
func LoadXLSX(fs afero.Fs, path, sheet string) (Document, error) {
	r, err := fs.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer r.Close()
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Document{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return Document{}, fmt.Errorf("%w: workbook has no sheets", ErrInvalidDocument)
		}
		sheet = list[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Document{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return fromRows(sheet, rows)
}

func fromRows(title string, rows [][]string) (Document, error) {
	if len(rows) == 0 || len(rows[0]) < 2 {
		return Document{}, fmt.Errorf("%w: sheet %q needs a header row with x and at least one series", ErrInvalidDocument, title)
	}
	header := rows[0]
	doc := Document{Title: title}
	for c := 1; c < len(header); c++ {
		name := strings.TrimSpace(header[c])
		if name == "" {
			name = fmt.Sprintf("series %d", c)
		}
		doc.Series = append(doc.Series, domain.RawSeries{SeriesSpec: domain.SeriesSpec{Name: name}, Pairs: []domain.Pair{}})
	}
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		x, ok := number(row[0])
		if !ok {
			continue
		}
		for c := range doc.Series {
			if y, ok := cell(row, c+1); ok {
				doc.Series[c].Pairs = append(doc.Series[c].Pairs, domain.P(x, y))
			} else {
				doc.Series[c].Pairs = append(doc.Series[c].Pairs, domain.PNull(x))
			}
		}
	}
	return doc, nil
}

func cell(row []string, c int) (float64, bool) {
	if c >= len(row) {
		return 0, false
	}
	return number(row[c])
}

func number(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
