/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Shape tags the layout of a series' raw data.
type Shape string

const (
	ShapeUnknown           Shape = ""
	ShapePointIndexed      Shape = "pointIndexed"      // [x, y] pairs, x implicit = index
	ShapePointTimestamped  Shape = "pointTimestamped"  // [timestamp, y] pairs
	ShapeObjectIndexed     Shape = "objectIndexed"     // keyed records, x implicit = index
	ShapeObjectTimestamped Shape = "objectTimestamped" // keyed records with a timestamp field
)

// TimestampField is the record key holding x for ShapeObjectTimestamped.
const TimestampField = "timestamp"

// ParseShape accepts the canonical names case-insensitively, plus a few aliases.
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ShapeUnknown, nil
	case "pointindexed", "point-indexed", "point_indexed":
		return ShapePointIndexed, nil
	case "pointtimestamped", "point-timestamped", "point_timestamped":
		return ShapePointTimestamped, nil
	case "objectindexed", "object-indexed", "object_indexed":
		return ShapeObjectIndexed, nil
	case "objecttimestamped", "object-timestamped", "object_timestamped":
		return ShapeObjectTimestamped, nil
	}
	return ShapeUnknown, fmt.Errorf("unknown series shape %q", s)
}

// Indexed reports whether x is the record index rather than a data field.
func (s Shape) Indexed() bool { return s == ShapePointIndexed || s == ShapeObjectIndexed }

// Keyed reports whether records are objects with named fields.
func (s Shape) Keyed() bool { return s == ShapeObjectIndexed || s == ShapeObjectTimestamped }

// Pair is one [x, y] sample; either element may be null.
type Pair [2]*float64

// P builds a pair from plain values.
func P(x, y float64) Pair { return Pair{&x, &y} }

// PNull builds a pair whose y is null.
func PNull(x float64) Pair { return Pair{&x, nil} }

// Record is one keyed object sample.
type Record map[string]any

// Float returns the numeric value stored under key. Null, missing, and
// non-numeric values report false.
func (r Record) Float(key string) (float64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		x, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = x
	case string:
		x, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = x
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// SeriesSpec is the per-series configuration.
type SeriesSpec struct {
	Name       string `json:"name" yaml:"name"`
	Shape      Shape  `json:"shape,omitempty" yaml:"shape,omitempty"`
	ValueField string `json:"valueField,omitempty" yaml:"valueField,omitempty"`
	Color      string `json:"color,omitempty" yaml:"color,omitempty"` // #rrggbb, renderer hint only
}

// RawSeries is a series description plus its data. Exactly one of Pairs or Records
// is populated, matching the shape.
type RawSeries struct {
	SeriesSpec
	Pairs   []Pair
	Records []Record
}

// Len is the number of samples regardless of layout.
func (r RawSeries) Len() int {
	if len(r.Records) > 0 {
		return len(r.Records)
	}
	return len(r.Pairs)
}

type rawSeriesDoc struct {
	SeriesSpec
	Data []any `json:"data"`
}

// UnmarshalJSON decodes {"name", "shape", "valueField", "color", "data"} where data
// is either an array of [x, y] pairs or an array of objects.
func (r *RawSeries) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(b)))
	dec.UseNumber()
	var doc rawSeriesDoc
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	out, err := FromGeneric(doc.SeriesSpec, doc.Data)
	if err != nil {
		return err
	}
	*r = out
	return nil
}

// MarshalJSON writes the same layout UnmarshalJSON reads.
func (r RawSeries) MarshalJSON() ([]byte, error) {
	doc := struct {
		SeriesSpec
		Data any `json:"data"`
	}{SeriesSpec: r.SeriesSpec}
	if r.Records != nil {
		doc.Data = r.Records
	} else {
		if r.Pairs == nil {
			doc.Data = []Pair{}
		} else {
			doc.Data = r.Pairs
		}
	}
	return json.Marshal(doc)
}

// FromGeneric converts loosely typed decoded data (from JSON or YAML) into a RawSeries.
func FromGeneric(spec SeriesSpec, data []any) (RawSeries, error) {
	out := RawSeries{SeriesSpec: spec}
	for i, item := range data {
		switch v := item.(type) {
		case []any:
			if out.Records != nil {
				return RawSeries{}, fmt.Errorf("series %q: sample %d mixes pairs and records", spec.Name, i)
			}
			if len(v) != 2 {
				return RawSeries{}, fmt.Errorf("series %q: sample %d has %d elements, want 2", spec.Name, i, len(v))
			}
			var p Pair
			for k := 0; k < 2; k++ {
				if f, ok := (Record{"v": v[k]}).Float("v"); ok {
					f := f
					p[k] = &f
				}
			}
			out.Pairs = append(out.Pairs, p)
		case map[string]any:
			if out.Pairs != nil {
				return RawSeries{}, fmt.Errorf("series %q: sample %d mixes pairs and records", spec.Name, i)
			}
			out.Records = append(out.Records, Record(v))
		default:
			return RawSeries{}, fmt.Errorf("series %q: sample %d has unsupported type %T", spec.Name, i, item)
		}
	}
	return out, nil
}
