// Copyright ©2021 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package biom reads BIOM format 1.0 JSON OTU tables.
//
// Both sparse and dense matrix encodings are accepted. Observation
// counts are held in a gonum dense matrix with observations as rows
// and samples as columns.
package biom

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gonum/matrix/mat64"
)

type tableJSON struct {
	ID          *string     `json:"id"`
	Format      string      `json:"format"`
	FormatURL   string      `json:"format_url"`
	Type        string      `json:"type"`
	GeneratedBy string      `json:"generated_by"`
	Date        string      `json:"date"`
	Rows        []attr      `json:"rows"`
	Columns     []attr      `json:"columns"`
	MatrixType  string      `json:"matrix_type"`
	ElementType string      `json:"matrix_element_type"`
	Shape       []int       `json:"shape"`
	Data        [][]float64 `json:"data"`
}

type attr struct {
	ID       string                     `json:"id"`
	Metadata map[string]json.RawMessage `json:"metadata"`
}

// Table is an OTU table. Rows are observations and columns are
// samples.
type Table struct {
	// Type and GeneratedBy are the corresponding fields of the
	// source document.
	Type        string
	GeneratedBy string

	rows   []attr
	cols   []attr
	rowIdx map[string]int
	counts *mat64.Dense
}

// Read reads a single BIOM 1.0 JSON document from r.
func Read(r io.Reader) (*Table, error) {
	var doc tableJSON
	err := json.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("biom: %v", err)
	}
	if len(doc.Shape) != 2 {
		return nil, fmt.Errorf("biom: bad shape: %v", doc.Shape)
	}
	rows, cols := doc.Shape[0], doc.Shape[1]
	if len(doc.Rows) != rows {
		return nil, fmt.Errorf("biom: %d rows for shape %d", len(doc.Rows), rows)
	}
	if len(doc.Columns) != cols {
		return nil, fmt.Errorf("biom: %d columns for shape %d", len(doc.Columns), cols)
	}

	t := &Table{
		Type:        doc.Type,
		GeneratedBy: doc.GeneratedBy,
		rows:        doc.Rows,
		cols:        doc.Columns,
		rowIdx:      make(map[string]int, rows),
		counts:      mat64.NewDense(rows, cols, nil),
	}
	for i, r := range doc.Rows {
		if _, ok := t.rowIdx[r.ID]; ok {
			return nil, fmt.Errorf("biom: duplicate observation id %q", r.ID)
		}
		t.rowIdx[r.ID] = i
	}

	switch doc.MatrixType {
	case "sparse":
		for _, e := range doc.Data {
			if len(e) != 3 {
				return nil, fmt.Errorf("biom: bad sparse entry: %v", e)
			}
			i, j := int(e[0]), int(e[1])
			if i < 0 || i >= rows || j < 0 || j >= cols {
				return nil, fmt.Errorf("biom: sparse entry out of range: %v", e)
			}
			t.counts.Set(i, j, e[2])
		}
	case "dense":
		if len(doc.Data) != rows {
			return nil, fmt.Errorf("biom: %d data rows for shape %d", len(doc.Data), rows)
		}
		for i, r := range doc.Data {
			if len(r) != cols {
				return nil, fmt.Errorf("biom: data row %d has %d values for shape %d", i, len(r), cols)
			}
			t.counts.SetRow(i, r)
		}
	default:
		return nil, fmt.Errorf("biom: unknown matrix type: %q", doc.MatrixType)
	}

	return t, nil
}

// SampleIDs returns the table's sample ids in column order.
func (t *Table) SampleIDs() []string {
	ids := make([]string, len(t.cols))
	for i, c := range t.cols {
		ids[i] = c.ID
	}
	return ids
}

// ObservationIDs returns the table's observation ids in row order.
func (t *Table) ObservationIDs() []string {
	ids := make([]string, len(t.rows))
	for i, r := range t.rows {
		ids[i] = r.ID
	}
	return ids
}

// ObservationData returns the counts for the given observation, one
// value per sample in SampleIDs order.
func (t *Table) ObservationData(id string) ([]float64, error) {
	i, ok := t.rowIdx[id]
	if !ok {
		return nil, fmt.Errorf("biom: no observation %q", id)
	}
	return mat64.Row(nil, i, t.counts), nil
}

// Taxonomy returns the taxonomy metadata for the given observation,
// or nil when the observation carries none. A taxonomy held as a
// single string is split on semicolons.
func (t *Table) Taxonomy(id string) []string {
	i, ok := t.rowIdx[id]
	if !ok || t.rows[i].Metadata == nil {
		return nil
	}
	raw, ok := t.rows[i].Metadata["taxonomy"]
	if !ok {
		return nil
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err == nil {
		return names
	}
	var joined string
	if err := json.Unmarshal(raw, &joined); err != nil {
		return nil
	}
	for _, n := range strings.Split(joined, ";") {
		names = append(names, strings.TrimSpace(n))
	}
	return names
}
