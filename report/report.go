// Copyright ©2021 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report renders most wanted OTU tables as TSV, HTML and
// JSON, and draws the per-OTU abundance pie charts referenced by the
// HTML table.
package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"
)

// Row is one most wanted OTU of the final report.
type Row struct {
	OTU         string   `json:"otu"`
	Sequence    string   `json:"sequence"`
	Taxonomy    []string `json:"taxonomy,omitempty"`
	Accession   string   `json:"accession"`
	PctIdentity float64  `json:"percent_identity"`

	// Definition is the sequence title of the closest match, filled
	// in when the report is annotated from NCBI.
	Definition string `json:"definition,omitempty"`

	// Abundance holds the counts behind the row's pie chart, keyed
	// by sample group.
	Abundance map[string]float64 `json:"abundance,omitempty"`

	// Chart is the path of the row's abundance pie chart, relative
	// to the HTML report.
	Chart string `json:"chart,omitempty"`
}

// URL returns the NCBI nucleotide page for the row's closest match.
func (r Row) URL() string {
	return "http://www.ncbi.nlm.nih.gov/nuccore/" + r.Accession
}

// WriteTSV writes rows as a tab separated table with a header line.
// Taxonomy levels are joined with "; ".
func WriteTSV(w io.Writer, rows []Row) error {
	_, err := fmt.Fprintln(w, "OTU ID\tSequence\tGreengenes taxonomy\tNCBI nt closest match\tNCBI nt % identity")
	if err != nil {
		return err
	}
	for _, r := range rows {
		_, err = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\n",
			r.OTU, r.Sequence, strings.Join(r.Taxonomy, "; "), r.Accession, r.PctIdentity)
		if err != nil {
			return err
		}
	}
	return nil
}

var htmlTable = template.Must(template.New("mostwanted").Funcs(template.FuncMap{
	"taxonomy": func(t []string) string { return strings.Join(t, "; ") },
	"identity": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(`<table><tr><th>OTU ID</th><th>Sequence</th><th>Greengenes taxonomy</th><th>NCBI nt closest match</th><th>NCBI nt % identity</th><th>Abundance by {{.Category}}</th></tr>
{{- range .Rows -}}
<tr><td>{{.OTU}}</td><td>{{.Sequence}}</td><td>{{taxonomy .Taxonomy}}</td><td><a href="{{.URL}}" target="_blank">{{.Accession}}</a></td><td>{{identity .PctIdentity}}</td><td><img src="{{.Chart}}" /></td></tr>
{{- end -}}
</table>
`))

// WriteHTML writes rows as an HTML table with the columns of the TSV
// report plus each OTU's abundance pie chart grouped by category.
func WriteHTML(w io.Writer, rows []Row, category string) error {
	return htmlTable.Execute(w, struct {
		Category string
		Rows     []Row
	}{category, rows})
}

// WriteJSON writes rows and the grouping category as an indented JSON
// document.
func WriteJSON(w io.Writer, rows []Row, category string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(struct {
		Category string `json:"category"`
		Rows     []Row  `json:"most_wanted"`
	}{category, rows})
}
