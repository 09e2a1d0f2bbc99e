// Copyright ©2021 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mostwanted

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/check.v1"

	"github.com/biogo/emp/workflow"
)

const (
	testBlastOut = `# BLASTN 2.2.22 [Sep-27-2009]
NCRO92	gi|339283713|gb|JF915456.1|	85.16	256	34	4	1	254	527	780	1e-64	248
NCRO92	gi|298255373|gb|HM438607.1|	84.77	256	35	4	1	254	533	786	6e-63	242
NCRO88	gi|302562412|dbj|AB600477.1|	92.19	256	18	2	1	254	502	757	2e-99	364
`

	testFasta = `>NCRO92 candidate
ACGTACGT
>NCRO88 candidate
GGCCGGCC
`

	testTable = `{
	"id": null,
	"format": "Biological Observation Matrix 1.0.0",
	"format_url": "http://biom-format.org",
	"type": "OTU table",
	"generated_by": "QIIME 1.4.0-dev",
	"date": "2012-02-22T20:50:05",
	"rows": [
		{"id": "NCRO92", "metadata": {"taxonomy": ["k__Bacteria", "p__Firmicutes"]}},
		{"id": "NCRO88", "metadata": {"taxonomy": "k__Bacteria; p__Proteobacteria"}}
	],
	"columns": [
		{"id": "Soil", "metadata": null},
		{"id": "Feces", "metadata": null}
	],
	"matrix_type": "sparse",
	"matrix_element_type": "int",
	"shape": [2, 2],
	"data": [[0, 0, 5], [0, 1, 2], [1, 0, 1], [1, 1, 8]]
}`
)

// writeRunInputs lays out the files the report stage reads, as the
// pipeline commands would have left them.
func writeRunInputs(c *check.C, a Artifacts, blastOut, fasta, table string) {
	c.Assert(os.MkdirAll(a.BlastDir, 0755), check.Equals, nil)
	c.Assert(os.WriteFile(a.BlastOut, []byte(blastOut), 0644), check.Equals, nil)
	c.Assert(os.WriteFile(a.FailuresRepSet, []byte(fasta), 0644), check.Equals, nil)
	c.Assert(os.WriteFile(a.TableByCategoryMS, []byte(table), 0644), check.Equals, nil)
}

func (s *S) TestWriteReport(c *check.C) {
	p := params(c.MkDir())
	p.TopN = 2
	a := p.Artifacts()
	writeRunInputs(c, a, testBlastOut, testFasta, testTable)

	err := writeReport(p, nil)
	c.Assert(err, check.Equals, nil)

	tsv, err := os.ReadFile(a.TSV)
	c.Assert(err, check.Equals, nil)
	c.Check(string(tsv), check.Equals, ""+
		"OTU ID\tSequence\tGreengenes taxonomy\tNCBI nt closest match\tNCBI nt % identity\n"+
		"NCRO92\tACGTACGT\tk__Bacteria; p__Firmicutes\tJF915456.1\t85.16\n"+
		"NCRO88\tGGCCGGCC\tk__Bacteria; p__Proteobacteria\tAB600477.1\t92.19\n")

	html, err := os.ReadFile(a.HTML)
	c.Assert(err, check.Equals, nil)
	c.Check(string(html), check.Matches, `(?s)<table>.*<th>Abundance by Environment</th>.*</table>\n`)
	for _, want := range []string{
		`<img src="img/abundance_by_Environment_NCRO92.png" />`,
		`<a href="http://www.ncbi.nlm.nih.gov/nuccore/JF915456.1" target="_blank">JF915456.1</a>`,
	} {
		c.Check(strings.Contains(string(html), want), check.Equals, true, check.Commentf("want %s", want))
	}

	b, err := os.ReadFile(a.JSON)
	c.Assert(err, check.Equals, nil)
	var doc struct {
		Category string `json:"category"`
		Rows     []struct {
			OTU       string             `json:"otu"`
			Accession string             `json:"accession"`
			Abundance map[string]float64 `json:"abundance"`
		} `json:"most_wanted"`
	}
	c.Assert(json.Unmarshal(b, &doc), check.Equals, nil)
	c.Check(doc.Category, check.Equals, "Environment")
	c.Assert(doc.Rows, check.HasLen, 2)
	c.Check(doc.Rows[0].OTU, check.Equals, "NCRO92")
	c.Check(doc.Rows[0].Accession, check.Equals, "JF915456.1")
	c.Check(doc.Rows[0].Abundance, check.DeepEquals, map[string]float64{"Soil": 5, "Feces": 2})

	for _, otu := range []string{"NCRO92", "NCRO88"} {
		fi, err := os.Stat(filepath.Join(a.ImgDir, "abundance_by_Environment_"+otu+".png"))
		c.Assert(err, check.Equals, nil)
		c.Check(fi.Size() > 0, check.Equals, true)
	}
}

func (s *S) TestWriteReportMissingBlast(c *check.C) {
	p := params(c.MkDir())
	err := writeReport(p, nil)
	c.Check(err, check.NotNil)
}

func (s *S) TestWriteReportMissingSeq(c *check.C) {
	p := params(c.MkDir())
	a := p.Artifacts()
	writeRunInputs(c, a, testBlastOut, ">NCRO92 candidate\nACGTACGT\n", testTable)

	err := writeReport(p, nil)
	c.Check(err, check.ErrorMatches, "no candidate sequence for OTU NCRO88")
	c.Check(err, check.FitsTypeOf, workflow.Error(""))
}

func (s *S) TestWriteReportMissingObservation(c *check.C) {
	p := params(c.MkDir())
	a := p.Artifacts()
	table := `{
	"rows": [{"id": "NCRO92", "metadata": null}],
	"columns": [{"id": "Soil", "metadata": null}, {"id": "Feces", "metadata": null}],
	"matrix_type": "sparse",
	"matrix_element_type": "int",
	"shape": [1, 2],
	"data": [[0, 0, 5]]
}`
	writeRunInputs(c, a, testBlastOut, testFasta, table)

	err := writeReport(p, nil)
	c.Check(err, check.ErrorMatches, `no abundance data for OTU NCRO88: biom: no observation "NCRO88"`)
	c.Check(err, check.FitsTypeOf, workflow.Error(""))
}

func (s *S) TestReadSeqs(c *check.C) {
	path := filepath.Join(c.MkDir(), "seqs.fna")
	c.Assert(os.WriteFile(path, []byte(testFasta), 0644), check.Equals, nil)

	seqs, err := readSeqs(path)
	c.Assert(err, check.Equals, nil)
	c.Check(seqs, check.DeepEquals, map[string]string{
		"NCRO92": "ACGTACGT",
		"NCRO88": "GGCCGGCC",
	})
}
