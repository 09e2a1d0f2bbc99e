// Copyright ©2021 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mostwanted

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/biogo/emp/biom"
	"github.com/biogo/emp/blast"
	"github.com/biogo/emp/report"
	"github.com/biogo/emp/workflow"
)

// writeReport distils the pipeline's BLAST output into the most
// wanted OTU reports. The best hit of each candidate is kept, hits
// are ranked by ascending percent identity, and the top n are written
// as TSV, HTML and JSON tables with a pie chart of each OTU's
// abundance by sample group.
func writeReport(p Params, logger *workflow.Logger) error {
	a := p.Artifacts()

	logger.Write(fmt.Sprintf("Reading in BLAST results, sorting by percent identity, and picking the top %d OTUs.\n\n", p.TopN))
	bf, err := os.Open(a.BlastOut)
	if err != nil {
		return err
	}
	hits, err := blast.ReadHits(bf)
	bf.Close()
	if err != nil {
		return err
	}
	top := blast.TopN(blast.BestPerQuery(hits), p.TopN)

	logger.Write("Reading in candidate sequences and latest filtered and collapsed OTU table.\n\n")
	seqs, err := readSeqs(a.FailuresRepSet)
	if err != nil {
		return err
	}
	tf, err := os.Open(a.TableByCategoryMS)
	if err != nil {
		return err
	}
	table, err := biom.Read(tf)
	tf.Close()
	if err != nil {
		return err
	}

	logger.Write("Writing most wanted OTUs results to TSV and HTML tables.\n\n")
	if err := os.MkdirAll(a.ImgDir, 0755); err != nil {
		return err
	}
	samples := table.SampleIDs()
	rows := make([]report.Row, 0, len(top))
	gis := make([]int, 0, len(top))
	for _, h := range top {
		seq, ok := seqs[h.QueryID]
		if !ok {
			return workflow.Errorf("no candidate sequence for OTU %s", h.QueryID)
		}
		counts, err := table.ObservationData(h.QueryID)
		if err != nil {
			return workflow.Errorf("no abundance data for OTU %s: %v", h.QueryID, err)
		}
		if len(counts) != len(samples) {
			return workflow.Errorf("observation counts for OTU %s do not match the table's %d samples",
				h.QueryID, len(samples))
		}

		chart := path.Join("img", fmt.Sprintf("abundance_by_%s_%s.png", p.Category, h.QueryID))
		err = report.Pie(filepath.Join(p.OutDir, chart), samples, counts)
		if err != nil {
			return err
		}

		abund := make(map[string]float64, len(samples))
		for i, id := range samples {
			abund[id] = counts[i]
		}
		rows = append(rows, report.Row{
			OTU:         h.QueryID,
			Sequence:    seq,
			Taxonomy:    table.Taxonomy(h.QueryID),
			Accession:   h.Accession(),
			PctIdentity: h.PctIdentity,
			Abundance:   abund,
			Chart:       chart,
		})
		gis = append(gis, h.GI())
	}

	if len(top) > 0 {
		ids := make([]float64, len(top))
		for i, h := range top {
			ids[i] = h.PctIdentity
		}
		mean, std := stat.MeanStdDev(ids, nil)
		logger.Write(fmt.Sprintf("Percent identity to nt over the top %d OTUs: min %.2f, max %.2f, mean %.2f (sd %.2f).\n\n",
			len(ids), floats.Min(ids), floats.Max(ids), mean, std))
	}

	if p.Annotate {
		logger.Write("Annotating most wanted OTUs with the definitions of their closest matches.\n\n")
		defs, err := fetchDefinitions(gis, p.Email, logger)
		if err != nil {
			return err
		}
		for i := range rows {
			rows[i].Definition = defs[gis[i]]
		}
	}

	tsvF, err := os.Create(a.TSV)
	if err != nil {
		return err
	}
	err = report.WriteTSV(tsvF, rows)
	tsvF.Close()
	if err != nil {
		return err
	}

	htmlF, err := os.Create(a.HTML)
	if err != nil {
		return err
	}
	err = report.WriteHTML(htmlF, rows, p.Category)
	htmlF.Close()
	if err != nil {
		return err
	}

	jsonF, err := os.Create(a.JSON)
	if err != nil {
		return err
	}
	err = report.WriteJSON(jsonF, rows, p.Category)
	jsonF.Close()
	return err
}

// readSeqs reads a FASTA file into a map from sequence name to
// sequence.
func readSeqs(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seqs := make(map[string]string)
	sc := seqio.NewScanner(fasta.NewReader(f, linear.NewSeq("", nil, alphabet.DNA)))
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		seqs[s.Name()] = s.Seq.String()
	}
	if err := sc.Error(); err != nil {
		return nil, err
	}
	return seqs, nil
}
