// Copyright ©2021 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package qiime provides command builders for the QIIME command line
// tools invoked by the most wanted OTUs pipeline. Each builder is a
// struct whose fields map to the flags of one external program;
// BuildCommand assembles an *exec.Cmd from the non-zero fields, so
// zero-valued optional parameters fall through to the tool's own
// defaults. The Cmd field overrides the executable name, allowing
// versioned or absolute paths.
package qiime

import (
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/biogo/external"
)

// FilterOTUs filters observations out of a BIOM OTU table with
// filter_otus_from_otu_table.py, by reference sequence exclusion,
// abundance range, or minimum sample membership.
type FilterOTUs struct {
	// Usage: filter_otus_from_otu_table.py -i table.biom -o filtered.biom
	//        [-e exclude.fasta] [-n min] [-x max] [-s min_samples]
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}filter_otus_from_otu_table.py{{end}}"` // filter_otus_from_otu_table.py

	// Files:
	InFile      string `buildarg:"{{with .}}-i{{split}}{{.}}{{end}}"` // -i <table>
	OutFile     string `buildarg:"{{with .}}-o{{split}}{{.}}{{end}}"` // -o <table>
	ExcludeFile string `buildarg:"{{with .}}-e{{split}}{{.}}{{end}}"` // -e <fasta>

	// Thresholds:
	MinCount   int `buildarg:"{{if .}}-n{{split}}{{.}}{{end}}"` // -n <n>
	MaxCount   int `buildarg:"{{if .}}-x{{split}}{{.}}{{end}}"` // -x <n>
	MinSamples int `buildarg:"{{if .}}-s{{split}}{{.}}{{end}}"` // -s <n>
}

func (f FilterOTUs) BuildCommand() (*exec.Cmd, error) {
	cl, err := external.Build(f)
	if err != nil {
		return nil, err
	}
	return exec.Command(cl[0], cl[1:]...), nil
}

// SummarizeOTUByCat collapses the samples of a BIOM OTU table into
// mapping file categories with summarize_otu_by_cat.py.
type SummarizeOTUByCat struct {
	// Usage: summarize_otu_by_cat.py -c table.biom -o collapsed.biom
	//        -m category -i mapping.txt
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}summarize_otu_by_cat.py{{end}}"` // summarize_otu_by_cat.py

	InFile      string `buildarg:"{{with .}}-c{{split}}{{.}}{{end}}"` // -c <table>
	OutFile     string `buildarg:"{{with .}}-o{{split}}{{.}}{{end}}"` // -o <table>
	Category    string `buildarg:"{{with .}}-m{{split}}{{.}}{{end}}"` // -m <category>
	MappingFile string `buildarg:"{{with .}}-i{{split}}{{.}}{{end}}"` // -i <mapping>
}

func (s SummarizeOTUByCat) BuildCommand() (*exec.Cmd, error) {
	cl, err := external.Build(s)
	if err != nil {
		return nil, err
	}
	return exec.Command(cl[0], cl[1:]...), nil
}

// FilterFasta subsets a FASTA file with filter_fasta.py, keeping the
// sequences named by a BIOM table's observations or by a sequence id
// file.
type FilterFasta struct {
	// Usage: filter_fasta.py -f in.fasta -o out.fasta
	//        [-b table.biom] [-s seq_ids.txt]
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}filter_fasta.py{{end}}"` // filter_fasta.py

	FastaFile string `buildarg:"{{with .}}-f{{split}}{{.}}{{end}}"` // -f <fasta>
	OutFile   string `buildarg:"{{with .}}-o{{split}}{{.}}{{end}}"` // -o <fasta>
	TableFile string `buildarg:"{{with .}}-b{{split}}{{.}}{{end}}"` // -b <table>
	SeqIDFile string `buildarg:"{{with .}}-s{{split}}{{.}}{{end}}"` // -s <ids>
}

func (f FilterFasta) BuildCommand() (*exec.Cmd, error) {
	cl, err := external.Build(f)
	if err != nil {
		return nil, err
	}
	return exec.Command(cl[0], cl[1:]...), nil
}

// PickOTUsUclustRef runs parallel_pick_otus_uclust_ref.py, clustering
// query sequences against a reference set at a similarity threshold.
// Sequences failing to hit the reference are listed in a *_failures.txt
// file in the output directory.
type PickOTUsUclustRef struct {
	// Usage: parallel_pick_otus_uclust_ref.py -i in.fasta -o outdir
	//        -r ref.fasta [-s similarity] [-O jobs]
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}parallel_pick_otus_uclust_ref.py{{end}}"` // parallel_pick_otus_uclust_ref.py

	InFile  string `buildarg:"{{with .}}-i{{split}}{{.}}{{end}}"` // -i <fasta>
	OutDir  string `buildarg:"{{with .}}-o{{split}}{{.}}{{end}}"` // -o <dir>
	RefFile string `buildarg:"{{with .}}-r{{split}}{{.}}{{end}}"` // -r <fasta>

	Similarity float64 `buildarg:"{{if .}}-s{{split}}{{.}}{{end}}"` // -s <frac>
	Jobs       int     `buildarg:"{{if .}}-O{{split}}{{.}}{{end}}"` // -O <n>
}

func (p PickOTUsUclustRef) BuildCommand() (*exec.Cmd, error) {
	cl, err := external.Build(p)
	if err != nil {
		return nil, err
	}
	return exec.Command(cl[0], cl[1:]...), nil
}

// Blast runs parallel_blast.py, aligning query sequences against a
// reference nucleotide database and leaving tabular output in
// <stem>_blast_out.txt under the output directory.
type Blast struct {
	// Usage: parallel_blast.py -i in.fasta -o outdir -r ref [-D]
	//        [-e evalue] [-w word_size] [-O jobs]
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}parallel_blast.py{{end}}"` // parallel_blast.py

	InFile  string `buildarg:"{{with .}}-i{{split}}{{.}}{{end}}"` // -i <fasta>
	OutDir  string `buildarg:"{{with .}}-o{{split}}{{.}}{{end}}"` // -o <dir>
	RefFile string `buildarg:"{{with .}}-r{{split}}{{.}}{{end}}"` // -r <db>

	// SuppressFormatDB skips the formatdb step for references that
	// are already BLAST databases.
	SuppressFormatDB bool `buildarg:"{{if .}}-D{{end}}"` // -D

	EValue   float64 `buildarg:"{{if .}}-e{{split}}{{.}}{{end}}"` // -e <evalue>
	WordSize int     `buildarg:"{{if .}}-w{{split}}{{.}}{{end}}"` // -w <n>
	Jobs     int     `buildarg:"{{if .}}-O{{split}}{{.}}{{end}}"` // -O <n>
}

func (b Blast) BuildCommand() (*exec.Cmd, error) {
	cl, err := external.Build(b)
	if err != nil {
		return nil, err
	}
	return exec.Command(cl[0], cl[1:]...), nil
}

// AddFilenameSuffix returns the base name of path with suffix
// inserted between the file name and its extension, following the
// naming convention QIIME workflows use for derived files.
func AddFilenameSuffix(path, suffix string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + suffix + ext
}
