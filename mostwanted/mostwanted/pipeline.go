// Copyright ©2021 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mostwanted implements the most wanted OTUs discovery
// pipeline: novel candidate OTUs are filtered for abundance and
// spread across sample groups, screened against the Greengenes
// reference at a similarity ceiling, and the survivors BLASTed
// against nt. The candidates matching nt worst are reported with
// their abundance by sample group.
package mostwanted

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/biogo/external"

	"github.com/biogo/emp/qiime"
	"github.com/biogo/emp/workflow"
)

// Params holds the inputs and thresholds of a pipeline run.
type Params struct {
	// Input files.
	OTUTable string // OTU table in BIOM format.
	RepSet   string // Representative sequence set for the table.
	GG       string // Greengenes reference OTUs FASTA.
	NT       string // BLAST nt database path.
	Mapping  string // Metadata mapping file.

	// Category is the mapping category samples are grouped by.
	Category string

	// OutDir receives all pipeline products. It must not already
	// exist unless Force is set.
	OutDir string
	Force  bool

	// Reporting and filtering thresholds.
	TopN            int
	MinAbundance    int
	MaxAbundance    int
	MinCategories   int
	MaxGGSimilarity float64

	// BLAST parameters.
	EValue   float64
	WordSize int

	// Jobs is the worker count handed to the parallel QIIME tools.
	Jobs int

	// Annotate fetches the definition of each reported match from
	// NCBI, using Email in the requests.
	Annotate bool
	Email    string

	Tools Tools
}

// Tools overrides the executables run by the pipeline, for
// installations where the QIIME scripts are not on PATH under their
// usual names. The zero value uses the standard names.
type Tools struct {
	FilterOTUs        string
	SummarizeOTUByCat string
	FilterFasta       string
	PickOTUsUclustRef string
	Blast             string
}

// Artifacts names the files and directories a run derives from its
// parameters, following the QIIME convention of suffixing each
// filtering step's product with the parameters that produced it.
type Artifacts struct {
	NovelTable        string // OTU table without Greengenes reference OTUs.
	NovelAbundTable   string // ... within the abundance thresholds.
	TableByCategory   string // ... collapsed by mapping category.
	TableByCategoryMS string // ... in at least MinCategories groups.

	CandidateRepSet string // Representative sequences of the candidates.
	UclustDir       string // parallel_pick_otus_uclust_ref.py output.
	UclustFailures  string // Candidates failing the similarity ceiling.
	FailuresRepSet  string // Their representative sequences.

	BlastDir string // parallel_blast.py output.
	BlastOut string // Tabular BLAST results against nt.

	ImgDir string // Pie charts referenced by the HTML report.
	TSV    string
	HTML   string
	JSON   string
}

// Artifacts returns the paths derived from p.
func (p Params) Artifacts() Artifacts {
	var a Artifacts
	a.NovelTable = filepath.Join(p.OutDir, qiime.AddFilenameSuffix(p.OTUTable, "_novel"))
	a.NovelAbundTable = filepath.Join(p.OutDir, qiime.AddFilenameSuffix(a.NovelTable,
		fmt.Sprintf("_min%d_max%d", p.MinAbundance, p.MaxAbundance)))
	a.TableByCategory = filepath.Join(p.OutDir, qiime.AddFilenameSuffix(a.NovelAbundTable, "_"+p.Category))
	a.TableByCategoryMS = filepath.Join(p.OutDir, qiime.AddFilenameSuffix(a.TableByCategory,
		fmt.Sprintf("_ms%d", p.MinCategories)))

	a.CandidateRepSet = filepath.Join(p.OutDir, qiime.AddFilenameSuffix(p.RepSet, "_most_wanted_candidates"))
	a.UclustDir = filepath.Join(p.OutDir,
		fmt.Sprintf("most_wanted_candidates_%s_%v", filepath.Base(p.GG), p.MaxGGSimilarity))
	a.UclustFailures = filepath.Join(a.UclustDir, stem(a.CandidateRepSet)+"_failures.txt")
	a.FailuresRepSet = filepath.Join(p.OutDir, qiime.AddFilenameSuffix(a.CandidateRepSet, "_failures"))

	a.BlastDir = filepath.Join(p.OutDir, "blast_output")
	a.BlastOut = filepath.Join(a.BlastDir, stem(a.FailuresRepSet)+"_blast_out.txt")

	a.ImgDir = filepath.Join(p.OutDir, "img")
	a.TSV = filepath.Join(p.OutDir, fmt.Sprintf("top_%d_most_wanted_otus.txt", p.TopN))
	a.HTML = filepath.Join(p.OutDir, fmt.Sprintf("top_%d_most_wanted_otus.html", p.TopN))
	a.JSON = filepath.Join(p.OutDir, fmt.Sprintf("top_%d_most_wanted_otus.json", p.TopN))
	return a
}

// stem returns the base name of path without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (p Params) check() error {
	for _, req := range []struct {
		name, value string
	}{
		{"OTU table", p.OTUTable},
		{"representative set", p.RepSet},
		{"Greengenes reference", p.GG},
		{"nt database", p.NT},
		{"mapping file", p.Mapping},
		{"mapping category", p.Category},
		{"output directory", p.OutDir},
	} {
		if req.value == "" {
			return workflow.Errorf("no %s given", req.name)
		}
	}
	if p.TopN < 1 {
		return workflow.Errorf("top n must be positive: %d", p.TopN)
	}
	return nil
}

// Plan builds the pipeline's commands in execution order.
func (p Params) Plan() ([]workflow.Command, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	a := p.Artifacts()

	steps := []struct {
		desc    string
		builder external.CommandBuilder
	}{
		{
			"Filtering out all GG reference OTUs",
			qiime.FilterOTUs{Cmd: p.Tools.FilterOTUs,
				InFile: p.OTUTable, OutFile: a.NovelTable, ExcludeFile: p.GG},
		},
		{
			"Filtering out all OTUs that do not fall within the specified abundance threshold",
			qiime.FilterOTUs{Cmd: p.Tools.FilterOTUs,
				InFile: a.NovelTable, OutFile: a.NovelAbundTable,
				MinCount: p.MinAbundance, MaxCount: p.MaxAbundance},
		},
		{
			fmt.Sprintf("Collapsing OTU table by %s", p.Category),
			qiime.SummarizeOTUByCat{Cmd: p.Tools.SummarizeOTUByCat,
				InFile: a.NovelAbundTable, OutFile: a.TableByCategory,
				Category: p.Category, MappingFile: p.Mapping},
		},
		{
			fmt.Sprintf("Filtering OTU table to include only OTUs that appear in at least %d sample groups",
				p.MinCategories),
			qiime.FilterOTUs{Cmd: p.Tools.FilterOTUs,
				InFile: a.TableByCategory, OutFile: a.TableByCategoryMS,
				MinSamples: p.MinCategories},
		},
		{
			"Filtering representative set to include only the latest candidate OTUs",
			qiime.FilterFasta{Cmd: p.Tools.FilterFasta,
				FastaFile: p.RepSet, OutFile: a.CandidateRepSet, TableFile: a.TableByCategoryMS},
		},
		{
			"Running uclust to get list of sequences that don't hit the maximum GG similarity threshold",
			qiime.PickOTUsUclustRef{Cmd: p.Tools.PickOTUsUclustRef,
				InFile: a.CandidateRepSet, OutDir: a.UclustDir, RefFile: p.GG,
				Similarity: p.MaxGGSimilarity, Jobs: p.Jobs},
		},
		{
			"Filtering candidate sequences to only include uclust failures",
			qiime.FilterFasta{Cmd: p.Tools.FilterFasta,
				FastaFile: a.CandidateRepSet, OutFile: a.FailuresRepSet, SeqIDFile: a.UclustFailures},
		},
		{
			"BLASTing candidate sequences against nt database",
			qiime.Blast{Cmd: p.Tools.Blast,
				InFile: a.FailuresRepSet, OutDir: a.BlastDir, RefFile: p.NT,
				SuppressFormatDB: true, EValue: p.EValue, WordSize: p.WordSize, Jobs: p.Jobs},
		},
	}

	cmds := make([]workflow.Command, len(steps))
	for i, s := range steps {
		cmd, err := s.builder.BuildCommand()
		if err != nil {
			return nil, err
		}
		cmds[i] = workflow.Command{Desc: s.desc, Cmd: cmd}
	}
	return cmds, nil
}

// Run executes the pipeline with the given handler and writes the
// most wanted OTU reports into p.OutDir. The run log is kept open
// across command execution so the report stage is logged to the same
// file.
func Run(p Params, h workflow.Handler, status workflow.Status) error {
	cmds, err := p.Plan()
	if err != nil {
		return err
	}

	switch _, err := os.Stat(p.OutDir); {
	case err == nil:
		if !p.Force {
			return workflow.Errorf("output directory %q already exists: choose another or rerun with -f", p.OutDir)
		}
	case os.IsNotExist(err):
		if err := os.MkdirAll(p.OutDir, 0755); err != nil {
			return err
		}
	default:
		return err
	}

	logger, err := workflow.NewLogger(workflow.LogPath(p.OutDir))
	if err != nil {
		return err
	}
	defer logger.Close()

	if err := h(cmds, logger, status); err != nil {
		return err
	}
	return writeReport(p, logger)
}
