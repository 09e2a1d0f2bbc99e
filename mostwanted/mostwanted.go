// Copyright ©2021 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// mostwanted generates the "most wanted" OTU list of a study: novel
// OTUs that are abundant, present across several sample groups and
// poorly matched by the reference databases, making them attractive
// targets for finished sequencing.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/biogo/emp/mostwanted/mostwanted"
	"github.com/biogo/emp/workflow"
)

var (
	otuTable = flag.String("i", "", "Filename of the input OTU table in BIOM format.")
	repSet   = flag.String("r", "", "Filename of the table's representative sequence set FASTA.")
	gg       = flag.String("g", "", "Filename of the Greengenes reference OTUs FASTA.")
	nt       = flag.String("n", "", "Path of the BLAST nt database.")
	mapping  = flag.String("m", "", "Filename of the metadata mapping file.")
	category = flag.String("c", "Environment", "Mapping category to group samples by.")
	outDir   = flag.String("o", "", "Directory to write output to; must not exist unless -f is given.")

	topN          = flag.Int("top_n", 100, "Number of candidate OTUs to report.")
	minAbundance  = flag.Int("min_abundance", 5, "Minimum sequence count of a candidate OTU.")
	maxAbundance  = flag.Int("max_abundance", 100, "Maximum sequence count of a candidate OTU.")
	minCategories = flag.Int("min_categories", 2, "Minimum number of sample groups a candidate OTU must appear in.")
	maxGGSim      = flag.Float64("max_gg_similarity", 0.70, "Maximum similarity of a candidate OTU to a Greengenes sequence.")
	eValue        = flag.Float64("e_value", 1e-10, "Maximum e-value of reported BLAST hits.")
	wordSize      = flag.Int("word_size", 28, "Word size for the BLAST searches.")
	jobs          = flag.Int("jobs", 1, "Number of jobs for the parallel QIIME tools.")

	force     = flag.Bool("f", false, "Force writing into an existing output directory.")
	printOnly = flag.Bool("w", false, "Print the pipeline commands without executing them.")
	verbose   = flag.Bool("v", false, "Print status updates as the pipeline progresses.")
	annotate  = flag.Bool("annotate", false, "Annotate reported matches with their NCBI definitions.")
	email     = flag.String("email", "", "Email address to send with NCBI requests (required with -annotate).")
	config    = flag.String("config", "", "Filename of an optional YAML configuration file.")
	help      = flag.Bool("help", false, "Print this usage message.")
)

func main() {
	flag.Parse()
	if *help {
		flag.Usage()
		os.Exit(0)
	}

	var tools mostwanted.Tools
	if *config != "" {
		var err error
		tools, err = loadConfig(*config)
		if err != nil {
			log.Fatalf("failed to read configuration: %v", err)
		}
	}
	if *annotate && *email == "" {
		fmt.Fprintln(os.Stderr, "Error: -annotate requires -email.")
		os.Exit(1)
	}

	p := mostwanted.Params{
		OTUTable:        *otuTable,
		RepSet:          *repSet,
		GG:              *gg,
		NT:              *nt,
		Mapping:         *mapping,
		Category:        *category,
		OutDir:          *outDir,
		Force:           *force,
		TopN:            *topN,
		MinAbundance:    *minAbundance,
		MaxAbundance:    *maxAbundance,
		MinCategories:   *minCategories,
		MaxGGSimilarity: *maxGGSim,
		EValue:          *eValue,
		WordSize:        *wordSize,
		Jobs:            *jobs,
		Annotate:        *annotate,
		Email:           *email,
		Tools:           tools,
	}

	if *printOnly {
		cmds, err := p.Plan()
		if err != nil {
			log.Fatalf("failed to build pipeline: %v", err)
		}
		if err := workflow.Print(cmds, nil, workflow.Quiet); err != nil {
			log.Fatalf("failed to print pipeline: %v", err)
		}
		return
	}

	var status workflow.Status = workflow.Quiet
	if *verbose {
		status = workflow.PrintStatus
	}
	if err := mostwanted.Run(p, workflow.Serial, status); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v.\n", err)
		os.Exit(1)
	}
}
