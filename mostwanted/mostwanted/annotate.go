// Copyright ©2021 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mostwanted

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/biogo/ncbi/entrez"

	"github.com/biogo/emp/workflow"
)

const (
	entrezDB      = "nuccore"
	entrezTool    = "biogo.emp"
	entrezRetries = 5
)

// docSumResult is the eSummaryResult document returned by an Entrez
// esummary request.
type docSumResult struct {
	DocSums []docSum `xml:"DocSum"`
}

type docSum struct {
	ID    int       `xml:"Id"`
	Items []docItem `xml:"Item"`
}

type docItem struct {
	Name  string `xml:"Name,attr"`
	Value string `xml:",chardata"`
}

func (d docSum) title() string {
	for _, it := range d.Items {
		if it.Name == "Title" {
			return it.Value
		}
	}
	return ""
}

// parseDocSums maps each document summary id to its sequence title.
func parseDocSums(r io.Reader) (map[int]string, error) {
	var res docSumResult
	err := xml.NewDecoder(r).Decode(&res)
	if err != nil {
		return nil, err
	}
	defs := make(map[int]string, len(res.DocSums))
	for _, d := range res.DocSums {
		defs[d.ID] = d.title()
	}
	return defs, nil
}

// fetchDefinitions retrieves the definition lines of the given GIs
// from the NCBI nucleotide database, retrying failed requests before
// giving up.
func fetchDefinitions(gis []int, email string, logger *workflow.Logger) (map[int]string, error) {
	var (
		uniq []int
		seen = make(map[int]bool)
	)
	for _, gi := range gis {
		if gi == 0 || seen[gi] {
			continue
		}
		seen[gi] = true
		uniq = append(uniq, gi)
	}
	if len(uniq) == 0 {
		return nil, nil
	}

	var (
		p    = &entrez.Parameters{RetType: "docsum", RetMode: "xml"}
		defs map[int]string
		err  error
	)
	for t := 0; t < entrezRetries; t++ {
		var r io.ReadCloser
		r, err = entrez.Fetch(entrezDB, p, entrezTool, email, nil, uniq...)
		if err != nil {
			logger.Write(fmt.Sprintf("Failed to retrieve on attempt %d... retrying.\n", t))
			continue
		}
		defs, err = parseDocSums(r)
		r.Close()
		if err == nil {
			break
		}
		logger.Write(fmt.Sprintf("Failed to parse on attempt %d... retrying.\n", t))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch definitions: %v", err)
	}
	return defs, nil
}
