// Copyright ©2021 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package blast reads tabular BLAST output (blastall -m 8/9, also the
// blast6 format of later tools) as left by parallel_blast.py.
package blast

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Hit is a single alignment line of a tabular BLAST report.
type Hit struct {
	QueryID      string
	SubjectID    string
	PctIdentity  float64
	Length       int
	Mismatches   int
	GapOpens     int
	QueryStart   int
	QueryEnd     int
	SubjectStart int
	SubjectEnd   int
	EValue       float64
	BitScore     float64
}

// GI returns the numeric GI of a gi|<n>|db|<accession>| subject id,
// or 0 when the subject id does not carry one.
func (h Hit) GI() int {
	f := strings.Split(h.SubjectID, "|")
	if len(f) < 2 || f[0] != "gi" {
		return 0
	}
	gi, err := strconv.Atoi(f[1])
	if err != nil {
		return 0
	}
	return gi
}

// Accession returns the database accession of a gi|<n>|db|<accession>|
// subject id, or the whole subject id when it does not have that form.
func (h Hit) Accession() string {
	f := strings.Split(h.SubjectID, "|")
	if len(f) < 4 || f[0] != "gi" {
		return h.SubjectID
	}
	return f[3]
}

// ReadHits reads every hit of a tabular report. Comment lines
// beginning with '#' and blank lines are skipped; any other line must
// carry the twelve standard fields.
func ReadHits(r io.Reader) ([]Hit, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = 12

	var hits []Hit
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("blast: %v", err)
		}
		h, err := parseHit(fields)
		if err != nil {
			return nil, fmt.Errorf("blast: record %d: %v", len(hits)+1, err)
		}
		hits = append(hits, h)
	}
	return hits, nil
}

func parseHit(fields []string) (Hit, error) {
	var (
		h   Hit
		err error
	)
	h.QueryID = strings.TrimSpace(fields[0])
	h.SubjectID = strings.TrimSpace(fields[1])
	for _, v := range []struct {
		f *float64
		s string
	}{
		{&h.PctIdentity, fields[2]},
		{&h.EValue, fields[10]},
		{&h.BitScore, fields[11]},
	} {
		*v.f, err = strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return h, err
		}
	}
	for _, v := range []struct {
		i *int
		s string
	}{
		{&h.Length, fields[3]},
		{&h.Mismatches, fields[4]},
		{&h.GapOpens, fields[5]},
		{&h.QueryStart, fields[6]},
		{&h.QueryEnd, fields[7]},
		{&h.SubjectStart, fields[8]},
		{&h.SubjectEnd, fields[9]},
	} {
		*v.i, err = strconv.Atoi(strings.TrimSpace(v.s))
		if err != nil {
			return h, err
		}
	}
	return h, nil
}

// BestPerQuery keeps the first hit seen for each query id, preserving
// input order. Tabular BLAST reports list each query's hits best
// first, so the survivors are the closest matches.
func BestPerQuery(hits []Hit) []Hit {
	var (
		best []Hit
		seen = make(map[string]bool)
	)
	for _, h := range hits {
		if seen[h.QueryID] {
			continue
		}
		seen[h.QueryID] = true
		best = append(best, h)
	}
	return best
}

// ByIdentity sorts hits by ascending percent identity.
type ByIdentity []Hit

func (h ByIdentity) Len() int           { return len(h) }
func (h ByIdentity) Less(i, j int) bool { return h[i].PctIdentity < h[j].PctIdentity }
func (h ByIdentity) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

// TopN returns the n hits of lowest percent identity, ordered
// ascending. The input is not modified.
func TopN(hits []Hit, n int) []Hit {
	s := append(ByIdentity(nil), hits...)
	sort.Stable(s)
	if n < len(s) {
		s = s[:n]
	}
	return s
}
