// Copyright ©2021 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"

	"github.com/spf13/viper"

	"github.com/biogo/emp/mostwanted/mostwanted"
)

// loadConfig reads the YAML configuration at path, overlays its
// top-level keys onto any flag not explicitly set on the command
// line, and returns the pipeline tool overrides from its tools
// section. For example:
//
//	top_n: 50
//	e_value: 1e-20
//	tools:
//	  blast: /opt/qiime/bin/parallel_blast.py
func loadConfig(path string) (mostwanted.Tools, error) {
	var tools mostwanted.Tools

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return tools, err
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for _, key := range v.AllKeys() {
		if set[key] || flag.Lookup(key) == nil {
			continue
		}
		if err := flag.Set(key, v.GetString(key)); err != nil {
			return tools, fmt.Errorf("bad value for %s: %v", key, err)
		}
	}

	tools = mostwanted.Tools{
		FilterOTUs:        v.GetString("tools.filter_otus"),
		SummarizeOTUByCat: v.GetString("tools.summarize_otu_by_cat"),
		FilterFasta:       v.GetString("tools.filter_fasta"),
		PickOTUsUclustRef: v.GetString("tools.pick_otus_uclust_ref"),
		Blast:             v.GetString("tools.blast"),
	}
	return tools, nil
}
