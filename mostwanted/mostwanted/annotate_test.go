// Copyright ©2021 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mostwanted

import (
	"strings"

	"gopkg.in/check.v1"
)

const docSumXML = `<?xml version="1.0"?>
<!DOCTYPE eSummaryResult PUBLIC "-//NLM//DTD eSummaryResult, 29 October 2004//EN" "http://www.ncbi.nlm.nih.gov/entrez/query/DTD/eSummary_041029.dtd">
<eSummaryResult>
<DocSum>
	<Id>339283713</Id>
	<Item Name="Caption" Type="String">JF915456</Item>
	<Item Name="Title" Type="String">Uncultured bacterium clone ncd1041e09c1 16S ribosomal RNA gene, partial sequence</Item>
	<Item Name="Extra" Type="String">gi|339283713|gb|JF915456.1|[339283713]</Item>
	<Item Name="Gi" Type="Integer">339283713</Item>
</DocSum>
<DocSum>
	<Id>302562412</Id>
	<Item Name="Caption" Type="String">AB600477</Item>
	<Item Name="Title" Type="String">Uncultured bacterium gene for 16S rRNA, partial sequence, clone: B23-2</Item>
</DocSum>
</eSummaryResult>
`

func (s *S) TestParseDocSums(c *check.C) {
	defs, err := parseDocSums(strings.NewReader(docSumXML))
	c.Assert(err, check.Equals, nil)
	c.Check(defs, check.DeepEquals, map[int]string{
		339283713: "Uncultured bacterium clone ncd1041e09c1 16S ribosomal RNA gene, partial sequence",
		302562412: "Uncultured bacterium gene for 16S rRNA, partial sequence, clone: B23-2",
	})
}

func (s *S) TestParseDocSumsBad(c *check.C) {
	defs, err := parseDocSums(strings.NewReader("not xml"))
	c.Check(defs, check.IsNil)
	c.Check(err, check.NotNil)
}
