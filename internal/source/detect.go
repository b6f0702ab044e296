// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source maps paper URLs to publisher identifiers.
package source

import (
	"net/url"
	"strings"
)

// Publisher identifiers with a registered abstract extractor or a venue
// scraper.
const (
	ArXiv         = "arXiv"
	IEEE          = "IEEE"
	ScienceDirect = "ScienceDirect"
	Springer      = "Springer"
	ACM           = "ACM"
	MLR           = "MLR"
	NeurIPS       = "NeurIPS"
	MDPI          = "MDPI"
	AAAI          = "AAAI"
	JAIR          = "JAIR"
	JMLR          = "JMLR"
	IJCAI         = "IJCAI"
	OpenReview    = "OpenReview"
)

var domains = map[string]string{
	"arxiv.org":               ArXiv,
	"export.arxiv.org":        ArXiv,
	"ieee.org":                IEEE,
	"ieeexplore.ieee.org":     IEEE,
	"sciencedirect.com":       ScienceDirect,
	"www.sciencedirect.com":   ScienceDirect,
	"springer.com":            Springer,
	"link.springer.com":       Springer,
	"acm.org":                 ACM,
	"dl.acm.org":              ACM,
	"proceedings.mlr.press":   MLR,
	"proceedings.neurips.cc":  NeurIPS,
	"papers.nips.cc":          NeurIPS,
	"papers.neurips.cc":       NeurIPS,
	"mdpi.com":                MDPI,
	"www.mdpi.com":            MDPI,
	"aaai.org":                AAAI,
	"ojs.aaai.org":            AAAI,
	"jair.org":                JAIR,
	"www.jair.org":            JAIR,
	"jmlr.org":                JMLR,
	"www.jmlr.org":            JMLR,
	"ijcai.org":               IJCAI,
	"www.ijcai.org":           IJCAI,
	"openreview.net":          OpenReview,
	"nature.com":              "Nature",
	"www.nature.com":          "Nature",
	"researchgate.net":        "ResearchGate",
	"www.researchgate.net":    "ResearchGate",
	"academia.edu":            "Academia",
	"semanticscholar.org":     "Semantic Scholar",
	"www.semanticscholar.org": "Semantic Scholar",
	"elsevier.com":            "Elsevier",
	"wiley.com":               "Wiley",
	"onlinelibrary.wiley.com": "Wiley",
	"sage.com":                "SAGE",
	"sagepub.com":             "SAGE",
	"journals.sagepub.com":    "SAGE",
	"tandfonline.com":         "Taylor & Francis",
	"www.tandfonline.com":     "Taylor & Francis",
	"biomedcentral.com":       "BioMed Central",
	"acs.org":                 "ACS Publications",
	"pubs.acs.org":            "ACS Publications",
	"jstor.org":               "JSTOR",
	"www.jstor.org":           "JSTOR",
	"pubmed.ncbi.nlm.nih.gov": "PubMed",
	"oxford.org":              "Oxford",
	"oxfordjournals.org":      "Oxford",
	"academic.oup.com":        "Oxford",
	"cambridge.org":           "Cambridge",
	"www.cambridge.org":       "Cambridge",
	"content.iospress.com":    "IOS Press",
	"ir.cwi.nl":               "CWI",
	"openaccess.thecvf.com":   "Computer Vision Foundation (CVF)",
	"ora.ox.ac.uk":            "Oxford Research Archive (ORA)",
	"search.ebscohost.com":    "EBSCOhost",
}

// Detect returns the publisher identifier for rawURL. Hosts missing from
// the table are returned lower-cased as their own identifier; callers
// treat such identifiers as having no extractor. Detect never fails: a
// URL without a host yields the lower-cased input.
func Detect(rawURL string) string {
	host := Host(rawURL)
	if id, ok := domains[host]; ok {
		return id
	}
	return host
}

// Host returns the lower-cased host of rawURL without port, or the
// lower-cased trimmed input when no host can be parsed.
func Host(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return strings.ToLower(s)
	}
	return strings.ToLower(u.Hostname())
}
