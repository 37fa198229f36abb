package core

import (
	"sort"
	"strings"
)

// invalidURLPreview caps how many unparsable URLs a report carries;
// the total count is reported separately.
const invalidURLPreview = 10

// SuffixResolver reduces a host to its registrable domain using a
// public-suffix database. ok is false when no suffix is recognized.
type SuffixResolver interface {
	Registrable(domain string) (string, bool)
}

// Report is the outcome of analyzing a single page.
type Report struct {
	LinksCount       int      `json:"links_count"`
	RequestsCount    int      `json:"requests_count"`
	MainDomains      []string `json:"main_domains"`
	MainDomainsCount int      `json:"main_domains_count"`
	InvalidURLs      []string `json:"invalid_urls"`
	InvalidURLsCount int      `json:"invalid_urls_count"`
}

// Aggregate reduces the anchor links and network request URLs observed
// on a page to the set of registrable domains they reference.
//
// Links are processed first, then requests. Hosts are collected as-is,
// without normalization. URLs that yield no host are collected as
// invalid unless they are empty or carry a javascript: or data: scheme,
// which the browser produces for inert anchors and inlined resources.
func Aggregate(links, requests []string, suffixes SuffixResolver) *Report {
	rawDomains := make(map[string]struct{})
	invalid := []string{}

	collect := func(rawURL string) {
		if domain, ok := ExtractDomain(rawURL); ok {
			rawDomains[domain] = struct{}{}
			return
		}
		if rawURL == "" || strings.HasPrefix(rawURL, "javascript:") || strings.HasPrefix(rawURL, "data:") {
			return
		}
		invalid = append(invalid, rawURL)
	}

	for _, link := range links {
		collect(link)
	}
	for _, req := range requests {
		collect(req)
	}

	sorted := make([]string, 0, len(rawDomains))
	for domain := range rawDomains {
		sorted = append(sorted, domain)
	}
	sort.Strings(sorted)

	mainSet := make(map[string]struct{})
	for _, domain := range sorted {
		if main, ok := suffixes.Registrable(domain); ok {
			mainSet[main] = struct{}{}
		}
	}
	mainDomains := make([]string, 0, len(mainSet))
	for main := range mainSet {
		mainDomains = append(mainDomains, main)
	}
	sort.Strings(mainDomains)

	preview := invalid
	if len(preview) > invalidURLPreview {
		preview = preview[:invalidURLPreview]
	}

	return &Report{
		LinksCount:       len(links),
		RequestsCount:    len(requests),
		MainDomains:      mainDomains,
		MainDomainsCount: len(mainDomains),
		InvalidURLs:      preview,
		InvalidURLsCount: len(invalid),
	}
}
