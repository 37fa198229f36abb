package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubResolver maps raw hosts straight to registrable domains; hosts
// without an entry count as having no recognized suffix.
type stubResolver map[string]string

func (s stubResolver) Registrable(domain string) (string, bool) {
	main, ok := s[domain]
	return main, ok
}

func TestAggregateReducesToMainDomains(t *testing.T) {
	suffixes := stubResolver{
		"sub.example.co.uk": "example.co.uk",
		"ads.example.co.uk": "example.co.uk",
	}

	report := Aggregate(
		[]string{"https://sub.example.co.uk/page"},
		[]string{"https://ads.example.co.uk/px"},
		suffixes,
	)

	assert.Equal(t, 1, report.LinksCount)
	assert.Equal(t, 1, report.RequestsCount)
	assert.Equal(t, []string{"example.co.uk"}, report.MainDomains)
	assert.Equal(t, 1, report.MainDomainsCount)
	assert.Empty(t, report.InvalidURLs)
	assert.Equal(t, 0, report.InvalidURLsCount)
}

func TestAggregateIgnorableSchemes(t *testing.T) {
	report := Aggregate([]string{"javascript:void(0)"}, nil, stubResolver{})

	assert.Equal(t, 1, report.LinksCount)
	assert.Equal(t, 0, report.RequestsCount)
	assert.Empty(t, report.MainDomains)
	assert.Empty(t, report.InvalidURLs)
	assert.Equal(t, 0, report.InvalidURLsCount)

	report = Aggregate([]string{"data:text/plain,hello", ""}, nil, stubResolver{})
	assert.Empty(t, report.InvalidURLs)
	assert.Equal(t, 0, report.InvalidURLsCount)
}

func TestAggregateInvalidURLPreviewCap(t *testing.T) {
	var links []string
	for i := 0; i < 15; i++ {
		links = append(links, fmt.Sprintf("/broken/%d", i))
	}

	report := Aggregate(links, nil, stubResolver{})

	assert.Len(t, report.InvalidURLs, 10)
	assert.Equal(t, 15, report.InvalidURLsCount)
	// Discovery order is preserved.
	assert.Equal(t, "/broken/0", report.InvalidURLs[0])
	assert.Equal(t, "/broken/9", report.InvalidURLs[9])
}

func TestAggregateDropsUnrecognizedSuffixes(t *testing.T) {
	suffixes := stubResolver{"a.example.com": "example.com"}

	report := Aggregate(
		[]string{"http://a.example.com/", "http://b.unknowntld/", "http://web.internal.corp/"},
		nil,
		suffixes,
	)

	assert.Equal(t, []string{"example.com"}, report.MainDomains)
	assert.Equal(t, 1, report.MainDomainsCount)
	// The URLs parsed fine, so they are not invalid either.
	assert.Empty(t, report.InvalidURLs)
	assert.Equal(t, 0, report.InvalidURLsCount)
}

func TestAggregateSortsAndDeduplicates(t *testing.T) {
	suffixes := stubResolver{
		"z.zeta.org":  "zeta.org",
		"a.zeta.org":  "zeta.org",
		"www.alp.com": "alp.com",
	}

	report := Aggregate(
		[]string{"https://z.zeta.org/", "https://www.alp.com/"},
		[]string{"https://a.zeta.org/", "https://z.zeta.org/again"},
		suffixes,
	)

	assert.Equal(t, []string{"alp.com", "zeta.org"}, report.MainDomains)
	assert.Equal(t, 2, report.MainDomainsCount)
}

func TestAggregateEmptyInputsMarshalToArrays(t *testing.T) {
	report := Aggregate(nil, nil, stubResolver{})

	assert.NotNil(t, report.MainDomains)
	assert.NotNil(t, report.InvalidURLs)
	assert.Equal(t, 0, report.LinksCount)
	assert.Equal(t, 0, report.RequestsCount)
}
