package collector

import "time"

// PageCapture is everything observed during one page visit.
type PageCapture struct {
	// Links holds the href of every anchor present in the final DOM,
	// resolved to absolute URLs, duplicates allowed.
	Links []string
	// Requests holds every network request URL observed while the page
	// loaded and dwelled, deduplicated in first-seen order.
	Requests []string
}

// Collector is an interface for the different page visitors (rod, colly)
type Collector interface {
	Init() error
	CanObserveNetwork() bool
	Collect(paramURL string, dwell time.Duration) (*PageCapture, error)
	Close()
}

// dedupe keeps the first occurrence of each URL, preserving order.
func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
