package core

import (
	"errors"
	"time"

	"domainscope/pkg/collector"

	log "github.com/sirupsen/logrus"
)

// Config for the analyzer.
type Config struct {
	Collector                string
	NavigationTimeoutSeconds int
	DwellSeconds             int
}

// NewConfig struct with default values
func NewConfig() *Config {
	return &Config{Collector: "rod", NavigationTimeoutSeconds: 30, DwellSeconds: 30}
}

// Analyzer drives one collector and reduces what it captures to main domains.
type Analyzer struct {
	Collector collector.Collector
	Suffixes  SuffixResolver

	defaultDwell time.Duration
}

// Init initializes the analyzer and its collector
func Init(config *Config, suffixes SuffixResolver) (*Analyzer, error) {
	a := &Analyzer{Suffixes: suffixes, defaultDwell: time.Duration(config.DwellSeconds) * time.Second}

	switch config.Collector {
	case "colly":
		a.Collector = &collector.CollyCollector{TimeoutSeconds: config.NavigationTimeoutSeconds}
	case "rod":
		a.Collector = &collector.RodCollector{NavigationTimeoutSeconds: config.NavigationTimeoutSeconds}
	default:
		log.Errorf("Unknown collector %s", config.Collector)
		return nil, errors.New("UnknownCollector")
	}

	if err := a.Collector.Init(); err != nil {
		log.Errorf("Collector %s initialization failed : %v", config.Collector, err)
		return nil, err
	}
	return a, nil
}

// Analyze visits paramURL, waits out the dwell period and reports the
// registrable domains the page links to or talks to. A non-positive
// dwell falls back to the configured default.
func (a *Analyzer) Analyze(paramURL string, dwell time.Duration) (*Report, error) {
	if dwell <= 0 {
		dwell = a.defaultDwell
	}

	capture, err := a.Collector.Collect(paramURL, dwell)
	if err != nil {
		log.Errorf("Collector failed on %s : %v", paramURL, err)
		return nil, err
	}

	return Aggregate(capture.Links, capture.Requests, a.Suffixes), nil
}

// Close releases the collector's browser resources.
func (a *Analyzer) Close() {
	a.Collector.Close()
}
