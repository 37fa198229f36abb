package domainscope

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"domainscope/pkg/config"
	"domainscope/pkg/core"
	"domainscope/pkg/psl"
	"domainscope/pkg/server"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// End-to-end through the HTTP boundary with the static collector, so no
// browser and no network beyond the two local test servers.
func TestAnalyzeEndToEnd(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head>
<script src="https://ads.tracker.net/px.js"></script>
</head><body>
<a href="https://sub.example.co.uk/page">out</a>
<a href="javascript:void(0)">noop</a>
</body></html>`)
	}))
	defer page.Close()

	cfg := config.Config{
		Username:       "admin",
		Password:       "secret",
		Collector:      "colly",
		MaxConcurrent:  2,
		TimeoutSeconds: 5,
	}

	analyzer, err := buildAnalyzer(cfg, psl.NewResolver())
	assert.NoError(t, err)
	defer analyzer.Close()

	api := httptest.NewServer(server.New(analyzer, server.Config{
		Username:              cfg.Username,
		Password:              cfg.Password,
		MaxConcurrent:         cfg.MaxConcurrent,
		DefaultTimeoutSeconds: cfg.TimeoutSeconds,
	}).Handler())
	defer api.Close()

	body := fmt.Sprintf(`{"url":%q,"timeout":1}`, page.URL)
	req, err := http.NewRequest(http.MethodPost, api.URL+"/analyze", bytes.NewBufferString(body))
	assert.NoError(t, err)
	req.SetBasicAuth("admin", "secret")

	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var report core.Report
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&report))

	// The page server itself is an IP host with no public suffix, so only
	// the two real domains survive the reduction.
	assert.Equal(t, []string{"example.co.uk", "tracker.net"}, report.MainDomains)
	assert.Equal(t, 2, report.MainDomainsCount)
	assert.Equal(t, 2, report.LinksCount)
	assert.Equal(t, 2, report.RequestsCount)
	assert.Empty(t, report.InvalidURLs)
	assert.Equal(t, 0, report.InvalidURLsCount)
}
