package collector

import (
	"bytes"
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	extensions "github.com/gocolly/colly/extensions"

	log "github.com/sirupsen/logrus"
)

// CollyCollector is a static-fetch fallback for hosts without a usable
// Chromium. It cannot observe real network traffic, so the request list
// is approximated with the subresource URLs declared in the markup.
type CollyCollector struct {
	Transport      *http.Transport
	TimeoutSeconds int
}

func (c *CollyCollector) CanObserveNetwork() bool {
	return false
}

func (c *CollyCollector) Init() error {
	log.Infoln("Colly initialization")
	c.Transport = &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: time.Second * time.Duration(c.TimeoutSeconds),
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 2 * time.Second,
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: true},
	}
	return nil
}

// subresourceSelectors map markup elements to the attribute carrying the
// URL the browser would have fetched for them.
var subresourceSelectors = []struct {
	query string
	attr  string
}{
	{"script[src]", "src"},
	{"img[src]", "src"},
	{"link[href]", "href"},
	{"iframe[src]", "src"},
	{"source[src]", "src"},
}

func (c *CollyCollector) Collect(paramURL string, dwell time.Duration) (*PageCapture, error) {
	// No JS runs here, dwelling would only burn time.
	_ = dwell

	capture := &PageCapture{}
	var parseErr error

	co := c.newCollector()
	co.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			parseErr = err
			return
		}

		base := r.Request.URL
		doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			if href, ok := s.Attr("href"); ok {
				capture.Links = append(capture.Links, resolveRef(base, href))
			}
		})

		requests := []string{r.Request.URL.String()}
		for _, sel := range subresourceSelectors {
			doc.Find(sel.query).Each(func(_ int, s *goquery.Selection) {
				if v, ok := s.Attr(sel.attr); ok {
					requests = append(requests, resolveRef(base, v))
				}
			})
		}
		capture.Requests = dedupe(requests)
	})

	if err := co.Visit(paramURL); err != nil {
		log.Errorf("Error while visiting %s : %s", paramURL, err.Error())
		return capture, err
	}
	return capture, parseErr
}

func (c *CollyCollector) Close() {
	if c.Transport != nil {
		c.Transport.CloseIdleConnections()
	}
}

// newCollector builds a fresh collector so visits stay isolated from
// each other (cookies, callbacks).
func (c *CollyCollector) newCollector() *colly.Collector {
	co := colly.NewCollector()
	co.IgnoreRobotsTxt = true
	co.SetRequestTimeout(time.Duration(c.TimeoutSeconds) * time.Second)
	co.WithTransport(c.Transport)

	extensions.Referer(co)
	extensions.RandomUserAgent(co)

	return co
}

// resolveRef resolves ref against base the way a browser resolves an
// href; the raw value is kept when it cannot be parsed.
func resolveRef(base *url.URL, ref string) string {
	u, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}
