package collector

import (
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.zoe.im/surferua"

	log "github.com/sirupsen/logrus"
)

// RodCollector visits pages with a headless Chromium driven through rod.
// Every visit gets its own incognito browser context so cookies and
// storage never leak between analyses.
type RodCollector struct {
	Browser                  *rod.Browser
	NavigationTimeoutSeconds int
	UserAgent                string
}

func (c *RodCollector) CanObserveNetwork() bool {
	return true
}

func (c *RodCollector) Init() error {
	log.Infoln("Rod initialization")
	if c.UserAgent == "" {
		c.UserAgent = surferua.New().String()
	}
	return rod.Try(func() {
		c.Browser = rod.
			New().
			MustConnect().
			MustIgnoreCertErrors(true)
	})
}

func (c *RodCollector) Collect(paramURL string, dwell time.Duration) (*PageCapture, error) {
	capture := &PageCapture{}

	var incognito *rod.Browser
	var page *rod.Page
	if err := rod.Try(func() {
		incognito = c.Browser.MustIncognito()
		page = incognito.MustPage("")
	}); err != nil {
		if incognito != nil {
			_ = proto.TargetDisposeBrowserContext{BrowserContextID: incognito.BrowserContextID}.Call(c.Browser)
		}
		log.Errorf("Error while opening a page for %s : %s", paramURL, err.Error())
		return capture, err
	}
	defer func() {
		_ = rod.Try(page.MustClose)
		_ = proto.TargetDisposeBrowserContext{BrowserContextID: incognito.BrowserContextID}.Call(c.Browser)
	}()

	go page.MustHandleDialog()

	var mu sync.Mutex
	var requests []string
	go page.EachEvent(func(e *proto.NetworkRequestWillBeSent) {
		mu.Lock()
		requests = append(requests, e.Request.URL)
		mu.Unlock()
	})()

	_ = proto.NetworkSetUserAgentOverride{UserAgent: c.UserAgent}.Call(page)

	errRod := rod.Try(func() {
		page.
			Timeout(time.Duration(c.NavigationTimeoutSeconds) * time.Second).
			MustNavigate(paramURL).
			MustWaitLoad()
	})
	if errRod != nil {
		log.Errorf("Error while visiting %s : %s", paramURL, errRod.Error())
		return capture, errRod
	}

	// Let delayed and script-driven requests fire before tearing down.
	time.Sleep(dwell)

	// The href property, unlike the attribute, is already resolved to an
	// absolute URL by the browser.
	anchors, _ := page.Elements("a[href]")
	for _, anchor := range anchors {
		if href, _ := anchor.Property("href"); href.Val() != nil {
			capture.Links = append(capture.Links, href.String())
		}
	}

	mu.Lock()
	capture.Requests = dedupe(requests)
	mu.Unlock()

	return capture, nil
}

func (c *RodCollector) Close() {
	if c.Browser == nil {
		return
	}
	if err := rod.Try(c.Browser.MustClose); err != nil {
		log.Warningf("Error while closing the browser : %s", err.Error())
	}
}
