package psl

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/weppos/publicsuffix-go/publicsuffix"

	log "github.com/sirupsen/logrus"
)

// DefaultListURL is the canonical location of the public suffix list.
const DefaultListURL = "https://publicsuffix.org/list/public_suffix_list.dat"

const fetchTimeout = 30 * time.Second

// UpdaterConfig controls the background refresh loop.
type UpdaterConfig struct {
	URL            string
	Interval       time.Duration // base refresh interval
	InitialBackoff time.Duration // initial backoff after a failed refresh
	MaxBackoff     time.Duration // backoff ceiling
}

// Refresh downloads and parses a fresh copy of the suffix list and
// swaps it in. The previous copy keeps serving on failure.
func (r *Resolver) Refresh(ctx context.Context) error {
	return r.refreshURL(ctx, DefaultListURL)
}

func (r *Resolver) refreshURL(ctx context.Context, listURL string) error {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: unexpected status %d", listURL, resp.StatusCode)
	}

	list := publicsuffix.NewList()
	if _, err := list.Load(resp.Body, &publicsuffix.ParserOption{PrivateDomains: true}); err != nil {
		return err
	}

	r.list.Store(list)
	return nil
}

// Start refreshes the suffix list in the background until the context
// stops. The embedded list keeps serving while refreshes fail.
func Start(ctx context.Context, cfg UpdaterConfig, r *Resolver) error {
	if cfg.Interval <= 0 {
		return nil
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 30 * time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Minute
	}

	if err := r.refreshFrom(ctx, cfg.URL); err != nil {
		log.Warningf("psl: initial refresh failed, keeping embedded list : %v", err)
	} else {
		log.Infoln("psl: suffix list refreshed")
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	var consecutiveFailures int

	for {
		select {
		case <-ctx.Done():
			log.Infof("psl: updater stopped: %v", ctx.Err())
			return ctx.Err()

		case <-ticker.C:
			if err := r.refreshFrom(ctx, cfg.URL); err != nil {
				consecutiveFailures++
				backoff := calcBackoff(cfg.InitialBackoff, cfg.MaxBackoff, consecutiveFailures)
				log.Warningf("psl: refresh failed (attempt #%d), backoff=%s : %v",
					consecutiveFailures, backoff, err)

				timer := time.NewTimer(backoff)
				select {
				case <-ctx.Done():
					timer.Stop()
					return ctx.Err()
				case <-timer.C:
				}
				// A tick that came due during the backoff sleep would fire
				// immediately; start the interval over instead.
				ticker.Reset(cfg.Interval)
				continue
			}

			if consecutiveFailures > 0 {
				log.Infof("psl: refresh recovered after %d failures", consecutiveFailures)
			}
			consecutiveFailures = 0
		}
	}
}

func (r *Resolver) refreshFrom(ctx context.Context, listURL string) error {
	if listURL == "" {
		return r.Refresh(ctx)
	}
	return r.refreshURL(ctx, listURL)
}

func calcBackoff(initial, max time.Duration, failures int) time.Duration {
	pow := math.Pow(2, float64(failures-1))
	backoff := time.Duration(float64(initial) * pow)
	if backoff > max {
		backoff = max
	}

	// Jitter avoids synchronized retries across replicas.
	jitterFrac := 0.2
	jitter := time.Duration(rand.Float64()*2*jitterFrac*float64(backoff)) -
		time.Duration(jitterFrac*float64(backoff))

	return backoff + jitter
}
