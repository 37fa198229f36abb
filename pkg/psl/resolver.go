package psl

import (
	"net"
	"strings"
	"sync/atomic"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// Resolver reduces hosts to their registrable domain against a
// hot-swappable copy of the public suffix list. The zero source is the
// list embedded in the library; Refresh swaps in newer copies.
type Resolver struct {
	list atomic.Pointer[publicsuffix.List]
}

func NewResolver() *Resolver {
	r := &Resolver{}
	r.list.Store(publicsuffix.DefaultList)
	return r
}

// Registrable maps a raw domain (authority component, possibly with a
// port) to the registrable domain recognized by the suffix list. ok is
// false when the list carries no rule for the host's suffix, or when
// the host itself is a public suffix. Hosts match case-insensitively;
// the registrable domain comes back lowercase.
func (r *Resolver) Registrable(domain string) (string, bool) {
	// Suffix rules are keyed lowercase.
	host := strings.ToLower(stripPort(domain))
	if host == "" {
		return "", false
	}

	list := r.list.Load()
	// No default rule: an unlisted TLD must not produce a registrable domain.
	opts := &publicsuffix.FindOptions{IgnorePrivate: false}
	if list.Find(host, opts) == nil {
		return "", false
	}

	main, err := publicsuffix.DomainFromListWithOptions(list, host, opts)
	if err != nil || main == "" {
		return "", false
	}
	return main, true
}

// stripPort drops a trailing :port from an authority component. Suffix
// rules are keyed by bare host names.
func stripPort(domain string) string {
	if strings.LastIndexByte(domain, ':') == -1 {
		return domain
	}
	if host, _, err := net.SplitHostPort(domain); err == nil {
		return host
	}
	return domain
}
