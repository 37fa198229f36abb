package core

import (
	"net/url"
	"strings"
)

// ExtractDomain pulls the host[:port] component out of a raw URL.
// Blob URLs wrap the URL of their origin, so the blob: marker is
// stripped and the remainder parsed instead. A host is only reported
// when it is non-empty and contains at least one dot; anything that
// fails to parse yields ok=false, never an error.
func ExtractDomain(rawURL string) (string, bool) {
	if strings.HasPrefix(rawURL, "blob:") {
		rawURL = strings.TrimPrefix(rawURL, "blob:")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	domain := u.Host
	if domain == "" || !strings.Contains(domain, ".") {
		return "", false
	}
	return domain, true
}
