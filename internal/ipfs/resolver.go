// Package ipfs resolves content-address references into retrieval URLs and
// fetches documents from the configured gateway.
package ipfs

import (
	"strings"

	"github.com/mr-tron/base58"
)

// PlaceholderURL is served when an object carries no image reference at all.
// Absent media is expected, not an error.
const PlaceholderURL = "https://placehold.co/600x400/f8f9fa/c1121f?text=No+Image"

// ResolveURL turns a raw content reference into one fully-qualified gateway
// URL. Accepted inputs: a full gateway URL, a bare content identifier, an
// ipfs://CID reference, or a comma-joined list of identifiers (first wins).
func ResolveURL(gatewayURL, raw string) string {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return PlaceholderURL
	}

	clean = strings.TrimPrefix(clean, "ipfs://")
	clean = strings.TrimPrefix(clean, gatewayURL)
	if i := strings.Index(clean, ","); i >= 0 {
		clean = clean[:i]
	}
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return PlaceholderURL
	}

	if strings.HasPrefix(clean, "http://") || strings.HasPrefix(clean, "https://") {
		return clean
	}
	return gatewayURL + clean
}

// LooksLikeCID reports whether s plausibly names content: a v0 CID is a
// base58btc multihash starting with "Qm", a v1 CID starts with "b". This is
// a shape check, not a full multiformat validation.
func LooksLikeCID(s string) bool {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "Qm") && len(s) == 46 {
		_, err := base58.Decode(s)
		return err == nil
	}
	return strings.HasPrefix(s, "b") && len(s) > 10
}
