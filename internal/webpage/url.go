// Package webpage holds the precision-sensitive algorithms behind the
// research tools: URL normalization/deduplication, boilerplate-aware
// content extraction, and boundary-safe truncation.
package webpage

import (
	"net/url"
	"strings"
)

// trackingParams lists query parameters stripped during normalization.
// Keys are compared case-insensitively.
var trackingParams = map[string]struct{}{
	"utm_source":           {},
	"utm_medium":           {},
	"utm_campaign":         {},
	"utm_term":             {},
	"utm_content":          {},
	"utm_id":               {},
	"utm_source_platform":  {},
	"utm_creative_format":  {},
	"utm_marketing_tactic": {},
	"fbclid":               {},
	"gclid":                {},
	"gclsrc":               {},
	"dclid":                {},
	"gbraid":               {},
	"wbraid":               {},
	"msclkid":              {},
	"twclid":               {},
	"igshid":               {},
	"mc_cid":               {},
	"mc_eid":               {},
	"ref":                  {},
	"ref_":                 {},
	"source":               {},
	"src":                  {},
}

// Normalize canonicalizes a URL for equality comparison. The result is
// never returned to callers of the tools; it exists only so that two URLs
// a human would call "the same page" (www. prefix, host case, tracking
// params, trailing slash, fragment) collapse to one key.
//
// Malformed URLs are returned unchanged, so they still deduplicate by
// exact string match.
func Normalize(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")

	path := u.Path
	if path != "/" && strings.HasSuffix(path, "/") {
		path = strings.TrimRight(path, "/")
	}

	u.Host = host
	u.Path = path
	u.RawPath = ""
	u.RawQuery = filterQuery(u.RawQuery)
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""

	return u.String()
}

// filterQuery drops tracking parameters from a raw query string while
// preserving the relative order of the remaining pairs. Pairs are
// re-encoded canonically so equivalent encodings compare equal.
func filterQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	var kept []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value, hasValue := strings.Cut(pair, "=")

		decodedKey, err := url.QueryUnescape(key)
		if err != nil {
			decodedKey = key
		}
		if _, blocked := trackingParams[strings.ToLower(decodedKey)]; blocked {
			continue
		}

		encoded := url.QueryEscape(decodedKey)
		if hasValue {
			decodedValue, err := url.QueryUnescape(value)
			if err != nil {
				decodedValue = value
			}
			encoded += "=" + url.QueryEscape(decodedValue)
		}
		kept = append(kept, encoded)
	}

	return strings.Join(kept, "&")
}

// Deduplicate collapses URLs that normalize identically, keeping each
// first occurrence in its original form and preserving input order.
func Deduplicate(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	unique := make([]string, 0, len(urls))

	for _, u := range urls {
		normalized := Normalize(u)
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		unique = append(unique, u)
	}

	return unique
}
