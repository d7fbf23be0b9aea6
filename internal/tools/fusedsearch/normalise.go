package fusedsearch

import (
	"net/url"
	"sort"
	"strings"
)

// trackingParams are query string keys that only carry advertising or
// analytics identifiers. Matched case-insensitively, alongside any key with
// the utm_ prefix.
var trackingParams = map[string]struct{}{
	"srsltid": {},
	"gclid":   {},
	"fbclid":  {},
	"msclkid": {},
	"yclid":   {},
	"gbraid":  {},
	"wbraid":  {},
}

// CanonicalKey is the normalised form of a result URL, used solely as the
// deduplication key. Canonical is false when the input could not be parsed
// as an absolute URL, in which case Value is the trimmed raw input.
type CanonicalKey struct {
	Value     string
	Canonical bool
}

// NormaliseURL maps any result URL to its canonical deduplication key. It is
// a total function: unparseable input comes back trimmed but otherwise
// untouched. Two URLs naming the same page modulo tracking parameters,
// parameter order, default ports, www prefix or a trailing slash normalise
// identically, and the function is idempotent.
func NormaliseURL(raw string) CanonicalKey {
	trimmed := strings.TrimSpace(raw)

	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return CanonicalKey{Value: trimmed}
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.User = nil
	u.Scheme = strings.ToLower(u.Scheme)

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	switch {
	case u.Scheme == "https" && strings.HasSuffix(host, ":443"):
		host = strings.TrimSuffix(host, ":443")
	case u.Scheme == "http" && strings.HasSuffix(host, ":80"):
		host = strings.TrimSuffix(host, ":80")
	}
	u.Host = host

	u.RawQuery = normaliseQuery(u.Query())

	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
		u.RawPath = ""
	}

	// The key is only ever a map key, never shown to the caller, so the
	// whole string is case-folded: path case differences between providers
	// must not defeat deduplication
	return CanonicalKey{Value: strings.ToLower(u.String()), Canonical: true}
}

func isTrackingParam(key string) bool {
	k := strings.ToLower(key)
	if _, ok := trackingParams[k]; ok {
		return true
	}
	return strings.HasPrefix(k, "utm_")
}

// normaliseQuery drops tracking parameters and rebuilds the query string
// with its pairs sorted by key then value, so parameter order never affects
// the canonical key
func normaliseQuery(values url.Values) string {
	type pair struct {
		key   string
		value string
	}

	var pairs []pair
	for key, vs := range values {
		if isTrackingParam(key) {
			continue
		}
		for _, v := range vs {
			pairs = append(pairs, pair{key: key, value: v})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].key != pairs[j].key {
			return pairs[i].key < pairs[j].key
		}
		return pairs[i].value < pairs[j].value
	})

	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}
