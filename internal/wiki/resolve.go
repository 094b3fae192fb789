package wiki

import (
	"net/url"
	"strings"
)

// ResolveFandomURL turns a user-supplied Fandom identifier (bare
// subdomain name or full URL) into the canonical api.php endpoint.
// Malformed input degrades to the bare-subdomain form; never errors.
func ResolveFandomURL(input string) string {
	s := strings.TrimSpace(input)

	if strings.Contains(s, ".") {
		raw := s
		if !strings.Contains(raw, "://") {
			raw = "https://" + raw
		}
		u, err := url.Parse(raw)
		// Hostnames are case-insensitive.
		host := ""
		if err == nil {
			host = strings.ToLower(u.Hostname())
		}
		if strings.HasSuffix(host, "fandom.com") {
			scheme := u.Scheme
			if scheme == "" {
				scheme = "https"
			}
			return scheme + "://" + host + "/api.php"
		}
		// URL-shaped but not a fandom.com host: fall through to the
		// bare-subdomain form, same as a parse failure.
	}

	return "https://" + s + ".fandom.com/api.php"
}

// ResolveMediaWikiURL normalizes a generic MediaWiki base URL into its
// api.php endpoint. Idempotent: resolving a resolved URL is a no-op.
func ResolveMediaWikiURL(input string) string {
	s := strings.TrimSpace(input)
	s = strings.TrimSuffix(s, "/")
	if strings.HasSuffix(s, "api.php") {
		return s
	}
	return s + "/api.php"
}
