package middleware

import (
	"net/http"
	"strings"
)

// SubdomainRewrite maps wildcard-subdomain requests onto the portfolio
// render route: a request for my-site.example.org/ is served as
// /portfolio/my-site. Requests on the root domain, on www, or on hosts
// outside the root domain pass through untouched.
func SubdomainRewrite(rootDomain string) func(http.Handler) http.Handler {
	suffix := "." + strings.ToLower(rootDomain)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub := extractSubdomain(r.Host, suffix)
			if sub != "" {
				r2 := r.Clone(r.Context())
				r2.URL.Path = "/portfolio/" + sub
				r2.URL.RawPath = ""
				next.ServeHTTP(w, r2)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractSubdomain(host, suffix string) string {
	host = strings.ToLower(host)
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	if !strings.HasSuffix(host, suffix) {
		return ""
	}
	sub := strings.TrimSuffix(host, suffix)
	// Nested labels like a.b are not portfolio hosts.
	if sub == "" || sub == "www" || strings.Contains(sub, ".") {
		return ""
	}
	return sub
}
