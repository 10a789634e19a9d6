package server

import (
	"net/http"
	"strings"
)

func canonicalKey(p string) string {
	p = strings.Trim(p, "/")
	p = strings.ReplaceAll(p, "-", "")
	p = strings.ReplaceAll(p, "_", "")
	return strings.ToLower(p)
}

// canonicalPathMiddleware redirects spellings such as /API/Brute-Force/ to
// the registered path. 308 keeps the method and body of POST requests.
func canonicalPathMiddleware(paths []string, next http.Handler) http.Handler {
	m := map[string]string{}
	for _, p := range paths {
		m[canonicalKey(p)] = p
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if path, ok := m[canonicalKey(r.URL.Path)]; ok && r.URL.Path != path {
			u := *r.URL
			u.Path = path
			w.Header().Set("Location", u.RequestURI())
			w.WriteHeader(http.StatusPermanentRedirect)
			return
		}

		next.ServeHTTP(w, r)
	})
}
