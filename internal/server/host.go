package server

import (
	"net"
	"net/http"
	"strings"
)

// hostName strips the port from a Host header value.
func hostName(hostport string) string {
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		return h
	}
	return hostport
}

// hostMiddleware redirects requests addressed to any other host name to host.
// Host names compare case-insensitively. The port only matters when host names one.
func hostMiddleware(host string, next http.Handler) http.Handler {
	if host == "" {
		return next
	}

	match := func(r *http.Request) bool {
		if strings.EqualFold(r.Host, host) {
			return true
		}
		_, _, err := net.SplitHostPort(host)
		return err != nil && strings.EqualFold(hostName(r.Host), host)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !match(r) {
			w.Header().Set("Location", "//"+host+r.URL.RequestURI())
			w.WriteHeader(http.StatusTemporaryRedirect)
			return
		}

		next.ServeHTTP(w, r)
	})
}
