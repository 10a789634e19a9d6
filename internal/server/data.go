package server

import (
	"caesar/internal/ctxlog"
	"crypto/md5"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
)

func cachedHandler(content []byte, ct string) http.Handler {
	h := md5.New()
	h.Write(content)
	etag := `"` + base64.RawURLEncoding.EncodeToString(h.Sum(nil)) + `"`

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		if ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(content)))
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(content); err != nil {
			log := ctxlog.Get(r.Context())
			log.Error("failed to write response", "error", err)
			return
		}
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	content, err := json.Marshal(v)
	if err != nil {
		log := ctxlog.Get(r.Context())
		log.Error("failed to encode response", "error", err)

		status = http.StatusInternalServerError
		content = []byte(`{"error":"internal server error"}`)
	}
	content = append(content, '\n')

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(status)
	if _, err := w.Write(content); err != nil {
		log := ctxlog.Get(r.Context())
		log.Error("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}

func errorHandler(status int) http.Handler {
	msg := http.StatusText(status)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, status, msg)
	})
}

func notFoundHandler() http.Handler {
	return errorHandler(http.StatusNotFound)
}

func tooManyRequestsHandler() http.Handler {
	return errorHandler(http.StatusTooManyRequests)
}

func internalServerErrorHandler() http.Handler {
	return errorHandler(http.StatusInternalServerError)
}
