package server

import (
	"caesar/internal/ctxlog"
	"caesar/internal/rec"
	"net/http"
)

// recoverHandler turns a panicking handler into a JSON 500 response.
type recoverHandler struct {
	next http.Handler
	err  http.Handler
}

func newRecover(next, err http.Handler) *recoverHandler {
	return &recoverHandler{
		next: next,
		err:  err,
	}
}

func (rh *recoverHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if err := rec.Value(recover()); err != nil {
			ctxlog.Get(r.Context()).Error("handler panicked", "path", r.URL.Path, "error", err)

			// Drop whatever the handler set before panicking, including any
			// Content-Length that would not match the error body.
			clear(w.Header())
			rh.err.ServeHTTP(w, r)
		}
	}()

	rh.next.ServeHTTP(w, r)
}
