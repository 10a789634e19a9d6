package server

import (
	"hash/fnv"
	"io"
	"net"
	"net/http"
	"time"
)

type limiterBucket struct {
	ticker  *time.Ticker
	tickets chan struct{}
}

// limiter spaces out requests from the same remote host and rejects them
// once too many are waiting.
type limiter struct {
	buckets         []limiterBucket
	tooManyRequests http.Handler
}

func newLimiter(buckets int, period time.Duration, maxConcurrent int, tooManyRequests http.Handler) *limiter {
	b := make([]limiterBucket, buckets)
	for i := range buckets {
		b[i] = limiterBucket{
			ticker:  time.NewTicker(period),
			tickets: make(chan struct{}, maxConcurrent),
		}
	}

	return &limiter{
		buckets:         b,
		tooManyRequests: tooManyRequests,
	}
}

func (l *limiter) bucket(r *http.Request) *limiterBucket {
	var bucket int
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		h := fnv.New64()
		io.WriteString(h, host)
		bucket = int(h.Sum64() % uint64(len(l.buckets)))
	}
	return &l.buckets[bucket]
}

func (l *limiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := l.bucket(r)

		select {
		case b.tickets <- struct{}{}:
			defer func() { <-b.tickets }()

			select {
			case <-b.ticker.C:
			case <-r.Context().Done():
				return
			}
			next.ServeHTTP(w, r)

		default:
			l.tooManyRequests.ServeHTTP(w, r)
		}
	})
}

func (l *limiter) stop() {
	for _, b := range l.buckets {
		b.ticker.Stop()
	}
}
