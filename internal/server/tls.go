package server

import (
	"caesar/internal/ctxlog"
	"context"
	"crypto/tls"
	"fmt"
	"sync/atomic"
	"time"
)

// tlsLoader serves a certificate pair that is re-read from disk periodically,
// so renewed certificates are picked up without a restart.
type tlsLoader struct {
	certFile string
	keyFile  string
	interval time.Duration

	cert atomic.Pointer[tls.Certificate]
}

func newTLSLoader(certFile, keyFile string, interval time.Duration) (*tlsLoader, error) {
	t := &tlsLoader{
		certFile: certFile,
		keyFile:  keyFile,
		interval: interval,
	}

	if err := t.load(); err != nil {
		return nil, err
	}
	return t, nil
}

func (l *tlsLoader) load() error {
	c, err := tls.LoadX509KeyPair(l.certFile, l.keyFile)
	if err != nil {
		return fmt.Errorf("load tls cert: %w", err)
	}

	l.cert.Store(&c)
	return nil
}

func (l *tlsLoader) config() *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		GetCertificate: func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
			return l.cert.Load(), nil
		},
	}
}

func (l *tlsLoader) reloadLoop(ctx context.Context) {
	logger := ctxlog.Get(ctx)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			err := l.load()
			if err != nil {
				logger.Error("reload tls cert", "error", err)
			} else {
				logger.Info("reloaded tls cert")
			}
		}
	}
}
