// Package server provides the HTTP front end for the cipher tools and its lifecycle management.
package server

import (
	"bytes"
	"caesar/internal/caesar"
	"caesar/internal/ctxlog"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
)

//go:embed static
var static embed.FS

type Server struct {
	addr            string
	handler         http.Handler
	limiter         *limiter
	tls             *tlsLoader
	shutdownTimeout time.Duration
}

func New(config Config) *Server {
	if config.Port == 0 {
		panic("server: port is required")
	}
	if config.MaxTextBytes <= 0 {
		panic("server: maxTextBytes is required")
	}
	if config.LimiterBuckets <= 0 {
		panic("server: limiterBuckets is required")
	}
	if config.LimiterPeriod <= 0 {
		panic("server: limiterPeriod is required")
	}
	if config.LimiterMaxConcurrent <= 0 {
		panic("server: limiterMaxConcurrent is required")
	}
	if config.ShutdownTimeout <= 0 {
		panic("server: shutdownTimeout is required")
	}
	if (config.TLSCert == "") != (config.TLSKey == "") {
		panic("server: tlsCert and tlsKey must be set together")
	}

	s := &Server{
		addr:            net.JoinHostPort(config.Bind, strconv.Itoa(config.Port)),
		shutdownTimeout: config.ShutdownTimeout,
	}

	if config.TLSCert != "" {
		if config.TLSReloadInterval <= 0 {
			panic("server: tlsReloadInterval is required with tls")
		}
		t, err := newTLSLoader(config.TLSCert, config.TLSKey, config.TLSReloadInterval)
		if err != nil {
			panic(fmt.Errorf("server: %w", err))
		}
		s.tls = t
	}

	a := &api{maxTextBytes: config.MaxTextBytes}
	s.limiter = newLimiter(config.LimiterBuckets, config.LimiterPeriod, config.LimiterMaxConcurrent, tooManyRequestsHandler())

	mux := http.NewServeMux()

	slog.Info("registering handler", "path", "/", "src", "static/index.html")
	mux.Handle("GET /{$}", cachedHandler(indexPage(), "text/html; charset=utf-8"))
	mux.Handle("/", notFoundHandler())

	var paths []string
	for _, route := range []struct {
		method, path string
		h            http.Handler
	}{
		{http.MethodPost, "/api/encrypt", a.transform(caesar.Encrypt)},
		{http.MethodPost, "/api/decrypt", a.transform(caesar.Decrypt)},
		{http.MethodPost, "/api/bruteforce", a.bruteForce()},
		{http.MethodPost, "/api/stats", a.stats()},
		{http.MethodGet, "/api/about", a.about()},
	} {
		slog.Info("registering handler", "method", route.method, "path", route.path)
		mux.Handle(route.method+" "+route.path, s.limiter.middleware(route.h))
		paths = append(paths, route.path)
	}

	handler := http.Handler(mux)
	handler = canonicalPathMiddleware(paths, handler)
	handler = newRecover(handler, internalServerErrorHandler())
	handler = logMiddleware(handler)
	handler = hostMiddleware(config.Host, handler)
	handler = robotsMiddleware(handler)

	s.handler = handler
	return s
}

func indexPage() []byte {
	tmpl := template.Must(template.ParseFS(static, "static/index.html"))

	type data struct {
		About    string
		MinShift int
		MaxShift int
	}

	buf := &bytes.Buffer{}
	err := tmpl.Execute(buf, data{About: caesar.About, MinShift: caesar.MinShift, MaxShift: caesar.MaxShift})
	if err != nil {
		panic(fmt.Errorf("server: render index: %w", err))
	}
	return buf.Bytes()
}

func (s *Server) Run(ctx context.Context) error {
	logger := ctxlog.Get(ctx)
	defer s.limiter.stop()

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	if s.tls != nil {
		srv.TLSConfig = s.tls.config()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server is running", "addr", ln.Addr().String(), "tls", s.tls != nil)

		var err error
		if s.tls != nil {
			err = srv.ServeTLS(ln, "", "")
		} else {
			err = srv.Serve(ln)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()

		logger.Info("server is shutting down")

		stopCtx, stopCancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer stopCancel()

		err := srv.Shutdown(stopCtx)
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Error("server shutdown timeout exceeded")
		} else if err == nil {
			logger.Info("all clients closed successfully")
		}
		return err
	})

	if s.tls != nil {
		g.Go(func() error {
			s.tls.reloadLoop(gctx)
			return nil
		})
	}

	return g.Wait()
}
