package server

import (
	"bytes"
	"caesar/internal/caesar"
	"caesar/internal/ctxlog"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testConfig() Config {
	c := DefaultConfig()
	c.Port = 8080
	c.MaxTextBytes = 256
	c.LimiterPeriod = time.Millisecond
	return c
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// transformResult mirrors transformResponse with the direction left as text.
type transformResult struct {
	Text      string        `json:"text"`
	Shift     int           `json:"shift"`
	Direction string        `json:"direction"`
	Stats     caesar.Stats  `json:"stats"`
	Mapping   []caesar.Pair `json:"mapping"`
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestTransform(t *testing.T) {
	s := New(testConfig())

	w := do(t, s.handler, http.MethodPost, "/api/encrypt", `{"text":"Attack at Dawn!","shift":3,"details":true}`)
	if have, want := w.Code, http.StatusOK; have != want {
		t.Fatalf("status %d, want %d: %s", have, want, w.Body)
	}
	enc := decodeBody[transformResult](t, w)
	if have, want := enc.Text, "Dwwdfn dw Gdzq!"; have != want {
		t.Fatalf("text %q, want %q", have, want)
	}
	if have, want := enc.Direction, "encrypt"; have != want {
		t.Fatalf("direction %s, want %s", have, want)
	}
	if have, want := enc.Stats, (caesar.Stats{Total: 15, Alphabetic: 12, NonAlphabetic: 3}); have != want {
		t.Fatalf("stats %+v, want %+v", have, want)
	}
	if have, want := len(enc.Mapping), 8; have != want {
		t.Fatalf("%d mapping pairs, want %d", have, want)
	}

	w = do(t, s.handler, http.MethodPost, "/api/decrypt", `{"text":"Dwwdfn dw Gdzq!","shift":3}`)
	dec := decodeBody[transformResult](t, w)
	if have, want := dec.Text, "Attack at Dawn!"; have != want {
		t.Fatalf("text %q, want %q", have, want)
	}
	if dec.Mapping != nil {
		t.Fatalf("mapping returned without details: %v", dec.Mapping)
	}

	w = do(t, s.handler, http.MethodPost, "/api/encrypt", `{"text":"","shift":5}`)
	if have, want := w.Code, http.StatusOK; have != want {
		t.Fatalf("empty text: status %d, want %d", have, want)
	}
	if have := decodeBody[transformResult](t, w).Text; have != "" {
		t.Fatalf("empty text encrypted to %q", have)
	}
}

func TestTransformErrors(t *testing.T) {
	s := New(testConfig())

	for _, tc := range []struct {
		name string
		path string
		body string
		code int
		msg  string
	}{
		{"shift zero", "/api/encrypt", `{"text":"abc","shift":0}`, http.StatusBadRequest, "invalid shift"},
		{"shift 26", "/api/decrypt", `{"text":"abc","shift":26}`, http.StatusBadRequest, "invalid shift"},
		{"missing shift", "/api/encrypt", `{"text":"abc"}`, http.StatusBadRequest, "invalid shift"},
		{"malformed", "/api/encrypt", `{"text":`, http.StatusBadRequest, "malformed request"},
		{"unknown field", "/api/encrypt", `{"text":"abc","shift":3,"key":1}`, http.StatusBadRequest, "malformed request"},
		{"text too long", "/api/encrypt", fmt.Sprintf(`{"text":%q,"shift":3}`, strings.Repeat("a", 257)), http.StatusRequestEntityTooLarge, "limit is 256"},
		{"body too long", "/api/bruteforce", fmt.Sprintf(`{"text":%q}`, strings.Repeat("a", 4096)), http.StatusRequestEntityTooLarge, "too large"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, s.handler, http.MethodPost, tc.path, tc.body)
			if have, want := w.Code, tc.code; have != want {
				t.Fatalf("status %d, want %d: %s", have, want, w.Body)
			}
			if e := decodeBody[errorResponse](t, w); !strings.Contains(e.Error, tc.msg) {
				t.Fatalf("error %q does not mention %q", e.Error, tc.msg)
			}
		})
	}
}

func TestBruteForce(t *testing.T) {
	s := New(testConfig())

	w := do(t, s.handler, http.MethodPost, "/api/bruteforce", `{"text":"Dwwdfn dw Gdzq!"}`)
	if have, want := w.Code, http.StatusOK; have != want {
		t.Fatalf("status %d, want %d", have, want)
	}
	resp := decodeBody[bruteForceResponse](t, w)
	if have, want := len(resp.Candidates), 25; have != want {
		t.Fatalf("%d candidates, want %d", have, want)
	}
	for i, c := range resp.Candidates {
		if c.Shift != i+1 || c.Score != nil {
			t.Fatalf("candidate %d = %+v", i, c)
		}
	}
	if have, want := resp.Candidates[2].Plaintext, "Attack at Dawn!"; have != want {
		t.Fatalf("shift 3 candidate %q, want %q", have, want)
	}
	if resp.Best != nil {
		t.Fatalf("unranked response has a best guess")
	}
}

func TestBruteForceRanked(t *testing.T) {
	s := New(testConfig())

	const plain = "It was the best of times, it was the worst of times, it was the age of wisdom"
	c, err := caesar.Transform(plain, 11, caesar.Encrypt)
	if err != nil {
		t.Fatal(err)
	}

	w := do(t, s.handler, http.MethodPost, "/api/bruteforce", fmt.Sprintf(`{"text":%q,"rank":true}`, c))
	resp := decodeBody[bruteForceResponse](t, w)
	if resp.Best == nil {
		t.Fatalf("no best guess: %s", w.Body)
	}
	if have, want := resp.Best.Shift, 11; have != want {
		t.Fatalf("best shift %d, want %d", have, want)
	}
	if have, want := resp.Best.Plaintext, plain; have != want {
		t.Fatalf("best plaintext %q, want %q", have, want)
	}
	if resp.Best.Score == nil || resp.Candidates[0].Score == nil || *resp.Best.Score != *resp.Candidates[0].Score {
		t.Fatalf("best guess %+v does not match the top ranked candidate %+v", resp.Best, resp.Candidates[0])
	}

	w = do(t, s.handler, http.MethodPost, "/api/bruteforce", `{"text":"1234","rank":true}`)
	if have, want := w.Code, http.StatusOK; have != want {
		t.Fatalf("status %d, want %d: %s", have, want, w.Body)
	}
	resp = decodeBody[bruteForceResponse](t, w)
	if resp.Best != nil || resp.Candidates[0].Score != nil {
		t.Fatalf("letterless text produced a score: %s", w.Body)
	}
}

func TestStatsAndAbout(t *testing.T) {
	s := New(testConfig())

	w := do(t, s.handler, http.MethodPost, "/api/stats", `{"text":"héllo 42"}`)
	if have, want := decodeBody[caesar.Stats](t, w), (caesar.Stats{Total: 8, Alphabetic: 5, NonAlphabetic: 3}); have != want {
		t.Fatalf("stats %+v, want %+v", have, want)
	}

	w = do(t, s.handler, http.MethodGet, "/api/about", "")
	about := decodeBody[aboutResponse](t, w)
	if about.About != caesar.About || about.MinShift != 1 || about.MaxShift != 25 {
		t.Fatalf("unexpected about response %+v", about)
	}
}

func TestIndex(t *testing.T) {
	s := New(testConfig())

	w := do(t, s.handler, http.MethodGet, "/", "")
	if have, want := w.Code, http.StatusOK; have != want {
		t.Fatalf("status %d, want %d", have, want)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type %q", ct)
	}
	if body := w.Body.String(); !strings.Contains(body, `max="25"`) || !strings.Contains(body, "only 25 possible keys") {
		t.Fatalf("index page not rendered: %s", body)
	}
	if have, want := w.Header().Get("X-Robots-Tag"), "noindex, nofollow"; have != want {
		t.Fatalf("X-Robots-Tag %q, want %q", have, want)
	}

	etag := w.Header().Get("ETag")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	if have, want := w.Code, http.StatusNotModified; have != want {
		t.Fatalf("status %d, want %d", have, want)
	}
}

func TestNotFound(t *testing.T) {
	s := New(testConfig())

	w := do(t, s.handler, http.MethodGet, "/nope", "")
	if have, want := w.Code, http.StatusNotFound; have != want {
		t.Fatalf("status %d, want %d", have, want)
	}
	if e := decodeBody[errorResponse](t, w); e.Error != "Not Found" {
		t.Fatalf("error %q", e.Error)
	}
}

func TestHostRedirect(t *testing.T) {
	c := testConfig()
	c.Host = "caesar.example"
	s := New(c)

	w := do(t, s.handler, http.MethodGet, "http://other.example/api/about?x=1", "")
	if have, want := w.Code, http.StatusTemporaryRedirect; have != want {
		t.Fatalf("status %d, want %d", have, want)
	}
	if have, want := w.Header().Get("Location"), "//caesar.example/api/about?x=1"; have != want {
		t.Fatalf("location %q, want %q", have, want)
	}

	for _, target := range []string{
		"http://caesar.example/api/about",
		"http://Caesar.Example/api/about",
		"http://caesar.example:8080/api/about",
	} {
		w = do(t, s.handler, http.MethodGet, target, "")
		if have, want := w.Code, http.StatusOK; have != want {
			t.Fatalf("%s: status %d, want %d", target, have, want)
		}
	}
}

func TestHostRedirectWithPort(t *testing.T) {
	h := hostMiddleware("caesar.example:8443", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, tc := range []struct {
		target string
		code   int
	}{
		{"http://caesar.example:8443/", http.StatusNoContent},
		{"http://CAESAR.example:8443/", http.StatusNoContent},
		{"http://caesar.example/", http.StatusTemporaryRedirect},
		{"http://caesar.example:9000/", http.StatusTemporaryRedirect},
	} {
		if have, want := do(t, h, http.MethodGet, tc.target, "").Code, tc.code; have != want {
			t.Fatalf("%s: status %d, want %d", tc.target, have, want)
		}
	}
}

func TestWhitespaceInputWarns(t *testing.T) {
	s := New(testConfig())

	for _, path := range []string{"/api/encrypt", "/api/bruteforce"} {
		buf := &bytes.Buffer{}
		logger, _, err := ctxlog.New(buf, "test", ctxlog.Config{Format: "text"})
		if err != nil {
			t.Fatal(err)
		}

		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"text":" \t\n","shift":3}`))
		if path == "/api/bruteforce" {
			req = httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"text":" \t\n"}`))
		}
		req = req.WithContext(ctxlog.Store(req.Context(), logger))
		w := httptest.NewRecorder()
		s.handler.ServeHTTP(w, req)

		if have, want := w.Code, http.StatusOK; have != want {
			t.Fatalf("%s: status %d, want %d: %s", path, have, want, w.Body)
		}
		if !strings.Contains(buf.String(), "empty input") {
			t.Fatalf("%s: no warning logged: %q", path, buf.String())
		}
	}
}

func TestRecover(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, _, err := ctxlog.New(buf, "test", ctxlog.Config{Format: "text"})
	if err != nil {
		t.Fatal(err)
	}

	h := logMiddleware(newRecover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "3")
		panic("boom")
	}), internalServerErrorHandler()))

	req := httptest.NewRequest(http.MethodPost, "/api/encrypt", nil)
	req = req.WithContext(ctxlog.Store(req.Context(), logger))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if have, want := w.Code, http.StatusInternalServerError; have != want {
		t.Fatalf("status %d, want %d", have, want)
	}
	if cl := w.Header().Get("Content-Length"); cl == "3" {
		t.Fatal("Content-Length set by the panicking handler leaked into the error response")
	}
	if e := decodeBody[errorResponse](t, w); e.Error != "Internal Server Error" {
		t.Fatalf("error %q", e.Error)
	}

	logs := buf.String()
	for _, want := range []string{"handler panicked", "path=/api/encrypt", "boom", "level=ERROR msg=\"request completed\"", "status=500"} {
		if !strings.Contains(logs, want) {
			t.Fatalf("log missing %q: %s", want, logs)
		}
	}
}

func TestAPINotCached(t *testing.T) {
	s := New(testConfig())

	w := do(t, s.handler, http.MethodPost, "/api/encrypt", `{"text":"secret","shift":3}`)
	if have, want := w.Header().Get("Cache-Control"), "no-store"; have != want {
		t.Fatalf("api Cache-Control %q, want %q", have, want)
	}

	w = do(t, s.handler, http.MethodGet, "/", "")
	if cc := w.Header().Get("Cache-Control"); cc == "no-store" {
		t.Fatal("index page marked no-store")
	}
}

func TestLimiter(t *testing.T) {
	l := newLimiter(1, time.Hour, 1, tooManyRequestsHandler())
	defer l.stop()

	h := l.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
		h.ServeHTTP(httptest.NewRecorder(), req)
	}()

	for len(l.buckets[0].tickets) == 0 {
		time.Sleep(time.Millisecond)
	}

	w := do(t, h, http.MethodGet, "/", "")
	if have, want := w.Code, http.StatusTooManyRequests; have != want {
		t.Fatalf("status %d, want %d", have, want)
	}

	cancel()
	<-done

	if have := len(l.buckets[0].tickets); have != 0 {
		t.Fatalf("%d tickets still held", have)
	}
}

func TestNewRequiresConfig(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"port":     func(c *Config) { c.Port = 0 },
		"maxText":  func(c *Config) { c.MaxTextBytes = 0 },
		"buckets":  func(c *Config) { c.LimiterBuckets = 0 },
		"period":   func(c *Config) { c.LimiterPeriod = 0 },
		"shutdown": func(c *Config) { c.ShutdownTimeout = 0 },
		"tls pair": func(c *Config) { c.TLSCert = "cert.pem" },
	} {
		t.Run(name, func(t *testing.T) {
			c := testConfig()
			mutate(&c)

			defer func() {
				if recover() == nil {
					t.Fatal("New did not panic")
				}
			}()
			New(c)
		})
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestRun(t *testing.T) {
	c := testConfig()
	c.Bind = "127.0.0.1"
	c.Port = freePort(t)
	s := New(c)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/api/encrypt", c.Port)
	var resp *http.Response
	var err error
	for range 100 {
		resp, err = http.Post(url, "application/json", strings.NewReader(`{"text":"XYZ","shift":3}`))
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatal(err)
	}

	var out transformResult
	err = json.NewDecoder(resp.Body).Decode(&out)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if have, want := out.Text, "ABC"; have != want {
		t.Fatalf("text %q, want %q", have, want)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestCanonicalPath(t *testing.T) {
	s := New(testConfig())

	w := do(t, s.handler, http.MethodPost, "/API/Brute-Force/?v=1", `{"text":"abc"}`)
	if have, want := w.Code, http.StatusPermanentRedirect; have != want {
		t.Fatalf("status %d, want %d", have, want)
	}
	if have, want := w.Header().Get("Location"), "/api/bruteforce?v=1"; have != want {
		t.Fatalf("location %q, want %q", have, want)
	}

	w = do(t, s.handler, http.MethodGet, "/api/about", "")
	if have, want := w.Code, http.StatusOK; have != want {
		t.Fatalf("status %d, want %d", have, want)
	}
}
