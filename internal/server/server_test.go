package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/nao1215/stressband/internal/asset"
	"github.com/nao1215/stressband/internal/config"
	"github.com/nao1215/stressband/internal/model"
	"github.com/nao1215/stressband/internal/report"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// generateCall records one call to the stub generator.
type generateCall struct {
	id      model.BandID
	baseURL string
}

// stubGenerator returns a fixed document or error and records its calls.
type stubGenerator struct {
	mu    sync.Mutex
	calls []generateCall
	doc   []byte
	err   error
}

func (g *stubGenerator) Generate(_ context.Context, id model.BandID, baseURL string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, generateCall{id: id, baseURL: baseURL})
	if g.err != nil {
		return nil, g.err
	}
	return g.doc, nil
}

func (g *stubGenerator) lastCall(t *testing.T) generateCall {
	t.Helper()
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.calls) == 0 {
		t.Fatal("generator was not called")
	}
	return g.calls[len(g.calls)-1]
}

func newTestServer(t *testing.T, gen ReportGenerator, opts ...Option) *Server {
	t.Helper()

	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	s, err := New(gen, model.NewFixtureSource(), opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func serve(s *Server, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestReportEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		path   string
		wantID model.BandID
	}{
		{name: "known identifier", path: "/api/report/936421", wantID: model.BandFabriceDurand},
		{name: "surrounding whitespace", path: "/api/report/%20936421%20", wantID: model.BandFabriceDurand},
		{name: "percent-encoded digits", path: "/api/report/%39%33%36%34%32%31", wantID: model.BandFabriceDurand},
		{name: "default identifier", path: "/api/report/124578", wantID: model.BandAudreyMartin},
		{name: "unknown identifier", path: "/api/report/999999", wantID: model.BandAudreyMartin},
		{name: "blank identifier", path: "/api/report/%20", wantID: model.BandAudreyMartin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := &stubGenerator{doc: []byte("%PDF-1.4 test")}
			s := newTestServer(t, gen)

			rec := serve(s, http.MethodGet, tt.path, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
			}

			if got := gen.lastCall(t).id; got != tt.wantID {
				t.Errorf("generator called with %q, want %q", got, tt.wantID)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
				t.Errorf("Content-Type = %q", ct)
			}
			wantDisposition := `attachment; filename="compte-rendu-` + tt.wantID.String() + `.pdf"`
			if cd := rec.Header().Get("Content-Disposition"); cd != wantDisposition {
				t.Errorf("Content-Disposition = %q, want %q", cd, wantDisposition)
			}
			if !bytes.Equal(rec.Body.Bytes(), gen.doc) {
				t.Errorf("body = %q", rec.Body.Bytes())
			}
		})
	}
}

func TestReportEndpointBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		opts   []Option
		header http.Header
		want   string
	}{
		{name: "derived from host", want: "http://example.com"},
		{name: "forwarded proto", header: http.Header{"X-Forwarded-Proto": {"https"}}, want: "https://example.com"},
		{name: "unknown forwarded proto is ignored", header: http.Header{"X-Forwarded-Proto": {"gopher"}}, want: "http://example.com"},
		{
			name: "configured base URL wins",
			opts: []Option{WithPublicBaseURL("https://stressband.example")},
			want: "https://stressband.example",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := &stubGenerator{doc: []byte("%PDF-")}
			s := newTestServer(t, gen, tt.opts...)

			serve(s, http.MethodGet, "http://example.com/api/report/124578", tt.header)
			if got := gen.lastCall(t).baseURL; got != tt.want {
				t.Errorf("baseURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReportEndpointErrors(t *testing.T) {
	t.Parallel()

	t.Run("assembly failure is a 500", func(t *testing.T) {
		t.Parallel()

		gen := &stubGenerator{err: report.ErrDocumentAssembly}
		rec := serve(newTestServer(t, gen), http.MethodGet, "/api/report/124578", nil)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
		if rec.Header().Get("Content-Disposition") != "" {
			t.Error("error responses must not be served as downloads")
		}
	})

	t.Run("strict policy rejects unknown identifiers", func(t *testing.T) {
		t.Parallel()

		gen := &stubGenerator{doc: []byte("%PDF-")}
		s := newTestServer(t, gen, WithIDPolicy(config.PolicyStrict))

		if rec := serve(s, http.MethodGet, "/api/report/999999", nil); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
		if rec := serve(s, http.MethodGet, "/api/report/%39%33%36%34%32%31", nil); rec.Code != http.StatusOK {
			t.Errorf("encoded known identifier status = %d, want 200", rec.Code)
		}
	})

	t.Run("missing profile is a 404", func(t *testing.T) {
		t.Parallel()

		gen := &stubGenerator{err: model.ErrProfileNotFound}
		if rec := serve(newTestServer(t, gen), http.MethodGet, "/api/report/124578", nil); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		t.Parallel()

		rec := serve(newTestServer(t, &stubGenerator{}), http.MethodPost, "/api/report/124578", nil)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
	})

	t.Run("New requires a generator", func(t *testing.T) {
		t.Parallel()

		if _, err := New(nil, nil); !errors.Is(err, ErrMissingGenerator) {
			t.Errorf("error = %v, want ErrMissingGenerator", err)
		}
	})
}

func TestProfileEndpoint(t *testing.T) {
	t.Parallel()

	rec := serve(newTestServer(t, &stubGenerator{}), http.MethodGet, "/api/profiles/936421", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}

	var got struct {
		Profile model.Profile `json:"profile"`
		Alerts  []string      `json:"alerts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	want, _ := model.NewFixtureSource().Lookup(context.Background(), model.BandFabriceDurand)
	if diff := cmp.Diff(want, got.Profile); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestStaticEndpoints(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &stubGenerator{})

	t.Run("logo", func(t *testing.T) {
		t.Parallel()

		rec := serve(s, http.MethodGet, "/logo-SB.png", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if rec.Header().Get("Content-Type") != "image/png" {
			t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
		}
		if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
			t.Error("expected PNG signature")
		}
	})

	t.Run("health", func(t *testing.T) {
		t.Parallel()

		rec := serve(s, http.MethodGet, "/health", nil)
		if rec.Code != http.StatusOK || rec.Body.String() != "OK\n" {
			t.Errorf("got %d %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("request id is assigned", func(t *testing.T) {
		t.Parallel()

		rec := serve(s, http.MethodGet, "/health", nil)
		if _, err := uuid.Parse(rec.Header().Get(RequestIDHeader)); err != nil {
			t.Errorf("invalid request id %q: %v", rec.Header().Get(RequestIDHeader), err)
		}
	})

	t.Run("valid incoming request id is kept", func(t *testing.T) {
		t.Parallel()

		id := uuid.NewString()
		rec := serve(s, http.MethodGet, "/health", http.Header{RequestIDHeader: {id}})
		if rec.Header().Get(RequestIDHeader) != id {
			t.Errorf("request id = %q, want %q", rec.Header().Get(RequestIDHeader), id)
		}
	})

	t.Run("custom logo", func(t *testing.T) {
		t.Parallel()

		custom := newTestServer(t, &stubGenerator{}, WithLogo("/static/logo.png", []byte("\x89PNGcustom")))
		rec := serve(custom, http.MethodGet, "/static/logo.png", nil)
		if rec.Body.String() != "\x89PNGcustom" {
			t.Errorf("body = %q", rec.Body.String())
		}
	})
}

// TestServeGeneratesWithOwnLogo runs the real generator behind a listening
// server, so the report embeds the logo the server itself serves.
func TestServeGeneratesWithOwnLogo(t *testing.T) {
	t.Parallel()

	fetcher, err := asset.NewFetcher(asset.WithTimeout(5 * time.Second))
	if err != nil {
		t.Fatalf("NewFetcher failed: %v", err)
	}
	t.Cleanup(fetcher.CloseIdleConnections)

	gen := report.NewGenerator(model.NewFixtureSource(), fetcher,
		report.WithLogger(quietLogger()),
		report.WithCompression(false),
	)
	s := newTestServer(t, gen, WithMaxConnections(4), WithShutdownTimeout(5*time.Second))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Timeout: 10 * time.Second}
	t.Cleanup(client.CloseIdleConnections)

	resp, err := client.Get("http://" + ln.Addr().String() + "/api/report/936421")
	if err != nil {
		cancel()
		<-done
		t.Fatalf("GET failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Serve returned %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %q", resp.StatusCode, body)
	}
	if !bytes.HasPrefix(body, []byte("%PDF-")) {
		t.Error("expected a PDF document")
	}
	if !bytes.Contains(body, []byte("/Subtype /Image")) {
		t.Error("expected the logo served by the server to be embedded")
	}
	if bytes.Contains(body, []byte("(STRESSBAND QVT)")) {
		t.Error("did not expect the fallback label")
	}
	if !bytes.Contains(body, []byte("(Fabrice Durand)")) {
		t.Error("expected the 936421 profile")
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &stubGenerator{})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestLogoPathIsRooted(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &stubGenerator{}, WithLogo("logo-SB.png", nil))
	rec := serve(s, http.MethodGet, "/logo-SB.png", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !bytes.Equal(rec.Body.Bytes(), LogoPNG) {
		t.Error("expected the embedded logo")
	}
}

// contextGenerator keeps the context of its last call.
type contextGenerator struct {
	mu  sync.Mutex
	ctx context.Context
}

func (g *contextGenerator) Generate(ctx context.Context, _ model.BandID, _ string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctx = ctx
	return []byte("%PDF-"), nil
}

func (g *contextGenerator) lastContext() context.Context {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ctx
}

func TestReportReadsOwnLogoFromMemory(t *testing.T) {
	t.Parallel()

	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("cdn logo"))
	}))
	t.Cleanup(cdn.Close)

	fetcher, err := asset.NewFetcher(asset.WithTimeout(2 * time.Second))
	if err != nil {
		t.Fatalf("NewFetcher failed: %v", err)
	}
	t.Cleanup(fetcher.CloseIdleConnections)

	// httptest.NewRequest targets example.com.
	tests := []struct {
		name    string
		opts    []Option
		logoURL string
		want    []byte
	}{
		{
			name:    "derived base url",
			logoURL: "http://example.com/logo-SB.png",
			want:    LogoPNG,
		},
		{
			name:    "public base url on the request host",
			opts:    []Option{WithPublicBaseURL("https://EXAMPLE.com")},
			logoURL: "https://EXAMPLE.com/logo-SB.png",
			want:    LogoPNG,
		},
		{
			name:    "custom logo path",
			opts:    []Option{WithLogo("static/logo.png", []byte("\x89PNGcustom"))},
			logoURL: "http://example.com/static/logo.png",
			want:    []byte("\x89PNGcustom"),
		},
		{
			name:    "public base url on another host",
			opts:    []Option{WithPublicBaseURL(cdn.URL)},
			logoURL: cdn.URL + "/logo-SB.png",
			want:    []byte("cdn logo"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := &contextGenerator{}
			s := newTestServer(t, gen, tt.opts...)
			if rec := serve(s, http.MethodGet, "/api/report/936421", nil); rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}

			got, err := fetcher.Fetch(gen.lastContext(), tt.logoURL)
			if err != nil {
				t.Fatalf("Fetch failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Fetch = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestServeConnectionCapKeepsLogo fills every connection slot with report
// requests. The logo must still be embedded in each report.
func TestServeConnectionCapKeepsLogo(t *testing.T) {
	t.Parallel()

	const (
		maxConns = 2
		requests = 4
	)

	fetcher, err := asset.NewFetcher(asset.WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewFetcher failed: %v", err)
	}
	t.Cleanup(fetcher.CloseIdleConnections)

	gen := report.NewGenerator(model.NewFixtureSource(), fetcher,
		report.WithLogger(quietLogger()),
		report.WithCompression(false),
	)
	s := newTestServer(t, gen, WithMaxConnections(maxConns), WithShutdownTimeout(10*time.Second))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Timeout: 30 * time.Second}
	url := "http://" + ln.Addr().String() + "/api/report/936421"

	bodies := make([][]byte, requests)
	errs := make([]error, requests)
	var wg sync.WaitGroup
	for i := range requests {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := client.Get(url)
			if err != nil {
				errs[i] = err
				return
			}
			defer resp.Body.Close()
			bodies[i], errs[i] = io.ReadAll(resp.Body)
		}()
	}
	wg.Wait()

	client.CloseIdleConnections()
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Serve returned %v", err)
	}

	for i := range requests {
		if errs[i] != nil {
			t.Errorf("request %d failed: %v", i, errs[i])
			continue
		}
		if !bytes.Contains(bodies[i], []byte("/Subtype /Image")) {
			t.Errorf("request %d: expected the logo to be embedded", i)
		}
		if bytes.Contains(bodies[i], []byte("(STRESSBAND QVT)")) {
			t.Errorf("request %d: did not expect the fallback label", i)
		}
	}
}
