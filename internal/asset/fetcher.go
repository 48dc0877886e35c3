package asset

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

const (
	// DefaultTimeout bounds a whole asset request, connection included.
	// An unresponsive asset host stalls one document for at most this long.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBodySize caps the bytes read from an asset response.
	// Logos are a few kilobytes; 5MB leaves room without risking memory exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultUserAgent identifies StressBand in asset requests.
	DefaultUserAgent = "StressBand/1.0 (+https://github.com/nao1215/stressband)"
)

// Fetcher retrieves assets over HTTP.
// A Fetcher is safe for concurrent use; it holds no per-request state.
type Fetcher struct {
	// client performs the requests. Its Timeout bounds every fetch.
	client *http.Client

	// maxBodySize is the largest body Fetch accepts.
	maxBodySize int64

	// userAgent is sent with every request.
	userAgent string

	// proxyAddress is the SOCKS5 proxy, empty for direct connections.
	proxyAddress string

	// timeout is kept for introspection; the client enforces it.
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher) error

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) error {
		if d > 0 {
			f.timeout = d
		}
		return nil
	}
}

// WithMaxBodySize sets the maximum accepted body size. Non-positive values are ignored.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) error {
		if n > 0 {
			f.maxBodySize = n
		}
		return nil
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) error {
		if ua != "" {
			f.userAgent = ua
		}
		return nil
	}
}

// WithSOCKS5Proxy routes requests through the SOCKS5 proxy at address ("host:port").
// An empty address keeps direct connections.
func WithSOCKS5Proxy(address string) Option {
	return func(f *Fetcher) error {
		if address == "" {
			return nil
		}
		if !isValidProxyAddress(address) {
			return fmt.Errorf("%w: %q", ErrInvalidProxyAddress, address)
		}
		f.proxyAddress = address
		return nil
	}
}

// WithHTTPClient replaces the underlying client. The client's own Timeout is
// left untouched; WithTimeout has no effect on a client supplied this way.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) error {
		f.client = c
		return nil
	}
}

// NewFetcher creates a Fetcher with the given options applied over the defaults.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		maxBodySize: DefaultMaxBodySize,
		userAgent:   DefaultUserAgent,
		timeout:     DefaultTimeout,
	}

	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}

	if f.client == nil {
		client, err := f.newHTTPClient()
		if err != nil {
			return nil, err
		}
		f.client = client
	}

	return f, nil
}

// newHTTPClient builds the default client, dialing through the proxy when one is set.
func (f *Fetcher) newHTTPClient() (*http.Client, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}

	if f.proxyAddress != "" {
		// The proxy is used without authentication.
		dialer, err := proxy.SOCKS5("tcp", f.proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   f.timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// CloseIdleConnections closes connections kept alive by earlier fetches.
func (f *Fetcher) CloseIdleConnections() {
	f.client.CloseIdleConnections()
}

// Timeout returns the per-request timeout.
func (f *Fetcher) Timeout() time.Duration {
	return f.timeout
}

// ProxyAddress returns the SOCKS5 proxy address, or "" for direct connections.
func (f *Fetcher) ProxyAddress() string {
	return f.proxyAddress
}

// Fetch performs one GET request for rawURL and returns the body.
// Non-2xx responses, oversized bodies and transport failures are errors.
// An asset registered in ctx with WithLocalAsset is returned without a request.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if rawURL == "" {
		return nil, ErrEmptyURL
	}
	if data, ok := localAssetFor(ctx, rawURL); ok {
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "image/png, image/jpeg;q=0.9, */*;q=0.1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 512) //nolint:errcheck // best effort
		return nil, fmt.Errorf("%w: HTTP %d for %s", ErrUnexpectedStatus, resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", rawURL, err)
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, fmt.Errorf("%w: more than %d bytes from %s", ErrBodyTooLarge, f.maxBodySize, rawURL)
	}

	return body, nil
}

// ResolveURL joins base with an absolute or relative reference path,
// the way a browser resolves a link against the page origin.
func ResolveURL(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	if !baseURL.IsAbs() {
		return "", fmt.Errorf("%w: %q", ErrRelativeBaseURL, base)
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid asset path %q: %w", ref, err)
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

// isValidProxyAddress checks that address is "host:port" with a port in 1-65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" || strings.ContainsAny(host, "/ ") {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}
