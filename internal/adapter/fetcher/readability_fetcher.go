package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"studynote-ai/internal/domain"

	readability "github.com/go-shiori/go-readability"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// maxPageBytes bounds how much of a page is parsed.
const maxPageBytes = 5 << 20

// ErrBlockedAddress is returned when a page resolves to a loopback, private,
// link-local or otherwise non-public address.
var ErrBlockedAddress = errors.New("address is not publicly routable")

// ReadabilityFetcher fetches a web page and returns its readable text.
// Concurrent fetches of the same URL share one request.
type ReadabilityFetcher struct {
	client       *http.Client
	logger       *zap.Logger
	sfGroup      singleflight.Group
	allowPrivate bool
}

// Option configures a ReadabilityFetcher.
type Option func(*ReadabilityFetcher)

// WithPrivateNetworks lets the fetcher dial non-public addresses, e.g. a
// local test server.
func WithPrivateNetworks() Option {
	return func(f *ReadabilityFetcher) {
		f.allowPrivate = true
	}
}

func NewReadabilityFetcher(timeout time.Duration, logger *zap.Logger, opts ...Option) *ReadabilityFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &ReadabilityFetcher{logger: logger}
	for _, opt := range opts {
		opt(f)
	}
	f.client = &http.Client{
		Timeout:   timeout,
		Transport: newTransport(f.allowPrivate),
	}
	return f
}

// newTransport checks every dialed address after DNS resolution, so
// redirects and rebinding hostnames are covered too. No proxy is used
// because the check must see the page's own address.
func newTransport(allowPrivate bool) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	if !allowPrivate {
		dialer.Control = rejectNonPublic
	}
	return &http.Transport{
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
}

func rejectNonPublic(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, address)
	}
	ip := net.ParseIP(host)
	if ip == nil || !isPublicIP(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
	}
	return nil
}

// sharedAddressSpace is the carrier-grade NAT range, 100.64.0.0/10.
var sharedAddressSpace = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

func isPublicIP(ip net.IP) bool {
	switch {
	case ip.IsLoopback(), ip.IsPrivate(), ip.IsUnspecified(),
		ip.IsLinkLocalUnicast(), ip.IsLinkLocalMulticast(),
		ip.IsInterfaceLocalMulticast(), ip.IsMulticast():
		return false
	case sharedAddressSpace.Contains(ip):
		return false
	}
	return true
}

// FetchText implements domain.PageFetcher.
func (f *ReadabilityFetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil || (pageURL.Scheme != "http" && pageURL.Scheme != "https") || pageURL.Host == "" {
		return "", fmt.Errorf("unsupported URL %q", rawURL)
	}

	// The shared fetch outlives any single caller; the client timeout bounds it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := f.sfGroup.DoChan(pageURL.String(), func() (interface{}, error) {
		return f.fetch(fetchCtx, pageURL)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			f.logger.Debug("Shared in-flight page fetch", zap.String("url", pageURL.String()))
		}
		return res.Val.(string), nil
	}
}

func (f *ReadabilityFetcher) fetch(ctx context.Context, pageURL *url.URL) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "StudyNote.AI/1.0 (+notes generator)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetching page: status %d", resp.StatusCode)
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, maxPageBytes), pageURL)
	if err != nil {
		return "", fmt.Errorf("readability from url: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	f.logger.Info("Fetched page text",
		zap.String("url", pageURL.String()),
		zap.String("title", article.Title),
		zap.Int("chars", len(text)))
	return text, nil
}

var _ domain.PageFetcher = (*ReadabilityFetcher)(nil)
