package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/spellbook/internal/model"
	"github.com/ppiankov/spellbook/internal/util"
	"github.com/ppiankov/spellbook/internal/worker"
)

var (
	// ErrRobotsDisallowed is returned when robots.txt forbids the fetch
	ErrRobotsDisallowed = errors.New("disallowed by robots.txt")

	// ErrBodyTooLarge is returned when a response exceeds the configured size limit
	ErrBodyTooLarge = errors.New("response body too large")
)

const maxFetchAttempts = 3

// fetchSleepFunc is replaced in tests to skip backoff
var fetchSleepFunc = time.Sleep

// Fetcher downloads rules documents over HTTP
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
}

// NewFetcher creates a new Fetcher from the HTTP configuration. limiter may
// be nil; robots.txt is consulted only when cfg.RespectRobots is set.
func NewFetcher(cfg model.HTTPConfig, limiter *worker.Limiter) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)

	f := &Fetcher{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		limiter:   limiter,
	}

	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout)
	}

	return f
}

// FetchMeta records response details worth keeping with a download
type FetchMeta struct {
	StatusCode   int    `json:"status_code"`
	ContentType  string `json:"content_type,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
	ETag         string `json:"etag,omitempty"`
}

// FetchResult contains the fetched body and metadata
type FetchResult struct {
	Body     []byte
	Meta     FetchMeta
	FinalURL string
}

// NotModified reports whether the server confirmed the cached copy is current
func (r *FetchResult) NotModified() bool {
	return r.Meta.StatusCode == http.StatusNotModified
}

// Validators are the cache validators of an earlier download
type Validators struct {
	ETag         string
	LastModified string
}

// IsZero reports whether there is nothing to revalidate with
func (v Validators) IsZero() bool {
	return v.ETag == "" && v.LastModified == ""
}

// IsHTML reports whether the response was served as HTML
func (r *FetchResult) IsHTML() bool {
	ct := strings.ToLower(r.Meta.ContentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}

// Fetch retrieves the given URL once. Non-zero validators make the request
// conditional, and a 304 answer is returned as a NotModified result.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, v Validators) (*FetchResult, error) {
	// Check robots.txt and honour its crawl delay
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("check robots: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s", ErrRobotsDisallowed, rawURL)
		}
		if delay > 0 && f.limiter != nil {
			if u, err := url.Parse(rawURL); err == nil {
				f.limiter.SetCrawlDelay(u.Host, delay)
			}
		}
	}

	// Apply rate limiting
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/plain,text/html;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if v.ETag != "" {
		req.Header.Set("If-None-Match", v.ETag)
	}
	if v.LastModified != "" {
		req.Header.Set("If-Modified-Since", v.LastModified)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	meta := FetchMeta{
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		LastModified: resp.Header.Get("Last-Modified"),
		ETag:         resp.Header.Get("ETag"),
	}
	finalURL := resp.Request.URL.String()

	// A conditional request may come back without a body
	if resp.StatusCode == http.StatusNotModified && !v.IsZero() {
		return &FetchResult{Meta: meta, FinalURL: finalURL}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	// Read body with size limit; one extra byte detects an oversized response
	var reader io.Reader = resp.Body
	if f.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if f.maxBytes > 0 && int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, rawURL, f.maxBytes)
	}

	return &FetchResult{
		Body:     body,
		Meta:     meta,
		FinalURL: finalURL,
	}, nil
}

// FetchWithRetry fetches the URL, retrying transient failures with
// exponential backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	return f.fetchWithRetry(ctx, rawURL, Validators{})
}

// Revalidate is FetchWithRetry as a conditional request. When the server
// answers 304 the result has no body and NotModified reports true.
func (f *Fetcher) Revalidate(ctx context.Context, rawURL string, v Validators) (*FetchResult, error) {
	return f.fetchWithRetry(ctx, rawURL, v)
}

func (f *Fetcher) fetchWithRetry(ctx context.Context, rawURL string, v Validators) (*FetchResult, error) {
	var lastErr error
	backoff := time.Second

	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		result, err := f.Fetch(ctx, rawURL, v)
		if err == nil {
			return result, nil
		}
		lastErr = err

		// Only transient failures are worth another attempt
		if !isRetryableFetchError(err) || attempt == maxFetchAttempts || ctx.Err() != nil {
			break
		}

		fetchSleepFunc(backoff)
		backoff *= 2
	}

	return nil, lastErr
}

func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	if code, ok := statusCode(msg); ok {
		return code == http.StatusTooManyRequests || code >= 500
	}

	if strings.HasPrefix(msg, "fetch: ") {
		lower := strings.ToLower(msg)
		for _, transient := range []string{"connection refused", "connection reset", "timeout", "eof"} {
			if strings.Contains(lower, transient) {
				return true
			}
		}
	}

	return false
}

func statusCode(msg string) (int, bool) {
	rest, ok := strings.CutPrefix(msg, "unexpected status: ")
	if !ok {
		return 0, false
	}
	var code int
	if _, err := fmt.Sscanf(rest, "%d", &code); err != nil {
		return 0, false
	}
	return code, true
}
