// Package fetch downloads web pages for detection, honoring robots.txt.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/extract"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/util"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/worker"
)

// ErrDisallowed is returned when robots.txt forbids the fetch
var ErrDisallowed = errors.New("blocked by robots.txt")

// sleepFunc is swapped out in tests
var sleepFunc = func(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Options configures a Fetcher
type Options struct {
	Timeout       time.Duration
	UserAgent     string
	MaxBytes      int64
	MaxRetries    int
	RespectRobots bool
	PerHostRPS    float64 // Politeness limit per host
	HTTPProxy     string
	HTTPSProxy    string
	NoProxy       string
}

// DefaultOptions returns sensible defaults
func DefaultOptions() Options {
	return Options{
		Timeout:       15 * time.Second,
		UserAgent:     "humanizer/1.0 (+https://github.com/himanshumishra9911/ai-text-humanizer-api)",
		MaxBytes:      2 << 20,
		MaxRetries:    2,
		RespectRobots: true,
		PerHostRPS:    1,
	}
}

// Page is a fetched document
type Page struct {
	URL         string // Final URL after redirects
	StatusCode  int
	ContentType string
	HTML        string
	Text        string // Visible text
}

// Fetcher fetches HTML pages
type Fetcher struct {
	httpClient *http.Client
	opts       Options
	robots     *RobotsChecker
	limiter    *worker.Limiter
}

// New creates a Fetcher
func New(opts Options) *Fetcher {
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = def.MaxBytes
	}
	if opts.PerHostRPS <= 0 {
		opts.PerHostRPS = def.PerHostRPS
	}

	client := &http.Client{
		Timeout: opts.Timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(opts.HTTPProxy, opts.HTTPSProxy, opts.NoProxy),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient: client,
		opts:       opts,
		limiter:    worker.NewLimiter(opts.PerHostRPS, 2),
	}
	if opts.RespectRobots {
		f.robots = NewRobotsChecker(opts.UserAgent, client)
	}
	return f
}

// Fetch downloads rawURL, retrying transient failures, and extracts its
// visible text
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	host, err := worker.HostKey(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}

	var crawlDelay time.Duration
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
		crawlDelay = delay
	}

	var lastErr error
	for attempt := 0; attempt <= f.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			if err := sleepFunc(ctx, backoff); err != nil {
				return nil, err
			}
		}

		if err := f.limiter.WaitWithDelay(ctx, host, crawlDelay); err != nil {
			return nil, err
		}

		page, retry, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return page, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return nil, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (*Page, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		// Network errors are transient unless the caller gave up
		return nil, ctx.Err() == nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBytes))
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}

	text, err := extract.VisibleText(string(body))
	if err != nil {
		return nil, false, fmt.Errorf("parse html: %w", err)
	}

	return &Page{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		HTML:        string(body),
		Text:        text,
	}, false, nil
}
