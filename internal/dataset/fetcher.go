package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/logging"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/model"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/util"
)

// fetchSleepFunc is the sleep between attempts (replaced in tests)
var fetchSleepFunc = time.Sleep

// Fetcher downloads the raw CSV resource
type Fetcher struct {
	httpClient  *http.Client
	userAgent   string
	maxBytes    int64
	maxAttempts int
	robots      *util.RobotsChecker
	logger      *slog.Logger
}

// NewFetcher creates a Fetcher from the HTTP configuration
func NewFetcher(cfg model.HTTPConfig) *Fetcher {
	client := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient:  client,
		userAgent:   cfg.UserAgent,
		maxBytes:    cfg.MaxBodyBytes,
		maxAttempts: cfg.MaxAttempts,
		logger:      logging.Discard(),
	}
	if f.maxBytes <= 0 {
		f.maxBytes = model.DefaultConfig().HTTP.MaxBodyBytes
	}
	if f.maxAttempts <= 0 {
		f.maxAttempts = 1
	}
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(cfg.UserAgent, client)
	}
	return f
}

// SourceURL builds the raw-content URL for src: <base>/<owner>/<repo>/<branch>/<path>
func SourceURL(baseURL string, src model.Source) (string, error) {
	elems := []string{src.Owner, src.Repo, src.Branch}
	elems = append(elems, strings.Split(strings.TrimPrefix(src.Path, "/"), "/")...)
	u, err := url.JoinPath(baseURL, elems...)
	if err != nil {
		return "", fmt.Errorf("build source URL: %w", err)
	}
	return u, nil
}

// Fetch performs a single GET and returns the body. Non-2xx responses yield a *StatusError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if f.robots != nil {
		allowed, err := f.robots.Allowed(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("robots.txt disallows %s", rawURL)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/csv,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, f.logger, "fetch_body")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	// Read one byte past the limit so truncation is detectable
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("read body: exceeds %d bytes", f.maxBytes)
	}

	return body, nil
}

// FetchWithRetry calls Fetch up to maxAttempts times, retrying only transient failures
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		body, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt == f.maxAttempts || !isRetryableFetchError(err) || ctx.Err() != nil {
			break
		}
		fetchSleepFunc(time.Duration(attempt) * 500 * time.Millisecond)
	}
	return nil, lastErr
}

func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500 || statusErr.Code == http.StatusTooManyRequests
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
