// Package fetch retrieves listing pages from the upstream search
// endpoint with proxy-then-direct fallback and bounded retries.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/redson/jobradar/internal/jobs"
)

// Terminal fetch outcomes. Both stop pagination for the current query;
// neither is a crash.
var (
	// ErrNoData reports that every transport exhausted its attempts.
	ErrNoData = errors.New("no data from upstream")

	// ErrBlocked reports an empty response or a bot challenge. Retrying
	// against a challenge wastes attempts and risks further blocking.
	ErrBlocked = errors.New("upstream returned a bot challenge or empty body")
)

// transportState drives the proxy-to-direct fallback. Each state owns a
// bounded attempt counter; the fallback triggers only when every proxy
// attempt is exhausted.
type transportState int

const (
	tryProxy transportState = iota
	tryDirect
	exhausted
)

// Config controls fetcher behavior.
type Config struct {
	BaseURL       string
	UserAgent     string
	Timeout       time.Duration
	Attempts      int
	BackoffUnit   time.Duration
	ProxyHost     string
	ProxyUsername string
	ProxyPassword string
}

// Fetcher implements jobs.Fetcher using a Colly collector per attempt.
type Fetcher struct {
	cfg    Config
	base   *colly.Collector
	logger *zap.Logger
}

// New builds a Fetcher.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 3
	}
	if cfg.BackoffUnit == 0 {
		cfg.BackoffUnit = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		cfg:    cfg,
		base:   colly.NewCollector(colly.Async(false)),
		logger: logger,
	}
}

func (f *Fetcher) proxyConfigured() bool {
	return f.cfg.ProxyHost != "" && f.cfg.ProxyUsername != "" && f.cfg.ProxyPassword != ""
}

// Fetch returns one page of raw listing markup, or a terminal failure
// once every transport has used up its attempts. Query validation runs
// before any network call.
func (f *Fetcher) Fetch(ctx context.Context, query jobs.SearchQuery) (string, error) {
	values, err := buildQueryValues(query)
	if err != nil {
		return "", fmt.Errorf("build query: %w", err)
	}
	target := f.cfg.BaseURL + "?" + values.Encode()

	state := tryDirect
	if f.proxyConfigured() {
		state = tryProxy
	}

	for state != exhausted {
		transport, label, err := f.transportFor(state)
		if err != nil {
			return "", err
		}

		body, err := f.attemptChain(ctx, target, transport, label)
		switch {
		case err == nil:
			return body, nil
		case errors.Is(err, ErrBlocked):
			return "", err
		case ctx.Err() != nil:
			return "", fmt.Errorf("fetch canceled: %w", ctx.Err())
		}

		f.logger.Warn("transport exhausted", zap.String("transport", label), zap.Error(err))
		state = f.nextState(state)
	}

	return "", ErrNoData
}

func (f *Fetcher) nextState(state transportState) transportState {
	if state == tryProxy {
		f.logger.Info("falling back to direct connection")
		return tryDirect
	}
	return exhausted
}

func (f *Fetcher) transportFor(state transportState) (*http.Transport, string, error) {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 15 * time.Second,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
	}
	if state != tryProxy {
		return transport, "direct", nil
	}

	proxy, err := url.Parse(proxyURL(f.cfg.ProxyHost, f.cfg.ProxyUsername, f.cfg.ProxyPassword))
	if err != nil {
		return nil, "", fmt.Errorf("parse proxy url: %w", err)
	}
	transport.Proxy = http.ProxyURL(proxy)
	return transport, "proxy", nil
}

// attemptChain runs the bounded retry loop for one transport, waiting
// 2^attempt backoff units between transient failures.
func (f *Fetcher) attemptChain(
	ctx context.Context,
	target string,
	transport *http.Transport,
	label string,
) (string, error) {
	var lastErr error
	for attempt := 0; attempt < f.cfg.Attempts; attempt++ {
		body, err := f.attempt(ctx, target, transport)
		if err == nil {
			if blocked(body) {
				f.logger.Warn("empty response or bot challenge detected", zap.String("transport", label))
				return "", ErrBlocked
			}
			return body, nil
		}

		lastErr = err
		f.logger.Warn("fetch attempt failed",
			zap.String("transport", label),
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", f.cfg.Attempts),
			zap.Error(err),
		)
		if ctx.Err() != nil {
			return "", lastErr
		}
		if attempt < f.cfg.Attempts-1 {
			if err := wait(ctx, f.cfg.BackoffUnit<<attempt); err != nil {
				return "", lastErr
			}
		}
	}
	return "", lastErr
}

// attempt executes a single HTTP GET through a cloned collector.
func (f *Fetcher) attempt(ctx context.Context, target string, transport *http.Transport) (string, error) {
	collector := f.base.Clone()
	collector.AllowURLRevisit = true
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.SetRequestTimeout(f.cfg.Timeout)
	collector.WithTransport(transport)

	headers := requestHeaders()
	var (
		body     string
		fetchErr error
	)
	collector.OnRequest(func(r *colly.Request) {
		for key, values := range headers {
			for _, v := range values {
				r.Headers.Set(key, v)
			}
		}
	})
	collector.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(target)
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("visit failed: %w", err)
		}
		if fetchErr != nil {
			return "", fmt.Errorf("response failed: %w", fetchErr)
		}
		return body, nil
	}
}

func blocked(body string) bool {
	trimmed := strings.TrimSpace(body)
	return trimmed == "" || strings.Contains(strings.ToLower(trimmed), "captcha")
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
