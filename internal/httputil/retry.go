// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP helpers shared by the crawlers:
// client construction, User-Agent rotation, fetching HTML and PDF bodies,
// and retrying rate-limited requests.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/HamBa-m/sci-scraper/internal/logging"
)

// RetryBaseDelay controls the default base duration for exponential
// backoff on HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

const defaultMaxRetries = 5

// ErrRateLimited is returned when a request is still answered with HTTP 429
// after all retries are spent.
var ErrRateLimited = errors.New("rate limited")

// Retry is a bounded exponential backoff policy for HTTP 429 responses.
// The n-th retry waits BaseDelay * 2^n.
type Retry struct {
	// MaxRetries is the number of retries after the first attempt.
	// Zero selects the default (5); a negative value disables retries.
	MaxRetries int

	// BaseDelay is the first backoff. Zero selects RetryBaseDelay.
	BaseDelay time.Duration

	Log logrus.FieldLogger
}

func (r Retry) maxRetries() int {
	switch {
	case r.MaxRetries < 0:
		return 0
	case r.MaxRetries == 0:
		return defaultMaxRetries
	}
	return r.MaxRetries
}

func (r Retry) baseDelay() time.Duration {
	if r.BaseDelay <= 0 {
		return RetryBaseDelay
	}
	return r.BaseDelay
}

// Do executes req and retries on HTTP 429. On each 429 the response body
// is drained and closed before sleeping. If the context is cancelled during
// a backoff wait Do returns ctx.Err(). After exhausting retries the last
// 429 response is returned so the caller can inspect it.
func (r Retry) Do(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	maxRetries := r.maxRetries()
	log := logging.OrDiscard(r.Log)

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * r.baseDelay()
		log.WithFields(logrus.Fields{
			"url":     req.URL.String(),
			"backoff": backoff,
			"attempt": attempt + 1,
			"max":     maxRetries,
		}).Warn("rate limited, retrying")

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// Get issues a GET request for rawURL under the retry policy and returns
// the response only when its status is 200. A 429 that outlives the
// retries yields ErrRateLimited; any other status yields a *StatusError.
func (r Retry) Get(ctx context.Context, client *http.Client, rawURL string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := r.Do(ctx, client, req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		drain(resp)
		return nil, fmt.Errorf("fetching %s: %w", rawURL, ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		drain(resp)
		return nil, &StatusError{Code: resp.StatusCode, URL: rawURL}
	}
	return resp, nil
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
