// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// ErrHTTPStatus is matched by every *StatusError.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// StatusError reports a response whose status was not 200.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.Code)
}

func (e *StatusError) Unwrap() error { return ErrHTTPStatus }

// MaxBodyBytes caps how much of a response body is read.
var MaxBodyBytes int64 = 64 << 20

// Get issues a single GET without retries and returns the response only
// when its status is 200.
func Get(ctx context.Context, client *http.Client, rawURL string, header http.Header) (*http.Response, error) {
	return Retry{MaxRetries: -1}.Get(ctx, client, rawURL, header)
}

// FetchDocument fetches rawURL and parses the body as HTML.
func FetchDocument(ctx context.Context, client *http.Client, rawURL string, header http.Header) (*goquery.Document, error) {
	resp, err := Get(ctx, client, rawURL, header)
	if err != nil {
		return nil, err
	}
	return ReadDocument(resp)
}

// ReadDocument parses a response body as HTML, decoding it from the
// charset declared by the response. The body is closed.
func ReadDocument(resp *http.Response) (*goquery.Document, error) {
	defer resp.Body.Close()

	body, err := charset.NewReader(io.LimitReader(resp.Body, MaxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decoding body: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	if resp.Request != nil {
		doc.Url = resp.Request.URL
	}
	return doc, nil
}

// FetchBytes fetches rawURL and returns the raw body, e.g. a PDF.
func FetchBytes(ctx context.Context, client *http.Client, rawURL string, header http.Header) ([]byte, error) {
	resp, err := Get(ctx, client, rawURL, header)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}
	return data, nil
}
