// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout is the request timeout used when none is configured.
const DefaultTimeout = 15 * time.Second

// NewClient returns an HTTP client with the given timeout, routed through
// proxy when it is non-empty.
func NewClient(timeout time.Duration, proxy string) (*http.Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := &http.Client{Timeout: timeout}
	if proxy == "" {
		return client, nil
	}

	proxyURL, err := url.Parse(proxy)
	if err != nil || proxyURL.Host == "" {
		return nil, fmt.Errorf("invalid proxy %q", proxy)
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyURL(proxyURL)
	client.Transport = transport
	return client, nil
}
