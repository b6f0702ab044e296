// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package politeness

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HostLimits caps the request rate to each host across every client that
// shares it. Venue jobs for different years of one venue run concurrently
// against the same server; HostLimits keeps their combined rate at one
// request per interval.
type HostLimits struct {
	every time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewHostLimits returns limits allowing one request per host every
// interval. A non-positive interval returns nil, which never limits.
func NewHostLimits(every time.Duration) *HostLimits {
	if every <= 0 {
		return nil
	}
	return &HostLimits{every: every, limiters: make(map[string]*rate.Limiter)}
}

func (h *HostLimits) limiter(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Every(h.every), 1)
		h.limiters[host] = l
	}
	return l
}

// Client returns a shallow copy of c whose requests wait for their host's
// limiter. A nil HostLimits returns c unchanged.
func (h *HostLimits) Client(c *http.Client) *http.Client {
	if h == nil {
		return c
	}
	if c == nil {
		c = &http.Client{}
	}
	base := c.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	limited := *c
	limited.Transport = &limitedTransport{limits: h, base: base}
	return &limited
}

type limitedTransport struct {
	limits *HostLimits
	base   http.RoundTripper
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limits.limiter(req.URL.Host).Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
