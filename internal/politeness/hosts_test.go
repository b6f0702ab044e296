// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package politeness

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostLimits_SharedAcrossClients(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	limits := NewHostLimits(40 * time.Millisecond)
	clients := []*http.Client{limits.Client(srv.Client()), limits.Client(&http.Client{})}

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(c *http.Client) {
			defer wg.Done()
			resp, err := c.Get(srv.URL)
			if assert.NoError(t, err) {
				resp.Body.Close()
			}
		}(clients[i%2])
	}
	wg.Wait()

	// Four requests to one host at one per 40ms need at least three gaps.
	assert.GreaterOrEqual(t, time.Since(start), 110*time.Millisecond)
}

func TestHostLimits_NilPassesThrough(t *testing.T) {
	assert.Nil(t, NewHostLimits(0))

	c := &http.Client{Timeout: time.Second}
	var limits *HostLimits
	assert.Same(t, c, limits.Client(c))
}

func TestHostLimits_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	client := NewHostLimits(time.Hour).Client(srv.Client())
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	_, err = client.Do(req)
	assert.Error(t, err)
}
