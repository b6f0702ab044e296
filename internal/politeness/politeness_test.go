// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package politeness

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when Sleep is called.
type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

func newInterval(c *fakeClock, d time.Duration) MinInterval {
	return MinInterval{Interval: d, Now: c.Now, Sleep: c.Sleep}
}

func TestMinInterval_SleepsRemainder(t *testing.T) {
	c := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := newInterval(c, 10*time.Second)

	next, err := m.WaitIfNeeded(context.Background(), c.now.Add(-5*time.Second))
	require.NoError(t, err)

	require.Len(t, c.slept, 1)
	assert.Equal(t, 5*time.Second, c.slept[0])
	assert.Equal(t, c.now, next)
}

func TestMinInterval_NoSleepWhenElapsed(t *testing.T) {
	c := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := newInterval(c, 10*time.Second)

	next, err := m.WaitIfNeeded(context.Background(), c.now.Add(-20*time.Second))
	require.NoError(t, err)
	assert.Empty(t, c.slept)
	assert.Equal(t, c.now, next)
}

func TestMinInterval_ZeroCursor(t *testing.T) {
	c := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := newInterval(c, 10*time.Second)

	_, err := m.WaitIfNeeded(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Empty(t, c.slept)
}

func TestMinInterval_FutureCursorNeverNegative(t *testing.T) {
	c := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := newInterval(c, 10*time.Second)

	// A cursor ahead of the clock asks for more than the interval but
	// never for a negative sleep.
	_, err := m.WaitIfNeeded(context.Background(), c.now.Add(2*time.Second))
	require.NoError(t, err)
	require.Len(t, c.slept, 1)
	assert.Equal(t, 12*time.Second, c.slept[0])
	for _, d := range c.slept {
		assert.Positive(t, d)
	}
}

func TestMinInterval_ThreadsCursor(t *testing.T) {
	c := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := newInterval(c, 10*time.Second)

	var last time.Time
	for i := 0; i < 3; i++ {
		var err error
		last, err = m.WaitIfNeeded(context.Background(), last)
		require.NoError(t, err)
		c.now = c.now.Add(time.Second)
	}
	// First call is free; the next two each wait the remaining 9s.
	assert.Equal(t, []time.Duration{9 * time.Second, 9 * time.Second}, c.slept)
}

func TestMinInterval_RealClock(t *testing.T) {
	m := MinInterval{Interval: 100 * time.Millisecond}

	start := time.Now()
	_, err := m.WaitIfNeeded(context.Background(), start.Add(-50*time.Millisecond))
	require.NoError(t, err)
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)

	start = time.Now()
	_, err = m.WaitIfNeeded(context.Background(), start.Add(-time.Second))
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 40*time.Millisecond)
}

func TestMinInterval_Cancelled(t *testing.T) {
	m := MinInterval{Interval: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	last := time.Now()
	got, err := m.WaitIfNeeded(ctx, last)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, last, got)
}

func TestDelay_SleepsFullDelayAfterSlowRequest(t *testing.T) {
	d := NewDelay(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, d.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	// A request slower than the delay still gets the whole pause after it.
	time.Sleep(80 * time.Millisecond)
	start = time.Now()
	require.NoError(t, d.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestDelay_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewDelay(time.Hour).Wait(ctx), context.Canceled)
}

func TestDelay_ZeroNeverWaits(t *testing.T) {
	d := NewDelay(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, d.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	var nilDelay *Delay
	assert.NoError(t, nilDelay.Wait(context.Background()))
}

func TestSleep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.DeadlineExceeded)
}

func TestRobots(t *testing.T) {
	var fetches int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			atomic.AddInt32(&fetches, 1)
			w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	r := NewRobots(ts.Client(), "sci-scraper", nil)
	ctx := context.Background()

	assert.True(t, r.Allowed(ctx, ts.URL+"/proceedings/2021/"))
	assert.False(t, r.Allowed(ctx, ts.URL+"/private/paper.pdf"))
	assert.True(t, r.Allowed(ctx, "not a url"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
}

func TestRobots_MissingFileAllows(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	r := NewRobots(ts.Client(), "sci-scraper", nil)
	assert.True(t, r.Allowed(context.Background(), ts.URL+"/anything"))

	var nilRobots *Robots
	assert.True(t, nilRobots.Allowed(context.Background(), ts.URL))
}
