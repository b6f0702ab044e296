// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package politeness

import (
	"context"
	"time"
)

// DefaultMinInterval is the spacing enforced for ScienceDirect requests.
const DefaultMinInterval = 10 * time.Second

// MinInterval enforces a minimum gap between two requests to the same
// publisher. The caller owns the cursor (the time of the previous request)
// and threads the value returned by WaitIfNeeded into the next call.
type MinInterval struct {
	Interval time.Duration

	// Now and Sleep default to time.Now and Sleep. Tests replace them.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// WaitIfNeeded sleeps for the rest of the interval when less than Interval
// has passed since last, then returns the time the request may be sent.
// A zero last never waits. The sleep is never negative.
func (m MinInterval) WaitIfNeeded(ctx context.Context, last time.Time) (time.Time, error) {
	now := m.now()
	if !last.IsZero() {
		if remaining := m.Interval - now.Sub(last); remaining > 0 {
			if err := m.sleep(ctx, remaining); err != nil {
				return last, err
			}
			now = m.now()
		}
	}
	return now, nil
}

func (m MinInterval) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m MinInterval) sleep(ctx context.Context, d time.Duration) error {
	if m.Sleep != nil {
		return m.Sleep(ctx, d)
	}
	return Sleep(ctx, d)
}
