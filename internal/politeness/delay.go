// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package politeness spaces out outbound requests: a fixed delay after
// every request of one crawl loop, a sliding minimum interval for
// publishers with strict rate limits, a per-host request rate shared by
// concurrent workers, and an optional robots.txt gate.
package politeness

import (
	"context"
	"time"
)

// Delay is a fixed pause taken after every request. Unlike MinInterval it
// does not account for time already spent on the request.
type Delay struct {
	d time.Duration
}

// NewDelay returns a Delay of d. A non-positive d never waits.
func NewDelay(d time.Duration) *Delay {
	return &Delay{d: d}
}

// Wait sleeps for the full delay or until ctx is done.
func (p *Delay) Wait(ctx context.Context) error {
	if p == nil {
		return ctx.Err()
	}
	return Sleep(ctx, p.d)
}

// Sleep blocks for d unless ctx is done first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
