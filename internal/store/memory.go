// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"sync"

	"github.com/HamBa-m/sci-scraper/pkg/types"
)

// MemorySink collects records in memory.
type MemorySink struct {
	mu   sync.Mutex
	recs []types.PaperRecord
}

func (m *MemorySink) Append(_ context.Context, recs ...types.PaperRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, recs...)
	return nil
}

// Records returns a copy of the collected records.
func (m *MemorySink) Records() []types.PaperRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.PaperRecord(nil), m.recs...)
}

// Len returns the number of collected records.
func (m *MemorySink) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recs)
}
