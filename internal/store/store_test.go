// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamBa-m/sci-scraper/pkg/types"
)

func sampleRecords() []types.PaperRecord {
	a := types.PaperRecord{
		Title:           "Robust MARL",
		URL:             "https://arxiv.org/abs/1",
		Source:          "arXiv",
		Year:            types.Ptr(2021),
		Citation:        "A Author - 2021 - arxiv.org",
		Classifications: map[string]string{"verdict": "relevant"},
	}
	a.SetAbstract("We study attacks.")

	b := types.PaperRecord{
		Title:          "Short paper",
		URL:            "https://www.ifaamas.org/p.pdf",
		Source:         "AAMAS",
		Year:           types.Ptr(2020),
		AbstractStatus: types.AbstractExtendedSkipped,
	}

	c := types.PaperRecord{Title: "Game theory", URL: "https://example.org/3", Source: "arXiv"}
	c.SetAbstract("")
	return []types.PaperRecord{a, b, c}
}

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "papers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	run, err := s.NewRun(ctx, "scholar")
	require.NoError(t, err)
	assert.Len(t, run.ID(), 36)

	recs := sampleRecords()
	require.NoError(t, run.Append(ctx, recs[0]))
	require.NoError(t, run.Append(ctx, recs[1:]...))
	require.NoError(t, run.Append(ctx))

	got, err := s.Records(ctx, run.ID())
	require.NoError(t, err)
	assert.Equal(t, recs, got)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "scholar", runs[0].Mode)
	assert.Equal(t, 3, runs[0].Papers)
	assert.False(t, runs[0].StartedAt.IsZero())
}

func TestSQLiteStore_RunsAreSeparate(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	r1, err := s.NewRun(ctx, "venues")
	require.NoError(t, err)
	r2, err := s.NewRun(ctx, "venues")
	require.NoError(t, err)
	assert.NotEqual(t, r1.ID(), r2.ID())

	require.NoError(t, r1.Append(ctx, sampleRecords()[0]))

	got, err := s.Records(ctx, r2.ID())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStore_ConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	run, err := s.NewRun(ctx, "venues")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, run.Append(ctx, sampleRecords()...))
		}()
	}
	wg.Wait()

	got, err := s.Records(ctx, run.ID())
	require.NoError(t, err)
	assert.Len(t, got, 12)
}

func TestMemorySink(t *testing.T) {
	var m MemorySink
	var sink Sink = &m

	require.NoError(t, sink.Append(context.Background(), sampleRecords()[:1]...))
	require.NoError(t, sink.Append(context.Background(), sampleRecords()[1:]...))
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, sampleRecords(), m.Records())

	recs := m.Records()
	recs[0].Title = "changed"
	assert.Equal(t, "Robust MARL", m.Records()[0].Title)
}

func TestExportLoad(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out/results.yaml", "out/results.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Export(path, sampleRecords()))
			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, sampleRecords(), got)
		})
	}
}

func TestExport_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, Export(path, nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestExport_Unsupported(t *testing.T) {
	assert.Error(t, Export(filepath.Join(t.TempDir(), "out.xlsx"), sampleRecords()))

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, Export(path, sampleRecords()))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"Robust MARL", "https://arxiv.org/abs/1", "We study attacks.", "arXiv", "2021", "A Author - 2021 - arxiv.org", "found"}, rows[1])
	assert.Equal(t, "", rows[3][2])
	assert.Equal(t, "", rows[3][4])
}

func TestStats(t *testing.T) {
	sum := Stats(sampleRecords())
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 1, sum.WithAbstract)
	assert.Equal(t, 1, sum.Skipped)
	assert.InDelta(t, 33.33, sum.Rate(), 0.01)

	require.Len(t, sum.Sources, 2)
	assert.Equal(t, SourceStats{Source: "arXiv", WithAbstract: 1, Total: 2}, sum.Sources[0])
	assert.Equal(t, SourceStats{Source: "AAMAS", WithAbstract: 0, Total: 1}, sum.Sources[1])
	assert.Equal(t, 50.0, sum.Sources[0].Rate())

	var buf bytes.Buffer
	require.NoError(t, FormatStats(&buf, sum))
	out := buf.String()
	assert.Contains(t, out, "Total papers:          3")
	assert.Contains(t, out, "Success rate:          33.3%")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(lines[len(lines)-2], "arXiv"))
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "AAMAS"))
}

func TestStats_Empty(t *testing.T) {
	sum := Stats(nil)
	assert.Equal(t, 0.0, sum.Rate())

	var buf bytes.Buffer
	require.NoError(t, FormatStats(&buf, sum))
	assert.Contains(t, buf.String(), "Success rate:          0.0%")
}
