// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/export-engine/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.HistoryConfig{HistoryDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(title string, backend types.RenderBackend, at time.Time) types.ExportRecord {
	return types.ExportRecord{
		Title:     title,
		Filename:  title + ".pdf",
		Path:      "/exports/" + title + ".pdf",
		SizeBytes: 2048,
		Pages:     3,
		Backend:   backend,
		CreatedAt: at,
	}
}

func TestRecordAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.Record(ctx, record("first", types.BackendBuiltin, base)))
	require.NoError(t, s.Record(ctx, record("second", types.BackendBuiltin, base.Add(time.Minute))))
	require.NoError(t, s.Record(ctx, record("third", types.BackendWeasyprint, base.Add(2*time.Minute))))

	records, err := s.List(ctx, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Most recent first.
	assert.Equal(t, "third", records[0].Title)
	assert.Equal(t, "first", records[2].Title)

	// IDs were generated and fields round-trip.
	assert.NotEmpty(t, records[0].ID)
	assert.Equal(t, int64(2048), records[0].SizeBytes)
	assert.Equal(t, 3, records[0].Pages)
	assert.Equal(t, types.BackendWeasyprint, records[0].Backend)
	assert.Equal(t, base.Add(2*time.Minute), records[0].CreatedAt)
}

func TestList_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.Record(ctx, record("report", types.BackendBuiltin, base)))
	require.NoError(t, s.Record(ctx, record("report", types.BackendWeasyprint, base.Add(time.Minute))))
	require.NoError(t, s.Record(ctx, record("notes", types.BackendBuiltin, base.Add(2*time.Minute))))

	t.Run("by title", func(t *testing.T) {
		records, err := s.List(ctx, QueryOptions{Title: "report"})
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("by backend", func(t *testing.T) {
		records, err := s.List(ctx, QueryOptions{Backend: "weasyprint"})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "report", records[0].Title)
	})

	t.Run("limit", func(t *testing.T) {
		records, err := s.List(ctx, QueryOptions{MaxResults: 1})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "notes", records[0].Title)
	})

	t.Run("no matches", func(t *testing.T) {
		records, err := s.List(ctx, QueryOptions{Title: "absent"})
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewStore(types.HistoryConfig{HistoryDir: dir})
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, record("persisted", types.BackendBuiltin, time.Now())))
	require.NoError(t, s.Close())

	// Records survive across store instances.
	s2, err := NewStore(types.HistoryConfig{HistoryDir: dir})
	require.NoError(t, err)
	defer s2.Close()

	records, err := s2.List(ctx, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "persisted", records[0].Title)
}

func TestExportYAML(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewStore(types.HistoryConfig{HistoryDir: dir})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Record(ctx, record("yaml-export", types.BackendBuiltin, time.Now())))
	require.NoError(t, s.ExportYAML(ctx, QueryOptions{}))

	data, err := os.ReadFile(filepath.Join(dir, "export.yaml"))
	require.NoError(t, err)

	var records []types.ExportRecord
	require.NoError(t, yaml.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "yaml-export", records[0].Title)
}

func TestExportJSON(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewStore(types.HistoryConfig{HistoryDir: dir})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Record(ctx, record("json-export", types.BackendWeasyprint, time.Now())))
	require.NoError(t, s.ExportJSON(ctx, QueryOptions{}))

	data, err := os.ReadFile(filepath.Join(dir, "export.json"))
	require.NoError(t, err)

	var records []types.ExportRecord
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, types.BackendWeasyprint, records[0].Backend)
}

func TestExportJSON_EmptyHistory(t *testing.T) {
	dir := t.TempDir()

	s, err := NewStore(types.HistoryConfig{HistoryDir: dir})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.ExportJSON(context.Background(), QueryOptions{}))

	data, err := os.ReadFile(filepath.Join(dir, "export.json"))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}
