// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/export-engine/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes the history log to historyDir/export.yaml (R3.1).
// It supports the same filters as List (R3.3).
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) error {
	records, err := s.exportRecords(ctx, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(s.historyDir, "export.yaml")
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the history log to historyDir/export.json (R3.2).
// It supports the same filters as List (R3.3).
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) error {
	records, err := s.exportRecords(ctx, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(s.historyDir, "export.json")
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportRecords(ctx context.Context, opts QueryOptions) ([]types.ExportRecord, error) {
	opts.MaxResults = exportLimit
	records, err := s.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if records == nil {
		records = []types.ExportRecord{}
	}
	return records, nil
}
