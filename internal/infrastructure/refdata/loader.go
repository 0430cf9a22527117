// Package refdata loads the skin code classification table. The table
// ships as a compiled-in default and can be overridden by a YAML file or
// the original XLSX sheet maintained by the content team.
package refdata

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/vegin/skin-analysis-service/internal/core/domain"
)

// Directory resolves skin codes to their static descriptions. Built once
// at startup; lookups are read only.
type Directory struct {
	byCode map[string]domain.ClassificationInfo
}

// Load builds the directory from path. An empty path yields the built-in
// table. The file format follows the extension: .yaml/.yml or .xlsx.
func Load(path string) (*Directory, error) {
	if path == "" {
		return newDirectory(defaultTable()), nil
	}

	var (
		entries []domain.ClassificationInfo
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		entries, err = loadYAML(path)
	case ".xlsx":
		entries, err = loadXLSX(path)
	default:
		return nil, fmt.Errorf("refdata: unsupported table format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("refdata: table %s contains no entries", path)
	}

	slog.Info("classification_table_loaded", "path", path, "entries", len(entries))
	return newDirectory(entries), nil
}

func (d *Directory) Lookup(code string) (domain.ClassificationInfo, bool) {
	info, ok := d.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return info, ok
}

func newDirectory(entries []domain.ClassificationInfo) *Directory {
	byCode := make(map[string]domain.ClassificationInfo, len(entries))
	for _, e := range entries {
		byCode[strings.ToUpper(strings.TrimSpace(e.Code))] = e
	}
	return &Directory{byCode: byCode}
}

func loadYAML(path string) ([]domain.ClassificationInfo, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classification table: %w", err)
	}
	var doc struct {
		Classifications []domain.ClassificationInfo `yaml:"classifications"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse classification yaml: %w", err)
	}
	return doc.Classifications, nil
}

// loadXLSX reads the content team's sheet. Column order is fixed: code,
// headline, description, allowed ingredients, allowed recommendation,
// blocked ingredients. List cells are comma separated. The first row is
// the header.
func loadXLSX(path string) ([]domain.ClassificationInfo, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open classification sheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("classification sheet %s has no worksheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read classification rows: %w", err)
	}

	var entries []domain.ClassificationInfo
	for i, row := range rows {
		if i == 0 || len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		entries = append(entries, domain.ClassificationInfo{
			Code:                  strings.TrimSpace(cell(row, 0)),
			Headline:              strings.TrimSpace(cell(row, 1)),
			Description:           strings.TrimSpace(cell(row, 2)),
			AllowedIngredients:    splitList(cell(row, 3)),
			AllowedRecommendation: strings.TrimSpace(cell(row, 4)),
			BlockedIngredients:    splitList(cell(row, 5)),
		})
	}
	return entries, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
