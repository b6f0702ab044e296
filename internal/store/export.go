// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/HamBa-m/sci-scraper/pkg/types"
)

// Export formats, selected by file extension.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// csvHeader is the column order of CSV exports.
var csvHeader = []string{"Title", "URL", "Abstract", "Source", "Year", "Citation", "Abstract Status"}

// FormatOf returns the export format for path.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported export format %q", filepath.Ext(path))
}

// Export writes recs to path in the format given by its extension,
// creating parent directories as needed.
func Export(path string, recs []types.PaperRecord) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	switch format {
	case FormatYAML:
		err = WriteYAML(f, recs)
	case FormatJSON:
		err = WriteJSON(f, recs)
	default:
		err = WriteCSV(f, recs)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Load reads records previously exported as YAML or JSON.
func Load(path string) ([]types.PaperRecord, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var recs []types.PaperRecord
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &recs)
	case FormatJSON:
		err = json.Unmarshal(data, &recs)
	default:
		return nil, fmt.Errorf("loading %s: CSV exports cannot be read back", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return recs, nil
}

// WriteYAML writes recs as a YAML sequence.
func WriteYAML(w io.Writer, recs []types.PaperRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if recs == nil {
		recs = []types.PaperRecord{}
	}
	if err := enc.Encode(recs); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// WriteJSON writes recs as an indented JSON array.
func WriteJSON(w io.Writer, recs []types.PaperRecord) error {
	if recs == nil {
		recs = []types.PaperRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(recs); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

// WriteCSV writes recs with a header row. Missing abstracts and years are
// empty cells.
func WriteCSV(w io.Writer, recs []types.PaperRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range recs {
		year := ""
		if r.Year != nil {
			year = strconv.Itoa(*r.Year)
		}
		row := []string{r.Title, r.URL, r.AbstractText(), r.Source, year, r.Citation, string(r.AbstractStatus)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
