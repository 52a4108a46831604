package impexp

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/ishaan812/spendlog/internal/db"
	"github.com/ishaan812/spendlog/internal/timefmt"
)

// Export writes expenses to w. exportedAt stamps the JSON and YAML envelopes.
func Export(w io.Writer, format Format, expenses []db.Expense, exportedAt time.Time) error {
	switch format {
	case FormatCSV:
		return exportCSV(w, expenses)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(newDocument(expenses, timefmt.FormatInstant(exportedAt)))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newDocument(expenses, timefmt.FormatInstant(exportedAt))); err != nil {
			return err
		}
		return enc.Close()
	case FormatXLSX:
		return exportXLSX(w, expenses)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ExportFile writes expenses to path in the format its extension names.
func ExportFile(path string, expenses []db.Expense, exportedAt time.Time) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Export(f, format, expenses, exportedAt); err != nil {
		f.Close()
		return fmt.Errorf("failed to export %s: %w", format, err)
	}
	return f.Close()
}

func tabularRow(e db.Expense) []string {
	return []string{e.ID, e.Category, e.Amount.StringFixed(2), e.Description, e.RecordedAt}
}

func exportCSV(w io.Writer, expenses []db.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, e := range expenses {
		if err := cw.Write(tabularRow(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportXLSX(w io.Writer, expenses []db.Expense) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, e := range expenses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		amount, _ := e.Amount.Float64()
		row := []any{e.ID, e.Category, amount, e.Description, e.RecordedAt}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}
