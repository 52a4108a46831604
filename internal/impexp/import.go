package impexp

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/ishaan812/spendlog/internal/db"
	"github.com/ishaan812/spendlog/internal/timefmt"
)

// Result is the outcome of an import. Rows that could not become expenses
// are counted in Skipped with a reason in Problems.
type Result struct {
	Expenses []db.Expense
	Skipped  int
	Problems []string
}

func (r *Result) skip(row int, reason string) {
	r.Skipped++
	r.Problems = append(r.Problems, fmt.Sprintf("row %d: %s", row, reason))
}

// Import reads expenses from r. Every imported expense gets a fresh ID;
// rows without a usable timestamp are stamped with now.
func Import(r io.Reader, format Format, now time.Time) (Result, error) {
	switch format {
	case FormatCSV:
		rows, err := csv.NewReader(r).ReadAll()
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		return importTable(rows, now)
	case FormatXLSX:
		f, err := excelize.OpenReader(r)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Result{}, fmt.Errorf("%w: no sheets found in XLSX file", ErrMalformedDocument)
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return Result{}, err
		}
		return importTable(rows, now)
	case FormatJSON:
		var doc document
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		return importDocument(doc, now)
	case FormatYAML:
		var doc document
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return Result{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		return importDocument(doc, now)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ImportFile reads expenses from path in the format its extension names.
func ImportFile(path string, now time.Time) (Result, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return Result{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Import(f, format, now)
}

func importTable(rows [][]string, now time.Time) (Result, error) {
	if len(rows) == 0 {
		return Result{}, fmt.Errorf("%w: file is empty", ErrMalformedDocument)
	}

	columns := make(map[string]int)
	for i, name := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, seen := columns[key]; !seen {
			columns[key] = i
		}
	}
	for _, required := range []string{"category", "amount"} {
		if _, ok := columns[required]; !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	var res Result
	for i, cells := range rows[1:] {
		row := make(map[string]string, len(columns))
		for name, idx := range columns {
			if idx < len(cells) {
				row[name] = cells[idx]
			}
		}
		res.add(i+2, row, now)
	}
	return res, nil
}

func importDocument(doc document, now time.Time) (Result, error) {
	if doc.Expenses == nil {
		return Result{}, fmt.Errorf("%w: no expenses list", ErrMalformedDocument)
	}
	var res Result
	for i, rec := range doc.Expenses {
		res.add(i+1, rec.row(), now)
	}
	return res, nil
}

func (r *Result) add(line int, row map[string]string, now time.Time) {
	category := strings.TrimSpace(row["category"])
	amount := strings.TrimSpace(row["amount"])
	if category == "" && amount == "" && strings.TrimSpace(row["description"]) == "" {
		return
	}

	at := now
	if ts := strings.TrimSpace(row["timestamp"]); ts != "" {
		if parsed, err := timefmt.ParseInstant(ts); err == nil {
			at = parsed
		}
	}

	e, err := db.NewExpense(category, amount, row["description"], at)
	if err != nil {
		r.skip(line, err.Error())
		return
	}
	r.Expenses = append(r.Expenses, e)
}
