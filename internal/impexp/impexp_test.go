package impexp

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishaan812/spendlog/internal/db"
)

var (
	jan3 = time.Date(2026, 1, 3, 12, 30, 0, 0, time.UTC)
	now  = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
)

func sampleExpenses(t *testing.T) []db.Expense {
	t.Helper()
	var out []db.Expense
	for _, row := range []struct{ category, amount, description string }{
		{"Food", "12.5", "lunch, with friends"},
		{"Rent", "900", ""},
		{"Café", "3.20", "flat white"},
	} {
		e, err := db.NewExpense(row.category, row.amount, row.description, jan3)
		require.NoError(t, err)
		out = append(out, e)
	}
	return out
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{
		"out.csv":       FormatCSV,
		"OUT.JSON":      FormatJSON,
		"ledger.yaml":   FormatYAML,
		"ledger.yml":    FormatYAML,
		"expenses.xlsx": FormatXLSX,
	}
	for path, want := range tests {
		got, err := DetectFormat(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := DetectFormat("notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExportImport_AllFormats(t *testing.T) {
	expenses := sampleExpenses(t)

	for _, format := range []Format{FormatCSV, FormatJSON, FormatYAML, FormatXLSX} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Export(&buf, format, expenses, now))

			res, err := Import(&buf, format, now)
			require.NoError(t, err)
			assert.Zero(t, res.Skipped)
			require.Len(t, res.Expenses, len(expenses))

			for i, got := range res.Expenses {
				want := expenses[i]
				assert.NotEqual(t, want.ID, got.ID, "imports get fresh ids")
				assert.Equal(t, want.Category, got.Category)
				assert.True(t, want.Amount.Equal(got.Amount), "%s vs %s", want.Amount, got.Amount)
				assert.Equal(t, want.Description, got.Description)
				assert.Equal(t, want.RecordedAt, got.RecordedAt)
			}
		})
	}
}

func TestExport_JSONEnvelope(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, FormatJSON, sampleExpenses(t)[:1], now))

	out := buf.String()
	assert.Contains(t, out, `"export_date": "2026-02-01T09:00:00+00:00"`)
	assert.Contains(t, out, `"total_records": 1`)
	assert.Contains(t, out, `"amount": 12.50`)
	assert.Contains(t, out, `"timestamp": "2026-01-03T12:30:00+00:00"`)
}

func TestExport_CSVHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, FormatCSV, nil, now))
	assert.Equal(t, "ID,Category,Amount,Description,Timestamp\n", buf.String())
}

func TestImportCSV_FlexibleColumns(t *testing.T) {
	input := strings.Join([]string{
		"amount,CATEGORY,Description,timestamp",
		"4.5,Coffee,espresso,2026-01-03T08:00:00+06:00",
		"10,Books,,not a time",
		",,,",
		"abc,Food,bad amount,",
		"-2,Food,negative,",
		"7,,no category,",
	}, "\n")

	res, err := Import(strings.NewReader(input), FormatCSV, now)
	require.NoError(t, err)
	require.Len(t, res.Expenses, 2)
	assert.Equal(t, 3, res.Skipped)
	assert.Len(t, res.Problems, 3)

	assert.Equal(t, "Coffee", res.Expenses[0].Category)
	assert.Equal(t, "2026-01-03T02:00:00+00:00", res.Expenses[0].RecordedAt)
	assert.Equal(t, "2026-02-01T09:00:00+00:00", res.Expenses[1].RecordedAt, "unparsable timestamps fall back to now")
}

func TestImport_MissingColumns(t *testing.T) {
	_, err := Import(strings.NewReader("Category,Description\nFood,x\n"), FormatCSV, now)
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = Import(strings.NewReader(""), FormatCSV, now)
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestImportJSON_StringAndNumberAmounts(t *testing.T) {
	input := `{"expenses":[
		{"category":"Food","amount":"3.10","description":"tea"},
		{"category":"Food","amount":2},
		{"category":"","amount":1}
	]}`
	res, err := Import(strings.NewReader(input), FormatJSON, now)
	require.NoError(t, err)
	require.Len(t, res.Expenses, 2)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, "3.10", res.Expenses[0].Amount.StringFixed(2))
	assert.Equal(t, "2.00", res.Expenses[1].Amount.StringFixed(2))

	_, err = Import(strings.NewReader(`{"total_records":0}`), FormatJSON, now)
	assert.ErrorIs(t, err, ErrMalformedDocument)
	_, err = Import(strings.NewReader(`[1,2]`), FormatJSON, now)
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestImportYAML(t *testing.T) {
	input := `
expenses:
  - category: Transport
    amount: 2.75
    timestamp: "2026-01-03T12:30:00Z"
  - category: Transport
    amount: "1"
`
	res, err := Import(strings.NewReader(input), FormatYAML, now)
	require.NoError(t, err)
	require.Len(t, res.Expenses, 2)
	assert.Equal(t, "2026-01-03T12:30:00+00:00", res.Expenses[0].RecordedAt)
	assert.Equal(t, "2.75", res.Expenses[0].Amount.StringFixed(2))
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	require.NoError(t, ExportFile(path, sampleExpenses(t), now))

	res, err := ImportFile(path, now)
	require.NoError(t, err)
	assert.Len(t, res.Expenses, 3)

	assert.ErrorIs(t, ExportFile(filepath.Join(t.TempDir(), "x.pdf"), nil, now), ErrUnsupportedFormat)
}
