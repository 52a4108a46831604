package impexp

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ishaan812/spendlog/internal/db"
)

// document is the JSON and YAML export envelope.
type document struct {
	ExportDate   string   `json:"export_date" yaml:"export_date"`
	TotalRecords int      `json:"total_records" yaml:"total_records"`
	Expenses     []record `json:"expenses" yaml:"expenses"`
}

type record struct {
	ID          string      `json:"id,omitempty" yaml:"id,omitempty"`
	Category    string      `json:"category" yaml:"category"`
	Amount      amountField `json:"amount" yaml:"amount"`
	Description string      `json:"description" yaml:"description"`
	Timestamp   string      `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// amountField accepts amounts written either as numbers or strings.
type amountField string

func (a amountField) MarshalJSON() ([]byte, error) {
	if a == "" {
		return []byte(`null`), nil
	}
	return []byte(a), nil
}

func (a *amountField) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*a = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*a = amountField(str)
		return nil
	}
	*a = amountField(s)
	return nil
}

func (a amountField) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: string(a)}, nil
}

func (a *amountField) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("amount must be a scalar, got line %d", node.Line)
	}
	*a = amountField(node.Value)
	return nil
}

func newDocument(expenses []db.Expense, exportDate string) document {
	doc := document{
		ExportDate:   exportDate,
		TotalRecords: len(expenses),
		Expenses:     make([]record, len(expenses)),
	}
	for i, e := range expenses {
		doc.Expenses[i] = record{
			ID:          e.ID,
			Category:    e.Category,
			Amount:      amountField(e.Amount.StringFixed(2)),
			Description: e.Description,
			Timestamp:   e.RecordedAt,
		}
	}
	return doc
}

func (r record) row() map[string]string {
	return map[string]string{
		"category":    r.Category,
		"amount":      string(r.Amount),
		"description": r.Description,
		"timestamp":   r.Timestamp,
	}
}
