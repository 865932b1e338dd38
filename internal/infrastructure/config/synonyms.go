package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iho/statementrecon/internal/domain"
)

// LoadFieldSynonyms reads extra header spellings keyed by canonical field
// name, for example:
//
//	transaction_id: [txn ref, "document no."]
//	debit_amount: [withdrawal]
//
// An empty path yields no extras.
func LoadFieldSynonyms(path string) (map[domain.FieldName][]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read field synonyms: %w", err)
	}

	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse field synonyms %s: %w", path, err)
	}

	known := make(map[domain.FieldName]bool, len(domain.DefaultSynonyms))
	for field := range domain.DefaultSynonyms {
		known[field] = true
	}

	out := make(map[domain.FieldName][]string, len(raw))
	for name, spellings := range raw {
		field := domain.FieldName(name)
		if !known[field] {
			return nil, fmt.Errorf("field synonyms %s: unknown field %q", path, name)
		}
		out[field] = spellings
	}
	return out, nil
}
