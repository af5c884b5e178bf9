package jurisdiction

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

//go:embed states.yaml
var embeddedTable []byte

// Table is the read-only set of jurisdiction rules keyed by region code.
// Safe for concurrent use; never mutated after Load returns.
type Table struct {
	rules map[string]Rule
}

// Load parses and validates the embedded reference table.
func Load() (*Table, error) {
	return Parse(embeddedTable)
}

// LoadFile parses and validates an operator-supplied table, for deployments
// that override the embedded defaults.
func LoadFile(path string) (*Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read jurisdiction table: %w", err)
	}
	return Parse(content)
}

// Parse builds a Table from YAML content and validates every entry. A
// malformed table is a boot failure: serving verdicts against bad reference
// data is worse than refusing to start.
func Parse(content []byte) (*Table, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse jurisdiction table: %w", err)
	}

	var raw struct {
		Regions map[string]Rule `koanf:"regions"`
	}
	if err := k.Unmarshal("", &raw); err != nil {
		return nil, fmt.Errorf("failed to decode jurisdiction table: %w", err)
	}
	if len(raw.Regions) == 0 {
		return nil, fmt.Errorf("jurisdiction table has no regions")
	}

	rules := make(map[string]Rule, len(raw.Regions))
	for code, rule := range raw.Regions {
		normalized := strings.ToUpper(strings.TrimSpace(code))
		if len(normalized) != 2 {
			return nil, fmt.Errorf("invalid region code %q: must be two letters", code)
		}
		if _, dup := rules[normalized]; dup {
			return nil, fmt.Errorf("duplicate region code %q", normalized)
		}
		if !rule.LegalStatus.Valid() {
			return nil, fmt.Errorf("region %s: unknown legal status %q", normalized, rule.LegalStatus)
		}
		for category, limit := range rule.PurchaseLimits {
			if limit <= 0 {
				return nil, fmt.Errorf("region %s: limit for %s must be positive, got %v", normalized, category, limit)
			}
		}
		rule.Code = normalized
		rules[normalized] = rule
	}

	return &Table{rules: rules}, nil
}

// Lookup resolves a region code, case-insensitively. The second return is
// false for regions not in the table; callers must treat those as illegal.
func (t *Table) Lookup(code string) (Rule, bool) {
	rule, ok := t.rules[strings.ToUpper(strings.TrimSpace(code))]
	return rule, ok
}

// Resolve is Lookup with the fail-closed default applied: unknown regions
// come back as an illegal-status rule carrying the normalized code, so
// downstream checks and audit snapshots always have a rule to work with.
func (t *Table) Resolve(code string) Rule {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if rule, ok := t.rules[normalized]; ok {
		return rule
	}
	return Rule{Code: normalized, LegalStatus: StatusIllegal}
}

// Codes returns all region codes in the table, sorted.
func (t *Table) Codes() []string {
	codes := make([]string, 0, len(t.rules))
	for code := range t.rules {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Len returns the number of regions in the table.
func (t *Table) Len() int {
	return len(t.rules)
}
