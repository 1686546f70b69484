package correct

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/pantryvox/pantryvox/pkg/types"
)

// RuleFile is the YAML shape for user-supplied correction rules, merged on
// top of the builtin table for a locale.
//
// Example:
//
//	protected:
//	  - "oat milk"
//	rules:
//	  - find: "oak milk"
//	    replace: "oat milk"
//	  - pattern: "([0-9]+) leader"
//	    replace: "${1} liter"
type RuleFile struct {
	Protected []string    `yaml:"protected"`
	Rules     []RuleEntry `yaml:"rules"`
}

// RuleEntry is one YAML correction rule. Exactly one of Find or Pattern must
// be set.
type RuleEntry struct {
	Find    string `yaml:"find"`
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace"`
}

// LoadRuleFile reads and parses a correction rule YAML file from disk.
func LoadRuleFile(path string) (*RuleFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("correct: open rule file %q: %w", path, err)
	}
	defer f.Close()

	rf, err := LoadRulesFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("correct: parse rule file %q: %w", path, err)
	}
	return rf, nil
}

// LoadRulesFromReader parses correction rule YAML from r.
func LoadRulesFromReader(r io.Reader) (*RuleFile, error) {
	var rf RuleFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true) // reject unknown keys to catch typos
	if err := dec.Decode(&rf); err != nil {
		return nil, fmt.Errorf("correct: decode rule yaml: %w", err)
	}
	return &rf, nil
}

// Merge compiles rf and appends it to table, returning the combined table.
// A bad regex in rf is a configuration error and is reported immediately
// rather than deferred to parse time.
func (rf *RuleFile) Merge(table Table) (Table, error) {
	table.Protected = append(table.Protected, rf.Protected...)
	for i, e := range rf.Rules {
		switch {
		case e.Find != "" && e.Pattern != "":
			return table, fmt.Errorf("correct: rules[%d]: find and pattern are mutually exclusive", i)
		case e.Pattern != "":
			re, err := regexp.Compile(e.Pattern)
			if err != nil {
				return table, fmt.Errorf("correct: rules[%d]: compile pattern: %w", i, err)
			}
			table.Rules = append(table.Rules, Rule{Pattern: re, Replace: e.Replace})
		case e.Find != "":
			table.Rules = append(table.Rules, Rule{Find: e.Find, Replace: e.Replace})
		default:
			return table, fmt.Errorf("correct: rules[%d]: one of find or pattern is required", i)
		}
	}
	return table, nil
}

// BuiltinTable returns the builtin table for locale, for callers that want
// to merge user rules via [RuleFile.Merge] before calling [New].
func BuiltinTable(locale types.Locale) Table {
	if locale == types.LocaleZH {
		return builtinZH()
	}
	return builtinEN()
}
