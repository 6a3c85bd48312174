package rules

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules is the normalized keyword rule set for one run.
// Treat as read-only after Load.
type Rules struct {
	StrictKeywords   []string `json:"strict_keywords"`
	ExtendedKeywords []string `json:"extended_keywords"` // strict ∪ extended, strict first
	ExcludePatterns  []string `json:"exclude_patterns"`
	ForceInclude     []string `json:"force_include"` // security codes only
	ForceExclude     []string `json:"force_exclude"` // security codes only
	ExcludeST        bool     `json:"exclude_st"`
	AllowBeijing     bool     `json:"allow_beijing"`
}

// document is the raw YAML shape. Every list field also accepts a single scalar.
type document struct {
	StrictKeywords   stringList `yaml:"strict_keywords"`
	ExtendedKeywords stringList `yaml:"extended_keywords"`
	ExcludePatterns  stringList `yaml:"exclude_patterns"`
	ForceInclude     stringList `yaml:"force_include"`
	ForceExclude     stringList `yaml:"force_exclude"`
	ExcludeST        *bool      `yaml:"exclude_st"`
	AllowBeijing     *bool      `yaml:"allow_beijing"`
}

// stringList decodes either a scalar or a sequence of scalars.
// Blank entries are dropped, the rest trimmed.
type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = appendTrimmed(nil, value.Value)
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for i, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: item %d must be a scalar", item.Line, i)
			}
			if item.Tag == "!!null" {
				continue
			}
			items = appendTrimmed(items, item.Value)
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", value.Line)
	}
}

func appendTrimmed(dst []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return dst
	}
	return append(dst, s)
}

// uniquePreserve de-duplicates while keeping first-seen order
func uniquePreserve(items ...[]string) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0)
	for _, list := range items {
		for _, item := range list {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			result = append(result, item)
		}
	}
	return result
}
