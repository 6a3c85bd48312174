package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// rulesCmd groups rules document commands
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Rules document commands",
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the rules document and print the normalized result",
	Long: `Load the rules document, report normalization warnings and print
the effective keyword lists, force sets and rules hash.

Examples:
  go run ./cmd/zooindex rules check
  go run ./cmd/zooindex rules check --rules ./rules.yml`,
	RunE: runRulesCheck,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesCheckCmd)
}

func runRulesCheck(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	r, hash, err := a.loadRules()
	if err != nil {
		return err
	}

	PrintHeader("Rules", "File: "+a.cfg.Index.RulesPath)
	widths := []int{20, 50}
	PrintTableHeader([]string{"Field", "Value"}, widths)
	PrintTableRow([]string{"strict_keywords", list(r.StrictKeywords)}, widths)
	PrintTableRow([]string{"extended_keywords", list(r.ExtendedKeywords)}, widths)
	PrintTableRow([]string{"exclude_patterns", list(r.ExcludePatterns)}, widths)
	PrintTableRow([]string{"force_include", list(r.ForceInclude)}, widths)
	PrintTableRow([]string{"force_exclude", list(r.ForceExclude)}, widths)
	PrintTableRow([]string{"exclude_st", fmt.Sprint(r.ExcludeST)}, widths)
	PrintTableRow([]string{"allow_beijing", fmt.Sprint(r.AllowBeijing)}, widths)
	PrintSeparator()
	PrintSuccess("rules_hash " + hash)
	return nil
}

func list(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ",")
}
