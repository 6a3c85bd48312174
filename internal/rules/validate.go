package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// codePattern is the only form accepted in force_include / force_exclude.
// Bare names are rejected on purpose: a name can be reused by another listing.
var codePattern = regexp.MustCompile(`^\d{6}\.(SZ|SH|BJ)$`)

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}

// IsSecurityCode reports whether s (case-insensitive) is a NNNNNN.SZ|SH|BJ code
func IsSecurityCode(s string) bool {
	return codePattern.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}

// normalizeCodes uppercases valid codes, de-duplicates them and drops the rest with a warning
func normalizeCodes(field string, items []string) ([]string, []Warning) {
	var warnings []Warning
	codes := make([]string, 0, len(items))
	for _, item := range items {
		code := strings.ToUpper(strings.TrimSpace(item))
		if !codePattern.MatchString(code) {
			warnings = append(warnings, Warning{
				Code:    "INVALID_FORCE_CODE",
				Message: fmt.Sprintf("%s: dropped %q, expected NNNNNN.SZ|SH|BJ", field, item),
			})
			continue
		}
		codes = append(codes, code)
	}
	return uniquePreserve(codes), warnings
}

// Warn checks recommended constraints (non-fatal)
func Warn(r *Rules) []Warning {
	var warnings []Warning

	if len(r.StrictKeywords) == 0 {
		warnings = append(warnings, Warning{
			Code:    "NO_STRICT_KEYWORDS",
			Message: "strict_keywords is empty: strict index will have only forced constituents",
		})
	}

	for _, code := range r.ForceInclude {
		for _, excluded := range r.ForceExclude {
			if code == excluded {
				warnings = append(warnings, Warning{
					Code:    "FORCE_CONFLICT",
					Message: fmt.Sprintf("%s is in both force_include and force_exclude, exclude wins", code),
				})
			}
		}
	}

	return warnings
}
