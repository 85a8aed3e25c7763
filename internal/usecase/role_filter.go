package usecase

import (
	"fmt"
	"regexp"

	"synomind-gateway/internal/domain/model"
)

const (
	redactionToken = "[REDACTED]"

	// Appended verbatim for the user role.
	personalizationSuffix = "\n\n*This response is personalized for your sustainability journey.*"
)

// RoleFilter transforms a raw provider response based on the caller role:
// super_admin passes through, admin gets the redaction pass, everything
// else (including unrecognized roles) gets the user personalization
// suffix. Apply is pure and total.
//
// Redacting free-form model output with regexes is a best-effort
// heuristic, not a guarantee; the pattern set comes from configuration.
type RoleFilter struct {
	patterns []*regexp.Regexp
}

func NewRoleFilter(patterns []string) (*RoleFilter, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("redaction pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &RoleFilter{patterns: compiled}, nil
}

func (f *RoleFilter) Apply(text, role string) string {
	switch role {
	case model.RoleSuperAdmin:
		return text
	case model.RoleAdmin:
		for _, re := range f.patterns {
			text = re.ReplaceAllString(text, redactionToken)
		}
		return text
	default:
		return text + personalizationSuffix
	}
}
