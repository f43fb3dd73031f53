package validation

import (
	"fmt"
	"strings"
	"unicode"
)

// CategoryOther is the normalization target for threat types outside the
// active framework's category set.
const CategoryOther = "Other"

// Framework is a closed set of threat categories.
type Framework struct {
	Name       string
	Categories []string

	index map[string]string
}

func newFramework(name string, categories ...string) *Framework {
	f := &Framework{Name: name, Categories: categories}
	f.index = make(map[string]string, len(categories)+1)
	for _, c := range categories {
		f.index[normalizeToken(c)] = c
	}
	f.index[normalizeToken(CategoryOther)] = CategoryOther
	return f
}

// The frameworks Threat Dragon diagrams can declare.
var frameworks = []*Framework{
	newFramework("STRIDE",
		"Spoofing",
		"Tampering",
		"Repudiation",
		"Information disclosure",
		"Denial of service",
		"Elevation of privilege",
	),
	newFramework("LINDDUN",
		"Linkability",
		"Identifiability",
		"Non-repudiation",
		"Detectability",
		"Disclosure of information",
		"Unawareness",
		"Non-compliance",
	),
	newFramework("CIA",
		"Confidentiality",
		"Integrity",
		"Availability",
	),
	newFramework("DIE",
		"Distributed",
		"Immutable",
		"Ephemeral",
	),
	newFramework("PLOT4ai",
		"Technique & Processes",
		"Accessibility",
		"Identifiability & Linkability",
		"Security",
		"Safety",
		"Unawareness",
		"Ethics & Human Rights",
		"Non-compliance",
	),
	newFramework("Generic",
		"New generic threat",
	),
}

// FrameworkByName resolves a framework name case-insensitively.
func FrameworkByName(name string) (*Framework, error) {
	token := normalizeToken(name)
	for _, f := range frameworks {
		if normalizeToken(f.Name) == token {
			return f, nil
		}
	}
	return nil, fmt.Errorf("unknown threat framework %q, expected one of: %s", name, strings.Join(FrameworkNames(), ", "))
}

// FrameworkNames lists the supported framework names.
func FrameworkNames() []string {
	names := make([]string, 0, len(frameworks))
	for _, f := range frameworks {
		names = append(names, f.Name)
	}
	return names
}

// Canonical maps a free-form category to its canonical spelling. Matching is
// case- and punctuation-insensitive, so "information-disclosure" resolves to
// "Information disclosure".
func (f *Framework) Canonical(category string) (string, bool) {
	canonical, ok := f.index[normalizeToken(category)]
	return canonical, ok
}

// normalizeToken folds case and strips everything but letters and digits.
func normalizeToken(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
