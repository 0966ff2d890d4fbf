package components

import (
	"regexp"
	"strings"
	"unicode"
)

// internalPrefixes are tool-generated name prefixes stripped before display.
var internalPrefixes = []string{"framer-", "w-node-", "w-", "svelte-"}

var (
	// __xxxxx style suffixes, or _ followed by 6+ alphanumerics: the hash
	// suffixes site generators append to keep class names unique.
	hashSuffixRe = regexp.MustCompile(`(__[A-Za-z0-9]+|_[A-Za-z0-9]{6,})$`)
	spaceRunRe   = regexp.MustCompile(`\s+`)
)

// CleanBoundaryName normalises an author-provided boundary name: hash-like
// suffixes and internal-id prefixes are stripped, whitespace collapsed, and
// camelCase type names split into space-separated words.
func CleanBoundaryName(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ""
	}

	name = hashSuffixRe.ReplaceAllString(name, "")
	lower := strings.ToLower(name)
	for _, p := range internalPrefixes {
		if strings.HasPrefix(lower, p) {
			name = name[len(p):]
			break
		}
	}

	if !strings.Contains(name, " ") {
		name = splitCamelCase(name)
	}
	name = spaceRunRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// splitCamelCase turns "HeroSection" into "Hero Section". Runs of capitals
// stay together so "FAQList" becomes "FAQ List".
func splitCamelCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
