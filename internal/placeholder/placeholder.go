// Package placeholder finds and substitutes {{name}} tokens in template text.
package placeholder

import (
	"html"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// tokenPattern matches {{ name }} where name is word characters and hyphens.
var tokenPattern = regexp.MustCompile(`\{\{\s*([\w-]+)\s*\}\}`)

// Token formats name as a placeholder token.
func Token(name string) string {
	return "{{" + name + "}}"
}

// CollectTokens returns the distinct token names in text, in discovery order.
func CollectTokens(text string) []string {
	matches := tokenPattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		out = append(out, m[1])
	}
	return out
}

// TokenSet returns the distinct token names found across all texts.
func TokenSet(texts ...string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, text := range texts {
		for _, name := range CollectTokens(text) {
			set[name] = struct{}{}
		}
	}
	return set
}

// Substitute replaces every {{key}} token, tolerating whitespace inside the
// braces, with values[key]. Keys are matched literally and tokens for keys
// absent from values are left untouched. Replacement happens in one pass, so
// a substituted value is never itself rescanned for tokens.
func Substitute(text string, values map[string]string) string {
	if len(values) == 0 || text == "" {
		return text
	}
	re := keysPattern(values)
	idx := re.FindAllStringSubmatchIndex(text, -1)
	if len(idx) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, loc := range idx {
		b.WriteString(text[last:loc[0]])
		b.WriteString(values[text[loc[2]:loc[3]]])
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

func keysPattern(values map[string]string) *regexp.Regexp {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return regexp.MustCompile(`\{\{\s*(` + strings.Join(quoted, "|") + `)\s*\}\}`)
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// PlainText strips markup and returns the visible text content.
func PlainText(markup string) string {
	if markup == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return html.UnescapeString(textPolicy.Sanitize(markup))
}
