package validate

import (
	"fmt"

	"template-composer/internal/model"
	"template-composer/internal/options"
	"template-composer/internal/placeholder"
)

// Diagnose returns advisory warnings for t. None of them block a save.
//
// Order: missing id/subject/body, duplicate field ids, per-field id and
// option checks, placeholders without a field (subject tokens before body
// tokens), then fields never referenced.
func Diagnose(t model.Template) []string {
	return DiagnoseWith(t, options.Resolve)
}

// DiagnoseWith is Diagnose with a caller-supplied option resolver, used to
// check select fields against a fixed clock or locale.
func DiagnoseWith(t model.Template, resolve func(model.Field) []string) []string {
	var warnings []string

	if t.ID == "" {
		warnings = append(warnings, "Template id is required.")
	}
	if t.Subject == "" {
		warnings = append(warnings, "Subject is required.")
	}
	if t.Body == "" {
		warnings = append(warnings, "Body is required.")
	}

	known := make(map[string]struct{}, len(t.Fields))
	ordered := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		if f.ID == "" {
			continue
		}
		if _, dup := known[f.ID]; dup {
			warnings = append(warnings, fmt.Sprintf("Duplicate field id: %s", f.ID))
			continue
		}
		known[f.ID] = struct{}{}
		ordered = append(ordered, f.ID)
	}

	for _, f := range t.Fields {
		if f.ID == "" {
			warnings = append(warnings, "Each field must have an id.")
		}
		if f.Type == model.FieldSelect && len(resolve(f)) == 0 {
			name := f.DisplayLabel()
			if name == "" {
				name = "(unnamed)"
			}
			warnings = append(warnings, fmt.Sprintf("Select field %s has no options.", name))
		}
	}

	used := make(map[string]struct{})
	for _, text := range []string{t.Subject, t.Body} {
		for _, token := range placeholder.CollectTokens(text) {
			if _, seen := used[token]; seen {
				continue
			}
			used[token] = struct{}{}
			if _, ok := known[token]; !ok {
				warnings = append(warnings, fmt.Sprintf("Placeholder %s has no matching field.", placeholder.Token(token)))
			}
		}
	}

	for _, id := range ordered {
		if _, ok := used[id]; !ok {
			warnings = append(warnings, fmt.Sprintf("Field %s is not used in subject/body.", id))
		}
	}

	return warnings
}
