// Package validate checks template collections. Normalize and Validate
// enforce the hard rules applied on import and save; Diagnose produces
// advisory warnings for a single template being edited.
package validate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"template-composer/internal/model"
)

// ValidationError reports a malformed collection. Index is the position of
// the offending template, or -1 when the input is not a sequence.
type ValidationError struct {
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return e.Reason
	}
	return fmt.Sprintf("template at index %d %s", e.Index, e.Reason)
}

const (
	reasonNotSequence = "templates must be a sequence"
	reasonMissingCore = "must include id, subject, and body"
	reasonNotObject   = "must be an object"
)

// Normalize builds a Collection from decoded structured data (the output of
// encoding/json or yaml.v3 decoding into `any`). The input is not modified.
// A template whose fields attribute is missing or not a sequence gets an
// empty field list; a template without a non-empty id, subject or body is
// rejected with a *ValidationError.
func Normalize(raw any) (model.Collection, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, &ValidationError{Index: -1, Reason: reasonNotSequence}
	}
	out := make(model.Collection, 0, len(items))
	for i, item := range items {
		obj, ok := model.AsObject(item)
		if !ok {
			return nil, &ValidationError{Index: i, Reason: reasonNotObject}
		}
		t := model.Template{
			ID:      model.AsString(obj["id"]),
			Name:    model.AsString(obj["name"]),
			Subject: model.AsString(obj["subject"]),
			Body:    model.AsString(obj["body"]),
			Fields:  []model.Field{},
		}
		if t.ID == "" || t.Subject == "" || t.Body == "" {
			return nil, &ValidationError{Index: i, Reason: reasonMissingCore}
		}
		if fields, ok := obj["fields"].([]any); ok {
			for _, rawField := range fields {
				if f, ok := model.DecodeField(rawField); ok {
					t.Fields = append(t.Fields, f)
				}
			}
		}
		out = append(out, t)
	}
	return out, nil
}

// Validate applies the Normalize rules to an already typed collection and
// returns a normalized deep copy.
func Validate(c model.Collection) (model.Collection, error) {
	out := c.Clone()
	for i, t := range out {
		if t.ID == "" || t.Subject == "" || t.Body == "" {
			return nil, &ValidationError{Index: i, Reason: reasonMissingCore}
		}
		for j, f := range t.Fields {
			if f.Type == "" {
				out[i].Fields[j].Type = model.FieldText
			}
			out[i].Fields[j] = out[i].Fields[j].WithType(out[i].Fields[j].Type)
		}
	}
	return out, nil
}

// ParseJSON decodes and normalizes a JSON collection.
func ParseJSON(data []byte) (model.Collection, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse templates json: %w", err)
	}
	return Normalize(raw)
}

// ParseYAML decodes and normalizes a YAML collection. JSON documents are
// valid YAML, so this accepts both.
func ParseYAML(data []byte) (model.Collection, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse templates yaml: %w", err)
	}
	return Normalize(raw)
}
