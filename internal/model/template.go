// Package model defines the template collection data model shared by the
// validator, the option resolver and the hosts.
package model

import (
	"fmt"
	"strings"
)

// Template is one reusable message skeleton.
type Template struct {
	ID      string  `json:"id" yaml:"id"`
	Name    string  `json:"name" yaml:"name"`
	Subject string  `json:"subject" yaml:"subject"`
	Body    string  `json:"body" yaml:"body"`
	Fields  []Field `json:"fields" yaml:"fields"`
}

// Collection is the ordered set of templates persisted as a single record.
type Collection []Template

// ValueMap maps a field id to its current string value for one render.
type ValueMap map[string]string

// DisplayName returns the name shown in template pickers. index is the
// zero-based position of the template in its collection.
func (t Template) DisplayName(index int) string {
	if strings.TrimSpace(t.Name) != "" {
		return t.Name
	}
	if t.ID != "" {
		return t.ID
	}
	return fmt.Sprintf("Template %d", index+1)
}

// FieldByID returns the first field with the given id.
func (t Template) FieldByID(id string) (Field, bool) {
	for _, f := range t.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// Clone returns a deep copy of the template.
func (t Template) Clone() Template {
	out := t
	if t.Fields != nil {
		out.Fields = make([]Field, len(t.Fields))
		for i, f := range t.Fields {
			out.Fields[i] = f.Clone()
		}
	} else {
		out.Fields = []Field{}
	}
	return out
}

// Clone returns a deep copy of the collection.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for i, t := range c {
		out[i] = t.Clone()
	}
	return out
}

// IndexOf returns the position of the template with the given id, or -1.
func (c Collection) IndexOf(id string) int {
	for i, t := range c {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy of the value map.
func (v ValueMap) Clone() ValueMap {
	out := make(ValueMap, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
