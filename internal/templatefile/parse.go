// Package templatefile reads and writes single templates authored as
// Markdown files with YAML frontmatter. The frontmatter carries id, name,
// subject and fields; the document body is the template body.
package templatefile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"template-composer/internal/model"
	"template-composer/internal/validate"
)

// Document represents a template file split into frontmatter and body.
type Document struct {
	Frontmatter map[string]any
	Body        string
}

// ParseFile reads a template file from disk.
func ParseFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse extracts YAML frontmatter and body. Frontmatter is expected at the
// top of the input between two lines containing only "---".
func Parse(r io.Reader) (Document, error) {
	br := bufio.NewReader(r)
	peek, err := br.Peek(3)
	if err != nil && !errors.Is(err, io.EOF) {
		return Document{}, err
	}
	hasFM := string(peek) == "---"

	var fmBuf, bodyBuf strings.Builder
	if hasFM {
		if _, err := br.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
			return Document{}, err
		}
		for {
			l, err := br.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return Document{}, err
			}
			if strings.TrimSpace(l) == "---" {
				break
			}
			fmBuf.WriteString(l)
			if errors.Is(err, io.EOF) {
				break
			}
		}
	}
	for {
		l, err := br.ReadString('\n')
		bodyBuf.WriteString(l)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Document{}, err
		}
	}

	d := Document{
		Frontmatter: map[string]any{},
		Body:        strings.TrimLeft(bodyBuf.String(), "\r\n"),
	}
	if hasFM {
		m := map[string]any{}
		if err := yaml.Unmarshal([]byte(fmBuf.String()), &m); err != nil {
			return Document{}, fmt.Errorf("parse frontmatter: %w", err)
		}
		d.Frontmatter = m
	}
	return d, nil
}

// Raw returns the document as a decoded template object. A body attribute
// in the frontmatter is overridden by the document body.
func (d Document) Raw() map[string]any {
	raw := make(map[string]any, len(d.Frontmatter)+1)
	for k, v := range d.Frontmatter {
		raw[k] = v
	}
	raw["body"] = strings.TrimRight(d.Body, "\r\n")
	return raw
}

// Template normalizes the document with the same rules as a collection
// import.
func (d Document) Template() (model.Template, error) {
	c, err := validate.Normalize([]any{d.Raw()})
	if err != nil {
		return model.Template{}, err
	}
	return c[0], nil
}

// Upsert replaces the template with the same id, or appends t.
func Upsert(c model.Collection, t model.Template) (model.Collection, bool) {
	out := c.Clone()
	if i := out.IndexOf(t.ID); i >= 0 {
		out[i] = t.Clone()
		return out, true
	}
	return append(out, t.Clone()), false
}

type frontmatter struct {
	ID      string        `yaml:"id"`
	Name    string        `yaml:"name,omitempty"`
	Subject string        `yaml:"subject"`
	Fields  []model.Field `yaml:"fields,omitempty"`
}

// Render writes t in template file form.
func Render(t model.Template) ([]byte, error) {
	fm, err := yaml.Marshal(frontmatter{ID: t.ID, Name: t.Name, Subject: t.Subject, Fields: t.Fields})
	if err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n\n")
	buf.WriteString(t.Body)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}
