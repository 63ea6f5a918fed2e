// Package compose reads and writes the message being composed. The CLI host
// keeps the active compose window as a YAML draft file.
package compose

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"template-composer/internal/contact"
)

// ErrNoDraft is returned when there is no active compose draft.
var ErrNoDraft = errors.New("no active compose draft")

// Details is the state of the message being composed.
type Details struct {
	To            []contact.Recipient
	Subject       string
	Body          string
	PlainTextBody string
}

// Update is what a rendered template writes back.
type Update struct {
	Subject       string
	Body          string
	PlainTextBody string
}

// Accessor reads and writes the active compose window.
type Accessor interface {
	GetComposeDetails(ctx context.Context) (Details, error)
	SetComposeDetails(ctx context.Context, u Update) error
}

type draftDoc struct {
	To            recipients `yaml:"to"`
	Subject       string     `yaml:"subject"`
	Body          string     `yaml:"body"`
	PlainTextBody string     `yaml:"plainTextBody,omitempty"`
}

// recipients accepts either "Name <email>" strings or {contactId, address}
// objects.
type recipients []contact.Recipient

func (r *recipients) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.Value != "" {
			*r = recipients{{Address: node.Value}}
		}
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: to must be a sequence", node.Line)
	}
	out := make(recipients, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind == yaml.ScalarNode {
			out = append(out, contact.Recipient{Address: item.Value})
			continue
		}
		var rc contact.Recipient
		if err := item.Decode(&rc); err != nil {
			return err
		}
		out = append(out, rc)
	}
	*r = out
	return nil
}

// FileAccessor keeps the draft in a YAML file.
type FileAccessor struct {
	path string
}

func NewFileAccessor(path string) *FileAccessor {
	return &FileAccessor{path: path}
}

func (a *FileAccessor) Path() string { return a.path }

func (a *FileAccessor) read() (draftDoc, error) {
	var doc draftDoc
	b, err := os.ReadFile(a.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, ErrNoDraft
	}
	if err != nil {
		return doc, fmt.Errorf("read draft: %w", err)
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return doc, fmt.Errorf("parse draft %s: %w", a.path, err)
	}
	return doc, nil
}

func (a *FileAccessor) GetComposeDetails(_ context.Context) (Details, error) {
	doc, err := a.read()
	if err != nil {
		return Details{}, err
	}
	return Details{
		To:            []contact.Recipient(doc.To),
		Subject:       doc.Subject,
		Body:          doc.Body,
		PlainTextBody: doc.PlainTextBody,
	}, nil
}

// SetComposeDetails rewrites subject and bodies of an existing draft,
// keeping its recipients.
func (a *FileAccessor) SetComposeDetails(_ context.Context, u Update) error {
	doc, err := a.read()
	if err != nil {
		return err
	}
	doc.Subject = u.Subject
	doc.Body = u.Body
	doc.PlainTextBody = u.PlainTextBody
	return a.write(doc)
}

// Create starts a new empty draft addressed to the given recipients,
// replacing any existing one.
func (a *FileAccessor) Create(_ context.Context, to []contact.Recipient) error {
	return a.write(draftDoc{To: recipients(to)})
}

func (a *FileAccessor) write(doc draftDoc) error {
	b, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	dir := filepath.Dir(a.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create draft dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".draft-*")
	if err != nil {
		return fmt.Errorf("write draft: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write draft: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write draft: %w", err)
	}
	if err := os.Rename(tmp.Name(), a.path); err != nil {
		return fmt.Errorf("write draft: %w", err)
	}
	return nil
}
