// Package session holds the editor's working copy: the loaded collection,
// the selected template index, an editable draft of that template and a
// dirty flag.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"template-composer/internal/model"
	"template-composer/internal/options"
	"template-composer/internal/placeholder"
	"template-composer/internal/validate"
)

var (
	// ErrNoSelection is returned by draft operations when no template is
	// selected.
	ErrNoSelection = errors.New("no template selected")
	// ErrDeclined is returned when the user declines to discard unsaved
	// changes or to delete.
	ErrDeclined = errors.New("declined")
)

const (
	PromptDiscard = "You have unsaved changes. Discard them?"
	PromptDelete  = "Delete this template?"
)

// Confirm asks the user a yes/no question.
type Confirm func(prompt string) bool

// Always confirms every prompt.
func Always(string) bool { return true }

// Target names a text attribute placeholders can be inserted into.
type Target string

const (
	TargetSubject Target = "subject"
	TargetBody    Target = "body"
)

// Session is a single editing session. It is not safe for concurrent use.
type Session struct {
	templates model.Collection
	index     int
	draft     *model.Template
	dirty     bool

	Now      func() time.Time
	Resolver *options.Resolver
}

// New opens a session on c with the first template selected.
func New(c model.Collection) *Session {
	s := &Session{Now: time.Now}
	s.reset(c)
	return s
}

func (s *Session) reset(c model.Collection) {
	s.templates = c.Clone()
	s.index = -1
	if len(s.templates) > 0 {
		s.index = 0
	}
	s.loadDraft()
}

func (s *Session) loadDraft() {
	s.dirty = false
	s.draft = nil
	if s.index >= 0 && s.index < len(s.templates) {
		d := s.templates[s.index].Clone()
		s.draft = &d
	}
}

// Index returns the selected position, or -1.
func (s *Session) Index() int { return s.index }

// Dirty reports unsaved draft edits.
func (s *Session) Dirty() bool { return s.dirty }

// Len returns the number of templates.
func (s *Session) Len() int { return len(s.templates) }

// Current returns a copy of the draft.
func (s *Session) Current() (model.Template, bool) {
	if s.draft == nil {
		return model.Template{}, false
	}
	return s.draft.Clone(), true
}

// Templates returns the working collection: the stored templates with the
// draft in place of the selected one.
func (s *Session) Templates() model.Collection {
	out := s.templates.Clone()
	if s.draft != nil && s.index >= 0 {
		out[s.index] = s.draft.Clone()
	}
	return out
}

// Find returns the position of the template with id in the working
// collection.
func (s *Session) Find(id string) int {
	return s.Templates().IndexOf(id)
}

// IDTaken reports whether a template other than the selected one already
// uses id.
func (s *Session) IDTaken(id string) bool {
	id = strings.TrimSpace(id)
	for i, t := range s.Templates() {
		if i != s.index && t.ID == id {
			return true
		}
	}
	return false
}

func (s *Session) confirmSwitch(next int, confirm Confirm) bool {
	if !s.dirty || next == s.index {
		return true
	}
	if confirm == nil || !confirm(PromptDiscard) {
		return false
	}
	s.loadDraft()
	return true
}

// Select makes index the current template. Unsaved draft edits are
// discarded only if confirm agrees.
func (s *Session) Select(index int, confirm Confirm) error {
	if index < 0 || index >= len(s.templates) {
		return fmt.Errorf("select template %d: out of range", index)
	}
	if !s.confirmSwitch(index, confirm) {
		return ErrDeclined
	}
	s.index = index
	s.loadDraft()
	return nil
}

// NewTemplate appends an empty template, selects it and marks the session
// dirty.
func (s *Session) NewTemplate(confirm Confirm) (model.Template, error) {
	next := len(s.templates)
	if !s.confirmSwitch(next, confirm) {
		return model.Template{}, ErrDeclined
	}
	t := model.Template{
		ID:     fmt.Sprintf("template_%d", s.Now().UnixMilli()),
		Fields: []model.Field{},
	}
	s.templates = append(s.templates, t)
	s.index = next
	s.loadDraft()
	s.dirty = true
	return t, nil
}

// DeleteCurrent removes the selected template. The selection moves to the
// same position, clamped to the last template.
func (s *Session) DeleteCurrent(confirm Confirm) error {
	if s.index < 0 {
		return ErrNoSelection
	}
	if confirm == nil || !confirm(PromptDelete) {
		return ErrDeclined
	}
	s.templates = append(s.templates[:s.index], s.templates[s.index+1:]...)
	if s.index > len(s.templates)-1 {
		s.index = len(s.templates) - 1
	}
	s.loadDraft()
	return nil
}

// Move shifts the template at index by direction (-1 up, +1 down). The
// selection follows the template it pointed at. Moves past either end are
// ignored.
func (s *Session) Move(index, direction int, confirm Confirm) error {
	if !s.confirmSwitch(index, confirm) {
		return ErrDeclined
	}
	target := index + direction
	if index < 0 || index >= len(s.templates) || target < 0 || target >= len(s.templates) {
		return nil
	}
	s.templates[index], s.templates[target] = s.templates[target], s.templates[index]
	switch s.index {
	case index:
		s.index = target
	case target:
		s.index = index
	}
	return nil
}

// Update applies fn to the draft. The id is trimmed afterwards.
func (s *Session) Update(fn func(t *model.Template)) error {
	if s.draft == nil {
		return ErrNoSelection
	}
	fn(s.draft)
	s.draft.ID = strings.TrimSpace(s.draft.ID)
	s.dirty = true
	return nil
}

// AddField appends a blank text field to the draft.
func (s *Session) AddField() error {
	return s.Update(func(t *model.Template) {
		t.Fields = append(t.Fields, model.NewField())
	})
}

// RemoveField deletes the draft field at i.
func (s *Session) RemoveField(i int) error {
	if err := s.checkField(i); err != nil {
		return err
	}
	return s.Update(func(t *model.Template) {
		t.Fields = append(t.Fields[:i], t.Fields[i+1:]...)
	})
}

// SetFieldType switches the variant of field i.
func (s *Session) SetFieldType(i int, ft model.FieldType) error {
	if err := s.checkField(i); err != nil {
		return err
	}
	return s.Update(func(t *model.Template) {
		t.Fields[i] = t.Fields[i].WithType(ft)
	})
}

// UpdateField applies fn to field i of the draft.
func (s *Session) UpdateField(i int, fn func(f *model.Field)) error {
	if err := s.checkField(i); err != nil {
		return err
	}
	return s.Update(func(t *model.Template) {
		fn(&t.Fields[i])
	})
}

func (s *Session) checkField(i int) error {
	if s.draft == nil {
		return ErrNoSelection
	}
	if i < 0 || i >= len(s.draft.Fields) {
		return fmt.Errorf("field %d: out of range", i)
	}
	return nil
}

// InsertToken appends the placeholder token of fieldID to the subject or
// body of the draft.
func (s *Session) InsertToken(target Target, fieldID string) error {
	if strings.TrimSpace(fieldID) == "" {
		return nil
	}
	tok := placeholder.Token(fieldID)
	return s.Update(func(t *model.Template) {
		switch target {
		case TargetSubject:
			t.Subject += tok
		default:
			t.Body += tok
		}
	})
}

// Diagnostics returns the advisory warnings for the draft.
func (s *Session) Diagnostics() []string {
	if s.draft == nil {
		return nil
	}
	if s.Resolver != nil {
		return validate.DiagnoseWith(*s.draft, s.Resolver.Resolve)
	}
	return validate.Diagnose(*s.draft)
}

// Commit validates the working collection and hands it to save. Only when
// both succeed does the session adopt the normalized collection and clear
// the dirty flag; otherwise its state is unchanged.
func (s *Session) Commit(save func(model.Collection) error) error {
	normalized, err := validate.Validate(s.Templates())
	if err != nil {
		return err
	}
	if save != nil {
		if err := save(normalized); err != nil {
			return err
		}
	}
	s.templates = normalized
	s.loadDraft()
	return nil
}

// Replace swaps in an imported collection. It is validated first; on
// failure the session is unchanged. The first template becomes selected.
func (s *Session) Replace(c model.Collection) error {
	normalized, err := validate.Validate(c)
	if err != nil {
		return err
	}
	s.reset(normalized)
	return nil
}
