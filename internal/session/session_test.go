package session

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"template-composer/internal/model"
	"template-composer/internal/validate"
)

func sample() model.Collection {
	return model.Collection{
		{ID: "a", Subject: "Sa", Body: "Ba", Fields: []model.Field{{ID: "x", Type: model.FieldText}}},
		{ID: "b", Subject: "Sb", Body: "Bb", Fields: []model.Field{}},
		{ID: "c", Subject: "Sc", Body: "Bc", Fields: []model.Field{}},
	}
}

func ids(c model.Collection) []string {
	out := make([]string, len(c))
	for i, t := range c {
		out[i] = t.ID
	}
	return out
}

func never(string) bool { return false }

func TestNewSelectsFirst(t *testing.T) {
	s := New(sample())
	if s.Index() != 0 || s.Dirty() {
		t.Fatalf("index=%d dirty=%v", s.Index(), s.Dirty())
	}
	if empty := New(nil); empty.Index() != -1 {
		t.Fatalf("empty session index = %d, want -1", empty.Index())
	}
	if _, ok := New(nil).Current(); ok {
		t.Fatalf("empty session has a current template")
	}
}

func TestSelectWithDirtyDraft(t *testing.T) {
	s := New(sample())
	if err := s.Update(func(tpl *model.Template) { tpl.Subject = "edited" }); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if err := s.Select(1, never); !errors.Is(err, ErrDeclined) {
		t.Fatalf("Select declined: want ErrDeclined, got %v", err)
	}
	if s.Index() != 0 || !s.Dirty() {
		t.Fatalf("declined switch changed state: index=%d dirty=%v", s.Index(), s.Dirty())
	}
	if err := s.Select(0, never); err != nil {
		t.Fatalf("reselecting current should not prompt: %v", err)
	}
	var asked string
	if err := s.Select(1, func(p string) bool { asked = p; return true }); err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if asked != PromptDiscard {
		t.Fatalf("prompt = %q", asked)
	}
	if s.Templates()[0].Subject != "Sa" {
		t.Fatalf("discarded edit leaked into collection")
	}
	if err := s.Select(7, Always); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestNewTemplate(t *testing.T) {
	s := New(sample())
	s.Now = func() time.Time { return time.UnixMilli(1700000000123) }
	tpl, err := s.NewTemplate(Always)
	if err != nil {
		t.Fatalf("NewTemplate error: %v", err)
	}
	if tpl.ID != "template_1700000000123" {
		t.Fatalf("id = %q", tpl.ID)
	}
	if s.Index() != 3 || !s.Dirty() || s.Len() != 4 {
		t.Fatalf("index=%d dirty=%v len=%d", s.Index(), s.Dirty(), s.Len())
	}
	var verr *validate.ValidationError
	if err := s.Commit(nil); !errors.As(err, &verr) || verr.Index != 3 {
		t.Fatalf("Commit of empty template: want ValidationError at 3, got %v", err)
	}
	if !s.Dirty() {
		t.Fatalf("failed commit cleared dirty flag")
	}
}

func TestDeleteClampsSelection(t *testing.T) {
	s := New(sample())
	if err := s.Select(2, Always); err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if err := s.DeleteCurrent(never); !errors.Is(err, ErrDeclined) {
		t.Fatalf("want ErrDeclined, got %v", err)
	}
	if err := s.DeleteCurrent(Always); err != nil {
		t.Fatalf("DeleteCurrent error: %v", err)
	}
	if s.Index() != 1 {
		t.Fatalf("index = %d, want 1", s.Index())
	}
	if diff := cmp.Diff([]string{"a", "b"}, ids(s.Templates())); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	_ = s.DeleteCurrent(Always)
	_ = s.DeleteCurrent(Always)
	if s.Index() != -1 || s.Len() != 0 {
		t.Fatalf("index=%d len=%d", s.Index(), s.Len())
	}
	if err := s.DeleteCurrent(Always); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("want ErrNoSelection, got %v", err)
	}
}

func TestMoveFollowsSelection(t *testing.T) {
	s := New(sample())
	if err := s.Move(0, 1, Always); err != nil {
		t.Fatalf("Move error: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, ids(s.Templates())); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if s.Index() != 1 {
		t.Fatalf("selection did not follow: %d", s.Index())
	}
	if err := s.Move(0, 1, Always); err != nil {
		t.Fatalf("Move error: %v", err)
	}
	if s.Index() != 0 {
		t.Fatalf("selection should move to swapped slot: %d", s.Index())
	}
	if err := s.Move(0, -1, Always); err != nil {
		t.Fatalf("Move past start: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, ids(s.Templates())); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldOperations(t *testing.T) {
	s := New(sample())
	if err := s.AddField(); err != nil {
		t.Fatalf("AddField error: %v", err)
	}
	cur, _ := s.Current()
	if len(cur.Fields) != 2 || cur.Fields[1].Type != model.FieldText || cur.Fields[1].ID != "" {
		t.Fatalf("unexpected fields: %+v", cur.Fields)
	}
	if err := s.SetFieldType(1, model.FieldSelect); err != nil {
		t.Fatalf("SetFieldType error: %v", err)
	}
	if err := s.UpdateField(1, func(f *model.Field) {
		f.ID = "when"
		f.Select.Static = []string{"Friday"}
		f.Select.Dynamic = model.MonthsPreset()
	}); err != nil {
		t.Fatalf("UpdateField error: %v", err)
	}
	if err := s.SetFieldType(1, model.FieldText); err != nil {
		t.Fatalf("SetFieldType error: %v", err)
	}
	cur, _ = s.Current()
	if cur.Fields[1].Select != nil {
		t.Fatalf("select options survived type change: %+v", cur.Fields[1])
	}
	if err := s.RemoveField(0); err != nil {
		t.Fatalf("RemoveField error: %v", err)
	}
	if err := s.RemoveField(5); err == nil {
		t.Fatalf("expected out of range error")
	}
	cur, _ = s.Current()
	if len(cur.Fields) != 1 || cur.Fields[0].ID != "when" {
		t.Fatalf("unexpected fields: %+v", cur.Fields)
	}
}

func TestInsertTokenAndDiagnostics(t *testing.T) {
	s := New(sample())
	if err := s.InsertToken(TargetSubject, "x"); err != nil {
		t.Fatalf("InsertToken error: %v", err)
	}
	cur, _ := s.Current()
	if cur.Subject != "Sa{{x}}" {
		t.Fatalf("subject = %q", cur.Subject)
	}
	if got := s.Diagnostics(); len(got) != 0 {
		t.Fatalf("unexpected warnings: %v", got)
	}
	_ = s.InsertToken(TargetBody, "y")
	want := []string{"Placeholder {{y}} has no matching field."}
	if diff := cmp.Diff(want, s.Diagnostics()); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestCommit(t *testing.T) {
	s := New(sample())
	_ = s.Update(func(tpl *model.Template) { tpl.ID = "  a2 " })

	saveErr := errors.New("disk full")
	if err := s.Commit(func(model.Collection) error { return saveErr }); !errors.Is(err, saveErr) {
		t.Fatalf("want save error, got %v", err)
	}
	if !s.Dirty() {
		t.Fatalf("failed save cleared dirty flag")
	}

	var saved model.Collection
	if err := s.Commit(func(c model.Collection) error { saved = c; return nil }); err != nil {
		t.Fatalf("Commit error: %v", err)
	}
	if s.Dirty() {
		t.Fatalf("dirty after commit")
	}
	if diff := cmp.Diff([]string{"a2", "b", "c"}, ids(saved)); diff != "" {
		t.Fatalf("saved ids mismatch (-want +got):\n%s", diff)
	}
}

func TestReplace(t *testing.T) {
	s := New(sample())
	_ = s.Select(2, Always)
	bad := model.Collection{{ID: "z", Subject: "s"}}
	if err := s.Replace(bad); err == nil {
		t.Fatalf("expected validation error")
	}
	if s.Index() != 2 || s.Len() != 3 {
		t.Fatalf("failed replace changed state")
	}
	if err := s.Replace(model.Collection{{ID: "z", Subject: "s", Body: "b"}}); err != nil {
		t.Fatalf("Replace error: %v", err)
	}
	if s.Index() != 0 || s.Len() != 1 {
		t.Fatalf("index=%d len=%d", s.Index(), s.Len())
	}
	if err := s.Replace(model.Collection{}); err != nil || s.Index() != -1 {
		t.Fatalf("empty replace: err=%v index=%d", err, s.Index())
	}
}

func TestIDTaken(t *testing.T) {
	s := New(sample())
	if !s.IDTaken("b") || !s.IDTaken(" c ") {
		t.Fatalf("ids of other templates should be taken")
	}
	if s.IDTaken("a") {
		t.Fatalf("the selected template's own id is not taken")
	}
	if s.IDTaken("zzz") {
		t.Fatalf("unused id reported taken")
	}
	_ = s.Update(func(tpl *model.Template) { tpl.ID = "a2" })
	if s.IDTaken("a") {
		t.Fatalf("renamed draft id still counted")
	}
}
