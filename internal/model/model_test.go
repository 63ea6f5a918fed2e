package model

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("unmarshal %s: %v", s, err)
	}
	return v
}

func TestDecodeField(t *testing.T) {
	f, ok := DecodeField(decodeJSON(t, `{"id":"when","label":"When","type":"select","required":true,"options":["Now",1,true],"optionsDynamic":"months"}`))
	if !ok {
		t.Fatalf("DecodeField rejected an object")
	}
	if f.Type != FieldSelect || !f.Required || f.Label != "When" {
		t.Fatalf("unexpected field: %+v", f)
	}
	if diff := cmp.Diff([]string{"Now", "1", "true"}, f.StaticOptions()); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if f.DynamicOptions().Kind != DynamicMonthsPreset {
		t.Fatalf("dynamic kind = %v", f.DynamicOptions().Kind)
	}

	txt, _ := DecodeField(decodeJSON(t, `{"id":"x","type":"textarea","options":["a"]}`))
	if txt.Type != FieldText || txt.Select != nil {
		t.Fatalf("unknown type should decode as text without options: %+v", txt)
	}
	if _, ok := DecodeField("not an object"); ok {
		t.Fatalf("DecodeField accepted a string")
	}
}

func TestDecodeDynamicOptions(t *testing.T) {
	d := DecodeDynamicOptions(decodeJSON(t, `{"type":"months","count":3.9,"step":"x","format":"shortMonth","locale":"pl"}`))
	if d.Kind != DynamicMonthsConfigured {
		t.Fatalf("kind = %v", d.Kind)
	}
	if d.Months.Count == nil || *d.Months.Count != 3 {
		t.Fatalf("count = %v", d.Months.Count)
	}
	if d.Months.Step != nil || d.Months.StartOffset != nil {
		t.Fatalf("non-numbers should stay unset: %+v", d.Months)
	}
	if d.Months.Format != FormatShortMonth || d.Months.Locale != "pl" {
		t.Fatalf("unexpected config: %+v", d.Months)
	}

	for _, raw := range []any{nil, ""} {
		if got := DecodeDynamicOptions(raw); !got.IsZero() {
			t.Errorf("DecodeDynamicOptions(%#v) = %v, want none", raw, got.Kind)
		}
	}
	for _, raw := range []any{"weeks", decodeJSON(t, `{"type":"weeks"}`), decodeJSON(t, `[1,2]`)} {
		if got := DecodeDynamicOptions(raw); got.Kind != DynamicUnrecognized {
			t.Errorf("DecodeDynamicOptions(%#v) = %v, want unrecognized", raw, got.Kind)
		}
	}
}

func TestWithType(t *testing.T) {
	f := NewField().WithType(FieldSelect)
	if f.Select == nil || len(f.StaticOptions()) != 0 {
		t.Fatalf("entering select should start empty: %+v", f)
	}
	f.Select.Static = []string{"a"}
	f.Select.Dynamic = MonthsPreset()
	back := f.WithType(FieldText)
	if back.Select != nil || back.DynamicOptions().Kind != DynamicNone {
		t.Fatalf("leaving select should drop options: %+v", back)
	}
}

func TestFieldExportShape(t *testing.T) {
	count := 4
	sel := Field{ID: "m", Type: FieldSelect, Select: &SelectOptions{
		Static:  []string{"Later"},
		Dynamic: MonthsConfigured(MonthsConfig{Count: &count, Format: FormatMonth}),
	}}
	b, err := json.Marshal(sel)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	want := `{"id":"m","label":"","type":"select","required":false,"options":["Later"],"optionsDynamic":{"type":"months","count":4,"format":"month"}}`
	if string(b) != want {
		t.Fatalf("json:\n got %s\nwant %s", b, want)
	}

	unknown := Field{ID: "u", Type: FieldSelect, Select: &SelectOptions{Dynamic: DecodeDynamicOptions("weeks")}}
	y, err := yaml.Marshal(unknown)
	if err != nil {
		t.Fatalf("yaml Marshal error: %v", err)
	}
	f, _ := DecodeField(decodeYAML(t, y))
	if f.DynamicOptions().Kind != DynamicUnrecognized {
		t.Fatalf("unrecognized value lost on export: %s", y)
	}
}

func decodeYAML(t *testing.T, b []byte) any {
	t.Helper()
	var v any
	if err := yaml.Unmarshal(b, &v); err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	return v
}

func TestTemplateHelpers(t *testing.T) {
	tpl := Template{ID: "a", Fields: []Field{{ID: "x"}, {ID: "x", Label: "dup"}}}
	if got := tpl.DisplayName(0); got != "a" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := (Template{}).DisplayName(2); got != "Template 3" {
		t.Errorf("DisplayName = %q", got)
	}
	if f, ok := tpl.FieldByID("x"); !ok || f.Label != "" {
		t.Errorf("FieldByID should return first match: %+v", f)
	}
	c := Collection{tpl}
	cl := c.Clone()
	cl[0].Fields[0].ID = "changed"
	if c[0].Fields[0].ID != "x" {
		t.Fatalf("Clone shares field storage")
	}
	if (Template{}).Clone().Fields == nil {
		t.Fatalf("Clone should produce an empty field slice")
	}
	if c.IndexOf("a") != 0 || c.IndexOf("z") != -1 {
		t.Fatalf("IndexOf mismatch")
	}
}

func TestAsIntRange(t *testing.T) {
	tests := []struct {
		in     any
		want   int
		wantOK bool
	}{
		{in: 7, want: 7, wantOK: true},
		{in: int64(-3), want: -3, wantOK: true},
		{in: 2.9, want: 2, wantOK: true},
		{in: -2.9, want: -2, wantOK: true},
		{in: json.Number("12"), want: 12, wantOK: true},
		{in: 5000000000},
		{in: int64(-5000000000)},
		{in: uint64(18446744073709551615)},
		{in: 5e9},
		{in: "3"},
	}
	for _, tt := range tests {
		got, ok := asInt(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("asInt(%#v) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
