package options

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"template-composer/internal/model"
)

func fixedResolver(year int, month time.Month, day int) *Resolver {
	return &Resolver{
		Now: func() time.Time {
			return time.Date(year, month, day, 15, 4, 5, 0, time.UTC)
		},
		DefaultLocale: "en-US",
	}
}

func selectField(static []string, dynamic model.DynamicOptions) model.Field {
	f := model.NewField().WithType(model.FieldSelect)
	f.ID = "when"
	f.Select.Static = static
	f.Select.Dynamic = dynamic
	return f
}

func intp(n int) *int { return &n }

func TestResolveMonthsPreset(t *testing.T) {
	r := fixedResolver(2026, time.October, 16)
	got := r.Resolve(selectField(nil, model.MonthsPreset()))
	want := []string{"October 2026", "September 2026"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	r := fixedResolver(2026, time.March, 31)
	f := selectField([]string{"a"}, model.MonthsPreset())
	first := r.Resolve(f)
	for i := 0; i < 3; i++ {
		if diff := cmp.Diff(first, r.Resolve(f)); diff != "" {
			t.Fatalf("resolve changed between calls (-first +got):\n%s", diff)
		}
	}
}

func TestResolveCrossesYearBoundary(t *testing.T) {
	r := fixedResolver(2026, time.January, 31)
	got := r.Resolve(selectField(nil, model.MonthsPreset()))
	want := []string{"January 2026", "December 2025"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveConfiguredMonths(t *testing.T) {
	r := fixedResolver(2026, time.October, 16)
	tests := []struct {
		name string
		cfg  model.MonthsConfig
		want []string
	}{
		{
			name: "forward short months",
			cfg:  model.MonthsConfig{Count: intp(3), StartOffset: intp(1), Step: intp(1), Format: model.FormatShortMonth},
			want: []string{"Nov", "Dec", "Jan"},
		},
		{
			name: "defaults for absent numbers",
			cfg:  model.MonthsConfig{Format: model.FormatMonth},
			want: []string{"October", "September"},
		},
		{
			name: "short month year going back",
			cfg:  model.MonthsConfig{Count: intp(2), StartOffset: intp(-1), Step: intp(-2), Format: model.FormatShortMonthYear},
			want: []string{"Sep 2026", "Jul 2026"},
		},
		{
			name: "unknown format is month year",
			cfg:  model.MonthsConfig{Count: intp(1), Format: "weird"},
			want: []string{"October 2026"},
		},
		{
			name: "zero count",
			cfg:  model.MonthsConfig{Count: intp(0)},
			want: []string{},
		},
		{
			name: "negative count",
			cfg:  model.MonthsConfig{Count: intp(-4)},
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(selectField(nil, model.MonthsConfigured(tt.cfg)))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveCapsCount(t *testing.T) {
	r := fixedResolver(2026, time.October, 16)
	got := r.Resolve(selectField(nil, model.MonthsConfigured(model.MonthsConfig{Count: intp(100000), Step: intp(-1)})))
	if len(got) != maxMonths {
		t.Fatalf("expected %d options, got %d", maxMonths, len(got))
	}
}

func TestResolveMergesAndDedupes(t *testing.T) {
	r := fixedResolver(2026, time.October, 16)
	got := r.Resolve(selectField([]string{"October 2026", "Later", "Later"}, model.MonthsPreset()))
	want := []string{"October 2026", "Later", "September 2026"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveMalformedDynamic(t *testing.T) {
	r := fixedResolver(2026, time.October, 16)
	for _, raw := range []any{
		"weeks",
		map[string]any{"type": "weeks"},
		map[string]any{"count": 3},
		[]any{"months"},
		42.0,
	} {
		got := r.Resolve(selectField([]string{"x"}, model.DecodeDynamicOptions(raw)))
		if diff := cmp.Diff([]string{"x"}, got); diff != "" {
			t.Errorf("raw %v: options mismatch (-want +got):\n%s", raw, diff)
		}
	}
}

func TestResolveDecodedConfigIgnoresNonNumbers(t *testing.T) {
	r := fixedResolver(2026, time.October, 16)
	d := model.DecodeDynamicOptions(map[string]any{
		"type":  "months",
		"count": "3",
		"step":  1.0,
	})
	got := r.Resolve(selectField(nil, d))
	want := []string{"October 2026", "November 2026"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveTextField(t *testing.T) {
	got := Resolve(model.NewField())
	if len(got) != 0 {
		t.Fatalf("expected no options for text field, got %v", got)
	}
}

func TestNormalizeLocale(t *testing.T) {
	tests := map[string]string{
		"":      "",
		"pl":    "pl-PL",
		" pl ":  "pl-PL",
		"pl-PL": "pl-PL",
		"en-GB": "en-GB",
		"de":    "de",
	}
	for in, want := range tests {
		if got := NormalizeLocale(in); got != want {
			t.Errorf("NormalizeLocale(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMondayLocale(t *testing.T) {
	tests := map[string]string{
		"":          "en_US",
		"pl-PL":     "pl_PL",
		"en-GB":     "en_GB",
		"de":        "de_DE",
		"fr_FR":     "fr_FR",
		"not a tag": "en_US",
	}
	for in, want := range tests {
		if got := string(mondayLocale(in)); got != want {
			t.Errorf("mondayLocale(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveOutOfRangeNumbersSameFromJSONAndYAML(t *testing.T) {
	r := fixedResolver(2026, time.October, 16)
	tests := []struct {
		name string
		json string
		yaml string
		want []string
	}{
		{
			name: "huge start offset",
			json: `{"type":"months","startOffset":5000000000}`,
			yaml: "type: months\nstartOffset: 5000000000\n",
			want: []string{"October 2026", "September 2026"},
		},
		{
			name: "huge step",
			json: `{"type":"months","step":4611686018427387904}`,
			yaml: "type: months\nstep: 4611686018427387904\n",
			want: []string{"October 2026", "September 2026"},
		},
		{
			name: "unsigned overflow count",
			json: `{"type":"months","count":18446744073709551615}`,
			yaml: "type: months\ncount: 18446744073709551615\n",
			want: []string{"October 2026", "September 2026"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromJSON, fromYAML any
			if err := json.Unmarshal([]byte(tt.json), &fromJSON); err != nil {
				t.Fatalf("json: %v", err)
			}
			if err := yaml.Unmarshal([]byte(tt.yaml), &fromYAML); err != nil {
				t.Fatalf("yaml: %v", err)
			}
			gotJSON := r.Resolve(selectField(nil, model.DecodeDynamicOptions(fromJSON)))
			gotYAML := r.Resolve(selectField(nil, model.DecodeDynamicOptions(fromYAML)))
			if diff := cmp.Diff(tt.want, gotJSON); diff != "" {
				t.Errorf("json options mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.want, gotYAML); diff != "" {
				t.Errorf("yaml options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveSkipsFarMonths(t *testing.T) {
	r := fixedResolver(2026, time.October, 16)
	cfg := model.MonthsConfig{Count: intp(3), StartOffset: intp(0), Step: intp(2000000000)}
	got := r.Resolve(selectField(nil, model.MonthsConfigured(cfg)))
	if diff := cmp.Diff([]string{"October 2026"}, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestResolvePolishMonths(t *testing.T) {
	r := fixedResolver(2026, time.October, 16)
	tests := []struct {
		name string
		cfg  model.MonthsConfig
		want []string
	}{
		{
			name: "month year",
			cfg:  model.MonthsConfig{Locale: "pl"},
			want: []string{"październik 2026", "wrzesień 2026"},
		},
		{
			name: "short month",
			cfg:  model.MonthsConfig{Count: intp(1), Format: model.FormatShortMonth, Locale: "pl"},
			want: []string{"paź"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(selectField(nil, model.MonthsConfigured(tt.cfg)))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEnglishMonthsKeepCapitals(t *testing.T) {
	got := FormatMonth(time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), model.FormatMonthYear, "en-GB")
	if got != "October 2026" {
		t.Fatalf("FormatMonth = %q", got)
	}
}
