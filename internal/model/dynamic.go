package model

// DynamicKind tags the DynamicOptions variants.
type DynamicKind int

const (
	// DynamicNone means the field has no computed options.
	DynamicNone DynamicKind = iota
	// DynamicMonthsPreset is the literal "months" tag.
	DynamicMonthsPreset
	// DynamicMonthsConfigured is an object tagged {"type": "months", ...}.
	DynamicMonthsConfigured
	// DynamicUnrecognized is any other authored value. It contributes no
	// options but is kept so an export round-trips what the author wrote.
	DynamicUnrecognized
)

// MonthsPresetTag is the literal value selecting the months preset.
const MonthsPresetTag = "months"

// Month label formats.
const (
	FormatMonth          = "month"
	FormatShortMonth     = "shortMonth"
	FormatShortMonthYear = "shortMonthYear"
	FormatMonthYear      = "monthYear"
)

// MonthsConfig is an explicit relative-month configuration. Nil numbers were
// absent or not finite numbers in the authored value.
type MonthsConfig struct {
	Count       *int
	StartOffset *int
	Step        *int
	Format      string
	Locale      string
}

// DynamicOptions describes computed select options.
type DynamicOptions struct {
	Kind   DynamicKind
	Months MonthsConfig
	raw    any
}

// MonthsPreset returns the "months" preset.
func MonthsPreset() DynamicOptions {
	return DynamicOptions{Kind: DynamicMonthsPreset}
}

// MonthsConfigured returns an explicit months configuration.
func MonthsConfigured(cfg MonthsConfig) DynamicOptions {
	return DynamicOptions{Kind: DynamicMonthsConfigured, Months: cfg}
}

// IsZero reports whether no dynamic options are configured.
func (d DynamicOptions) IsZero() bool {
	return d.Kind == DynamicNone
}

type monthsDoc struct {
	Type        string `json:"type" yaml:"type"`
	Count       *int   `json:"count,omitempty" yaml:"count,omitempty"`
	StartOffset *int   `json:"startOffset,omitempty" yaml:"startOffset,omitempty"`
	Step        *int   `json:"step,omitempty" yaml:"step,omitempty"`
	Format      string `json:"format,omitempty" yaml:"format,omitempty"`
	Locale      string `json:"locale,omitempty" yaml:"locale,omitempty"`
}

func (d DynamicOptions) export() any {
	switch d.Kind {
	case DynamicMonthsPreset:
		return MonthsPresetTag
	case DynamicMonthsConfigured:
		return monthsDoc{
			Type:        MonthsPresetTag,
			Count:       d.Months.Count,
			StartOffset: d.Months.StartOffset,
			Step:        d.Months.Step,
			Format:      d.Months.Format,
			Locale:      d.Months.Locale,
		}
	case DynamicUnrecognized:
		return d.raw
	default:
		return nil
	}
}

func (d DynamicOptions) clone() DynamicOptions {
	out := d
	out.Months.Count = cloneInt(d.Months.Count)
	out.Months.StartOffset = cloneInt(d.Months.StartOffset)
	out.Months.Step = cloneInt(d.Months.Step)
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// DecodeDynamicOptions interprets an authored optionsDynamic value. It never
// fails: unknown shapes become DynamicUnrecognized.
func DecodeDynamicOptions(raw any) DynamicOptions {
	if raw == nil {
		return DynamicOptions{}
	}
	if s, ok := raw.(string); ok {
		switch s {
		case "":
			return DynamicOptions{}
		case MonthsPresetTag:
			return MonthsPreset()
		}
		return DynamicOptions{Kind: DynamicUnrecognized, raw: s}
	}
	m, ok := asObject(raw)
	if !ok || asString(m["type"]) != MonthsPresetTag {
		return DynamicOptions{Kind: DynamicUnrecognized, raw: raw}
	}
	cfg := MonthsConfig{
		Format: asString(m["format"]),
		Locale: asString(m["locale"]),
	}
	if n, ok := asInt(m["count"]); ok {
		cfg.Count = &n
	}
	if n, ok := asInt(m["startOffset"]); ok {
		cfg.StartOffset = &n
	}
	if n, ok := asInt(m["step"]); ok {
		cfg.Step = &n
	}
	return MonthsConfigured(cfg)
}
