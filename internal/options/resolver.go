// Package options expands the selectable values of select fields, merging
// author-typed choices with computed ones such as relative month lists.
package options

import (
	"time"

	"template-composer/internal/model"
)

const (
	defaultCount       = 2
	defaultStartOffset = 0
	defaultStep        = -1

	// maxMonths bounds a single dynamic list.
	maxMonths = 120
	// maxMonthOffset bounds how far from the current month a label may be;
	// dates further out are skipped.
	maxMonthOffset = 12 * 10000
)

// Resolver computes effective option lists against a clock and a fallback
// locale for month labels.
type Resolver struct {
	Now           func() time.Time
	DefaultLocale string
}

// New returns a Resolver using the wall clock.
func New(defaultLocale string) *Resolver {
	return &Resolver{Now: time.Now, DefaultLocale: defaultLocale}
}

var std = New("en-US")

// Resolve returns the effective options of f using the wall clock.
func Resolve(f model.Field) []string {
	return std.Resolve(f)
}

// Resolve returns the static options of f followed by its dynamic options,
// de-duplicated with first occurrence kept. It never fails; a dynamic
// configuration it cannot interpret contributes nothing.
func (r *Resolver) Resolve(f model.Field) []string {
	merged := append([]string{}, f.StaticOptions()...)
	merged = append(merged, r.dynamic(f.DynamicOptions())...)
	return dedupe(merged)
}

func (r *Resolver) dynamic(d model.DynamicOptions) []string {
	switch d.Kind {
	case model.DynamicMonthsPreset:
		return r.months(monthSpec{
			count:       defaultCount,
			startOffset: defaultStartOffset,
			step:        defaultStep,
			format:      model.FormatMonthYear,
		})
	case model.DynamicMonthsConfigured:
		return r.months(monthSpec{
			count:       intOr(d.Months.Count, defaultCount),
			startOffset: intOr(d.Months.StartOffset, defaultStartOffset),
			step:        intOr(d.Months.Step, defaultStep),
			format:      d.Months.Format,
			locale:      NormalizeLocale(d.Months.Locale),
		})
	default:
		return nil
	}
}

type monthSpec struct {
	count       int
	startOffset int
	step        int
	format      string
	locale      string
}

// months generates count labels; the i-th is startOffset+step*i months away
// from the first day of the current month.
func (r *Resolver) months(spec monthSpec) []string {
	count := spec.count
	if count <= 0 {
		return nil
	}
	if count > maxMonths {
		count = maxMonths
	}
	locale := spec.locale
	if locale == "" {
		locale = NormalizeLocale(r.DefaultLocale)
	}
	now := r.now()
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		offset := int64(spec.startOffset) + int64(spec.step)*int64(i)
		if offset < -maxMonthOffset || offset > maxMonthOffset {
			continue
		}
		date := base.AddDate(0, int(offset), 0)
		out = append(out, FormatMonth(date, spec.format, locale))
	}
	return out
}

func (r *Resolver) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
