package options

import (
	"strings"
	"sync"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"template-composer/internal/model"
)

const fallbackLocale = monday.LocaleEnUS

// NormalizeLocale expands the bare "pl" tag to its region-qualified form.
// Other tags pass through unchanged.
func NormalizeLocale(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "pl" {
		return "pl-PL"
	}
	return tag
}

// FormatMonth renders the month of date according to format: "month" (full
// name), "shortMonth", "shortMonthYear", and "monthYear" (the default).
func FormatMonth(date time.Time, format, locale string) string {
	layout := "January 2006"
	switch format {
	case model.FormatMonth:
		layout = "January"
	case model.FormatShortMonth:
		layout = "Jan"
	case model.FormatShortMonthYear:
		layout = "Jan 2006"
	}
	loc := mondayLocale(locale)
	out := monday.Format(date, layout, loc)
	if tag, ok := lowercaseMonths(loc); ok {
		out = cases.Lower(tag).String(out)
	}
	return out
}

// Languages whose standalone month names are written in lower case. monday
// capitalizes them.
var lowerMonthLanguages = map[string]bool{
	"bg": true, "ca": true, "cs": true, "da": true, "es": true, "et": true,
	"fi": true, "fr": true, "hr": true, "hu": true, "it": true, "lt": true,
	"lv": true, "nb": true, "nl": true, "nn": true, "pl": true, "pt": true,
	"ro": true, "ru": true, "sk": true, "sl": true, "sv": true, "uk": true,
}

func lowercaseMonths(loc monday.Locale) (language.Tag, bool) {
	tag, err := language.Parse(strings.ReplaceAll(string(loc), "_", "-"))
	if err != nil {
		return language.Und, false
	}
	base, _ := tag.Base()
	return tag, lowerMonthLanguages[base.String()]
}

var (
	supportedOnce sync.Once
	supported     map[monday.Locale]struct{}
)

// mondayLocale maps a BCP 47 tag onto a locale monday knows. A tag without
// a region gets its most likely region; an unsupported region falls back to
// another region of the same language, then to en_US.
func mondayLocale(tag string) monday.Locale {
	supportedOnce.Do(func() {
		supported = make(map[monday.Locale]struct{})
		for _, l := range monday.ListLocales() {
			supported[l] = struct{}{}
		}
	})
	if tag == "" {
		return fallbackLocale
	}
	parsed, err := language.Parse(strings.ReplaceAll(tag, "_", "-"))
	if err != nil {
		return fallbackLocale
	}
	base, _ := parsed.Base()
	region, _ := parsed.Region()
	candidate := monday.Locale(base.String() + "_" + region.String())
	if _, ok := supported[candidate]; ok {
		return candidate
	}
	prefix := base.String() + "_"
	var best monday.Locale
	for l := range supported {
		if strings.HasPrefix(string(l), prefix) && (best == "" || l < best) {
			best = l
		}
	}
	if best != "" {
		return best
	}
	return fallbackLocale
}
