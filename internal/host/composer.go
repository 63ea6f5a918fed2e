package host

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"template-composer/internal/compose"
	"template-composer/internal/contact"
	"template-composer/internal/library"
	"template-composer/internal/merge"
	"template-composer/internal/model"
	"template-composer/internal/options"
	"template-composer/internal/placeholder"
)

const (
	StatusApplied        = "Template applied."
	StatusNoTemplate     = "Select a template first."
	StatusNoDraft        = "No active compose draft found."
	StatusApplyFailed    = "Failed to apply template."
	StatusLoadFailed     = "Failed to load templates."
	statusRequiredFormat = "Fill required field: %s"
)

// Rendered is a template with values substituted.
type Rendered struct {
	Subject       string
	Body          string
	PlainTextBody string
}

// Composer renders templates into the active compose draft.
type Composer struct {
	lib      *library.Library
	draft    compose.Accessor
	contacts *contact.Resolver
	options  *options.Resolver
	log      zerolog.Logger
}

func NewComposer(lib *library.Library, draft compose.Accessor, contacts *contact.Resolver, opts *options.Resolver, log zerolog.Logger) *Composer {
	if contacts == nil {
		contacts = contact.NewResolver(nil)
	}
	if opts == nil {
		opts = options.New("")
	}
	return &Composer{lib: lib, draft: draft, contacts: contacts, options: opts, log: log}
}

// Load returns the stored collection, or the built-in templates when none
// are stored.
func (c *Composer) Load(ctx context.Context) (model.Collection, Status) {
	tpls, fromDefaults, err := c.lib.Load(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("load templates")
		return nil, failed(StatusLoadFailed)
	}
	if fromDefaults {
		c.log.Debug().Msg("no stored templates; using built-in defaults")
	}
	return tpls, Status{}
}

// Options returns the choices shown for field f.
func (c *Composer) Options(f model.Field) []string {
	return c.options.Resolve(f)
}

// Values builds the value map for one render. Contact values of the first
// recipient are merged under the user's values; every field id is then
// present, select fields defaulting to their first option and the rest to
// the empty string.
func (c *Composer) Values(ctx context.Context, t model.Template, to []contact.Recipient, user model.ValueMap) model.ValueMap {
	var contactValues model.ValueMap
	if len(to) > 0 {
		ct, err := c.contacts.Resolve(ctx, to[0])
		if err != nil {
			c.log.Warn().Err(err).Msg("contact lookup failed; using recipient text")
			ct = contact.FromAddress(to[0].Address)
		}
		contactValues = merge.ContactValues(ct)
	}
	values := merge.Merge(contactValues, user)
	for _, f := range t.Fields {
		if f.ID == "" {
			continue
		}
		if _, ok := values[f.ID]; ok {
			continue
		}
		values[f.ID] = ""
		if f.Type == model.FieldSelect {
			if opts := c.options.Resolve(f); len(opts) > 0 {
				values[f.ID] = opts[0]
			}
		}
	}
	return values
}

// MissingRequired returns the first required field whose value is blank.
func MissingRequired(t model.Template, values model.ValueMap) (string, bool) {
	for _, f := range t.Fields {
		if f.Required && strings.TrimSpace(values[f.ID]) == "" {
			return f.ID, true
		}
	}
	return "", false
}

// Render substitutes values into t.
func Render(t model.Template, values model.ValueMap) Rendered {
	body := placeholder.Substitute(t.Body, values)
	return Rendered{
		Subject:       placeholder.Substitute(t.Subject, values),
		Body:          body,
		PlainTextBody: placeholder.PlainText(body),
	}
}

// Preview renders t for the given recipients without touching the draft.
func (c *Composer) Preview(ctx context.Context, t model.Template, to []contact.Recipient, user model.ValueMap) Rendered {
	return Render(t, c.Values(ctx, t, to, user))
}

// Apply renders t for the draft's first recipient and writes the result
// into the draft.
func (c *Composer) Apply(ctx context.Context, t *model.Template, user model.ValueMap) (Rendered, Status) {
	if t == nil {
		return Rendered{}, failed(StatusNoTemplate)
	}
	details, err := c.draft.GetComposeDetails(ctx)
	if errors.Is(err, compose.ErrNoDraft) {
		return Rendered{}, failed(StatusNoDraft)
	}
	if err != nil {
		c.log.Error().Err(err).Msg("read compose details")
		return Rendered{}, failed(StatusApplyFailed)
	}

	values := c.Values(ctx, *t, details.To, user)
	if id, missing := MissingRequired(*t, values); missing {
		return Rendered{}, failed(fmt.Sprintf(statusRequiredFormat, id))
	}

	r := Render(*t, values)
	if err := c.draft.SetComposeDetails(ctx, compose.Update{
		Subject:       r.Subject,
		Body:          r.Body,
		PlainTextBody: r.PlainTextBody,
	}); err != nil {
		c.log.Error().Err(err).Str("template", t.ID).Msg("write compose details")
		return Rendered{}, failed(StatusApplyFailed)
	}
	c.log.Info().Str("template", t.ID).Msg("template applied")
	return r, ok(StatusApplied)
}
