package host

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"template-composer/internal/clipboard"
	"template-composer/internal/library"
	"template-composer/internal/model"
	"template-composer/internal/session"
	"template-composer/internal/templatefile"
	"template-composer/internal/validate"
)

const (
	StatusSaved        = "Templates saved."
	StatusSaveFailed   = "Failed to save templates."
	StatusJSONApplied  = "JSON applied."
	StatusImportFailed = "Failed to apply JSON."
	StatusCopied       = "JSON copied."
	StatusCopyFailed   = "Failed to copy JSON."
	StatusInstalled    = "Default templates installed."
	StatusUnchanged    = "Templates already present."
	statusImported     = "Template %s imported."
	statusReplaced     = "Template %s replaced."
)

// Format selects the export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a flag value to a Format, defaulting to JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

// Editor maintains the stored collection through a session.
type Editor struct {
	lib  *library.Library
	clip clipboard.Writer
	log  zerolog.Logger
}

func NewEditor(lib *library.Library, clip clipboard.Writer, log zerolog.Logger) *Editor {
	return &Editor{lib: lib, clip: clip, log: log}
}

// Open loads the collection into a new session.
func (e *Editor) Open(ctx context.Context) (*session.Session, Status) {
	tpls, _, err := e.lib.Load(ctx)
	if err != nil {
		e.log.Error().Err(err).Msg("load templates")
		return nil, failed(StatusLoadFailed)
	}
	return session.New(tpls), Status{}
}

// Save validates and stores the working collection.
func (e *Editor) Save(ctx context.Context, s *session.Session) Status {
	err := s.Commit(func(c model.Collection) error {
		return e.lib.Save(ctx, c)
	})
	if err != nil {
		e.log.Error().Err(err).Msg("save templates")
		return validationStatus(err, StatusSaveFailed)
	}
	e.log.Info().Int("templates", s.Len()).Msg("templates saved")
	return ok(StatusSaved)
}

// Install writes the built-in templates when nothing is stored.
func (e *Editor) Install(ctx context.Context) Status {
	wrote, err := e.lib.Install(ctx)
	if err != nil {
		e.log.Error().Err(err).Msg("install default templates")
		return failed(StatusSaveFailed)
	}
	if !wrote {
		return ok(StatusUnchanged)
	}
	return ok(StatusInstalled)
}

// Reset replaces the stored collection with the built-in templates.
func (e *Editor) Reset(ctx context.Context, s *session.Session) Status {
	if err := s.Replace(library.Defaults()); err != nil {
		return validationStatus(err, StatusSaveFailed)
	}
	return e.Save(ctx, s)
}

// ApplyImport replaces the session collection with structured data in
// JSON or YAML. The session is unchanged on failure.
func (e *Editor) ApplyImport(s *session.Session, data []byte) Status {
	c, err := validate.ParseYAML(data)
	if err == nil {
		err = s.Replace(c)
	}
	if err != nil {
		e.log.Warn().Err(err).Msg("apply import")
		return validationStatus(err, StatusImportFailed)
	}
	return ok(StatusJSONApplied)
}

// ImportFile adds or replaces one template authored as a Markdown file.
func (e *Editor) ImportFile(s *session.Session, path string) Status {
	doc, err := templatefile.ParseFile(path)
	if err != nil {
		e.log.Warn().Err(err).Str("path", path).Msg("read template file")
		return failed(fmt.Sprintf("Failed to read %s.", path))
	}
	t, err := doc.Template()
	if err != nil {
		return validationStatus(err, StatusImportFailed)
	}
	c, replaced := templatefile.Upsert(s.Templates(), t)
	if err := s.Replace(c); err != nil {
		return validationStatus(err, StatusImportFailed)
	}
	if i := s.Find(t.ID); i >= 0 {
		_ = s.Select(i, session.Always)
	}
	if replaced {
		return ok(fmt.Sprintf(statusReplaced, t.ID))
	}
	return ok(fmt.Sprintf(statusImported, t.ID))
}

// Export encodes the working collection.
func (e *Editor) Export(s *session.Session, f Format) ([]byte, error) {
	if f == FormatYAML {
		return library.MarshalYAML(s.Templates())
	}
	return library.MarshalJSON(s.Templates())
}

// Copy places the JSON export on the clipboard.
func (e *Editor) Copy(ctx context.Context, s *session.Session) Status {
	data, err := library.MarshalJSON(s.Templates())
	if err == nil {
		err = e.clip.WriteText(ctx, string(data))
	}
	if err != nil {
		e.log.Error().Err(err).Msg("copy json")
		return failed(StatusCopyFailed)
	}
	return ok(StatusCopied)
}
