// Package library persists the template collection as one record in a
// key-value store.
package library

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"template-composer/internal/model"
	"template-composer/internal/storage"
	"template-composer/internal/validate"
)

//go:embed defaults.json
var defaultsJSON []byte

// Defaults returns the built-in seed collection.
func Defaults() model.Collection {
	c, err := validate.ParseJSON(defaultsJSON)
	if err != nil {
		panic(fmt.Sprintf("library: invalid built-in templates: %v", err))
	}
	return c
}

// Library loads and saves the collection stored under a single key.
type Library struct {
	store storage.Store
	key   string
}

func New(store storage.Store, key string) *Library {
	return &Library{store: store, key: key}
}

// Load returns the stored collection. When the record is absent, is not a
// sequence or is an empty sequence the built-in defaults are returned instead, without being
// written; fromDefaults reports that case.
func (l *Library) Load(ctx context.Context) (c model.Collection, fromDefaults bool, err error) {
	stored, ok, err := l.read(ctx)
	if err != nil {
		return nil, false, err
	}
	if !ok || len(stored) == 0 {
		return Defaults(), true, nil
	}
	return stored, false, nil
}

// Install writes the defaults when the record is absent, not a sequence or
// empty. It reports
// whether anything was written.
func (l *Library) Install(ctx context.Context) (bool, error) {
	stored, ok, err := l.read(ctx)
	if err != nil {
		return false, err
	}
	if ok && len(stored) > 0 {
		return false, nil
	}
	return true, l.Save(ctx, Defaults())
}

// Save validates c and replaces the stored record. Nothing is written when
// validation fails.
func (l *Library) Save(ctx context.Context, c model.Collection) error {
	normalized, err := validate.Validate(c)
	if err != nil {
		return err
	}
	data, err := MarshalJSON(normalized)
	if err != nil {
		return err
	}
	if err := l.store.Set(ctx, l.key, data); err != nil {
		return fmt.Errorf("save templates: %w", err)
	}
	return nil
}

func (l *Library) read(ctx context.Context) (model.Collection, bool, error) {
	data, ok, err := l.store.Get(ctx, l.key)
	if err != nil {
		return nil, false, fmt.Errorf("load templates: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false, fmt.Errorf("load templates: %w", err)
	}
	if _, isSeq := raw.([]any); !isSeq {
		return nil, false, nil
	}
	c, err := validate.Normalize(raw)
	if err != nil {
		return nil, false, fmt.Errorf("load templates: %w", err)
	}
	return c, true, nil
}

// MarshalJSON encodes c with two-space indentation.
func MarshalJSON(c model.Collection) ([]byte, error) {
	data, err := json.MarshalIndent(c.Clone(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode templates: %w", err)
	}
	return data, nil
}

// MarshalYAML encodes c as a YAML sequence.
func MarshalYAML(c model.Collection) ([]byte, error) {
	data, err := yaml.Marshal(c.Clone())
	if err != nil {
		return nil, fmt.Errorf("encode templates: %w", err)
	}
	return data, nil
}
