package formconfig

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store holds the forms loaded from a filesystem, keyed by name.
type Store struct {
	forms map[string]Form
}

// Parse decodes a single form definition. JSON is tried first, then YAML.
// source is used in error messages only.
func Parse(data []byte, source string) (Form, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Form{}, fmt.Errorf("formconfig: file %s is empty", source)
	}

	var form Form
	if err := json.Unmarshal(data, &form); err != nil {
		form = Form{}
		if yamlErr := yaml.Unmarshal(data, &form); yamlErr != nil {
			return Form{}, fmt.Errorf("formconfig: parse %s: invalid JSON or YAML: %w", source, yamlErr)
		}
	}
	form.Source = source
	return normaliseForm(form)
}

// LoadFile reads and parses the form definition at path.
func LoadFile(path string) (Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Form{}, fmt.Errorf("formconfig: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS walks fsys and parses every JSON or YAML file as a form definition.
// A nil fsys yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{forms: make(map[string]Form)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isConfigFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("formconfig: read %s: %w", path, err)
		}
		form, err := Parse(data, path)
		if err != nil {
			return err
		}
		if existing, exists := store.forms[form.Name]; exists {
			return fmt.Errorf("formconfig: duplicate form %q (files %s and %s)", form.Name, existing.Source, path)
		}
		store.forms[form.Name] = form
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Form returns the form registered under name.
func (s *Store) Form(name string) (Form, bool) {
	if s == nil {
		return Form{}, false
	}
	form, ok := s.forms[strings.TrimSpace(name)]
	return form, ok
}

// Names lists the loaded form names in sorted order.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.forms))
	for name := range s.forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

// Marshal encodes form as YAML.
func Marshal(form Form) ([]byte, error) {
	out, err := yaml.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("formconfig: marshal %q: %w", form.Name, err)
	}
	return out, nil
}

func normaliseForm(form Form) (Form, error) {
	form.Form = strings.TrimSpace(form.Form)
	if form.Form == "" {
		return Form{}, fmt.Errorf("formconfig: file %s does not name a form selector", form.Source)
	}
	form.Name = strings.TrimSpace(form.Name)
	if form.Name == "" {
		form.Name = form.Form
	}

	seen := make(map[string]struct{}, len(form.Fields))
	fields := make([]Field, 0, len(form.Fields))
	for idx, field := range form.Fields {
		field.Selector = strings.TrimSpace(field.Selector)
		if field.Selector == "" {
			return Form{}, fmt.Errorf("formconfig: form %q (file %s) field %d has no selector", form.Name, form.Source, idx)
		}
		if _, exists := seen[field.Selector]; exists {
			return Form{}, fmt.Errorf("formconfig: form %q (file %s) defines field %q twice", form.Name, form.Source, field.Selector)
		}
		seen[field.Selector] = struct{}{}
		field.ErrorContainer = strings.TrimSpace(field.ErrorContainer)

		specs := make([]RuleSpec, 0, len(field.Rules))
		for ruleIdx, spec := range field.Rules {
			spec.Rule = strings.TrimSpace(spec.Rule)
			if spec.Rule == "" {
				return Form{}, fmt.Errorf("formconfig: form %q field %q rule %d has no name", form.Name, field.Selector, ruleIdx)
			}
			specs = append(specs, spec)
		}
		field.Rules = specs
		fields = append(fields, field)
	}
	form.Fields = fields
	return form, nil
}

func isConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
