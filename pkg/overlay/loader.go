package overlay

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type documentFile struct {
	Sections map[string]SectionOverride `json:"sections" yaml:"sections"`
	Fields   map[string]FieldOverride   `json:"fields" yaml:"fields"`
}

// LoadFS walks the provided filesystem and parses JSON/YAML overlay files.
// When fsys is nil or no overlay files are present, the returned store is
// empty. Two files overriding the same key is an error.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{
		sections: make(map[string]SectionOverride),
		fields:   make(map[string]FieldOverride),
	}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isOverlayFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("overlay: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}
		return store.merge(doc, path)
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Parse decodes a single JSON or YAML overlay document.
func Parse(data []byte, source string) (*Store, error) {
	store := &Store{
		sections: make(map[string]SectionOverride),
		fields:   make(map[string]FieldOverride),
	}
	doc, err := parseDocument(data, source)
	if err != nil {
		return nil, err
	}
	if err := store.merge(doc, source); err != nil {
		return nil, err
	}
	return store, nil
}

// Section returns the override for a section id, falling back to the
// template key for repeatable sections.
func (s *Store) Section(id string) (SectionOverride, bool) {
	if s == nil {
		return SectionOverride{}, false
	}
	if override, ok := s.sections[strings.TrimSpace(id)]; ok {
		return override, true
	}
	override, ok := s.sections[TemplateKey(id)]
	return override, ok
}

// Field returns the override for a field id, falling back to the template
// key for fields of repeatable sections.
func (s *Store) Field(id string) (FieldOverride, bool) {
	if s == nil {
		return FieldOverride{}, false
	}
	if override, ok := s.fields[strings.TrimSpace(id)]; ok {
		return override, true
	}
	override, ok := s.fields[TemplateKey(id)]
	return override, ok
}

// Empty reports whether the store holds any override.
func (s *Store) Empty() bool {
	return s == nil || (len(s.sections) == 0 && len(s.fields) == 0)
}

func (s *Store) merge(doc documentFile, source string) error {
	for key, override := range doc.Sections {
		id := strings.TrimSpace(key)
		if id == "" {
			return fmt.Errorf("overlay: file %s defines an empty section id", source)
		}
		if existing, exists := s.sections[id]; exists {
			return fmt.Errorf("overlay: duplicate section %q (files %s, %s)", id, existing.Source, source)
		}
		override.Source = source
		s.sections[id] = override
	}

	for key, override := range doc.Fields {
		id := strings.TrimSpace(key)
		if id == "" {
			return fmt.Errorf("overlay: file %s defines an empty field id", source)
		}
		if existing, exists := s.fields[id]; exists {
			return fmt.Errorf("overlay: duplicate field %q (files %s, %s)", id, existing.Source, source)
		}
		cleaned, err := cleanOptions(override.Options, id, source)
		if err != nil {
			return err
		}
		override.Options = cleaned
		override.Source = source
		s.fields[id] = override
	}
	return nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("overlay: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("overlay: parse %s: invalid JSON or YAML", source)
}

func cleanOptions(options []string, id, source string) ([]string, error) {
	if len(options) == 0 {
		return nil, nil
	}
	out := make([]string, len(options))
	for idx, option := range options {
		value := strings.TrimSpace(option)
		if value == "" {
			return nil, fmt.Errorf("overlay: file %s field %q has an empty option at index %d", source, id, idx)
		}
		out[idx] = value
	}
	return out, nil
}

func isOverlayFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
