package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	json2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// FileCollaborator persists the settings document as an indented JSON file,
// filling the plugin-data-file role the host normally plays. A missing file
// reads as the default document; writes go through a temporary file and a
// rename.
type FileCollaborator struct {
	path string
}

// NewFileCollaborator returns a collaborator backed by the file at path.
func NewFileCollaborator(path string) *FileCollaborator {
	return &FileCollaborator{path: path}
}

// Path returns the backing file path.
func (c *FileCollaborator) Path() string { return c.path }

func (c *FileCollaborator) LoadPersistedSettings(_ context.Context) (Settings, error) {
	raw, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("store: read settings %q: %w", c.path, err)
	}
	var settings Settings
	if err := json2.Unmarshal(raw, &settings); err != nil {
		return Settings{}, fmt.Errorf("store: parse settings %q: %w", c.path, err)
	}
	if settings.PersistedData == "" {
		settings.PersistedData = "{}"
	}
	return settings, nil
}

func (c *FileCollaborator) SavePersistedSettings(_ context.Context, settings Settings) error {
	raw, err := json2.Marshal(settings, jsontext.WithIndent("  "))
	if err != nil {
		return fmt.Errorf("store: marshal settings: %w", err)
	}
	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, ".pkvs-settings-*")
	if err != nil {
		return fmt.Errorf("store: write settings %q: %w", c.path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: write settings %q: %w", c.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: write settings %q: %w", c.path, err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: write settings %q: %w", c.path, err)
	}
	return nil
}
