package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/canopy/pkg/errors"
)

// FileSource reads plant files from a directory. Each .json or .toml file
// holds one [Entry]. Files are read on every call, so edits show up without
// reopening.
type FileSource struct {
	dir string
}

// NewFileSource opens dir, which must exist.
func NewFileSource(dir string) (*FileSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open catalog %s", dir).WithField("catalog")
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "catalog %s is not a directory", dir).WithField("catalog")
	}
	return &FileSource{dir: dir}, nil
}

// ReadFile decodes one plant file by extension.
func ReadFile(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var e Entry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &e)
	case ".toml":
		err = toml.Unmarshal(data, &e)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported plant file %s (want .json or .toml)", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", filepath.Base(path))
	}
	if err := errors.ValidateBotanicalName(e.BotanicalName); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *FileSource) entries() ([]*Entry, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var out []*Entry
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Name()))
		if f.IsDir() || (ext != ".json" && ext != ".toml") {
			continue
		}
		e, err := ReadFile(filepath.Join(s.dir, f.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BotanicalName < out[j].BotanicalName })
	return out, nil
}

// Lookup finds name among the directory's plant files.
func (s *FileSource) Lookup(ctx context.Context, name string) (*Entry, error) {
	entries, err := s.entries()
	if err != nil {
		return nil, err
	}
	key := Key(name)
	for _, e := range entries {
		if Key(e.BotanicalName) == key {
			return e, nil
		}
	}
	return nil, notFound(name)
}

// List summarizes every plant file.
func (s *FileSource) List(ctx context.Context) ([]Summary, error) {
	entries, err := s.entries()
	if err != nil {
		return nil, err
	}
	out := make([]Summary, len(entries))
	for i, e := range entries {
		out[i] = e.Summary()
	}
	return out, nil
}

// Put writes e as <slug>.json.
func (s *FileSource) Put(ctx context.Context, e *Entry) error {
	if err := errors.ValidateBotanicalName(e.BotanicalName); err != nil {
		return err
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, Key(e.BotanicalName)+".json"), data, 0644)
}

// Close does nothing for file sources.
func (s *FileSource) Close() error { return nil }

var (
	_ Source = (*FileSource)(nil)
	_ Writer = (*FileSource)(nil)
)
