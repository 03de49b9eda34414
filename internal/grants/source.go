package grants

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"erp-portal/internal/rbac"

	"gopkg.in/yaml.v3"
)

const (
	errDecodeCatalogFmt = "failed to decode grant catalog: %w"
	errReadFileFmt      = "failed to read grant file %s: %w"
	errFetchObjectFmt   = "failed to fetch s3://%s/%s: %w"
	errQueryGrantsFmt   = "failed to query role grants: %w"
	errScanGrantFmt     = "failed to scan role grant: %w"
	errRemoteRolesFmt   = "failed to list remote roles: %w"
	errReloadFmt        = "reload from %s failed: %w"
)

// ErrEmptyCatalog is returned when a source yields no roles at all
var ErrEmptyCatalog = errors.New("grant catalog is empty")

// Source loads the role grant catalog from one backend
type Source interface {
	Name() string
	Load(ctx context.Context) (rbac.Catalog, error)
}

// Decode parses a YAML (or JSON) catalog document. Unknown fields are
// rejected so a misspelled key does not silently drop grants.
func Decode(r io.Reader) (rbac.Catalog, error) {
	var catalog rbac.Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&catalog); err != nil {
		if errors.Is(err, io.EOF) {
			return rbac.Catalog{}, ErrEmptyCatalog
		}
		return rbac.Catalog{}, fmt.Errorf(errDecodeCatalogFmt, err)
	}
	return catalog, nil
}

// PresetSource serves a built-in catalog
type PresetSource struct {
	catalog rbac.Catalog
}

func NewPresetSource(catalog rbac.Catalog) *PresetSource {
	return &PresetSource{catalog: catalog}
}

func (s *PresetSource) Name() string { return "preset" }

func (s *PresetSource) Load(_ context.Context) (rbac.Catalog, error) {
	return s.catalog, nil
}

// FileSource reads a YAML catalog from disk on every load
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "file:" + s.path }

func (s *FileSource) Load(_ context.Context) (rbac.Catalog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return rbac.Catalog{}, fmt.Errorf(errReadFileFmt, s.path, err)
	}
	return Decode(bytes.NewReader(data))
}
