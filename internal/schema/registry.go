// =============================================================================
// Order Slip Generator - Schema Registry
// =============================================================================
//
// The registry resolves a platform selector to its PlatformSchema. The five
// built-in schemas ship as an embedded YAML asset; extra or overriding
// schemas can be dropped into a directory of YAML files, in the same format,
// without any code change downstream.
//
// FILE FORMAT:
//   platforms:
//     - id: tiktok
//       label: TikTok
//       price_format: currency_prefixed
//       columns:
//         customer_name: Recipient
//         ...
//
// =============================================================================

package schema

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/order-slip-generator/internal/types"
)

//go:embed platforms.yaml
var builtinPlatforms []byte

// schemaFile is the on-disk shape of a platform schema file.
type schemaFile struct {
	Platforms []PlatformSchema `yaml:"platforms"`
}

// Registry holds the resolvable platform schemas. It is built once per run
// and only read afterwards.
type Registry struct {
	schemas map[string]*PlatformSchema
}

// NewRegistry returns a registry holding the built-in platform schemas.
func NewRegistry() (*Registry, error) {
	r := &Registry{schemas: make(map[string]*PlatformSchema)}
	if err := r.load(builtinPlatforms, "builtin platforms.yaml"); err != nil {
		return nil, err
	}
	return r, nil
}

// Default returns the built-in registry. It panics if the embedded asset is
// invalid, which only a broken build can cause.
func Default() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve returns the schema for a platform id. Matching ignores case and
// surrounding whitespace.
func (r *Registry) Resolve(platformID string) (*PlatformSchema, error) {
	s, ok := r.schemas[normalizeID(platformID)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			types.ErrUnknownPlatform, platformID, strings.Join(r.IDs(), ", "))
	}
	return s, nil
}

// IDs returns the registered platform ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.schemas))
	for id := range r.schemas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadDir adds every *.yaml / *.yml schema file in dir to the registry.
// A schema whose id is already registered replaces the existing one.
func (r *Registry) LoadDir(dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return fmt.Errorf("failed to list schema files: %w", err)
	}
	ymlFiles, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to list schema files: %w", err)
	}
	files = append(files, ymlFiles...)
	sort.Strings(files)

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read schema file: %w", err)
		}
		if err := r.load(data, file); err != nil {
			return err
		}
	}
	return nil
}

// load parses one schema document and registers its platforms.
func (r *Registry) load(data []byte, source string) error {
	var doc schemaFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", source, err)
	}

	for i := range doc.Platforms {
		s := doc.Platforms[i]
		s.ID = normalizeID(s.ID)
		if s.Label == "" {
			s.Label = s.ID
		}
		if s.PriceFormat == "" {
			s.PriceFormat = PricePlain
		}
		if err := s.validate(); err != nil {
			return fmt.Errorf("invalid schema in %s: %w", source, err)
		}
		r.schemas[s.ID] = &s
	}
	return nil
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
