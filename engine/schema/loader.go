package schema

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"

	"github.com/inboxeng/deploykit/engine/core"
	"github.com/inboxeng/deploykit/pkg/logger"
)

// DefaultCacheSize bounds the schema cache when the caller does not
// configure one.
const DefaultCacheSize = 64

// fragmentExtensions are tried in order when resolving a layer document.
var fragmentExtensions = []string{".json", ".yaml", ".yml"}

// Manifest is the per-category store manifest carrying the schema version.
type Manifest struct {
	ID      CategoryID `json:"id"      validate:"required"`
	Version string     `json:"version" validate:"required"`
}

// Loader resolves business-category identifiers to their schema triple
// from a directory-per-category fragment store. Loads are cached by
// id@version, so a version bump in the manifest naturally misses the cache
// and a stale entry is never served. Safe for concurrent use; redundant
// fills on concurrent misses are idempotent.
type Loader struct {
	fs       afero.Fs
	dir      string
	cache    *lru.Cache[string, *BusinessCategorySchema]
	versions sync.Map // CategoryID -> last seen version, for Invalidate
	log      logger.Logger
}

// NewLoader creates a Loader over the store rooted at dir.
func NewLoader(fs afero.Fs, dir string, cacheSize int) (*Loader, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *BusinessCategorySchema](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema cache: %w", err)
	}
	return &Loader{
		fs:    fs,
		dir:   dir,
		cache: cache,
		log:   logger.GetDefault(),
	}, nil
}

// Load resolves the schema triple for id. The returned value is a deep
// copy; the cached original stays immutable.
func (l *Loader) Load(ctx context.Context, id CategoryID) (*BusinessCategorySchema, error) {
	if id == "" {
		return nil, core.NewErrorf(core.ErrCodeInvalidArgument, "category identifier must not be empty")
	}
	manifest, err := l.readManifest(id)
	if err != nil {
		return nil, err
	}
	l.versions.Store(id, manifest.Version)
	key := cacheKey(id, manifest.Version)
	if cached, ok := l.cache.Get(key); ok {
		return core.DeepCopy(cached)
	}
	schema, err := l.loadFromStore(ctx, manifest)
	if err != nil {
		return nil, err
	}
	l.cache.Add(key, schema)
	l.log.Debug("schema loaded", "category", id, "version", manifest.Version)
	return core.DeepCopy(schema)
}

// LoadAll resolves every id in order, preserving selection order.
func (l *Loader) LoadAll(ctx context.Context, ids []CategoryID) ([]*BusinessCategorySchema, error) {
	if len(ids) == 0 {
		return nil, core.NewErrorf(core.ErrCodeInvalidArgument, "at least one category must be selected")
	}
	schemas := make([]*BusinessCategorySchema, 0, len(ids))
	for _, id := range ids {
		s, err := l.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	return schemas, nil
}

// Invalidate drops the cached entry for the last seen version of id.
func (l *Loader) Invalidate(id CategoryID) {
	if version, ok := l.versions.Load(id); ok {
		l.cache.Remove(cacheKey(id, version.(string)))
	}
}

func cacheKey(id CategoryID, version string) string {
	return fmt.Sprintf("%s@%s", id, version)
}

func (l *Loader) readManifest(id CategoryID) (*Manifest, error) {
	path, data, err := l.readFirst(id, "manifest")
	if err != nil {
		return nil, core.NewError(err, core.ErrCodeInvalidArgument, map[string]any{
			"category": id.String(),
		})
	}
	doc, err := decodeDocument(path, data)
	if err != nil {
		return nil, l.loadFailure(id, err)
	}
	var manifest Manifest
	if err := decodeFragment(doc, &manifest); err != nil {
		return nil, l.loadFailure(id, err)
	}
	if manifest.ID == "" {
		manifest.ID = id
	}
	if manifest.ID != id {
		return nil, l.loadFailure(id, fmt.Errorf("manifest id %q does not match directory %q", manifest.ID, id))
	}
	if manifest.Version == "" {
		manifest.Version = "v1"
	}
	return &manifest, nil
}

func (l *Loader) loadFromStore(_ context.Context, manifest *Manifest) (*BusinessCategorySchema, error) {
	id := manifest.ID
	schema := &BusinessCategorySchema{ID: id, Version: manifest.Version}
	targets := map[Layer]any{
		LayerClassification: &schema.Classification,
		LayerBehavior:       &schema.Behavior,
		LayerLabels:         &schema.Labels,
	}
	for _, layer := range Layers {
		path, data, err := l.readFirst(id, string(layer))
		if err != nil {
			return nil, l.loadFailure(id, err)
		}
		doc, err := decodeDocument(path, data)
		if err != nil {
			return nil, l.loadFailure(id, err)
		}
		if err := validateLayer(layer, doc); err != nil {
			return nil, l.loadFailure(id, err)
		}
		if err := decodeFragment(doc, targets[layer]); err != nil {
			return nil, l.loadFailure(id, err)
		}
	}
	if err := applyDefaults(schema); err != nil {
		return nil, l.loadFailure(id, err)
	}
	if err := validateSchema(schema); err != nil {
		return nil, l.loadFailure(id, err)
	}
	return schema, nil
}

// readFirst returns the first existing <dir>/<id>/<base><ext> document.
func (l *Loader) readFirst(id CategoryID, base string) (string, []byte, error) {
	for _, ext := range fragmentExtensions {
		path := filepath.Join(l.dir, id.String(), base+ext)
		exists, err := afero.Exists(l.fs, path)
		if err != nil {
			return "", nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !exists {
			continue
		}
		data, err := afero.ReadFile(l.fs, path)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return path, data, nil
	}
	return "", nil, fmt.Errorf("no %s document found for category %q", base, id)
}

func (l *Loader) loadFailure(id CategoryID, err error) error {
	return core.NewError(err, core.ErrCodeSchemaLoadFailure, map[string]any{
		"category": id.String(),
	})
}
