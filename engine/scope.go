package engine

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/scopeengine/core/config"
	"github.com/scopeengine/core/enginemetrics"
	"github.com/scopeengine/core/hooks"
	"github.com/scopeengine/core/internal/objectstore"
	"github.com/scopeengine/core/internal/objectstore/driver/filesystem"
	"github.com/scopeengine/core/internal/sourcesrepo"
	"github.com/scopeengine/core/remotes"
	"github.com/scopeengine/core/remotes/httpremote"
	"github.com/scopeengine/core/sourcescache"
)

// Scope is the façade spec.md §4.4 describes: one object store plus
// metadata, exposing PutMany/ImportMany/ExportMany and the lifecycle/
// bump/migrate operations. It owns its Repository exclusively for its
// process lifetime (spec.md §5); two Scope values must never be opened
// against the same storage root concurrently.
type Scope struct {
	StorageRoot string
	WorkingDir  string

	Config   *config.Config
	Objects  *objectstore.Repository
	Sources  *sourcesrepo.Repository
	Hooks    *hooks.Hooks
	Remotes  *remotes.Resolver
	Cache    sourcescache.Cache
	Resolver ComponentResolver

	logger *logrus.Entry
}

type scopeOptions struct {
	global   *remotes.Resolver
	cache    sourcescache.Cache
	logger   *logrus.Entry
	resolver ComponentResolver
}

// Option configures Open. Each follows spec.md §9's "inject rather than
// read from module state" note: a caller that wants process-wide global
// remotes, a shared redis cache, or a custom component resolver passes it
// in explicitly instead of Scope reaching for an ambient global.
type Option func(*scopeOptions)

// WithGlobalRemotes supplies the process-wide remotes composed underneath
// scope.json's local overrides (spec.md §4.5).
func WithGlobalRemotes(r *remotes.Resolver) Option {
	return func(o *scopeOptions) { o.global = r }
}

// WithCache overrides the default in-process sourcescache.MemoryCache,
// e.g. with a redis-backed cache shared across invocations.
func WithCache(c sourcescache.Cache) Option {
	return func(o *scopeOptions) { o.cache = c }
}

// WithLogger overrides the default logrus.StandardLogger-backed entry.
func WithLogger(logger *logrus.Entry) Option {
	return func(o *scopeOptions) { o.logger = logger }
}

// WithComponentResolver supplies the capability LoadEnvironment uses to
// locate an id's module or path (spec.md §6 componentResolver).
func WithComponentResolver(r ComponentResolver) Option {
	return func(o *scopeOptions) { o.resolver = r }
}

// Open detects the scope root above startPath (Detect), loads scope.json,
// and wires together the Object Repository, Sources Repository, hooks,
// remotes, and cache that back every façade operation.
func Open(startPath string, opts ...Option) (*Scope, error) {
	storageRoot, workingDir, err := Detect(startPath)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(storageRoot)
	if err != nil {
		return nil, fmt.Errorf("engine: load %s: %w", config.FileName, err)
	}

	return newScope(storageRoot, workingDir, cfg, opts...)
}

// Init creates a fresh scope at dir: scope.json at the engine's current
// version plus an empty object store, then opens it. useDotDir places
// scope.json and objects/ under dir/.bit instead of dir itself, matching
// spec.md §6's "<cwd> or a hidden .bit subdirectory".
func Init(dir string, cfg *config.Config, useDotDir bool) (*Scope, error) {
	storageRoot := dir
	if useDotDir {
		storageRoot = dir + string(os.PathSeparator) + dotDir
	}
	if err := os.MkdirAll(storageRoot+string(os.PathSeparator)+"objects", 0o777); err != nil {
		return nil, fmt.Errorf("engine: init %s: %w", storageRoot, err)
	}
	if err := config.Save(storageRoot, cfg); err != nil {
		return nil, err
	}
	return newScope(storageRoot, dir, cfg)
}

func newScope(storageRoot, workingDir string, cfg *config.Config, opts ...Option) (*Scope, error) {
	options := scopeOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	logger := options.logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	d := filesystem.New(storageRoot)
	objects := objectstore.New(d)
	sources := sourcesrepo.New(objects, cfg.Name)

	h := hooks.New(logger, hooks.NewLoggingSink(logger))

	local := remotes.NewResolver()
	for name, url := range cfg.Remotes {
		local.Register(httpremote.New(name, strings.TrimSuffix(url, "/"), logger))
	}
	resolver := remotes.Compose(options.global, local)

	cache := options.cache
	if cache == nil {
		cache = sourcescache.NewMemoryCache()
	}

	return &Scope{
		StorageRoot: storageRoot,
		WorkingDir:  workingDir,
		Config:      cfg,
		Objects:     objects,
		Sources:     sources,
		Hooks:       h,
		Remotes:     resolver,
		Cache:       cache,
		Resolver:    options.resolver,
		logger:      logger,
	}, nil
}

// Close releases whatever resources Open acquired (currently, just the
// hook broadcaster's sinks).
func (s *Scope) Close() error {
	return s.Hooks.Close()
}

// Persist flushes every staged object-repository change, timing the call
// for enginemetrics.
func (s *Scope) Persist(ctx context.Context) error {
	start := time.Now()
	defer enginemetrics.TimePersist(start)
	return s.Objects.Persist(ctx)
}

func (s *Scope) logEntry() *logrus.Entry {
	if s.logger == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return s.logger
}
