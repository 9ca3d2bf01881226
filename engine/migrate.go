package engine

import (
	"context"
	"fmt"

	"github.com/scopeengine/core/config"
	"github.com/scopeengine/core/enginemetrics"
	"github.com/scopeengine/core/migration"
)

// MigrateResult reports whether migrate actually ran anything (spec.md
// §8 scenario S6's "run=false" on a second, already-current call).
type MigrateResult struct {
	Run     bool
	Success bool
}

// Migrate implements spec.md §4.4.6: if the scope's recorded version is
// already at or past the engine's own release version, it is a no-op
// (Run=false). Otherwise migration.Apply rewrites every raw object the
// manifest's transforms touch, and the new version is recorded in
// scope.json on success.
func (s *Scope) Migrate(ctx context.Context, verbose bool) (MigrateResult, error) {
	before := s.Config.Version
	newVersion, err := migration.Apply(ctx, s.Objects, before, verbose, s.logEntry())
	if err != nil {
		enginemetrics.ObserveMigrate("error")
		return MigrateResult{}, fmt.Errorf("engine: migrate: %w", err)
	}
	if newVersion == before {
		enginemetrics.ObserveMigrate("noop")
		return MigrateResult{Run: false, Success: true}, nil
	}

	if err := s.Persist(ctx); err != nil {
		enginemetrics.ObserveMigrate("error")
		return MigrateResult{}, err
	}

	s.Config.Version = newVersion
	if err := config.Save(s.StorageRoot, s.Config); err != nil {
		enginemetrics.ObserveMigrate("error")
		return MigrateResult{}, fmt.Errorf("engine: migrate: save %s: %w", config.FileName, err)
	}

	enginemetrics.ObserveMigrate("ran")
	return MigrateResult{Run: true, Success: true}, nil
}
