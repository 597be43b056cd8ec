package migration

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

//go:embed scripts/*.sql
var embeddedScripts embed.FS

// ScriptsDir is where `migrate create` writes new scripts, relative to the repo root.
const ScriptsDir = "internal/infrastructure/migration/scripts"

// VersionStatus describes one versioned script and whether it has run.
type VersionStatus struct {
	Version   int64
	Source    string
	Applied   bool
	AppliedAt time.Time
}

// GooseStrategy applies the versioned SQL scripts with goose.
type GooseStrategy struct {
	fsys    fs.FS
	dialect goose.Dialect
	logger  logger.Interface
}

// NewGooseStrategy runs the scripts embedded in the binary against MySQL.
func NewGooseStrategy(log logger.Interface) *GooseStrategy {
	sub, err := fs.Sub(embeddedScripts, "scripts")
	if err != nil {
		// embed guarantees the directory exists
		panic(fmt.Sprintf("migration scripts missing from binary: %v", err))
	}
	return NewGooseStrategyWithFS(sub, goose.DialectMySQL, log)
}

// NewGooseStrategyWithFS runs the scripts found at the root of fsys.
func NewGooseStrategyWithFS(fsys fs.FS, dialect goose.Dialect, log logger.Interface) *GooseStrategy {
	return &GooseStrategy{
		fsys:    fsys,
		dialect: dialect,
		logger:  log.With("component", "migration.goose"),
	}
}

func (s *GooseStrategy) Name() string {
	return "goose"
}

func (s *GooseStrategy) provider(db *gorm.DB) (*goose.Provider, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	p, err := goose.NewProvider(s.dialect, sqlDB, s.fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create goose provider: %w", err)
	}
	return p, nil
}

// Migrate applies every pending script.
func (s *GooseStrategy) Migrate(ctx context.Context, db *gorm.DB) error {
	p, err := s.provider(db)
	if err != nil {
		return err
	}

	from, err := p.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	results, err := p.Up(ctx)
	if err != nil {
		s.logger.Errorw("migration failed", "from_version", from, "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	for _, r := range results {
		s.logger.Infow("applied migration",
			"version", r.Source.Version,
			"duration", r.Duration)
	}

	to, err := p.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get final version: %w", err)
	}

	s.logger.Infow("migration completed",
		"from_version", from,
		"to_version", to,
		"applied", len(results))
	return nil
}

// Down rolls back the given number of applied scripts, newest first.
func (s *GooseStrategy) Down(ctx context.Context, db *gorm.DB, steps int) error {
	if steps < 1 {
		return fmt.Errorf("steps must be at least 1, got %d", steps)
	}

	p, err := s.provider(db)
	if err != nil {
		return err
	}

	for i := 0; i < steps; i++ {
		r, err := p.Down(ctx)
		if err != nil {
			s.logger.Errorw("down migration failed", "step", i+1, "error", err)
			return fmt.Errorf("failed to run down migration: %w", err)
		}
		s.logger.Infow("rolled back migration", "version", r.Source.Version)
	}
	return nil
}

// Version returns the highest applied script version, or 0.
func (s *GooseStrategy) Version(ctx context.Context, db *gorm.DB) (int64, error) {
	p, err := s.provider(db)
	if err != nil {
		return 0, err
	}
	version, err := p.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

// Status lists every known script in version order.
func (s *GooseStrategy) Status(ctx context.Context, db *gorm.DB) ([]VersionStatus, error) {
	p, err := s.provider(db)
	if err != nil {
		return nil, err
	}
	statuses, err := p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	out := make([]VersionStatus, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, VersionStatus{
			Version:   st.Source.Version,
			Source:    st.Source.Path,
			Applied:   st.State == goose.StateApplied,
			AppliedAt: st.AppliedAt,
		})
	}
	return out, nil
}

// Create writes a new timestamped SQL script into dir.
func Create(dir, name string) error {
	if name == "" {
		return fmt.Errorf("migration name is required")
	}
	if err := goose.Create(nil, dir, name, "sql"); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}
	return nil
}
