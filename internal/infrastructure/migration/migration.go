// Package migration keeps the ticket store schema current.
// Production runs the versioned goose scripts; development may use gorm AutoMigrate.
package migration

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/models"
	"github.com/orris-inc/helpdesk/internal/shared/constants"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

// Strategy applies schema changes to a database.
type Strategy interface {
	Migrate(ctx context.Context, db *gorm.DB) error
	Name() string
}

// AutoMigrateStrategy derives the schema from the gorm models.
type AutoMigrateStrategy struct {
	models []interface{}
	logger logger.Interface
}

func NewAutoMigrateStrategy(log logger.Interface) *AutoMigrateStrategy {
	return &AutoMigrateStrategy{
		models: Models(),
		logger: log.With("component", "migration.automigrate"),
	}
}

// Models lists every table owned by the service. casbin_rule is created by the casbin adapter.
func Models() []interface{} {
	return []interface{}{
		&models.TicketModel{},
		&models.CommentModel{},
		&models.AttachmentModel{},
		&models.StatusChangeModel{},
		&models.OutboxMessageModel{},
		&models.AgentModel{},
	}
}

func (s *AutoMigrateStrategy) Name() string {
	return "gorm_auto_migrate"
}

func (s *AutoMigrateStrategy) Migrate(ctx context.Context, db *gorm.DB) error {
	s.logger.Infow("running gorm auto migrate", "models", len(s.models))
	if err := db.WithContext(ctx).AutoMigrate(s.models...); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

// Manager picks a strategy for the environment and runs it.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager uses AutoMigrate in development and goose scripts everywhere else.
func NewManager(environment string, log logger.Interface) *Manager {
	var strategy Strategy
	switch strings.ToLower(environment) {
	case constants.EnvDevelopment:
		strategy = NewAutoMigrateStrategy(log)
	default:
		strategy = NewGooseStrategy(log)
	}
	return NewManagerWithStrategy(strategy, log)
}

func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

// Strategy returns the strategy the manager runs.
func (m *Manager) Strategy() Strategy {
	return m.strategy
}

func (m *Manager) Migrate(ctx context.Context, db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.Name())

	if err := m.strategy.Migrate(ctx, db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.Name(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.Name(), err)
	}

	m.logger.Infow("database migration completed", "strategy", m.strategy.Name())
	return nil
}
