package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/orris-inc/helpdesk/internal/domain/agent"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/models"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/mapper"
)

// AgentRepository persists support agents.
type AgentRepository struct {
	db     *gorm.DB
	mapper mappers.AgentMapper
	logger logger.Interface
}

func NewAgentRepository(db *gorm.DB, logger logger.Interface) agent.Repository {
	return &AgentRepository{
		db:     db,
		mapper: mappers.NewAgentMapper(),
		logger: logger,
	}
}

func (r *AgentRepository) Create(ctx context.Context, entity *agent.Agent) error {
	model := r.mapper.ToModel(entity)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create agent in database", "error", err)
		return fmt.Errorf("failed to create agent: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set agent ID: %w", err)
	}

	r.logger.Infow("agent created successfully", "id", model.ID, "role", model.Role)
	return nil
}

func (r *AgentRepository) Update(ctx context.Context, entity *agent.Agent) error {
	model := r.mapper.ToModel(entity)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.AgentModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"name":          model.Name,
			"password_hash": model.PasswordHash,
			"role":          model.Role,
			"active":        model.Active,
			"last_login_at": model.LastLoginAt,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update agent", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update agent: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return agent.ErrAgentNotFound
	}
	return nil
}

func (r *AgentRepository) GetByEmail(ctx context.Context, email string) (*agent.Agent, error) {
	var model models.AgentModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, agent.ErrAgentNotFound
		}
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *AgentRepository) GetByID(ctx context.Context, id uint) (*agent.Agent, error) {
	var model models.AgentModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, agent.ErrAgentNotFound
		}
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *AgentRepository) List(ctx context.Context) ([]*agent.Agent, error) {
	var rows []*models.AgentModel
	if err := db.GetTxFromContext(ctx, r.db).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	return mapper.MapSliceWithError(rows, r.mapper.ToEntity)
}
