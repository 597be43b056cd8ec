package mappers

import (
	"github.com/orris-inc/helpdesk/internal/domain/agent"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/models"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
)

// AgentMapper handles the conversion between agent entities and persistence models.
type AgentMapper interface {
	ToEntity(model *models.AgentModel) (*agent.Agent, error)
	ToModel(entity *agent.Agent) *models.AgentModel
}

type AgentMapperImpl struct{}

func NewAgentMapper() AgentMapper {
	return &AgentMapperImpl{}
}

func (m *AgentMapperImpl) ToEntity(model *models.AgentModel) (*agent.Agent, error) {
	if model == nil {
		return nil, nil
	}
	return agent.ReconstructAgent(
		model.ID,
		model.Name,
		model.Email,
		model.PasswordHash,
		authorization.ParseAgentRole(model.Role),
		model.Active,
		model.LastLoginAt,
		model.CreatedAt.UTC(),
		model.UpdatedAt.UTC(),
	)
}

func (m *AgentMapperImpl) ToModel(entity *agent.Agent) *models.AgentModel {
	return &models.AgentModel{
		ID:           entity.ID(),
		Name:         entity.Name(),
		Email:        entity.Email(),
		PasswordHash: entity.PasswordHash(),
		Role:         entity.Role().String(),
		Active:       entity.IsActive(),
		LastLoginAt:  entity.LastLoginAt(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}
}
