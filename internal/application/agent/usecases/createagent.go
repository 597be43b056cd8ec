package usecases

import (
	"context"
	stderrors "errors"

	"github.com/orris-inc/helpdesk/internal/application/agent/dto"
	"github.com/orris-inc/helpdesk/internal/domain/agent"
	"github.com/orris-inc/helpdesk/internal/infrastructure/auth"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/utils"
	"github.com/orris-inc/helpdesk/internal/shared/utils/logutil"
)

type CreateAgentCommand struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=admin agent"`
}

type CreateAgentUseCase struct {
	agentRepo agent.Repository
	hasher    auth.PasswordHasher
	logger    logger.Interface
}

func NewCreateAgentUseCase(
	agentRepo agent.Repository,
	hasher auth.PasswordHasher,
	logger logger.Interface,
) *CreateAgentUseCase {
	return &CreateAgentUseCase{
		agentRepo: agentRepo,
		hasher:    hasher,
		logger:    logger,
	}
}

func (uc *CreateAgentUseCase) Execute(ctx context.Context, cmd CreateAgentCommand) (*dto.AgentDTO, error) {
	uc.logger.Infow("executing create agent use case", "email", logutil.MaskEmail(cmd.Email), "role", cmd.Role)

	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	role := authorization.RoleAgent
	if cmd.Role != "" {
		role = authorization.AgentRole(cmd.Role)
	}

	if _, err := uc.agentRepo.GetByEmail(ctx, cmd.Email); err == nil {
		return nil, errors.NewConflictError("agent email already exists")
	} else if !stderrors.Is(err, agent.ErrAgentNotFound) {
		return nil, errors.NewRemoteReadError("failed to check agent email", err)
	}

	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	a, err := agent.NewAgent(cmd.Name, cmd.Email, hash, role)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.agentRepo.Create(ctx, a); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError("agent email already exists")
		}
		uc.logger.Errorw("failed to create agent", "error", err)
		return nil, errors.NewRemoteWriteError("failed to create agent", err)
	}

	uc.logger.Infow("agent created successfully", "agent_id", a.ID(), "role", role)
	return dto.ToAgentDTO(a), nil
}

// ListAgentsUseCase returns every agent account.
type ListAgentsUseCase struct {
	agentRepo agent.Repository
	logger    logger.Interface
}

func NewListAgentsUseCase(agentRepo agent.Repository, logger logger.Interface) *ListAgentsUseCase {
	return &ListAgentsUseCase{agentRepo: agentRepo, logger: logger}
}

func (uc *ListAgentsUseCase) Execute(ctx context.Context) ([]*dto.AgentDTO, error) {
	agents, err := uc.agentRepo.List(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list agents", "error", err)
		return nil, errors.NewRemoteReadError("failed to list agents", err)
	}
	out := make([]*dto.AgentDTO, 0, len(agents))
	for _, a := range agents {
		out = append(out, dto.ToAgentDTO(a))
	}
	return out, nil
}
