package usecases

import (
	"context"
	stderrors "errors"

	"github.com/orris-inc/helpdesk/internal/application/agent/dto"
	"github.com/orris-inc/helpdesk/internal/domain/agent"
	"github.com/orris-inc/helpdesk/internal/infrastructure/auth"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/utils"
	"github.com/orris-inc/helpdesk/internal/shared/utils/logutil"
)

const invalidCredentialsMessage = "invalid email or password"

type LoginCommand struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginUseCase struct {
	agentRepo agent.Repository
	hasher    auth.PasswordHasher
	tokens    TokenIssuer
	logger    logger.Interface
}

func NewLoginUseCase(
	agentRepo agent.Repository,
	hasher auth.PasswordHasher,
	tokens TokenIssuer,
	logger logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		agentRepo: agentRepo,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
	}
}

// Execute signs an agent in. Unknown email, wrong password and a deactivated
// account all produce the same error.
func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*dto.LoginResultDTO, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	a, err := uc.agentRepo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		if stderrors.Is(err, agent.ErrAgentNotFound) {
			uc.logger.Warnw("login attempt for unknown agent", "email", logutil.MaskEmail(cmd.Email))
			return nil, errors.NewUnauthorizedError(invalidCredentialsMessage)
		}
		uc.logger.Errorw("failed to load agent", "error", err)
		return nil, errors.NewRemoteReadError("failed to load agent", err)
	}

	if err := uc.hasher.Verify(cmd.Password, a.PasswordHash()); err != nil || !a.IsActive() {
		uc.logger.Warnw("login rejected", "agent_id", a.ID(), "active", a.IsActive())
		return nil, errors.NewUnauthorizedError(invalidCredentialsMessage)
	}

	pair, err := uc.tokens.Generate(auth.AgentIdentity{
		ID:    a.ID(),
		Name:  a.Name(),
		Email: a.Email(),
		Role:  a.Role(),
	})
	if err != nil {
		uc.logger.Errorw("failed to issue access token", "agent_id", a.ID(), "error", err)
		return nil, errors.NewInternalError("failed to issue access token")
	}

	a.RecordLogin()
	if err := uc.agentRepo.Update(ctx, a); err != nil {
		uc.logger.Warnw("failed to record agent login", "agent_id", a.ID(), "error", err)
	}

	uc.logger.Infow("agent logged in", "agent_id", a.ID(), "role", a.Role())

	return &dto.LoginResultDTO{
		AccessToken: pair.AccessToken,
		TokenType:   pair.TokenType,
		ExpiresIn:   pair.ExpiresIn,
		Agent:       dto.ToAgentDTO(a),
	}, nil
}
