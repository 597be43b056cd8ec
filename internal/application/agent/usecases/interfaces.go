package usecases

import (
	"github.com/orris-inc/helpdesk/internal/infrastructure/auth"
)

// TokenIssuer is satisfied by auth.JWTService.
type TokenIssuer interface {
	Generate(identity auth.AgentIdentity) (*auth.TokenPair, error)
}
