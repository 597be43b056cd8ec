package dto

import (
	"time"

	"github.com/orris-inc/helpdesk/internal/domain/agent"
)

type AgentDTO struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type LoginResultDTO struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	Agent       *AgentDTO `json:"agent"`
}

func ToAgentDTO(a *agent.Agent) *AgentDTO {
	if a == nil {
		return nil
	}
	return &AgentDTO{
		ID:          a.ID(),
		Name:        a.Name(),
		Email:       a.Email(),
		Role:        a.Role().String(),
		Active:      a.IsActive(),
		LastLoginAt: a.LastLoginAt(),
		CreatedAt:   a.CreatedAt(),
	}
}
