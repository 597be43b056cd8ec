package agent

import (
	"context"
	"errors"
)

var ErrAgentNotFound = errors.New("agent not found")

type Repository interface {
	Create(ctx context.Context, agent *Agent) error
	Update(ctx context.Context, agent *Agent) error
	// GetByEmail returns ErrAgentNotFound when no row matches.
	GetByEmail(ctx context.Context, email string) (*Agent, error)
	GetByID(ctx context.Context, id uint) (*Agent, error)
	List(ctx context.Context) ([]*Agent, error)
}
