package agent

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/biztime"
)

// Agent is a support staff member allowed into the admin surface.
type Agent struct {
	id           uint
	name         string
	email        string
	passwordHash string
	role         authorization.AgentRole
	active       bool
	lastLoginAt  *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

func NewAgent(name, email, passwordHash string, role authorization.AgentRole) (*Agent, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, fmt.Errorf("agent name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid agent email: %s", email)
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid agent role: %s", role)
	}

	now := biztime.NowUTC()
	return &Agent{
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		active:       true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructAgent(
	id uint,
	name, email, passwordHash string,
	role authorization.AgentRole,
	active bool,
	lastLoginAt *time.Time,
	createdAt, updatedAt time.Time,
) (*Agent, error) {
	if id == 0 {
		return nil, fmt.Errorf("agent ID cannot be zero")
	}
	return &Agent{
		id:           id,
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		active:       active,
		lastLoginAt:  lastLoginAt,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (a *Agent) ID() uint                      { return a.id }
func (a *Agent) Name() string                  { return a.name }
func (a *Agent) Email() string                 { return a.email }
func (a *Agent) PasswordHash() string          { return a.passwordHash }
func (a *Agent) Role() authorization.AgentRole { return a.role }
func (a *Agent) IsActive() bool                { return a.active }
func (a *Agent) LastLoginAt() *time.Time       { return a.lastLoginAt }
func (a *Agent) CreatedAt() time.Time          { return a.createdAt }
func (a *Agent) UpdatedAt() time.Time          { return a.updatedAt }

func (a *Agent) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("agent ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("agent ID cannot be zero")
	}
	a.id = id
	return nil
}

// RecordLogin stamps a successful sign-in.
func (a *Agent) RecordLogin() {
	now := biztime.NowUTC()
	a.lastLoginAt = &now
	a.updatedAt = now
}

func (a *Agent) ChangePassword(passwordHash string) error {
	if passwordHash == "" {
		return fmt.Errorf("password hash is required")
	}
	a.passwordHash = passwordHash
	a.updatedAt = biztime.NowUTC()
	return nil
}

func (a *Agent) Deactivate() {
	a.active = false
	a.updatedAt = biztime.NowUTC()
}
