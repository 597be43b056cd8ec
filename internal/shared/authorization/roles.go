package authorization

// AgentRole is the role of a support agent signed in to the admin panel.
type AgentRole string

const (
	RoleAdmin AgentRole = "admin"
	RoleAgent AgentRole = "agent"
)

func (r AgentRole) String() string {
	return string(r)
}

func (r AgentRole) IsAdmin() bool {
	return r == RoleAdmin
}

func (r AgentRole) IsValid() bool {
	return r == RoleAdmin || r == RoleAgent
}

// ParseAgentRole falls back to the least privileged role for unknown input.
func ParseAgentRole(s string) AgentRole {
	role := AgentRole(s)
	if role.IsValid() {
		return role
	}
	return RoleAgent
}
