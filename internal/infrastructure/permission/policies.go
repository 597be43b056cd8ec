package permission

import (
	"fmt"

	"github.com/orris-inc/helpdesk/internal/shared/authorization"
)

// Resources guarded by the admin API.
const (
	ResourceTickets     = "tickets"
	ResourceAttachments = "attachments"
	ResourceAll         = "*"
)

// Actions on those resources.
const (
	ActionRead         = "read"
	ActionComment      = "comment"
	ActionUpdateStatus = "update_status"
	ActionAll          = "*"
)

// DefaultPolicies is seeded on startup. Admins get everything.
var DefaultPolicies = [][]string{
	{authorization.RoleAgent.String(), ResourceTickets, ActionRead},
	{authorization.RoleAgent.String(), ResourceTickets, ActionComment},
	{authorization.RoleAgent.String(), ResourceTickets, ActionUpdateStatus},
	{authorization.RoleAgent.String(), ResourceAttachments, ActionRead},
	{authorization.RoleAdmin.String(), ResourceAll, ActionAll},
}

// InitTicketPermissions seeds DefaultPolicies. Existing policies are left untouched.
func (e *Enforcer) InitTicketPermissions() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	added := 0
	for _, policy := range DefaultPolicies {
		ok, err := e.enforcer.AddPolicy(policy[0], policy[1], policy[2])
		if err != nil {
			e.logger.Errorw("failed to add ticket permission policy",
				"error", err,
				"role", policy[0],
				"resource", policy[1],
				"action", policy[2])
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w",
				policy[0], policy[1], policy[2], err)
		}
		if ok {
			added++
		}
	}

	e.logger.Infow("ticket permissions initialized", "added", added, "total", len(DefaultPolicies))
	return nil
}
