package ticket

import (
	"fmt"
	"strings"

	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
)

const (
	PolicyPermissive  = "permissive"
	PolicyForwardOnly = "forward_only"
)

// TransitionPolicy decides which status changes an agent may make.
type TransitionPolicy interface {
	Name() string
	Allows(from, to vo.TicketStatus) bool
}

// PermissiveTransitionPolicy allows any status to move to any other, including
// reopening a RESOLVED ticket. Every change is still audited.
type PermissiveTransitionPolicy struct{}

func (PermissiveTransitionPolicy) Name() string {
	return PolicyPermissive
}

func (PermissiveTransitionPolicy) Allows(from, to vo.TicketStatus) bool {
	return from.IsValid() && to.IsValid()
}

// ForwardOnlyTransitionPolicy only allows NEW -> IN_PROGRESS -> RESOLVED, one step at a time.
type ForwardOnlyTransitionPolicy struct{}

func (ForwardOnlyTransitionPolicy) Name() string {
	return PolicyForwardOnly
}

func (ForwardOnlyTransitionPolicy) Allows(from, to vo.TicketStatus) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	return to.Rank()-from.Rank() == 1
}

// NewTransitionPolicy resolves a configured policy name. Empty selects the permissive policy.
func NewTransitionPolicy(name string) (TransitionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyPermissive:
		return PermissiveTransitionPolicy{}, nil
	case PolicyForwardOnly:
		return ForwardOnlyTransitionPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown transition policy: %s", name)
	}
}
