package ticket

import (
	"github.com/gin-gonic/gin"

	ticketdto "github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/application/ticket/usecases"
	"github.com/orris-inc/helpdesk/internal/shared/constants"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
)

// SubmitTicketRequest is the customer ticket form plus the files staged for it.
type SubmitTicketRequest struct {
	Name        string                  `json:"name" binding:"required,max=100" example:"Jane Doe"`
	Email       string                  `json:"email" binding:"required,email" example:"jane@example.com"`
	Description string                  `json:"description" binding:"required,max=5000" example:"Login broken"`
	Attachments []ticketdto.FileMetaDTO `json:"attachments" binding:"omitempty,dive"`
}

func (r *SubmitTicketRequest) ToCommand() usecases.SubmitTicketCommand {
	return usecases.SubmitTicketCommand{
		CreateTicketCommand: usecases.CreateTicketCommand{
			Name:        r.Name,
			Email:       r.Email,
			Description: r.Description,
		},
		Attachments: r.Attachments,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"IN_PROGRESS"`
}

type AddCommentRequest struct {
	Content string `json:"content" binding:"required,max=10000" example:"We are looking into it."`
}

// bindJSON reports malformed bodies as validation errors.
func bindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return errors.NewValidationError("invalid request body", err.Error())
	}
	return nil
}

// agentAuthor returns the signed-in agent's name and email. Both are empty on
// unauthenticated requests and the use case falls back to the support persona.
func agentAuthor(c *gin.Context) (string, string) {
	return c.GetString(constants.ContextKeyAgentName), c.GetString(constants.ContextKeyAgentEmail)
}
