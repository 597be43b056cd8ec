package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	agentdto "github.com/orris-inc/helpdesk/internal/application/agent/dto"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/utils"
)

// ListAgentsExecutor is satisfied by agentusecases.ListAgentsUseCase.
type ListAgentsExecutor interface {
	Execute(ctx context.Context) ([]*agentdto.AgentDTO, error)
}

type AgentHandler struct {
	listAgentsUC ListAgentsExecutor
	logger       logger.Interface
}

func NewAgentHandler(listAgentsUC ListAgentsExecutor, log logger.Interface) *AgentHandler {
	return &AgentHandler{
		listAgentsUC: listAgentsUC,
		logger:       log,
	}
}

// ListAgents godoc
// @Summary List agent accounts
// @Tags admin
// @Security Bearer
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]agentdto.AgentDTO}
// @Failure 403 {object} utils.APIResponse
// @Router /api/v1/admin/agents [get]
func (h *AgentHandler) ListAgents(c *gin.Context) {
	result, err := h.listAgentsUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
