// Package handlers holds the HTTP handlers that sit outside the ticket context.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	agentdto "github.com/orris-inc/helpdesk/internal/application/agent/dto"
	agentusecases "github.com/orris-inc/helpdesk/internal/application/agent/usecases"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/utils"
)

// LoginExecutor is satisfied by agentusecases.LoginUseCase.
type LoginExecutor interface {
	Execute(ctx context.Context, cmd agentusecases.LoginCommand) (*agentdto.LoginResultDTO, error)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"sam@helpdesk.local"`
	Password string `json:"password" binding:"required" example:"correct horse battery staple"`
}

type AuthHandler struct {
	loginUC LoginExecutor
	logger  logger.Interface
}

func NewAuthHandler(loginUC LoginExecutor, log logger.Interface) *AuthHandler {
	return &AuthHandler{
		loginUC: loginUC,
		logger:  log,
	}
}

// Login godoc
// @Summary Agent login
// @Description Exchanges agent credentials for a bearer access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} utils.APIResponse{data=agentdto.LoginResultDTO}
// @Failure 401 {object} utils.APIResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.loginUC.Execute(c.Request.Context(), agentusecases.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "login successful", result)
}
