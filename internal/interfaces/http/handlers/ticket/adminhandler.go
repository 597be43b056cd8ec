package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/helpdesk/internal/application/ticket/usecases"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/utils"
)

// AdminHandler serves the support agent panel.
type AdminHandler struct {
	dashboardUC       usecases.GetDashboardExecutor
	listTicketsUC     usecases.ListTicketsExecutor
	countTicketsUC    usecases.CountTicketsByStatusExecutor
	ticketDetailUC    usecases.GetTicketDetailExecutor
	updateStatusUC    usecases.UpdateTicketStatusExecutor
	addCommentUC      usecases.AddCommentExecutor
	listCommentsUC    usecases.ListCommentsExecutor
	listAttachmentsUC usecases.ListAttachmentsExecutor
	logger            logger.Interface
}

// AdminHandlerDeps groups the admin use cases.
type AdminHandlerDeps struct {
	Dashboard       usecases.GetDashboardExecutor
	ListTickets     usecases.ListTicketsExecutor
	CountTickets    usecases.CountTicketsByStatusExecutor
	TicketDetail    usecases.GetTicketDetailExecutor
	UpdateStatus    usecases.UpdateTicketStatusExecutor
	AddComment      usecases.AddCommentExecutor
	ListComments    usecases.ListCommentsExecutor
	ListAttachments usecases.ListAttachmentsExecutor
}

func NewAdminHandler(deps AdminHandlerDeps, log logger.Interface) *AdminHandler {
	return &AdminHandler{
		dashboardUC:       deps.Dashboard,
		listTicketsUC:     deps.ListTickets,
		countTicketsUC:    deps.CountTickets,
		ticketDetailUC:    deps.TicketDetail,
		updateStatusUC:    deps.UpdateStatus,
		addCommentUC:      deps.AddComment,
		listCommentsUC:    deps.ListComments,
		listAttachmentsUC: deps.ListAttachments,
		logger:            log,
	}
}

// GetDashboard godoc
// @Summary Admin dashboard
// @Description Status counts joined with the (optionally filtered) ticket list
// @Tags admin
// @Security Bearer
// @Produce json
// @Param status query string false "NEW, IN_PROGRESS or RESOLVED"
// @Success 200 {object} utils.APIResponse{data=dto.DashboardDTO}
// @Router /api/v1/admin/dashboard [get]
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	result, err := h.dashboardUC.Execute(c.Request.Context(), usecases.DashboardQuery{
		Status: c.Query("status"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListTickets godoc
// @Summary List tickets
// @Tags admin
// @Security Bearer
// @Produce json
// @Param status query string false "NEW, IN_PROGRESS or RESOLVED"
// @Success 200 {object} utils.APIResponse{data=[]dto.TicketSummaryDTO}
// @Router /api/v1/admin/tickets [get]
func (h *AdminHandler) ListTickets(c *gin.Context) {
	result, err := h.listTicketsUC.Execute(c.Request.Context(), usecases.ListTicketsQuery{
		Status: c.Query("status"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CountTickets godoc
// @Summary Ticket counts per status
// @Tags admin
// @Security Bearer
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.StatusCountsDTO}
// @Router /api/v1/admin/tickets/counts [get]
func (h *AdminHandler) CountTickets(c *gin.Context) {
	result, err := h.countTicketsUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetTicketDetail godoc
// @Summary Ticket detail
// @Description Ticket with comments, attachments and status history
// @Tags admin
// @Security Bearer
// @Produce json
// @Param id path int true "Ticket ID"
// @Success 200 {object} utils.APIResponse{data=dto.TicketDetailDTO}
// @Failure 404 {object} utils.APIResponse
// @Router /api/v1/admin/tickets/{id} [get]
func (h *AdminHandler) GetTicketDetail(c *gin.Context) {
	ticketID, err := utils.ParseUintParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.ticketDetailUC.Execute(c.Request.Context(), ticketID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdateTicketStatus godoc
// @Summary Change ticket status
// @Tags admin
// @Security Bearer
// @Accept json
// @Produce json
// @Param id path int true "Ticket ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} utils.APIResponse{data=dto.TicketDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/v1/admin/tickets/{id}/status [patch]
func (h *AdminHandler) UpdateTicketStatus(c *gin.Context) {
	ticketID, err := utils.ParseUintParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for update ticket status", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	name, email := agentAuthor(c)
	result, err := h.updateStatusUC.Execute(c.Request.Context(), usecases.UpdateTicketStatusCommand{
		TicketID:   ticketID,
		Status:     req.Status,
		ActorName:  name,
		ActorEmail: email,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket status updated successfully", result)
}

// AddComment godoc
// @Summary Comment on a ticket
// @Description The signed-in agent is recorded as the author
// @Tags admin
// @Security Bearer
// @Accept json
// @Produce json
// @Param id path int true "Ticket ID"
// @Param request body AddCommentRequest true "Comment"
// @Success 201 {object} utils.APIResponse{data=dto.CommentDTO}
// @Failure 404 {object} utils.APIResponse
// @Router /api/v1/admin/tickets/{id}/comments [post]
func (h *AdminHandler) AddComment(c *gin.Context) {
	ticketID, err := utils.ParseUintParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AddCommentRequest
	if err := bindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	name, email := agentAuthor(c)
	result, err := h.addCommentUC.Execute(c.Request.Context(), usecases.AddCommentCommand{
		TicketID:    ticketID,
		AuthorName:  name,
		AuthorEmail: email,
		Content:     req.Content,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Comment added successfully")
}

// ListComments godoc
// @Summary List ticket comments
// @Description Newest first
// @Tags admin
// @Security Bearer
// @Produce json
// @Param id path int true "Ticket ID"
// @Success 200 {object} utils.APIResponse{data=[]dto.CommentDTO}
// @Router /api/v1/admin/tickets/{id}/comments [get]
func (h *AdminHandler) ListComments(c *gin.Context) {
	ticketID, err := utils.ParseUintParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listCommentsUC.Execute(c.Request.Context(), ticketID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListAttachments godoc
// @Summary List ticket attachments
// @Tags admin
// @Security Bearer
// @Produce json
// @Param id path int true "Ticket ID"
// @Success 200 {object} utils.APIResponse{data=[]dto.AttachmentDTO}
// @Router /api/v1/admin/tickets/{id}/attachments [get]
func (h *AdminHandler) ListAttachments(c *gin.Context) {
	ticketID, err := utils.ParseUintParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listAttachmentsUC.Execute(c.Request.Context(), ticketID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
