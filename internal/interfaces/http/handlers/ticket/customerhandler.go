package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/helpdesk/internal/application/ticket/usecases"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/utils"
)

// CustomerHandler serves the public screens of the mobile app.
type CustomerHandler struct {
	submitTicketUC usecases.SubmitTicketExecutor
	getTicketUC    usecases.GetTicketExecutor
	overviewUC     usecases.GetCustomerOverviewExecutor
	logger         logger.Interface
}

func NewCustomerHandler(
	submitTicketUC usecases.SubmitTicketExecutor,
	getTicketUC usecases.GetTicketExecutor,
	overviewUC usecases.GetCustomerOverviewExecutor,
	log logger.Interface,
) *CustomerHandler {
	return &CustomerHandler{
		submitTicketUC: submitTicketUC,
		getTicketUC:    getTicketUC,
		overviewUC:     overviewUC,
		logger:         log,
	}
}

// SubmitTicket godoc
// @Summary Submit a support ticket
// @Description Creates the ticket and commits the staged attachments in one transaction
// @Tags tickets
// @Accept json
// @Produce json
// @Param request body SubmitTicketRequest true "Ticket form"
// @Success 201 {object} utils.APIResponse{data=dto.SubmitTicketResultDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /api/v1/tickets [post]
func (h *CustomerHandler) SubmitTicket(c *gin.Context) {
	var req SubmitTicketRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for submit ticket", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.submitTicketUC.Execute(c.Request.Context(), req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Ticket submitted successfully")
}

// GetActiveTickets godoc
// @Summary Customer overview
// @Description Active (NEW and IN_PROGRESS) tickets with their count
// @Tags tickets
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.CustomerOverviewDTO}
// @Failure 502 {object} utils.APIResponse
// @Router /api/v1/tickets/active [get]
func (h *CustomerHandler) GetActiveTickets(c *gin.Context) {
	result, err := h.overviewUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetTicket godoc
// @Summary Get a ticket
// @Tags tickets
// @Produce json
// @Param id path int true "Ticket ID"
// @Success 200 {object} utils.APIResponse{data=dto.TicketDTO}
// @Failure 404 {object} utils.APIResponse
// @Router /api/v1/tickets/{id} [get]
func (h *CustomerHandler) GetTicket(c *gin.Context) {
	ticketID, err := utils.ParseUintParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getTicketUC.Execute(c.Request.Context(), ticketID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
