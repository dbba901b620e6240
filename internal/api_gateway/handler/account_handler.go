package handler

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/payments-engine/internal/api_gateway/service"
)

// AccountHandler serves the balances exported by the stream processor
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// GetByClient returns one client's last exported balance, 404 if none
func (h *AccountHandler) GetByClient(c *gin.Context) {
	clientParam := c.Param("client")
	client, err := strconv.ParseUint(clientParam, 10, 16)
	if err != nil {
		h.logger.Warn("Invalid client id", "client", clientParam, "error", err)
		RespondBadRequest(c, "Invalid client id")
		return
	}

	snapshot, err := h.accountService.GetAccount(c.Request.Context(), uint16(client))
	if err != nil {
		h.logger.Error("Failed to get account", "client", client, "error", err)
		RespondInternalError(c)
		return
	}
	if snapshot == nil {
		RespondNotFound(c, "Account not found")
		return
	}

	RespondOK(c, mapStoredSnapshotToResponse(snapshot))
}

// List returns one page of balances ordered by client
func (h *AccountHandler) List(c *gin.Context) {
	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	snapshots, err := h.accountService.ListAccounts(c.Request.Context(), pagination.Page, pagination.PerPage)
	if err != nil {
		h.logger.Error("Failed to list accounts", "error", err)
		RespondInternalError(c)
		return
	}

	accounts := make([]AccountResponse, 0, len(snapshots))
	for _, s := range snapshots {
		accounts = append(accounts, mapStoredSnapshotToResponse(s))
	}
	RespondPage(c, accounts, pagination)
}
