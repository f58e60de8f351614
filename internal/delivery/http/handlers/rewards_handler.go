package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lumora/lumora-unlock-service/internal/delivery/http/dto/request"
	"github.com/lumora/lumora-unlock-service/internal/delivery/http/dto/response"
	"github.com/lumora/lumora-unlock-service/internal/usecase"
)

type RewardsHandler struct {
	ledgerUsecase usecase.LedgerUsecase
}

func NewRewardsHandler(ledgerUsecase usecase.LedgerUsecase) *RewardsHandler {
	return &RewardsHandler{ledgerUsecase: ledgerUsecase}
}

func (h *RewardsHandler) GetBalance(c *gin.Context) {
	subjectID := c.Param("subjectId")

	balance, err := h.ledgerUsecase.GetBalance(c.Request.Context(), subjectID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.BalanceFromDomain(balance))
}

func (h *RewardsHandler) Spend(c *gin.Context) {
	var req request.SpendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	balance, err := h.ledgerUsecase.Spend(c.Request.Context(), req.SubjectID, req.Coins)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SpendResponse{OK: true, Balance: response.BalanceFromDomain(balance)})
}

func (h *RewardsHandler) SpendForUnlockCard(c *gin.Context) {
	var req request.SpendCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	balance, err := h.ledgerUsecase.SpendForUnlockCard(c.Request.Context(), req.SubjectID, req.Cost)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SpendResponse{OK: true, Balance: response.BalanceFromDomain(balance)})
}

func (h *RewardsHandler) ActivatePriority(c *gin.Context) {
	var req request.ActivatePriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	duration := time.Duration(req.DurationHours) * time.Hour
	balance, err := h.ledgerUsecase.ActivatePriority(c.Request.Context(), req.SubjectID, req.Cost, duration)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SpendResponse{OK: true, Balance: response.BalanceFromDomain(balance)})
}

func (h *RewardsHandler) GetHistory(c *gin.Context) {
	subjectID := c.Param("subjectId")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid limit parameter"})
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid offset parameter"})
		return
	}

	transactions, err := h.ledgerUsecase.ListTransactions(c.Request.Context(), subjectID, limit, offset)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	out := make([]response.TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		out = append(out, response.TransactionFromDomain(tx))
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": out,
		"meta": gin.H{
			"limit":  limit,
			"offset": offset,
			"count":  len(out),
		},
	})
}
