package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fintrack/finance-tracker-api/middleware"
	"github.com/fintrack/finance-tracker-api/models"
	"github.com/fintrack/finance-tracker-api/services"
)

type TransactionHandler struct {
	Transactions *services.TransactionService
}

func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := h.Transactions.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

func (h *TransactionHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	transaction, err := h.Transactions.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	filter, err := parseTransactionFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transactions, err := h.Transactions.List(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

func (h *TransactionHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req models.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := h.Transactions.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.Transactions.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Balance answers with the bare decimal: income minus expense over the
// whole ledger.
func (h *TransactionHandler) Balance(c *gin.Context) {
	userID := middleware.GetUserID(c)

	balance, err := h.Transactions.Balance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

func (h *TransactionHandler) Summary(c *gin.Context) {
	userID := middleware.GetUserID(c)

	startDate, err := parseDate(c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing startDate"})
		return
	}
	endDate, err := parseDate(c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing endDate"})
		return
	}

	summary, err := h.Transactions.CategorySummary(c.Request.Context(), userID, startDate, endDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// parseTransactionFilter reads the optional query constraints. Absent
// params leave the matching filter field nil.
func parseTransactionFilter(c *gin.Context) (models.TransactionFilter, error) {
	var filter models.TransactionFilter

	if v := c.Query("startDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return filter, fmt.Errorf("invalid startDate")
		}
		filter.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return filter, fmt.Errorf("invalid endDate")
		}
		filter.EndDate = &t
	}
	if v := c.Query("categoryId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("invalid categoryId")
		}
		filter.CategoryID = &id
	}
	if v := c.Query("type"); v != "" {
		typeValue, err := strconv.Atoi(v)
		if err != nil || !models.TransactionType(typeValue).Valid() {
			return filter, fmt.Errorf("invalid type")
		}
		t := models.TransactionType(typeValue)
		filter.Type = &t
	}
	if v := c.Query("minAmount"); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return filter, fmt.Errorf("invalid minAmount")
		}
		filter.MinAmount = &amount
	}
	if v := c.Query("maxAmount"); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return filter, fmt.Errorf("invalid maxAmount")
		}
		filter.MaxAmount = &amount
	}

	return filter, nil
}
