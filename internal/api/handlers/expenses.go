package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pennyledger/reconcile-backend/internal/api/dto"
	"github.com/pennyledger/reconcile-backend/internal/infrastructure/storage"
)

// ExpensesHandler serves the expense picker used for manual linking.
type ExpensesHandler struct {
	repo storage.Repository
}

// NewExpensesHandler creates a new expenses handler.
func NewExpensesHandler(repo storage.Repository) *ExpensesHandler {
	return &ExpensesHandler{repo: repo}
}

// Search handles GET /api/expenses/search?owner_id=&q= - returns
// unreconciled expenses matching the query. A numeric query matches the
// amount; anything else matches merchant or category.
func (h *ExpensesHandler) Search(c *gin.Context) {
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("owner_id is required"))
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	expenses, err := h.repo.SearchUnreconciled(ownerID, c.Query("q"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := make([]dto.ExpenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		response = append(response, dto.ToExpenseResponse(expense))
	}

	c.JSON(http.StatusOK, response)
}
