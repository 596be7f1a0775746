package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pennyledger/reconcile-backend/internal/api/dto"
	"github.com/pennyledger/reconcile-backend/internal/application/service"
	"github.com/pennyledger/reconcile-backend/internal/infrastructure/storage"
)

// BatchesHandler handles reconciliation batch history and undo.
type BatchesHandler struct {
	repo storage.Repository
	svc  *service.ReconcileService
}

// NewBatchesHandler creates a new batches handler.
func NewBatchesHandler(repo storage.Repository, svc *service.ReconcileService) *BatchesHandler {
	return &BatchesHandler{repo: repo, svc: svc}
}

// List handles GET /api/batches?owner_id= - returns the owner's batches
// with expense counts, newest first.
func (h *BatchesHandler) List(c *gin.Context) {
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("owner_id is required"))
		return
	}

	batches, err := h.repo.ListBatches(ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := make([]dto.BatchResponse, 0, len(batches))
	for _, batch := range batches {
		response = append(response, dto.ToBatchResponse(batch))
	}

	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/batches/:id - returns one batch with its linked
// expenses.
func (h *BatchesHandler) Get(c *gin.Context) {
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("owner_id is required"))
		return
	}

	batch, expenses, err := h.repo.GetBatch(ownerID, c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrBatchNotFound) {
			c.JSON(http.StatusNotFound, dto.NotFoundError("batch"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.BatchDetailResponse{
		BatchResponse: dto.ToBatchResponse(batch),
		Expenses:      make([]dto.ExpenseResponse, 0, len(expenses)),
	}
	for _, expense := range expenses {
		response.Expenses = append(response.Expenses, dto.ToExpenseResponse(expense))
	}

	c.JSON(http.StatusOK, response)
}

// Delete handles DELETE /api/batches/:id - undoes the batch, reverting
// every linked expense to UNRECONCILED.
func (h *BatchesHandler) Delete(c *gin.Context) {
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("owner_id is required"))
		return
	}

	err := h.svc.Undo(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		var consistency *service.ConsistencyError
		switch {
		case errors.Is(err, storage.ErrBatchNotFound):
			c.JSON(http.StatusNotFound, dto.NotFoundError("batch"))
		case errors.As(err, &consistency):
			c.JSON(http.StatusConflict, dto.ConsistencyFailure(consistency.Error()))
		default:
			c.JSON(http.StatusInternalServerError, dto.InternalError())
		}
		return
	}

	c.Status(http.StatusNoContent)
}
