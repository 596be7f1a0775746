package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pennyledger/reconcile-backend/internal/api/dto"
	"github.com/pennyledger/reconcile-backend/internal/application/service"
	"github.com/pennyledger/reconcile-backend/internal/infrastructure/storage"
)

// LinksHandler handles manual linking of unauthorized entries.
type LinksHandler struct {
	svc *service.ReconcileService
}

// NewLinksHandler creates a new links handler.
func NewLinksHandler(svc *service.ReconcileService) *LinksHandler {
	return &LinksHandler{svc: svc}
}

// Create handles POST /api/links - links a bank statement line to a
// ledger expense by hand.
func (h *LinksHandler) Create(c *gin.Context) {
	var req dto.ManualLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	err := h.svc.ManualLink(c.Request.Context(), service.ManualLinkRequest{
		OwnerID:   req.OwnerID,
		ExpenseID: req.ExpenseID,
		Entry:     req.Entry,
	})
	if err != nil {
		if errors.Is(err, storage.ErrExpenseNotFound) {
			c.JSON(http.StatusNotFound, dto.NotFoundError("expense"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.Status(http.StatusCreated)
}
