package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pennyledger/reconcile-backend/internal/api/dto"
	"github.com/pennyledger/reconcile-backend/internal/application/service"
	"github.com/pennyledger/reconcile-backend/internal/domain/ingest"
	"github.com/pennyledger/reconcile-backend/internal/domain/matcher"
)

// ReconcileHandler handles statement upload and report confirmation.
type ReconcileHandler struct {
	svc *service.ReconcileService
}

// NewReconcileHandler creates a new reconcile handler.
func NewReconcileHandler(svc *service.ReconcileService) *ReconcileHandler {
	return &ReconcileHandler{svc: svc}
}

// Reconcile handles POST /api/reconcile - multipart upload of a
// statement file plus owner and strategy fields; responds with the
// four-bucket report.
func (h *ReconcileHandler) Reconcile(c *gin.Context) {
	ownerID := c.PostForm("owner_id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("owner_id is required"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("no file provided"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("could not read file"))
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("could not read file"))
		return
	}

	rep, err := h.svc.Reconcile(c.Request.Context(), service.ReconcileRequest{
		OwnerID:  ownerID,
		FileName: fileHeader.Filename,
		Content:  string(content),
		Strategy: matcher.Strategy(c.PostForm("strategy")),
	})
	if err != nil {
		if errors.Is(err, ingest.ErrNoTransactions) {
			c.JSON(http.StatusUnprocessableEntity, dto.ParseError(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, rep)
}

// Confirm handles POST /api/reconcile/confirm - persists the accepted
// entries of a reviewed report as one batch.
func (h *ReconcileHandler) Confirm(c *gin.Context) {
	var req dto.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	result, err := h.svc.Confirm(c.Request.Context(), service.ConfirmRequest{
		OwnerID:  req.OwnerID,
		FileName: req.FileName,
		Nickname: req.Nickname,
		Entries:  req.Entries,
	})
	if err != nil {
		var consistency *service.ConsistencyError
		switch {
		case errors.Is(err, service.ErrNothingToConfirm):
			c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		case errors.As(err, &consistency):
			c.JSON(http.StatusConflict, dto.ConsistencyFailure(consistency.Error()))
		default:
			c.JSON(http.StatusInternalServerError, dto.InternalError())
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}
