package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pennyledger/reconcile-backend/internal/api/dto"
	"github.com/pennyledger/reconcile-backend/internal/infrastructure/storage"
)

// MappingsHandler serves learned merchant mappings.
type MappingsHandler struct {
	repo storage.Repository
}

// NewMappingsHandler creates a new mappings handler.
func NewMappingsHandler(repo storage.Repository) *MappingsHandler {
	return &MappingsHandler{repo: repo}
}

// List handles GET /api/mappings?owner_id= - returns the owner's
// learned mappings, most used first.
func (h *MappingsHandler) List(c *gin.Context) {
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("owner_id is required"))
		return
	}

	mappings, err := h.repo.ListMappings(ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := make([]dto.MappingResponse, 0, len(mappings))
	for _, mapping := range mappings {
		response = append(response, dto.MappingResponse{
			BankName:   mapping.BankName,
			MappedName: mapping.MappedName,
			UsageCount: mapping.UsageCount,
		})
	}

	c.JSON(http.StatusOK, response)
}
