package handler

import (
	catalogapp "github.com/agromarket/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// FarmHandler handles farm endpoints
type FarmHandler struct {
	BaseHandler
	farmService *catalogapp.FarmService
}

// NewFarmHandler creates a new FarmHandler
func NewFarmHandler(farmService *catalogapp.FarmService) *FarmHandler {
	return &FarmHandler{farmService: farmService}
}

// List handles GET /farms/
func (h *FarmHandler) List(c *gin.Context) {
	farms, err := h.farmService.List(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.BaseHandler.List(c, farms, len(farms))
}

// Get handles GET /farms/:id/
func (h *FarmHandler) Get(c *gin.Context) {
	id, ok := h.uintParam(c, "id")
	if !ok {
		return
	}

	farm, err := h.farmService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, farm)
}

// Create handles POST /farms/
func (h *FarmHandler) Create(c *gin.Context) {
	var req catalogapp.CreateFarmRequest
	if !h.BindJSON(c, &req) {
		return
	}

	farm, err := h.farmService.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, farm)
}

// Update handles PUT /farms/:id/update/
func (h *FarmHandler) Update(c *gin.Context) {
	id, ok := h.uintParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateFarmRequest
	if !h.BindJSON(c, &req) {
		return
	}

	farm, err := h.farmService.Update(c.Request.Context(), actor(c), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, farm)
}

// Delete handles DELETE /farms/:id/ and removes the farm's products with it
func (h *FarmHandler) Delete(c *gin.Context) {
	id, ok := h.uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.farmService.Delete(c.Request.Context(), actor(c), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
