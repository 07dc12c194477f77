package handler

import (
	catalogapp "github.com/agromarket/backend/internal/application/catalog"
	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/agromarket/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ProductHandler serves the mixed catalog listings and the per-variant
// product endpoints. Variant routes are bound to their tag at registration.
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// ListAll handles GET /all/: every product of every farm
func (h *ProductHandler) ListAll(c *gin.Context) {
	views, err := h.productService.ListAll(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.List(c, views, len(views))
}

// ListForFarm handles GET /farms/:id/products/
func (h *ProductHandler) ListForFarm(c *gin.Context) {
	farmID, ok := h.uintParam(c, "id")
	if !ok {
		return
	}

	views, err := h.productService.ListForFarm(c.Request.Context(), farmID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.List(c, views, len(views))
}

// ListVariant handles GET /<variant>/
func (h *ProductHandler) ListVariant(tag string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q dto.ProductListQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			h.BadRequest(c, "Invalid query parameters")
			return
		}

		views, err := h.productService.List(c.Request.Context(), tag, catalog.ProductFilter{
			FarmID: q.FarmID,
			Search: q.Search,
		})
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.List(c, views, len(views))
	}
}

// Get handles GET /<variant>/:id/
func (h *ProductHandler) Get(tag string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.uintParam(c, "id")
		if !ok {
			return
		}

		view, err := h.productService.Get(c.Request.Context(), tag, id)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.Success(c, view)
	}
}

// Create handles POST /<variant>/
func (h *ProductHandler) Create(tag string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalogapp.CreateProductRequest
		if !h.BindJSON(c, &req) {
			return
		}

		view, err := h.productService.Create(c.Request.Context(), actor(c), tag, req)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.Created(c, view)
	}
}

// Update handles PUT /<variant>/:id/update/
func (h *ProductHandler) Update(tag string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.uintParam(c, "id")
		if !ok {
			return
		}
		var req catalogapp.UpdateProductRequest
		if !h.BindJSON(c, &req) {
			return
		}

		view, err := h.productService.Update(c.Request.Context(), actor(c), tag, id, req)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.Success(c, view)
	}
}

// Delete handles DELETE /<variant>/:id/
func (h *ProductHandler) Delete(tag string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.uintParam(c, "id")
		if !ok {
			return
		}

		if err := h.productService.Delete(c.Request.Context(), actor(c), tag, id); err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.NoContent(c)
	}
}
