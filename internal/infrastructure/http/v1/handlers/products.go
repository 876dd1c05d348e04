package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"stokpanel/internal/core/apperror"
	"stokpanel/internal/core/id"
	"stokpanel/internal/domain/catalogue"
	"stokpanel/internal/domain/product"
	"stokpanel/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves the catalogue view and its CRUD operations.
type ProductHandler struct {
	*BaseHandler
	ctl  *catalogue.Controller
	repo product.Repository
}

func NewProductHandler(base *BaseHandler, ctl *catalogue.Controller, repo product.Repository) *ProductHandler {
	return &ProductHandler{
		BaseHandler: base,
		ctl:         ctl,
		repo:        repo,
	}
}

// List handles GET /products - reloads the first page and returns the
// fresh view.
func (h *ProductHandler) List(c *gin.Context) {
	if err := h.ctl.LoadFirstPage(c.Request.Context()); err != nil {
		h.loadError(c, err)
		return
	}
	h.OK(c, dto.FromView(h.ctl.View()))
}

// More handles GET /products/more - loads the next page and returns
// the grown view.
func (h *ProductHandler) More(c *gin.Context) {
	if err := h.ctl.LoadNextPage(c.Request.Context()); err != nil {
		h.loadError(c, err)
		return
	}
	h.OK(c, dto.FromView(h.ctl.View()))
}

// Search handles GET /products/search?q=term. An empty term falls back
// to the paginated first page.
func (h *ProductHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if !h.BindQuery(c, &req) {
		return
	}
	if err := h.ctl.Search(c.Request.Context(), req.Term); err != nil {
		h.loadError(c, err)
		return
	}
	h.OK(c, dto.FromView(h.ctl.View()))
}

// Stats handles GET /products/stats.
func (h *ProductHandler) Stats(c *gin.Context) {
	h.OK(c, dto.FromStats(h.ctl.Stats()))
}

// Create handles POST /products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item := req.ToProduct()
	if err := h.ctl.Create(c.Request.Context(), item); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, item.ID.String())
}

// Update handles PUT /products/:id. All editable fields are replaced.
func (h *ProductHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id"))
		return
	}

	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.repo.GetByID(ctx, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	item.Barcode = req.Barcode
	item.Name = req.Name
	item.Stock = req.Stock
	item.Price = dto.ParsePrice(req.Price)
	if err := item.Validate(ctx); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.ctl.Update(ctx, item); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProduct(item))
}

// Delete handles DELETE /products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id"))
		return
	}

	if err := h.ctl.Delete(c.Request.Context(), itemID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// loadError maps the single in-flight load guard to a conflict; other
// errors pass through untouched.
func (h *ProductHandler) loadError(c *gin.Context, err error) {
	if errors.Is(err, catalogue.ErrLoadInFlight) {
		h.Error(c, apperror.NewConflict("another load is already running"))
		return
	}
	h.Error(c, err)
}

// RegisterRoutes registers product routes.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", h.List)
		products.GET("/more", h.More)
		products.GET("/search", h.Search)
		products.GET("/stats", h.Stats)
		products.POST("", h.Create)
		products.PUT("/:id", h.Update)
		products.DELETE("/:id", h.Delete)
	}
}
