package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"stokpanel/internal/domain/stockcount"
	"stokpanel/internal/export"
	"stokpanel/internal/infrastructure/http/v1/dto"
)

// StockCountHandler serves the barcode reconciliation workflow.
type StockCountHandler struct {
	*BaseHandler
	service *stockcount.Service
}

func NewStockCountHandler(base *BaseHandler, service *stockcount.Service) *StockCountHandler {
	return &StockCountHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Scan handles POST /stock-counts/scan - registers one barcode read.
func (h *StockCountHandler) Scan(c *gin.Context) {
	var req dto.ScanRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, confirmation, err := h.service.SubmitScan(req.Barcode, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ScanResponse{
		Entry:        dto.FromEntry(entry),
		Confirmation: confirmation,
	})
}

// List handles GET /stock-counts - the accumulated count sheet.
func (h *StockCountHandler) List(c *gin.Context) {
	h.OK(c, dto.StockCountListResponse{
		Entries: dto.FromEntries(h.service.Entries()),
	})
}

// Remove handles DELETE /stock-counts/:barcode.
func (h *StockCountHandler) Remove(c *gin.Context) {
	h.service.RemoveEntry(c.Param("barcode"))
	h.NoContent(c)
}

// Clear handles DELETE /stock-counts.
func (h *StockCountHandler) Clear(c *gin.Context) {
	h.service.Clear()
	h.NoContent(c)
}

// Save handles POST /stock-counts/save - writes counted quantities
// back to the catalogue.
func (h *StockCountHandler) Save(c *gin.Context) {
	saved, err := h.service.Save(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.SaveStockCountResponse{Saved: saved})
}

// Export handles GET /stock-counts/export - the dated CSV download.
func (h *StockCountHandler) Export(c *gin.Context) {
	filename, data, err := export.StockCountCSV(h.service.Entries(), time.Now())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.ServeFile(c, filename, "text/csv; charset=utf-8", data)
}

// RegisterRoutes registers stock count routes.
func (h *StockCountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	counts := rg.Group("/stock-counts")
	{
		counts.GET("", h.List)
		counts.POST("/scan", h.Scan)
		counts.POST("/save", h.Save)
		counts.GET("/export", h.Export)
		counts.DELETE("/:barcode", h.Remove)
		counts.DELETE("", h.Clear)
	}
}
