package handlers

import (
	"github.com/gin-gonic/gin"

	"stokpanel/internal/core/apperror"
	"stokpanel/internal/domain/catalogue"
	"stokpanel/internal/export"
	"stokpanel/internal/importer"
	"stokpanel/internal/infrastructure/http/v1/dto"
	"stokpanel/pkg/logger"
)

// maxImportSize caps uploads at 20 MB.
const maxImportSize = 20 << 20

// ImportHandler handles bulk file imports and the template download.
type ImportHandler struct {
	*BaseHandler
	pipeline *importer.Pipeline
	ctl      *catalogue.Controller
}

func NewImportHandler(base *BaseHandler, pipeline *importer.Pipeline, ctl *catalogue.Controller) *ImportHandler {
	return &ImportHandler{
		BaseHandler: base,
		pipeline:    pipeline,
		ctl:         ctl,
	}
}

// Upload handles POST /imports with a multipart "file" part.
func (h *ImportHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.Error(c, apperror.NewValidation("missing file upload").WithDetail("error", err.Error()))
		return
	}
	if fileHeader.Size > maxImportSize {
		h.Error(c, apperror.NewValidation("file too large").WithDetail("max_bytes", maxImportSize))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	defer f.Close()

	res, err := h.pipeline.Run(ctx, fileHeader.Filename, f)
	if err != nil {
		h.Error(c, err)
		return
	}

	// Show imported rows immediately, then reconcile with the backend
	// ordering. A failed reload keeps the optimistic view.
	h.ctl.PrependAll(res.Items)
	if err := h.ctl.LoadFirstPage(ctx); err != nil {
		logger.Warn(ctx, "reload after import failed", "error", err)
	}

	h.OK(c, dto.FromImportResult(res))
}

// Template handles GET /imports/template - the sample CSV download.
func (h *ImportHandler) Template(c *gin.Context) {
	data, err := export.Template()
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	h.ServeFile(c, export.TemplateFilename, "text/csv; charset=utf-8", data)
}

// RegisterRoutes registers import routes.
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	imports := rg.Group("/imports")
	{
		imports.POST("", h.Upload)
		imports.GET("/template", h.Template)
	}
}
