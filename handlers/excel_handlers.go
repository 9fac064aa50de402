package handlers

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/courtsplit-backend/models"
	"github.com/fadhlanhapp/courtsplit-backend/services"
	"github.com/fadhlanhapp/courtsplit-backend/utils"
)

// ExcelHandler serves spreadsheet exports
type ExcelHandler struct {
	excelService *services.ExcelService
}

// NewExcelHandler creates a new export handler
func NewExcelHandler(excelService *services.ExcelService) *ExcelHandler {
	return &ExcelHandler{excelService: excelService}
}

// ExportMatches handles GET /matches/export?filter=
func (h *ExcelHandler) ExportMatches(c *gin.Context) {
	filter := models.MatchFilter(c.DefaultQuery("filter", string(models.FilterAll)))

	excelFile, filename, err := h.excelService.ExportMatchesToExcel(c.Request.Context(), filter)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer excelFile.Close()

	// Set headers for file download
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Content-Transfer-Encoding", "binary")

	// Write Excel file to response
	if err := excelFile.Write(c.Writer); err != nil {
		slog.Error("Failed to write export", "filename", filename, "error", err)
		utils.HandleError(c, utils.NewInternalError(utils.ErrFailedToExport))
		return
	}
}
