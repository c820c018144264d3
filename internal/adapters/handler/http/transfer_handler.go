package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/ignitofy-engine/internal/core/domain"
	"github.com/comitanigiacomo/ignitofy-engine/internal/core/services"
)

// maxImportBytes caps the uploaded backup size.
const maxImportBytes = 8 << 20

type TransferHandler struct {
	svc *services.HabitService
}

func NewTransferHandler(svc *services.HabitService) *TransferHandler {
	return &TransferHandler{svc: svc}
}

func (h *TransferHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/export", h.Export)
	r.POST("/import", h.Import)
}

func (h *TransferHandler) Export(c *gin.Context) {
	data, err := domain.EncodeExport(h.svc.Export())
	if err != nil {
		respondError(c, err)
		return
	}

	filename := domain.ExportFilename(h.svc.Today())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/json", data)
}

func (h *TransferHandler) Import(c *gin.Context) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read import body"})
		return
	}

	habits, err := h.svc.Import(c.Request.Context(), data)
	if habits == nil || !softFail(c, err) {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"imported": len(habits),
		"habits":   habits,
	})
}
