package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/dockprep/internal/domain/structure"
	"github.com/turtacn/dockprep/pkg/errors"
)

// MetadataFetcher is the application seam behind the structure endpoints.
type MetadataFetcher interface {
	Fetch(ctx context.Context, rawID string) (*structure.Metadata, bool, error)
}

// StructureHandler serves scraped structure metadata.
type StructureHandler struct {
	metadata MetadataFetcher
}

// NewStructureHandler builds the handler.
func NewStructureHandler(metadata MetadataFetcher) *StructureHandler {
	return &StructureHandler{metadata: metadata}
}

// GetMetadata handles GET /api/v1/structures/:id/metadata. An invalid
// identifier is a 400; an unreachable or unknown structure page is a 404
// since metadata is best-effort and absence is not a server fault.
func (h *StructureHandler) GetMetadata(c *gin.Context) {
	meta, ok, err := h.metadata.Fetch(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, Response{
			Code:    string(errors.CodePDBPageUnavailable),
			Message: "structure metadata unavailable",
		})
		return
	}
	OK(c, http.StatusOK, meta)
}
