package handler

import (
	"net/http"

	"casaceja/internal/dto"
	"casaceja/internal/service"

	"github.com/gin-gonic/gin"
)

type SnapshotsHandler struct{ svc service.SnapshotService }

func NewSnapshotsHandler(svc service.SnapshotService) *SnapshotsHandler {
	return &SnapshotsHandler{svc: svc}
}

// Listar GET /v1/snapshots
func (h *SnapshotsHandler) Listar(c *gin.Context) {
	var filter dto.SnapshotFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener GET /v1/snapshots/:id, with the decompressed payload.
func (h *SnapshotsHandler) Obtener(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Precios POST /v1/snapshots/precios runs the price snapshot on demand.
func (h *SnapshotsHandler) Precios(c *gin.Context) {
	snap, err := h.svc.SnapshotPrecios(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), snap.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
