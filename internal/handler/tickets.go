package handler

import (
	"net/http"
	"strconv"

	"casaceja/internal/service"

	"github.com/gin-gonic/gin"
)

type TicketsHandler struct{ svc service.TicketService }

func NewTicketsHandler(svc service.TicketService) *TicketsHandler {
	return &TicketsHandler{svc: svc}
}

type imprimirRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

// Texto godoc
// @Summary      Texto del ticket
// @Description  Devuelve el documento tal como sale en la impresora termica.
// @Tags         tickets
// @Produce      plain
// @Security     BearerAuth
// @Param        tipo path string true "venta | credito | apartado | abono | corte | reimpresion_credito | reimpresion_apartado"
// @Param        id   path string true "UUID del documento"
// @Success      200  {string} string
// @Failure      404  {object} apierror.APIError
// @Router       /v1/tickets/{tipo}/{id} [get]
func (h *TicketsHandler) Texto(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	texto, err := h.svc.RenderTicket(c.Request.Context(), c.Param("tipo"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("X-Ticket-Width", strconv.Itoa(h.svc.LineWidth()))
	c.String(http.StatusOK, texto)
}

// Imprimir godoc
// @Summary      Reimprimir un documento
// @Description  Encola el documento para la impresora; si se indica email tambien se envia en PDF.
// @Tags         tickets
// @Accept       json
// @Security     BearerAuth
// @Param        tipo path string          true "Tipo de documento"
// @Param        id   path string          true "UUID del documento"
// @Param        body body imprimirRequest false "Destinatario opcional"
// @Success      202
// @Failure      404  {object} apierror.APIError
// @Router       /v1/tickets/{tipo}/{id}/imprimir [post]
func (h *TicketsHandler) Imprimir(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req imprimirRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Imprimir(c.Request.Context(), c.Param("tipo"), id, req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}
