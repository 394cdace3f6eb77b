package handler

import (
	"net/http"

	"casaceja/internal/dto"
	"casaceja/internal/service"

	"github.com/gin-gonic/gin"
)

type CortesHandler struct{ svc service.CorteService }

func NewCortesHandler(svc service.CorteService) *CortesHandler { return &CortesHandler{svc: svc} }

// Abrir godoc
// @Summary      Abrir corte de caja
// @Description  Abre el turno de la sucursal con su fondo inicial. Solo puede haber un corte abierto por sucursal.
// @Tags         cortes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AbrirCorteRequest true "Fondo inicial"
// @Success      201  {object} dto.CorteResponse
// @Failure      409  {object} apierror.APIError "Ya hay un corte abierto"
// @Router       /v1/cortes/abrir [post]
func (h *CortesHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCorteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sucursalID, err := sucursalDe(c, req.SucursalID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), usuarioID(c), sucursalID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Activo godoc
// @Summary      Corte abierto de la sucursal
// @Description  Devuelve el corte abierto con sus totales en vivo y el efectivo esperado.
// @Tags         cortes
// @Produce      json
// @Security     BearerAuth
// @Param        sucursal_id query string false "UUID de la sucursal (si el token no la fija)"
// @Success      200  {object} dto.CorteResponse
// @Failure      409  {object} apierror.APIError "Sin corte abierto"
// @Router       /v1/cortes/activo [get]
func (h *CortesHandler) Activo(c *gin.Context) {
	sucursalID, err := sucursalDe(c, c.Query("sucursal_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.svc.ObtenerActivo(c.Request.Context(), sucursalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarMovimiento godoc
// @Summary      Gasto o ingreso de caja
// @Tags         cortes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                true "UUID del corte"
// @Param        body body dto.MovimientoRequest true "Movimiento"
// @Success      201  {object} dto.MovimientoResponse
// @Failure      409  {object} apierror.APIError "Corte cerrado"
// @Router       /v1/cortes/{id}/movimientos [post]
func (h *CortesHandler) RegistrarMovimiento(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.MovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarMovimiento(c.Request.Context(), usuarioID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary      Cerrar corte de caja
// @Description  Recibe el conteo ciego del efectivo, congela los totales y clasifica la diferencia.
// @Tags         cortes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "UUID del corte"
// @Param        body body dto.CerrarCorteRequest true "Efectivo contado"
// @Success      200  {object} dto.CorteResponse
// @Failure      409  {object} apierror.APIError "Corte ya cerrado"
// @Failure      422  {object} apierror.APIError "Monto declarado negativo"
// @Router       /v1/cortes/{id}/cerrar [post]
func (h *CortesHandler) Cerrar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.CerrarCorteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CortesHandler) ObtenerReporte(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerReporte(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CortesHandler) Historial(c *gin.Context) {
	var filter dto.CorteFilter
	if !bindQuery(c, &filter) {
		return
	}
	fijarSucursal(c, &filter.SucursalID)
	resp, err := h.svc.Historial(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
