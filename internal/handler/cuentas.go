package handler

import (
	"net/http"

	"casaceja/internal/dto"
	"casaceja/internal/model"
	"casaceja/internal/service"

	"github.com/gin-gonic/gin"
)

// CuentasHandler serves credits and layaways. Both share the request shapes
// and the abono flow; tipo picks which side of the service is called.
type CuentasHandler struct {
	svc  service.CreditoService
	tipo string
}

func NewCreditosHandler(svc service.CreditoService) *CuentasHandler {
	return &CuentasHandler{svc: svc, tipo: model.AbonoCredito}
}

func NewApartadosHandler(svc service.CreditoService) *CuentasHandler {
	return &CuentasHandler{svc: svc, tipo: model.AbonoApartado}
}

// Crear godoc
// @Summary      Abrir credito o apartado
// @Description  Registra la cuenta del cliente, descuenta stock y, si hay anticipo, lo cobra como primer abono dentro del corte abierto.
// @Tags         cuentas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearCuentaRequest true "Detalle de la cuenta"
// @Success      201  {object} dto.CuentaResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/creditos [post]
// @Router       /v1/apartados [post]
func (h *CuentasHandler) Crear(c *gin.Context) {
	var req dto.CrearCuentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sucursalID, err := sucursalDe(c, req.SucursalID)
	if err != nil {
		respondError(c, err)
		return
	}

	crear := h.svc.CrearCredito
	if h.tipo == model.AbonoApartado {
		crear = h.svc.CrearApartado
	}
	resp, err := crear(c.Request.Context(), usuarioID(c), sucursalID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CuentasHandler) Obtener(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	obtener := h.svc.ObtenerCredito
	if h.tipo == model.AbonoApartado {
		obtener = h.svc.ObtenerApartado
	}
	resp, err := obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CuentasHandler) Listar(c *gin.Context) {
	var filter dto.CuentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	fijarSucursal(c, &filter.SucursalID)

	listar := h.svc.ListCreditos
	if h.tipo == model.AbonoApartado {
		listar = h.svc.ListApartados
	}
	resp, err := listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarAbono godoc
// @Summary      Abonar a una cuenta
// @Description  Cobra un abono contra el saldo de un credito o apartado. El abono entra al corte abierto de la sucursal.
// @Tags         cuentas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string           true "UUID de la cuenta"
// @Param        body body dto.AbonoRequest true "Pagos del abono"
// @Success      201  {object} dto.AbonoResponse
// @Failure      409  {object} apierror.APIError "Cuenta liquidada o sin corte"
// @Failure      422  {object} apierror.APIError "Abono mayor al saldo"
// @Router       /v1/creditos/{id}/abonos [post]
// @Router       /v1/apartados/{id}/abonos [post]
func (h *CuentasHandler) RegistrarAbono(c *gin.Context) {
	cuentaID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AbonoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sucursalID, err := sucursalDe(c, req.SucursalID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.svc.RegistrarAbono(c.Request.Context(), usuarioID(c), sucursalID, h.tipo, cuentaID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
