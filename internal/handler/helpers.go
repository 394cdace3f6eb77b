package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"casaceja/internal/apierror"
	"casaceja/internal/infra"
	"casaceja/internal/middleware"
	"casaceja/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery is bindAndValidate for list filters.
func bindQuery(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	return validateStruct(c, filter)
}

func validateStruct(c *gin.Context, v interface{}) bool {
	if err := validate.Struct(v); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string)
		for _, fe := range ve {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// paramUUID parses a path parameter, answering 400 when it is not a UUID.
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// usuarioID is the authenticated user. JWTAuth guarantees the claims exist.
func usuarioID(c *gin.Context) uuid.UUID {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return uuid.Nil
	}
	id, _ := claims.UsuarioID()
	return id
}

// sucursalDe resolves the branch an operation applies to. A token pinned to a
// branch always wins; otherwise the request must name one.
func sucursalDe(c *gin.Context, solicitada string) (uuid.UUID, error) {
	if claims := middleware.GetClaims(c); claims != nil && claims.SucursalID != nil && *claims.SucursalID != "" {
		solicitada = *claims.SucursalID
	}
	if solicitada == "" {
		return uuid.Nil, service.ErrSucursalRequerida
	}
	id, err := uuid.Parse(solicitada)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%q: %w", solicitada, service.ErrSucursalRequerida)
	}
	return id, nil
}

// ── Error mapping ─────────────────────────────────────────────────────────────

type errorMapping struct {
	target error
	status int
	code   string
}

var errorTable = []errorMapping{
	{service.ErrNotFound, http.StatusNotFound, "no_encontrado"},
	{service.ErrDuplicado, http.StatusConflict, "duplicado"},
	{service.ErrSucursalRequerida, http.StatusBadRequest, "sucursal_requerida"},
	{service.ErrShiftAlreadyOpen, http.StatusConflict, "corte_abierto"},
	{service.ErrShiftNotOpen, http.StatusConflict, "sin_corte"},
	{service.ErrShiftAlreadyClosed, http.StatusConflict, "corte_cerrado"},
	{service.ErrDeclaredNegative, http.StatusUnprocessableEntity, "declarado_negativo"},
	{service.ErrMontoInvalido, http.StatusUnprocessableEntity, "monto_invalido"},
	{service.ErrProductoInactivo, http.StatusUnprocessableEntity, "producto_inactivo"},
	{service.ErrPagoInsuficiente, http.StatusUnprocessableEntity, "pago_insuficiente"},
	{service.ErrCambioSinEfectivo, http.StatusUnprocessableEntity, "cambio_sin_efectivo"},
	{service.ErrVentaCancelada, http.StatusConflict, "venta_cancelada"},
	{service.ErrAbonoExcedeSaldo, http.StatusUnprocessableEntity, "abono_excede_saldo"},
	{service.ErrCuentaNoActiva, http.StatusConflict, "cuenta_no_activa"},
	{service.ErrLimiteCredito, http.StatusUnprocessableEntity, "limite_credito"},
	{service.ErrFechaLimite, http.StatusUnprocessableEntity, "fecha_limite"},
	{service.ErrCredencialesInvalidas, http.StatusUnauthorized, "credenciales_invalidas"},
	{service.ErrTokenInvalido, http.StatusUnauthorized, "token_invalido"},
	{service.ErrTipoDocumento, http.StatusBadRequest, "tipo_documento"},
	{infra.ErrLockBusy, http.StatusServiceUnavailable, "caja_ocupada"},
}

// respondError writes the status and code for a service error. Anything not in
// the table is attached to the context for middleware.ErrorHandler, which logs
// it and answers the generic 500.
func respondError(c *gin.Context, err error) {
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			c.JSON(m.status, apierror.WithCode(m.code, err.Error()))
			return
		}
	}
	_ = c.Error(err)
	c.Abort()
}

// fijarSucursal narrows a list filter to the caller's branch when the token
// is pinned to one.
func fijarSucursal(c *gin.Context, filtro *string) {
	if claims := middleware.GetClaims(c); claims != nil && claims.SucursalID != nil && *claims.SucursalID != "" {
		*filtro = *claims.SucursalID
	}
}
