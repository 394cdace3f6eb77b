package service

import (
	"errors"
	"fmt"

	"casaceja/internal/corte"

	"gorm.io/gorm"
)

// Sentinel errors returned by the services. Handlers map them to HTTP status
// codes with errors.Is; callers wrap them with context using %w.
var (
	ErrNotFound          = errors.New("registro no encontrado")
	ErrDuplicado         = errors.New("registro duplicado")
	ErrSucursalRequerida = errors.New("sucursal requerida")

	ErrShiftAlreadyOpen   = errors.New("ya existe un corte abierto en esta sucursal")
	ErrShiftNotOpen       = errors.New("no hay corte abierto en esta sucursal")
	ErrShiftAlreadyClosed = corte.ErrShiftAlreadyClosed
	ErrDeclaredNegative   = corte.ErrDeclaredNegative

	ErrMontoInvalido     = errors.New("el monto debe ser mayor a cero")
	ErrProductoInactivo  = errors.New("producto inactivo")
	ErrPagoInsuficiente  = errors.New("el pago no cubre el total")
	ErrCambioSinEfectivo = errors.New("el cambio solo puede entregarse de un pago en efectivo")
	ErrVentaCancelada    = errors.New("la venta ya esta cancelada")

	ErrAbonoExcedeSaldo = errors.New("el abono excede el saldo pendiente")
	ErrCuentaNoActiva   = errors.New("la cuenta no esta activa")
	ErrLimiteCredito    = errors.New("el credito excede el limite del cliente")
	ErrFechaLimite      = errors.New("la fecha limite debe ser posterior a hoy")

	ErrCredencialesInvalidas = errors.New("credenciales invalidas")
	ErrTokenInvalido         = errors.New("token invalido o expirado")

	ErrTipoDocumento = errors.New("tipo de documento desconocido")
)

// notFound turns gorm.ErrRecordNotFound into ErrNotFound with the entity name.
func notFound(err error, entidad string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", entidad, ErrNotFound)
	}
	return err
}

// duplicado turns a unique violation into ErrDuplicado.
func duplicado(err error, entidad string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", entidad, ErrDuplicado)
	}
	return err
}
