package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"casaceja/internal/corte"
	"casaceja/internal/dto"
	"casaceja/internal/infra"
	"casaceja/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorte_AbrirDosVeces(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()

	resp := e.abrirCorte("500")
	assert.Equal(t, model.CorteAbierto, resp.Estado)
	assert.Equal(t, 1, resp.Folio)
	assert.Equal(t, "500.00", resp.Esperado.StringFixed(2))
	assert.Nil(t, resp.Conciliacion)

	_, err := e.cortes.Abrir(ctx, e.cajero, e.sucursal.ID, dto.AbrirCorteRequest{FondoInicial: dec("100")})
	assert.ErrorIs(t, err, ErrShiftAlreadyOpen)
}

func TestCorte_AbrirSucursalInexistente(t *testing.T) {
	e := nuevoEntorno()
	_, err := e.cortes.Abrir(context.Background(), e.cajero, uuid.New(), dto.AbrirCorteRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCorte_SinCorteAbierto(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()

	_, err := e.cortes.ObtenerActivo(ctx, e.sucursal.ID)
	assert.ErrorIs(t, err, ErrShiftNotOpen)

	called := false
	err = e.cortes.ConCorteAbierto(ctx, e.sucursal.ID, func(*model.Corte) error { called = true; return nil })
	assert.ErrorIs(t, err, ErrShiftNotOpen)
	assert.False(t, called)
}

func TestCorte_ComputeTotalsCorteDesconocido(t *testing.T) {
	e := nuevoEntorno()
	totals, err := e.cortes.ComputeTotals(context.Background(), uuid.New(), time.Now())
	require.NoError(t, err)
	assert.True(t, totals.TotalSales().IsZero())
	assert.Equal(t, 0, totals.SaleCount)
}

func TestCorte_Movimientos(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	c := e.abrirCorte("500")
	corteID := uuid.MustParse(c.ID)

	_, err := e.cortes.RegistrarMovimiento(ctx, e.cajero, corteID, dto.MovimientoRequest{Tipo: model.MovimientoGasto, Concepto: "Garrafon", Monto: dec("45")})
	require.NoError(t, err)
	_, err = e.cortes.RegistrarMovimiento(ctx, e.cajero, corteID, dto.MovimientoRequest{Tipo: model.MovimientoIngreso, Concepto: "Cambio extra", Monto: dec("200")})
	require.NoError(t, err)
	_, err = e.cortes.RegistrarMovimiento(ctx, e.cajero, corteID, dto.MovimientoRequest{Tipo: model.MovimientoGasto, Concepto: "Nada", Monto: dec("0")})
	assert.ErrorIs(t, err, ErrMontoInvalido)

	rep, err := e.cortes.ObtenerReporte(ctx, corteID)
	require.NoError(t, err)
	assert.Equal(t, "45.00", rep.Totales.TotalExpenses.StringFixed(2))
	assert.Equal(t, "200.00", rep.Totales.TotalIncome.StringFixed(2))
	require.Len(t, rep.Totales.Expenses, 1)
	assert.Equal(t, "Garrafon", rep.Totales.Expenses[0].Concepto)
	assert.Equal(t, "655.00", rep.Esperado.StringFixed(2))

	_, err = e.cortes.Cerrar(ctx, corteID, dto.CerrarCorteRequest{EfectivoDeclarado: dec("655")})
	require.NoError(t, err)

	_, err = e.cortes.RegistrarMovimiento(ctx, e.cajero, corteID, dto.MovimientoRequest{Tipo: model.MovimientoGasto, Concepto: "Tarde", Monto: dec("10")})
	assert.ErrorIs(t, err, ErrShiftAlreadyClosed)
}

// TestCorte_CicloCompleto runs a shift with every kind of money movement and
// checks the reconciliation at close.
func TestCorte_CicloCompleto(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	martillo := e.producto("Martillo", "750100", "150.00", 20)
	taladro := e.producto("Taladro", "750200", "200.00", 5)
	cliente := e.clientesR.add(model.Cliente{Nombre: "Jose Perez"})

	c := e.abrirCorte("500")
	corteID := uuid.MustParse(c.ID)

	// 150 in cash, customer hands over 200
	_, err := e.ventas.RegistrarVenta(ctx, e.cajero, e.sucursal.ID, dto.RegistrarVentaRequest{
		Items: []dto.ItemRequest{item(martillo, 1)},
		Pagos: []dto.PagoRequest{pago("efectivo", "200")},
	})
	require.NoError(t, err)
	// 200 by card
	_, err = e.ventas.RegistrarVenta(ctx, e.cajero, e.sucursal.ID, dto.RegistrarVentaRequest{
		Items: []dto.ItemRequest{item(taladro, 1)},
		Pagos: []dto.PagoRequest{pago("tarjeta_debito", "200")},
	})
	require.NoError(t, err)
	// credit of 300 with 100 down: 60 cash + 40 transfer
	cred, err := e.creditos.CrearCredito(ctx, e.cajero, e.sucursal.ID, dto.CrearCuentaRequest{
		ClienteID: cliente.ID.String(),
		Items:     []dto.ItemRequest{item(martillo, 2)},
		Pagos:     []dto.PagoRequest{pago("efectivo", "60"), pago("transferencia", "40")},
	})
	require.NoError(t, err)
	assert.Equal(t, "200.00", cred.Saldo.StringFixed(2))
	_, err = e.cortes.RegistrarMovimiento(ctx, e.cajero, corteID, dto.MovimientoRequest{Tipo: model.MovimientoGasto, Concepto: "Papeleria", Monto: dec("30")})
	require.NoError(t, err)

	// expected = 500 + 150 + 60 - 30 = 680; the drawer is 10 short
	obs := "faltan 10"
	rep, err := e.cortes.Cerrar(ctx, corteID, dto.CerrarCorteRequest{EfectivoDeclarado: dec("670"), Observaciones: &obs})
	require.NoError(t, err)

	assert.Equal(t, model.CorteCerrado, rep.Estado)
	require.NotNil(t, rep.ClosedAt)
	require.NotNil(t, rep.Conciliacion)
	r := rep.Conciliacion
	assert.Equal(t, "680.00", r.Expected.StringFixed(2))
	assert.Equal(t, "670.00", r.Declared.StringFixed(2))
	assert.Equal(t, "-10.00", r.Surplus.StringFixed(2))
	assert.True(t, r.HasShortage())
	assert.Equal(t, corte.VarianceAdvertencia, r.Clasificacion)

	tt := rep.Totales
	assert.Equal(t, 2, tt.SaleCount)
	assert.Equal(t, "150.00", tt.TotalCash.StringFixed(2))
	assert.Equal(t, "200.00", tt.TotalDebitCard.StringFixed(2))
	assert.Equal(t, "300.00", tt.CreditTotalCreated.StringFixed(2))
	assert.Equal(t, "60.00", tt.CreditCash.StringFixed(2))
	assert.Equal(t, "30.00", tt.TotalExpenses.StringFixed(2))
	assert.Equal(t, "650.00", rep.TotalDelCorte.StringFixed(2))
	assert.Equal(t, &obs, rep.Observaciones)

	// closing again is refused and changes nothing
	_, err = e.cortes.Cerrar(ctx, corteID, dto.CerrarCorteRequest{EfectivoDeclarado: dec("680")})
	assert.ErrorIs(t, err, ErrShiftAlreadyClosed)
	again, err := e.cortes.ObtenerReporte(ctx, corteID)
	require.NoError(t, err)
	assert.Equal(t, "670.00", again.Conciliacion.Declared.StringFixed(2))
	assert.Equal(t, "150.00", again.Totales.TotalCash.StringFixed(2), "frozen totals")

	// the branch can open a new shift, which starts from zero
	nuevo := e.abrirCorte("680")
	assert.Equal(t, 2, nuevo.Folio)
	assert.Equal(t, 0, nuevo.Totales.SaleCount)
}

func TestCorte_CerrarDeclaradoNegativo(t *testing.T) {
	e := nuevoEntorno()
	c := e.abrirCorte("100")
	_, err := e.cortes.Cerrar(context.Background(), uuid.MustParse(c.ID), dto.CerrarCorteRequest{EfectivoDeclarado: dec("-1")})
	assert.ErrorIs(t, err, ErrDeclaredNegative)

	rep, err := e.cortes.ObtenerActivo(context.Background(), e.sucursal.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CorteAbierto, rep.Estado, "a rejected close leaves the corte open")
}

func TestCorte_CerrarEncolaReporte(t *testing.T) {
	e := nuevoEntorno()
	e.cortes = NewCorteService(e.cortesR, e.sucursalesR, e.ventasR, e.creditosR, infra.NewLocalLocker(), e.queue, "gerencia@casaceja.mx")
	ctx := context.Background()

	c, err := e.cortes.Abrir(ctx, e.cajero, e.sucursal.ID, dto.AbrirCorteRequest{FondoInicial: dec("0")})
	require.NoError(t, err)
	_, err = e.cortes.Cerrar(ctx, uuid.MustParse(c.ID), dto.CerrarCorteRequest{EfectivoDeclarado: dec("0")})
	require.NoError(t, err)

	require.Len(t, e.queue.jobs, 1)
	job := e.queue.jobs[0]
	assert.Equal(t, DocCorte, job.Tipo)
	assert.Equal(t, c.ID, job.ID.String())
	assert.Equal(t, "gerencia@casaceja.mx", job.Email)
	assert.Contains(t, job.Subject, "CC-000001")
}

// TestCorte_CierreConcurrenteConVentas closes the shift while sales are being
// rung up: every sale either lands in the frozen totals or fails with
// ErrShiftNotOpen.
func TestCorte_CierreConcurrenteConVentas(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	p := e.producto("Tornillo", "750300", "10.00", 1000)
	c := e.abrirCorte("0")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		vendidas int
	)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.ventas.RegistrarVenta(ctx, e.cajero, e.sucursal.ID, dto.RegistrarVentaRequest{
				Items: []dto.ItemRequest{item(p, 1)},
				Pagos: []dto.PagoRequest{pago("efectivo", "10")},
			})
			if err == nil {
				mu.Lock()
				vendidas++
				mu.Unlock()
				return
			}
			if !errors.Is(err, ErrShiftNotOpen) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	rep, err := e.cortes.Cerrar(ctx, uuid.MustParse(c.ID), dto.CerrarCorteRequest{EfectivoDeclarado: dec("0")})
	require.NoError(t, err)
	wg.Wait()

	assert.Equal(t, vendidas, rep.Totales.SaleCount)
	assert.Equal(t, decimalInt(10*vendidas).StringFixed(2), rep.Totales.TotalCash.StringFixed(2))
	assert.Equal(t, 1000-vendidas, e.productos.stock(p.ID))
}

func TestCorte_Historial(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	c := e.abrirCorte("100")
	_, err := e.cortes.Cerrar(ctx, uuid.MustParse(c.ID), dto.CerrarCorteRequest{EfectivoDeclarado: dec("100")})
	require.NoError(t, err)
	e.abrirCorte("100")

	list, err := e.cortes.Historial(ctx, dto.CorteFilter{SucursalID: e.sucursal.ID.String(), Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, list.Data, 2)
	assert.Equal(t, model.CorteAbierto, list.Data[0].Estado)
	assert.Equal(t, model.CorteCerrado, list.Data[1].Estado)
	require.NotNil(t, list.Data[1].Conciliacion)
	assert.Equal(t, corte.VarianceNormal, list.Data[1].Conciliacion.Clasificacion)
}
