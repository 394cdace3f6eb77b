package service

import (
	"context"
	"testing"

	"casaceja/internal/dto"
	"casaceja/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrarVenta_DescuentaStock(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	martillo := e.producto("Martillo", "750100", "150.00", 10)
	clavos := e.producto("Clavos 1kg", "750101", "45.50", 30)
	c := e.abrirCorte("500")

	resp, err := e.ventas.RegistrarVenta(ctx, e.cajero, e.sucursal.ID, dto.RegistrarVentaRequest{
		Items: []dto.ItemRequest{item(martillo, 2), item(clavos, 3)},
		Pagos: []dto.PagoRequest{pago("efectivo", "500")},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Folio)
	assert.Equal(t, c.ID, resp.CorteID)
	assert.Equal(t, "436.50", resp.Total.StringFixed(2))
	assert.Equal(t, "500.00", resp.Recibido.StringFixed(2))
	assert.Equal(t, "63.50", resp.Cambio.StringFixed(2))
	assert.Equal(t, model.VentaCompletada, resp.Estado)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Martillo", resp.Items[0].Nombre)

	assert.Equal(t, 8, e.productos.stock(martillo.ID))
	assert.Equal(t, 27, e.productos.stock(clavos.ID))

	require.Len(t, e.movStock.movs, 2)
	for _, m := range e.movStock.movs {
		assert.Equal(t, model.StockVenta, m.Tipo)
		assert.Negative(t, m.Cantidad)
		assert.Equal(t, m.StockAnterior+m.Cantidad, m.StockNuevo)
		require.NotNil(t, m.ReferenciaID)
		assert.Equal(t, resp.ID, m.ReferenciaID.String())
	}
	assert.Empty(t, e.queue.jobs, "nothing printed unless asked")
}

func TestRegistrarVenta_SinCorte(t *testing.T) {
	e := nuevoEntorno()
	p := e.producto("Martillo", "750100", "150.00", 10)

	_, err := e.ventas.RegistrarVenta(context.Background(), e.cajero, e.sucursal.ID, dto.RegistrarVentaRequest{
		Items: []dto.ItemRequest{item(p, 1)},
		Pagos: []dto.PagoRequest{pago("efectivo", "150")},
	})
	assert.ErrorIs(t, err, ErrShiftNotOpen)
	assert.Equal(t, 10, e.productos.stock(p.ID))
	assert.Empty(t, e.ventasR.ventas)
}

func TestRegistrarVenta_Rechazos(t *testing.T) {
	e := nuevoEntorno()
	p := e.producto("Martillo", "750100", "150.00", 10)
	e.abrirCorte("0")

	tests := []struct {
		name  string
		req   dto.RegistrarVentaRequest
		error error
	}{
		{
			name:  "pago insuficiente",
			req:   dto.RegistrarVentaRequest{Items: []dto.ItemRequest{item(p, 1)}, Pagos: []dto.PagoRequest{pago("efectivo", "100")}},
			error: ErrPagoInsuficiente,
		},
		{
			name:  "cambio de tarjeta",
			req:   dto.RegistrarVentaRequest{Items: []dto.ItemRequest{item(p, 1)}, Pagos: []dto.PagoRequest{pago("tarjeta_credito", "200")}},
			error: ErrCambioSinEfectivo,
		},
		{
			name:  "producto inexistente",
			req:   dto.RegistrarVentaRequest{Items: []dto.ItemRequest{{ProductoID: uuid.NewString(), Cantidad: 1}}, Pagos: []dto.PagoRequest{pago("efectivo", "10")}},
			error: ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ventas.RegistrarVenta(context.Background(), e.cajero, e.sucursal.ID, tt.req)
			assert.ErrorIs(t, err, tt.error)
		})
	}
	assert.Equal(t, 10, e.productos.stock(p.ID))
}

func TestRegistrarVenta_ImprimirEncola(t *testing.T) {
	e := nuevoEntorno()
	p := e.producto("Martillo", "750100", "150.00", 10)
	e.abrirCorte("0")

	resp, err := e.ventas.RegistrarVenta(context.Background(), e.cajero, e.sucursal.ID, dto.RegistrarVentaRequest{
		Items:    []dto.ItemRequest{item(p, 1)},
		Pagos:    []dto.PagoRequest{pago("tarjeta_debito", "150")},
		Imprimir: true,
	})
	require.NoError(t, err)
	require.Len(t, e.queue.jobs, 1)
	assert.Equal(t, DocVenta, e.queue.jobs[0].Tipo)
	assert.Equal(t, resp.ID, e.queue.jobs[0].ID.String())
}

func TestCancelarVenta(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	p := e.producto("Martillo", "750100", "150.00", 10)
	c := e.abrirCorte("0")

	resp, err := e.ventas.RegistrarVenta(ctx, e.cajero, e.sucursal.ID, dto.RegistrarVentaRequest{
		Items: []dto.ItemRequest{item(p, 3)},
		Pagos: []dto.PagoRequest{pago("efectivo", "450")},
	})
	require.NoError(t, err)
	require.Equal(t, 7, e.productos.stock(p.ID))

	id := uuid.MustParse(resp.ID)
	require.NoError(t, e.ventas.CancelarVenta(ctx, e.cajero, id, "cliente se arrepintio"))
	assert.Equal(t, 10, e.productos.stock(p.ID))

	v, err := e.ventas.ObtenerVenta(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.VentaCancelada, v.Estado)

	err = e.ventas.CancelarVenta(ctx, e.cajero, id, "otra vez")
	assert.ErrorIs(t, err, ErrVentaCancelada)
	assert.Equal(t, 10, e.productos.stock(p.ID))

	// a cancelled sale does not count toward the shift
	rep, err := e.cortes.ObtenerReporte(ctx, uuid.MustParse(c.ID))
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Totales.SaleCount)
	assert.True(t, rep.Totales.TotalCash.IsZero())
}

func TestCancelarVenta_CorteCerrado(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	p := e.producto("Martillo", "750100", "150.00", 10)
	c := e.abrirCorte("0")

	resp, err := e.ventas.RegistrarVenta(ctx, e.cajero, e.sucursal.ID, dto.RegistrarVentaRequest{
		Items: []dto.ItemRequest{item(p, 1)},
		Pagos: []dto.PagoRequest{pago("efectivo", "150")},
	})
	require.NoError(t, err)
	_, err = e.cortes.Cerrar(ctx, uuid.MustParse(c.ID), dto.CerrarCorteRequest{EfectivoDeclarado: dec("150")})
	require.NoError(t, err)

	id := uuid.MustParse(resp.ID)
	err = e.ventas.CancelarVenta(ctx, e.cajero, id, "fuera de turno")
	assert.ErrorIs(t, err, ErrShiftNotOpen)

	e.abrirCorte("0")
	err = e.ventas.CancelarVenta(ctx, e.cajero, id, "fuera de turno")
	assert.ErrorIs(t, err, ErrShiftAlreadyClosed)
	assert.Equal(t, 9, e.productos.stock(p.ID))
}

func TestCancelarVenta_NoExiste(t *testing.T) {
	e := nuevoEntorno()
	err := e.ventas.CancelarVenta(context.Background(), e.cajero, uuid.New(), "no existe")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListVentas_Defaults(t *testing.T) {
	e := nuevoEntorno()
	p := e.producto("Martillo", "750100", "150.00", 10)
	e.abrirCorte("0")
	for i := 0; i < 3; i++ {
		_, err := e.ventas.RegistrarVenta(context.Background(), e.cajero, e.sucursal.ID, dto.RegistrarVentaRequest{
			Items: []dto.ItemRequest{item(p, 1)},
			Pagos: []dto.PagoRequest{pago("efectivo", "150")},
		})
		require.NoError(t, err)
	}

	list, err := e.ventas.ListVentas(context.Background(), dto.VentaFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 50, list.Limit)
	assert.EqualValues(t, 3, list.Total)
	assert.Equal(t, []int{1, 2, 3}, []int{list.Data[0].Folio, list.Data[1].Folio, list.Data[2].Folio})
}
