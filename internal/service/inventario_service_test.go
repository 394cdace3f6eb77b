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

func TestAjustarStock(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	p := e.producto("Cinta metrica", "750500", "60.00", 4)

	resp, err := e.inventario.AjustarStock(ctx, e.cajero, p.ID, dto.AjustarStockRequest{Delta: 10, Motivo: "Entrada de proveedor"})
	require.NoError(t, err)
	assert.Equal(t, model.StockAjuste, resp.Tipo)
	assert.Equal(t, 4, resp.StockAnterior)
	assert.Equal(t, 14, resp.StockNuevo)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 14, e.productos.stock(p.ID))

	// stock may go negative; the movement is still recorded
	resp, err = e.inventario.AjustarStock(ctx, e.cajero, p.ID, dto.AjustarStockRequest{Delta: -20, Motivo: "Merma"})
	require.NoError(t, err)
	assert.Equal(t, -6, resp.StockNuevo)

	_, err = e.inventario.AjustarStock(ctx, e.cajero, uuid.New(), dto.AjustarStockRequest{Delta: 1, Motivo: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListarMovimientos(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	a := e.producto("Cinta metrica", "750500", "60.00", 4)
	b := e.producto("Nivel", "750501", "95.00", 4)
	e.abrirCorte("0")

	_, err := e.ventas.RegistrarVenta(ctx, e.cajero, e.sucursal.ID, dto.RegistrarVentaRequest{
		Items: []dto.ItemRequest{item(a, 1), item(b, 2)},
		Pagos: []dto.PagoRequest{pago("efectivo", "250")},
	})
	require.NoError(t, err)
	_, err = e.inventario.AjustarStock(ctx, e.cajero, a.ID, dto.AjustarStockRequest{Delta: 5, Motivo: "Entrada"})
	require.NoError(t, err)

	list, err := e.inventario.ListarMovimientos(ctx, dto.MovimientoStockFilter{ProductoID: a.ID.String(), Page: 1, Limit: 100})
	require.NoError(t, err)
	require.Len(t, list.Data, 2)
	assert.Equal(t, model.StockVenta, list.Data[0].Tipo)
	assert.Equal(t, -1, list.Data[0].Cantidad)
	assert.NotNil(t, list.Data[0].ReferenciaID)
	assert.Equal(t, model.StockAjuste, list.Data[1].Tipo)

	list, err = e.inventario.ListarMovimientos(ctx, dto.MovimientoStockFilter{Tipo: model.StockVenta, Page: 1, Limit: 100})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Total)
}
