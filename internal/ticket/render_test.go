package ticket

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"casaceja/internal/corte"
	"casaceja/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	fecha     = time.Date(2024, 5, 10, 14, 32, 0, 0, time.UTC)
	montoExpr = regexp.MustCompile(`-?\$?\d[\d,]*\.\d{2}\b`)
)

func cfg(width int) Config {
	return Config{
		LineWidth:    width,
		BusinessName: "Casa Ceja",
		Footer:       "GRACIAS POR SU COMPRA",
		RFC:          "CEJA800101AB1",
		TerminalID:   "CAJA-01",
	}
}

func header(folio string) Header {
	return Header{
		Sucursal:  "Sucursal Centro",
		Direccion: "Av. Juarez 120, Col. Centro, Morelia, Michoacan",
		Folio:     folio,
		Fecha:     fecha,
		Cajero:    "Maria Lopez",
		Cliente:   "Ferreteria El Tornillo Feliz de Michoacan",
	}
}

func pct(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func ventaData() Data {
	return Data{
		Kind:   KindVenta,
		Header: header("V-000123"),
		Items: []Item{
			{Nombre: "Juego de desarmadores de precision 40pz.", Cantidad: 1,
				PrecioUnitario: d("249.90"), PrecioLista: d("249.90"), Importe: d("249.90")},
			{Nombre: "Pinzas de presion", Cantidad: 12,
				PrecioUnitario: d("80.00"), PrecioLista: d("95.00"), Importe: d("960.00"),
				Tier: model.PrecioMayoreo, DescuentoCategoriaPct: pct("10")},
			{Nombre: "Cinta", Cantidad: 3,
				PrecioUnitario: d("24.66"), PrecioLista: d("24.66"), Importe: d("73.98")},
		},
		Subtotal: d("1283.88"),
		Total:    d("1283.88"),
		Pagos: []model.Pago{
			{Metodo: model.MetodoEfectivo, Monto: d("283.88")},
			{Metodo: model.MetodoTarjetaDebito, Monto: d("1000.00")},
			{Metodo: model.MetodoCheque, Monto: decimal.Zero},
		},
		Recibido: d("300.00"),
		Cambio:   d("16.12"),
	}
}

// assertAnchoYMontos checks every line fits and every money token parses back
// to a two-decimal value.
func assertAnchoYMontos(t *testing.T, text string, width int) []string {
	t.Helper()
	var montos []string
	for i, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		assert.LessOrEqual(t, runeLen(line), width, "line %d %q", i, line)
		for _, tok := range montoExpr.FindAllString(line, -1) {
			clean := strings.NewReplacer("$", "", ",", "").Replace(tok)
			v, err := decimal.NewFromString(clean)
			require.NoError(t, err, tok)
			assert.Equal(t, clean, v.StringFixed(2), tok)
			montos = append(montos, clean)
		}
	}
	return montos
}

func TestRenderVenta_AnchoYMontos(t *testing.T) {
	for _, w := range []int{32, 40, 48} {
		text := RenderVenta(cfg(w), ventaData())
		montos := assertAnchoYMontos(t, text, w)

		for _, want := range []string{"249.90", "960.00", "73.98", "1283.88", "283.88", "1000.00", "300.00", "16.12", "180.00"} {
			assert.Contains(t, montos, want, "width %d", w)
		}
	}
}

func TestRenderVenta_Contenido(t *testing.T) {
	text := RenderVenta(cfg(32), ventaData())
	lines := strings.Split(text, "\n")

	assert.Equal(t, "       C A S A   C E J A", lines[0])
	assert.Contains(t, text, "RFC: CEJA800101AB1\n")
	assert.Contains(t, text, "TICKET DE VENTA")
	assert.Contains(t, text, "FOLIO:                  V-000123\n")
	assert.Contains(t, text, "CAJA:                    CAJA-01\n")
	assert.Contains(t, text, "Juego de d   1   249.90   249.90\n")
	assert.Contains(t, text, "TOTAL A PAGAR $ -------> 1283.88\n")
	assert.Contains(t, text, "TARJETA DEBITO         $1,000.00\n")
	assert.NotContains(t, text, "CHEQUE")

	i := indexOf(lines, "Pinzas de   12    80.00   960.00")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "  (Desc. categoria 10%)", lines[i+1])
	assert.Equal(t, "  (Precio mayoreo)", lines[i+2])
	assert.Contains(t, text, "ARTICULOS: 16\n")
	assert.True(t, strings.HasSuffix(text, "     GRACIAS POR SU COMPRA\n"))
}

func TestRenderVenta_PagoLegado(t *testing.T) {
	data := ventaData()
	data.Pagos = nil
	data.MetodoRaw = `{"efectivo": 283.88, "VALES": 1000}`

	text := RenderVenta(cfg(32), data)

	assert.Contains(t, text, "EFECTIVO                 $283.88\n")
	assert.Contains(t, text, "VALES                  $1,000.00\n")

	data.MetodoRaw = `{"efectivo": 283.88,`
	text = RenderVenta(cfg(32), data)
	assert.Contains(t, text, "FORMA DE PAGO\n{\"efectivo\": 283.88,\n")
}

func TestRenderVenta_ArticuloCaro(t *testing.T) {
	data := ventaData()
	data.Items = []Item{{Nombre: "Refrigerador industrial", Cantidad: 1,
		PrecioUnitario: d("125000.00"), PrecioLista: d("125000.00"), Importe: d("125000.00")}}

	text := RenderVenta(cfg(32), data)

	assertAnchoYMontos(t, text, 32)
	assert.Contains(t, text, "Refrigerador industrial\n  1 x 125000.00        125000.00\n")
}

func TestRenderCredito(t *testing.T) {
	data := ventaData()
	data.Kind = KindCredito
	data.Header.Folio = "C-000045"
	data.Saldo = d("1083.88")
	data.Pagos = []model.Pago{{Metodo: model.MetodoEfectivo, Monto: d("200.00")}}

	text := Render(cfg(32), data)

	assertAnchoYMontos(t, text, 32)
	assert.Contains(t, text, "TICKET DE CREDITO")
	assert.Contains(t, text, "ANTICIPO\nEFECTIVO                 $200.00\n")
	assert.Contains(t, text, "SALDO PENDIENTE $ -----> 1083.88\n")
	assert.Contains(t, text, "FIRMA DEL CLIENTE")
}

func TestRenderApartado(t *testing.T) {
	limite := fecha.AddDate(0, 1, 0)
	data := ventaData()
	data.Kind = KindApartado
	data.Saldo = data.Total
	data.Pagos = nil
	data.FechaLimite = &limite

	text := Render(cfg(40), data)

	assertAnchoYMontos(t, text, 40)
	assert.Contains(t, text, "TICKET DE APARTADO")
	assert.NotContains(t, text, "ANTICIPO")
	assert.Contains(t, text, "10/06/2024\n")
}

func TestRenderAbono_Liquida(t *testing.T) {
	data := Data{
		Kind:          KindAbono,
		Header:        header("A-000301"),
		Referencia:    "CREDITO C-000045",
		SaldoAnterior: d("150.00"),
		Total:         d("150.00"),
		Saldo:         decimal.Zero,
		Pagos: []model.Pago{
			{Metodo: model.MetodoEfectivo, Monto: d("50.00")},
			{Metodo: model.MetodoTransferencia, Monto: d("100.00")},
		},
	}

	text := Render(cfg(32), data)

	assertAnchoYMontos(t, text, 32)
	assert.Contains(t, text, "CUENTA:         CREDITO C-000045\n")
	assert.Contains(t, text, "ABONO $ ----------------> 150.00\n")
	assert.Contains(t, text, "TRANSFERENCIA            $100.00\n")
	assert.Contains(t, text, "*** CUENTA LIQUIDADA ***")
}

func TestRenderReimpresion(t *testing.T) {
	data := ventaData()
	data.Kind = KindReimpresion
	data.Original = KindApartado
	data.Saldo = d("683.88")
	data.Abonos = []AbonoLinea{
		{Folio: "A-000010", Fecha: fecha, Monto: d("300.00"), Saldo: d("983.88")},
		{Folio: "A-000017", Fecha: fecha.AddDate(0, 0, 7), Monto: d("300.00"), Saldo: d("683.88")},
	}

	text := Render(cfg(32), data)

	assertAnchoYMontos(t, text, 32)
	assert.Contains(t, text, "REIMPRESION DE APARTADO")
	assert.Contains(t, text, "HISTORIAL DE ABONOS")
	assert.Contains(t, text, "17/05/24                A-000017\n")
	assert.Contains(t, text, "TOTAL ABONADO            $600.00\n")
	assert.Contains(t, text, "SALDO ACTUAL $ ---------> 683.88\n")
}

func TestRenderCorte(t *testing.T) {
	tot := corte.Empty()
	tot.TotalCash = d("150.00")
	tot.TotalDebitCard = d("200.00")
	tot.SaleCount = 2
	tot.TotalExpenses = d("50.00")
	tot.Expenses = []corte.LineItem{{Concepto: "Garrafon de agua para la sucursal", Monto: d("50.00")}}
	cierre := fecha.Add(8 * time.Hour)
	r := corte.Reconcile(tot, d("500.00"), d("590.00"))

	for _, w := range []int{32, 48} {
		text := RenderCorte(cfg(w), CorteData{
			Header:       Header{Sucursal: "Sucursal Centro", Folio: "CC-000007", Cajero: "Maria Lopez"},
			FondoInicial: d("500.00"),
			Apertura:     fecha,
			Cierre:       &cierre,
			Totals:       tot,
			Conciliacion: &r,
		})

		montos := assertAnchoYMontos(t, text, w)
		assert.Contains(t, montos, "600.00")
		assert.Contains(t, montos, "350.00")
		assert.Contains(t, montos, "10.00")
		assert.Contains(t, text, "CORTE DE CAJA")
		assert.Contains(t, text, "FALTANTE $")
		assert.Contains(t, text, "(sin movimientos)")
		assert.Contains(t, text, "FIRMA SUPERVISOR")
		assert.NotContains(t, text, "OTROS")
	}
}

func TestRenderCorte_Preliminar(t *testing.T) {
	text := RenderCorte(cfg(32), CorteData{Apertura: fecha, Totals: corte.Empty()})

	assert.Contains(t, text, "CORTE PRELIMINAR")
	assert.NotContains(t, text, "DECLARADO")
	assert.Contains(t, text, "EFECTIVO ESPERADO $ ------> 0.00\n")
}

func indexOf(lines []string, want string) int {
	for i, l := range lines {
		if l == want {
			return i
		}
	}
	return -1
}
