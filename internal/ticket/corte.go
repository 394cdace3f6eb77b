package ticket

import (
	"fmt"

	"casaceja/internal/corte"

	"github.com/shopspring/decimal"
)

// RenderCorte renders the shift-close report. With a nil Conciliacion it
// prints a preview without the declared cash section.
func RenderCorte(cfg Config, d CorteData) string {
	b := newBuilder(cfg)
	t := d.Totals

	titulo := "CORTE DE CAJA"
	if d.Conciliacion == nil {
		titulo = "CORTE PRELIMINAR"
	}
	b.header(d.Header, titulo)
	b.pair("APERTURA:", d.Apertura.Format(fechaLayout))
	if d.Cierre != nil {
		b.pair("CIERRE:", d.Cierre.Format(fechaLayout))
	}
	b.sep("-")
	b.amount("FONDO INICIAL", d.FondoInicial)

	b.seccion("VENTAS DIRECTAS")
	b.amount("EFECTIVO", t.TotalCash)
	b.amount("TARJETA DEBITO", t.TotalDebitCard)
	b.amount("TARJETA CREDITO", t.TotalCreditCard)
	b.amount("CHEQUES", t.TotalChecks)
	b.amount("TRANSFERENCIAS", t.TotalTransfers)
	if !t.TotalOther.IsZero() {
		b.amount("OTROS", t.TotalOther)
	}
	b.pair("NUM. VENTAS", fmt.Sprintf("%d", t.SaleCount))
	b.amount("TOTAL VENTAS", t.TotalSales())

	b.seccion("CREDITOS Y APARTADOS")
	b.amount(fmt.Sprintf("CREDITOS (%d)", t.CreditCount), t.CreditTotalCreated)
	b.amount(fmt.Sprintf("APARTADOS (%d)", t.LayawayCount), t.LayawayTotalCreated)
	b.amount(fmt.Sprintf("ABONOS CRED. EFE (%d)", t.CreditPaymentCount), t.CreditCash)
	b.amount(fmt.Sprintf("ABONOS APT. EFE (%d)", t.LayawayPaymentCount), t.LayawayCash)
	if otros := t.CreditNonCash.Add(t.LayawayNonCash); !otros.IsZero() {
		b.amount("ABONOS OTROS METODOS", otros)
	}

	b.seccion("ENTRADAS DE EFECTIVO")
	b.amount("VENTAS EFECTIVO", t.TotalCash)
	b.amount("ABONOS CREDITOS", t.CreditCash)
	b.amount("ABONOS APARTADOS", t.LayawayCash)
	b.amount("INGRESOS", t.TotalIncome)
	b.amount("TOTAL ENTRADAS", t.CashIn())

	b.seccion("INGRESOS")
	b.detalle(t.Incomes, t.TotalIncome)
	b.seccion("GASTOS")
	b.detalle(t.Expenses, t.TotalExpenses)

	b.sep("=")
	b.arrow("TOTAL DEL CORTE $", t.TotalDelCorte())
	b.arrow("EFECTIVO ESPERADO $", t.ExpectedCash(d.FondoInicial))

	if r := d.Conciliacion; r != nil {
		b.arrow("EFECTIVO DECLARADO $", r.Declared)
		switch {
		case r.HasShortage():
			b.arrow("FALTANTE $", r.Surplus.Abs())
		case r.HasSurplus():
			b.arrow("SOBRANTE $", r.Surplus)
		default:
			b.center("CAJA CUADRADA")
		}
		if r.Clasificacion != "" {
			b.pair("DESVIO:", fmt.Sprintf("%s%% %s", r.SurplusPct.StringFixed(2), r.Clasificacion))
		}
	}

	b.firma("FIRMA CAJERO")
	b.firma("FIRMA SUPERVISOR")
	b.footer()
	return b.String()
}

func (b *builder) seccion(titulo string) {
	b.blank()
	b.line(titulo)
	b.sep("-")
}

func (b *builder) detalle(items []corte.LineItem, total decimal.Decimal) {
	if len(items) == 0 {
		b.line("  (sin movimientos)")
		return
	}
	for _, it := range items {
		b.amount("  "+it.Concepto, it.Monto)
	}
	b.amount("TOTAL", total)
}
