package corte

import (
	"time"

	"casaceja/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Scope identifies the shift being aggregated. Desde is the corte's opening
// timestamp and is an inclusive lower bound.
type Scope struct {
	CorteID    uuid.UUID
	SucursalID uuid.UUID
	Desde      time.Time
}

// Records are the raw events loaded for a shift. They may contain rows from
// other branches or from before the opening; Compute filters them.
type Records struct {
	Ventas      []model.Venta
	Creditos    []model.Credito
	Apartados   []model.Apartado
	Abonos      []model.Abono
	Movimientos []model.MovimientoCaja
}

// Compute aggregates recs into Totals for the shift described by s.
func Compute(s Scope, recs Records) Totals {
	t := zeroTotals()

	for i := range recs.Ventas {
		v := &recs.Ventas[i]
		if v.SucursalID != s.SucursalID || v.Fecha.Before(s.Desde) || v.Estado == model.VentaCancelada {
			continue
		}
		t.addVenta(v)
	}

	for _, c := range recs.Creditos {
		if c.SucursalID != s.SucursalID || c.Fecha.Before(s.Desde) || c.Estado == model.CuentaCancelada {
			continue
		}
		t.CreditTotalCreated = t.CreditTotalCreated.Add(c.Total)
		t.CreditCount++
	}

	for _, a := range recs.Apartados {
		if a.SucursalID != s.SucursalID || a.Fecha.Before(s.Desde) || a.Estado == model.CuentaCancelada {
			continue
		}
		t.LayawayTotalCreated = t.LayawayTotalCreated.Add(a.Total)
		t.LayawayCount++
	}

	for i := range recs.Abonos {
		ab := &recs.Abonos[i]
		if ab.SucursalID != s.SucursalID || ab.Fecha.Before(s.Desde) {
			continue
		}
		t.addAbono(ab)
	}

	for _, m := range recs.Movimientos {
		if m.CorteID != s.CorteID {
			continue
		}
		item := LineItem{Concepto: m.Concepto, Monto: m.Monto}
		switch m.Tipo {
		case model.MovimientoGasto:
			t.TotalExpenses = t.TotalExpenses.Add(m.Monto)
			t.Expenses = append(t.Expenses, item)
		case model.MovimientoIngreso:
			t.TotalIncome = t.TotalIncome.Add(m.Monto)
			t.Incomes = append(t.Incomes, item)
		}
	}

	return t
}

// addVenta buckets a sale by payment method. A single-method sale contributes
// its total; a mixed one is split by its breakdown, and any part of the total
// the breakdown does not account for lands in TotalOther so TotalSales always
// equals the sum of sale totals.
func (t *Totals) addVenta(v *model.Venta) {
	pagos := v.Breakdown()
	t.SaleCount++

	if len(pagos) == 1 {
		t.bucket(pagos[0].Metodo, v.Total)
		return
	}

	covered := decimal.Zero
	for _, p := range pagos {
		t.bucket(p.Metodo, p.Monto)
		covered = covered.Add(p.Monto)
	}
	if rest := v.Total.Sub(covered); !rest.IsZero() {
		t.TotalOther = t.TotalOther.Add(rest)
	}
}

func (t *Totals) bucket(metodo string, monto decimal.Decimal) {
	m, _ := model.NormalizarMetodo(metodo)
	switch m {
	case model.MetodoEfectivo:
		t.TotalCash = t.TotalCash.Add(monto)
	case model.MetodoTarjetaDebito:
		t.TotalDebitCard = t.TotalDebitCard.Add(monto)
	case model.MetodoTarjetaCredito:
		t.TotalCreditCard = t.TotalCreditCard.Add(monto)
	case model.MetodoCheque:
		t.TotalChecks = t.TotalChecks.Add(monto)
	case model.MetodoTransferencia:
		t.TotalTransfers = t.TotalTransfers.Add(monto)
	default:
		t.TotalOther = t.TotalOther.Add(monto)
	}
}

func (t *Totals) addAbono(ab *model.Abono) {
	cash := decimal.Zero
	pagos := ab.Breakdown()
	for _, p := range pagos {
		if m, _ := model.NormalizarMetodo(p.Metodo); m == model.MetodoEfectivo {
			cash = cash.Add(p.Monto)
		}
	}
	if len(pagos) == 0 {
		// legacy abonos without breakdown were always cash
		cash = ab.Monto
	}
	nonCash := ab.Monto.Sub(cash)
	if nonCash.IsNegative() {
		nonCash = decimal.Zero
	}

	switch ab.Tipo {
	case model.AbonoCredito:
		t.CreditCash = t.CreditCash.Add(cash)
		t.CreditNonCash = t.CreditNonCash.Add(nonCash)
		t.CreditPaymentCount++
	case model.AbonoApartado:
		t.LayawayCash = t.LayawayCash.Add(cash)
		t.LayawayNonCash = t.LayawayNonCash.Add(nonCash)
		t.LayawayPaymentCount++
	}
}
