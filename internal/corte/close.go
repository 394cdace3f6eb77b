package corte

import (
	"errors"
	"time"

	"casaceja/internal/model"

	"github.com/shopspring/decimal"
)

var (
	ErrShiftAlreadyClosed = errors.New("el corte ya está cerrado")
	ErrDeclaredNegative   = errors.New("el efectivo declarado no puede ser negativo")
)

// Variance classifications, by absolute percentage of expected cash.
const (
	VarianceNormal      = "normal"      // <= 1%
	VarianceAdvertencia = "advertencia" // <= 5%
	VarianceCritico     = "critico"     // > 5%
)

// Reconciliation is the outcome of closing a shift.
type Reconciliation struct {
	Expected      decimal.Decimal `json:"efectivo_esperado"`
	Declared      decimal.Decimal `json:"efectivo_declarado"`
	Surplus       decimal.Decimal `json:"diferencia"`
	SurplusPct    decimal.Decimal `json:"diferencia_pct"`
	Clasificacion string          `json:"clasificacion"`
}

// HasShortage reports a drawer holding less than expected (faltante).
func (r Reconciliation) HasShortage() bool { return r.Surplus.IsNegative() }

// HasSurplus reports a drawer holding more than expected (sobrante).
func (r Reconciliation) HasSurplus() bool { return r.Surplus.IsPositive() }

// Reconcile compares the declared drawer against the expected cash.
func Reconcile(t Totals, fondoInicial, declared decimal.Decimal) Reconciliation {
	expected := t.ExpectedCash(fondoInicial)
	surplus := declared.Sub(expected)

	pct := decimal.Zero
	if !expected.IsZero() {
		pct = surplus.Div(expected).Mul(decimal.NewFromInt(100)).Round(2)
	}

	clasif := classify(pct)
	if expected.IsZero() && !surplus.IsZero() {
		clasif = VarianceCritico
	}

	return Reconciliation{
		Expected:      expected,
		Declared:      declared,
		Surplus:       surplus,
		SurplusPct:    pct,
		Clasificacion: clasif,
	}
}

func classify(pct decimal.Decimal) string {
	abs := pct.Abs()
	switch {
	case abs.LessThanOrEqual(decimal.NewFromInt(1)):
		return VarianceNormal
	case abs.LessThanOrEqual(decimal.NewFromInt(5)):
		return VarianceAdvertencia
	default:
		return VarianceCritico
	}
}

// Close finalizes c with the given totals and declared cash: totals are frozen
// onto the corte, the variance is recorded, ClosedAt is stamped with now and the
// state becomes cerrado. c is left untouched when an error is returned.
//
// A nil corte is a programming error and panics.
func Close(c *model.Corte, t Totals, declared decimal.Decimal, now time.Time) (Reconciliation, error) {
	if c == nil {
		panic("corte: Close called with nil corte")
	}
	if !c.Abierto() {
		return Reconciliation{}, ErrShiftAlreadyClosed
	}
	if declared.IsNegative() {
		return Reconciliation{}, ErrDeclaredNegative
	}

	r := Reconcile(t, c.FondoInicial, declared)

	Freeze(c, t)
	c.EfectivoEsperado = &r.Expected
	c.EfectivoDeclarado = &r.Declared
	c.Diferencia = &r.Surplus
	c.DiferenciaPct = &r.SurplusPct
	c.Clasificacion = &r.Clasificacion
	closedAt := now
	c.ClosedAt = &closedAt
	c.Estado = model.CorteCerrado

	return r, nil
}

// Freeze copies the totals onto the corte columns.
func Freeze(c *model.Corte, t Totals) {
	c.TotalEfectivo = t.TotalCash
	c.TotalTarjetaDebito = t.TotalDebitCard
	c.TotalTarjetaCredito = t.TotalCreditCard
	c.TotalCheques = t.TotalChecks
	c.TotalTransferencias = t.TotalTransfers
	c.TotalOtros = t.TotalOther
	c.NumeroVentas = t.SaleCount
	c.CreditosCreados = t.CreditTotalCreated
	c.ApartadosCreados = t.LayawayTotalCreated
	c.AbonosCreditoEfe = t.CreditCash
	c.AbonosApartadoEfe = t.LayawayCash
	c.AbonosCreditoOtros = t.CreditNonCash
	c.AbonosApartadoOtros = t.LayawayNonCash
	c.NumeroCreditos = t.CreditCount
	c.NumeroApartados = t.LayawayCount
	c.NumeroAbonosCredito = t.CreditPaymentCount
	c.NumeroAbonosApart = t.LayawayPaymentCount
	c.TotalGastos = t.TotalExpenses
	c.TotalIngresos = t.TotalIncome
	c.TotalDelCorte = t.TotalDelCorte()
}

// Frozen rebuilds the totals stored on a closed corte. Line items come from
// the corte's preloaded movements.
func Frozen(c *model.Corte) Totals {
	t := zeroTotals()
	t.TotalCash = c.TotalEfectivo
	t.TotalDebitCard = c.TotalTarjetaDebito
	t.TotalCreditCard = c.TotalTarjetaCredito
	t.TotalChecks = c.TotalCheques
	t.TotalTransfers = c.TotalTransferencias
	t.TotalOther = c.TotalOtros
	t.SaleCount = c.NumeroVentas
	t.CreditTotalCreated = c.CreditosCreados
	t.LayawayTotalCreated = c.ApartadosCreados
	t.CreditCash = c.AbonosCreditoEfe
	t.LayawayCash = c.AbonosApartadoEfe
	t.CreditNonCash = c.AbonosCreditoOtros
	t.LayawayNonCash = c.AbonosApartadoOtros
	t.CreditCount = c.NumeroCreditos
	t.LayawayCount = c.NumeroApartados
	t.CreditPaymentCount = c.NumeroAbonosCredito
	t.LayawayPaymentCount = c.NumeroAbonosApart
	t.TotalExpenses = c.TotalGastos
	t.TotalIncome = c.TotalIngresos
	for _, m := range c.Movimientos {
		item := LineItem{Concepto: m.Concepto, Monto: m.Monto}
		switch m.Tipo {
		case model.MovimientoGasto:
			t.Expenses = append(t.Expenses, item)
		case model.MovimientoIngreso:
			t.Incomes = append(t.Incomes, item)
		}
	}
	return t
}

// Stored returns the reconciliation recorded on a closed corte, or nil while
// the corte is open.
func Stored(c *model.Corte) *Reconciliation {
	if c.Abierto() || c.EfectivoEsperado == nil || c.EfectivoDeclarado == nil || c.Diferencia == nil {
		return nil
	}
	r := Reconciliation{
		Expected:   *c.EfectivoEsperado,
		Declared:   *c.EfectivoDeclarado,
		Surplus:    *c.Diferencia,
		SurplusPct: decimal.Zero,
	}
	if c.DiferenciaPct != nil {
		r.SurplusPct = *c.DiferenciaPct
	}
	if c.Clasificacion != nil {
		r.Clasificacion = *c.Clasificacion
	} else {
		r.Clasificacion = classify(r.SurplusPct)
	}
	return &r
}
