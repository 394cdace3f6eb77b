// Package corte aggregates the monetary events of a register shift (corte de
// caja) and reconciles expected against declared cash at close.
//
// Everything here is a pure function over records already loaded by the
// caller: no I/O, no clocks, no locks.
package corte

import (
	"github.com/shopspring/decimal"
)

// LineItem is one expense or income entry as shown on the corte report.
type LineItem struct {
	Concepto string          `json:"concepto"`
	Monto    decimal.Decimal `json:"monto"`
}

// Totals is the aggregate of one shift. It is recomputed on demand and never
// stored as its own row; Freeze copies it onto the corte at close.
type Totals struct {
	// Direct sales per payment method
	TotalCash       decimal.Decimal `json:"total_efectivo"`
	TotalDebitCard  decimal.Decimal `json:"total_tarjeta_debito"`
	TotalCreditCard decimal.Decimal `json:"total_tarjeta_credito"`
	TotalChecks     decimal.Decimal `json:"total_cheques"`
	TotalTransfers  decimal.Decimal `json:"total_transferencias"`
	// TotalOther collects methods outside the five known ones
	TotalOther decimal.Decimal `json:"total_otros"`

	SaleCount           int `json:"numero_ventas"`
	CreditCount         int `json:"numero_creditos"`
	LayawayCount        int `json:"numero_apartados"`
	CreditPaymentCount  int `json:"numero_abonos_credito"`
	LayawayPaymentCount int `json:"numero_abonos_apartado"`

	// Full value of credits/layaways opened during the shift (productivity)
	CreditTotalCreated  decimal.Decimal `json:"creditos_creados"`
	LayawayTotalCreated decimal.Decimal `json:"apartados_creados"`

	// Cash actually received against credits/layaways
	CreditCash  decimal.Decimal `json:"abonos_credito_efectivo"`
	LayawayCash decimal.Decimal `json:"abonos_apartado_efectivo"`
	// Non-cash abono portions; informational, they never reach the drawer
	CreditNonCash  decimal.Decimal `json:"abonos_credito_otros"`
	LayawayNonCash decimal.Decimal `json:"abonos_apartado_otros"`

	TotalExpenses decimal.Decimal `json:"total_gastos"`
	TotalIncome   decimal.Decimal `json:"total_ingresos"`
	Expenses      []LineItem      `json:"gastos"`
	Incomes       []LineItem      `json:"ingresos"`
}

func zeroTotals() Totals {
	return Totals{
		TotalCash:           decimal.Zero,
		TotalDebitCard:      decimal.Zero,
		TotalCreditCard:     decimal.Zero,
		TotalChecks:         decimal.Zero,
		TotalTransfers:      decimal.Zero,
		TotalOther:          decimal.Zero,
		CreditTotalCreated:  decimal.Zero,
		LayawayTotalCreated: decimal.Zero,
		CreditCash:          decimal.Zero,
		LayawayCash:         decimal.Zero,
		CreditNonCash:       decimal.Zero,
		LayawayNonCash:      decimal.Zero,
		TotalExpenses:       decimal.Zero,
		TotalIncome:         decimal.Zero,
	}
}

// Empty returns Totals with every amount at zero.
func Empty() Totals { return zeroTotals() }

// TotalSales is the sum of direct sales over every payment method.
func (t Totals) TotalSales() decimal.Decimal {
	return t.TotalCash.
		Add(t.TotalDebitCard).
		Add(t.TotalCreditCard).
		Add(t.TotalChecks).
		Add(t.TotalTransfers).
		Add(t.TotalOther)
}

// TotalDelCorte is the productivity figure of the shift: direct sales plus the
// full value of every credit and layaway opened, not only the cash collected.
func (t Totals) TotalDelCorte() decimal.Decimal {
	return t.TotalSales().Add(t.CreditTotalCreated).Add(t.LayawayTotalCreated)
}

// CashIn is every cash entry into the drawer other than the opening float.
func (t Totals) CashIn() decimal.Decimal {
	return t.TotalCash.Add(t.CreditCash).Add(t.LayawayCash).Add(t.TotalIncome)
}

// ExpectedCash is the amount the drawer should hold given the opening float.
func (t Totals) ExpectedCash(fondoInicial decimal.Decimal) decimal.Decimal {
	return fondoInicial.Add(t.CashIn()).Sub(t.TotalExpenses)
}
