package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Payment methods accepted at the register. Pagos with any other key only come
// from imported legacy data and are bucketed as "other" by the corte engine.
const (
	MetodoEfectivo       = "efectivo"
	MetodoTarjetaDebito  = "tarjeta_debito"
	MetodoTarjetaCredito = "tarjeta_credito"
	MetodoCheque         = "cheque"
	MetodoTransferencia  = "transferencia"
)

// MetodosPago lists the known methods in the order tickets render them.
var MetodosPago = []string{
	MetodoEfectivo,
	MetodoTarjetaDebito,
	MetodoTarjetaCredito,
	MetodoCheque,
	MetodoTransferencia,
}

// Pago is one (method, amount) entry of a payment breakdown. A single-method
// payment is a one-element list; a mixed payment keeps the order it was captured in.
// Monto is the amount applied to the document, change already deducted.
type Pago struct {
	Metodo string          `gorm:"type:varchar(30);not null" json:"metodo"`
	Monto  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"monto"`
}

// SumPagos adds up every entry of a breakdown.
func SumPagos(pagos []Pago) decimal.Decimal {
	total := decimal.Zero
	for _, p := range pagos {
		total = total.Add(p.Monto)
	}
	return total
}

// EfectivoDe returns the cash portion of a breakdown.
func EfectivoDe(pagos []Pago) decimal.Decimal {
	total := decimal.Zero
	for _, p := range pagos {
		if p.Metodo == MetodoEfectivo {
			total = total.Add(p.Monto)
		}
	}
	return total
}

var aliasMetodo = map[string]string{
	"cash":           MetodoEfectivo,
	"debito":         MetodoTarjetaDebito,
	"debit":          MetodoTarjetaDebito,
	"tarjetadebito":  MetodoTarjetaDebito,
	"credito":        MetodoTarjetaCredito,
	"credit":         MetodoTarjetaCredito,
	"tarjeta":        MetodoTarjetaCredito,
	"tarjetacredito": MetodoTarjetaCredito,
	"cheques":        MetodoCheque,
	"check":          MetodoCheque,
	"checks":         MetodoCheque,
	"transfer":       MetodoTransferencia,
	"transferencias": MetodoTransferencia,
	"spei":           MetodoTransferencia,
}

// NormalizarMetodo maps a raw method key (including the spellings found in
// imported data) to a known method. ok is false for unknown keys.
func NormalizarMetodo(raw string) (metodo string, ok bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for _, m := range MetodosPago {
		if key == m {
			return m, true
		}
	}
	compact := strings.NewReplacer("_", "", " ", "", "-", "").Replace(key)
	if m, found := aliasMetodo[compact]; found {
		return m, true
	}
	return key, false
}
