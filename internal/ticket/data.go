package ticket

import (
	"time"

	"casaceja/internal/corte"
	"casaceja/internal/model"

	"github.com/shopspring/decimal"
)

// Kind selects the document template.
type Kind string

const (
	KindVenta       Kind = "venta"
	KindCredito     Kind = "credito"
	KindApartado    Kind = "apartado"
	KindAbono       Kind = "abono"
	KindReimpresion Kind = "reimpresion"
)

// Header is the context printed at the top of every document.
type Header struct {
	Sucursal  string
	Direccion string
	Telefono  string
	Folio     string
	Fecha     time.Time
	Cajero    string
	Cliente   string
}

// Item is one ticket line. Tier and DescuentoCategoriaPct are decided at
// checkout and rendered as annotations under the line.
type Item struct {
	Nombre                string
	Cantidad              int
	PrecioUnitario        decimal.Decimal
	PrecioLista           decimal.Decimal
	Importe               decimal.Decimal
	Tier                  model.TipoPrecio
	DescuentoCategoriaPct *decimal.Decimal
}

// AbonoLinea is one entry of an account's payment history.
type AbonoLinea struct {
	Folio string
	Fecha time.Time
	Monto decimal.Decimal
	Saldo decimal.Decimal
}

// Data is everything a sale, credit, layaway or abono document shows.
// Fields a template does not use are ignored.
type Data struct {
	Kind Kind
	// Original is the account type of a reprint (KindCredito or KindApartado)
	Original Kind
	Header

	Items     []Item
	Subtotal  decimal.Decimal
	Descuento decimal.Decimal
	Total     decimal.Decimal

	// Pagos is the ordered breakdown. Legacy documents may only carry
	// MetodoRaw, either a method name or a JSON method→amount object.
	Pagos     []model.Pago
	MetodoRaw string
	Recibido  decimal.Decimal
	Cambio    decimal.Decimal

	// Credits, layaways and abonos
	Referencia    string
	SaldoAnterior decimal.Decimal
	Saldo         decimal.Decimal
	FechaLimite   *time.Time
	Abonos        []AbonoLinea
}

// CorteData is the input of the shift-close document.
type CorteData struct {
	Header
	FondoInicial decimal.Decimal
	Apertura     time.Time
	Cierre       *time.Time
	Totals       corte.Totals
	// Conciliacion is nil for a preview of an open corte
	Conciliacion *corte.Reconciliation
}
