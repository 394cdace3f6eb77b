package ticket

import (
	"fmt"
	"strings"

	"casaceja/internal/model"

	"github.com/shopspring/decimal"
)

const fechaLayout = "02/01/2006 15:04"

type builder struct {
	cfg Config
	w   int
	sb  strings.Builder
}

func newBuilder(cfg Config) *builder {
	return &builder{cfg: cfg, w: cfg.Width()}
}

// line writes s cut to the line width; trailing blanks are dropped.
func (b *builder) line(s string) {
	b.sb.WriteString(strings.TrimRight(Truncate(s, b.w), " "))
	b.sb.WriteByte('\n')
}

func (b *builder) blank()                                 { b.sb.WriteByte('\n') }
func (b *builder) center(s string)                        { b.line(Center(s, b.w)) }
func (b *builder) sep(ch string)                          { b.line(strings.Repeat(ch, b.w)) }
func (b *builder) amount(label string, d decimal.Decimal) { b.line(LabelAmount(label, d, b.w)) }
func (b *builder) arrow(label string, d decimal.Decimal)  { b.line(Arrow(label, d, b.w)) }

func (b *builder) String() string { return b.sb.String() }

// pair prints "LABEL:      value", cutting the value when both do not fit.
func (b *builder) pair(label, value string) {
	b.line(Justify(label, Truncate(value, b.w-runeLen(label)-1), b.w))
}

// header writes the block shared by every document.
func (b *builder) header(h Header, titulo string) {
	if b.cfg.BusinessName != "" {
		b.center(LetterSpaced(b.cfg.BusinessName, b.w))
	}
	if h.Sucursal != "" {
		b.center(h.Sucursal)
	}
	if h.Direccion != "" {
		b.center(h.Direccion)
	}
	if h.Telefono != "" {
		b.center("Tel. " + h.Telefono)
	}
	if b.cfg.RFC != "" {
		b.center("RFC: " + b.cfg.RFC)
	}
	b.sep("=")
	b.center(titulo)
	b.sep("=")
	if h.Folio != "" {
		b.pair("FOLIO:", h.Folio)
	}
	if !h.Fecha.IsZero() {
		b.pair("FECHA:", h.Fecha.Format(fechaLayout))
	}
	if b.cfg.TerminalID != "" {
		b.pair("CAJA:", b.cfg.TerminalID)
	}
	if h.Cajero != "" {
		b.pair("CAJERO:", h.Cajero)
	}
	if h.Cliente != "" {
		b.pair("CLIENTE:", h.Cliente)
	}
	b.sep("-")
}

func (b *builder) footer() {
	b.blank()
	if b.cfg.Footer != "" {
		b.center(b.cfg.Footer)
	}
}

func (b *builder) firma(quien string) {
	b.blank()
	b.blank()
	b.center(strings.Repeat("_", b.w*3/4))
	b.center(quien)
}

// items writes the item table with discount annotations under each line.
func (b *builder) items(items []Item) {
	cols := ItemColumns(b.w)
	b.line(cols.Header())
	b.sep("-")
	for _, it := range items {
		if row, ok := cols.Row(it.Nombre, it.Cantidad, it.PrecioUnitario, it.Importe); ok {
			b.line(row)
		} else {
			b.line(it.Nombre)
			b.line(Justify(fmt.Sprintf("  %d x %s", it.Cantidad, Plain(it.PrecioUnitario)), Plain(it.Importe), b.w))
		}
		for _, nota := range anotaciones(it) {
			b.line("  (" + nota + ")")
		}
	}
	b.sep("-")
}

func anotaciones(it Item) []string {
	var out []string
	if it.DescuentoCategoriaPct != nil && it.DescuentoCategoriaPct.IsPositive() {
		out = append(out, "Desc. categoria "+it.DescuentoCategoriaPct.String()+"%")
	}
	switch it.Tier {
	case model.PrecioMayoreo:
		out = append(out, "Precio mayoreo")
	case model.PrecioEspecial:
		out = append(out, "Precio especial")
	case model.PrecioVendedor:
		out = append(out, "Precio vendedor")
	}
	return out
}

// ahorro is what the customer saved against list prices.
func ahorro(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if d := it.PrecioLista.Sub(it.PrecioUnitario); d.IsPositive() {
			total = total.Add(d.Mul(decimal.NewFromInt(int64(it.Cantidad))))
		}
	}
	return total
}

// Render produces the text of a sale, credit, layaway, abono or reprint.
func Render(cfg Config, d Data) string {
	switch d.Kind {
	case KindCredito:
		return RenderCredito(cfg, d)
	case KindApartado:
		return RenderApartado(cfg, d)
	case KindAbono:
		return RenderAbono(cfg, d)
	case KindReimpresion:
		return RenderReimpresion(cfg, d)
	default:
		return RenderVenta(cfg, d)
	}
}

// RenderVenta renders a direct sale receipt.
func RenderVenta(cfg Config, d Data) string {
	b := newBuilder(cfg)
	b.header(d.Header, "TICKET DE VENTA")
	b.items(d.Items)

	b.amount("SUBTOTAL", d.Subtotal)
	if d.Descuento.IsPositive() {
		b.amount("DESCUENTO", d.Descuento.Neg())
	}
	b.arrow("TOTAL A PAGAR $", d.Total)
	b.blank()

	b.line("FORMA DE PAGO")
	b.writePagos(d.Pagos, d.MetodoRaw, d.Total)
	if d.Recibido.IsPositive() {
		b.amount("RECIBIDO", d.Recibido)
		b.amount("CAMBIO", d.Cambio)
	}
	if a := ahorro(d.Items); a.IsPositive() {
		b.blank()
		b.amount("USTED AHORRO", a)
	}
	b.line(fmt.Sprintf("ARTICULOS: %d", contarPiezas(d.Items)))

	b.footer()
	return b.String()
}

// RenderCredito renders the document handed over when a credit is opened.
func RenderCredito(cfg Config, d Data) string {
	b := newBuilder(cfg)
	b.header(d.Header, "TICKET DE CREDITO")
	b.cuenta(d, "TOTAL DEL CREDITO $")
	b.firma("FIRMA DEL CLIENTE")
	b.center("Debo y pagare incondicionalmente")
	b.center("el saldo de esta nota")
	b.footer()
	return b.String()
}

// RenderApartado renders the document handed over when a layaway is opened.
func RenderApartado(cfg Config, d Data) string {
	b := newBuilder(cfg)
	b.header(d.Header, "TICKET DE APARTADO")
	b.cuenta(d, "TOTAL DEL APARTADO $")
	if d.FechaLimite != nil {
		b.pair("FECHA LIMITE:", d.FechaLimite.Format("02/01/2006"))
	}
	b.blank()
	b.center("La mercancia se entrega")
	b.center("al liquidar el apartado")
	b.footer()
	return b.String()
}

// cuenta is the body shared by credit and layaway documents.
func (b *builder) cuenta(d Data, totalLabel string) {
	b.items(d.Items)
	b.arrow(totalLabel, d.Total)
	anticipo := d.Total.Sub(d.Saldo)
	if anticipo.IsPositive() {
		b.blank()
		b.line("ANTICIPO")
		b.writePagos(d.Pagos, d.MetodoRaw, anticipo)
	}
	b.blank()
	b.arrow("SALDO PENDIENTE $", d.Saldo)
}

// RenderAbono renders the receipt of a payment against a credit or layaway.
func RenderAbono(cfg Config, d Data) string {
	b := newBuilder(cfg)
	b.header(d.Header, "COMPROBANTE DE ABONO")
	if d.Referencia != "" {
		b.pair("CUENTA:", d.Referencia)
		b.sep("-")
	}
	b.amount("SALDO ANTERIOR", d.SaldoAnterior)
	b.arrow("ABONO $", d.Total)
	b.writePagos(d.Pagos, d.MetodoRaw, d.Total)
	if d.Recibido.IsPositive() {
		b.amount("RECIBIDO", d.Recibido)
		b.amount("CAMBIO", d.Cambio)
	}
	b.sep("-")
	b.arrow("SALDO NUEVO $", d.Saldo)
	if d.Saldo.IsZero() {
		b.blank()
		b.center("*** CUENTA LIQUIDADA ***")
	}
	b.footer()
	return b.String()
}

// RenderReimpresion reprints a credit or layaway with its payment history.
func RenderReimpresion(cfg Config, d Data) string {
	b := newBuilder(cfg)
	titulo := "REIMPRESION DE CREDITO"
	totalLabel := "TOTAL DEL CREDITO $"
	if d.Original == KindApartado {
		titulo = "REIMPRESION DE APARTADO"
		totalLabel = "TOTAL DEL APARTADO $"
	}
	b.header(d.Header, titulo)
	b.items(d.Items)
	b.arrow(totalLabel, d.Total)
	if d.FechaLimite != nil {
		b.pair("FECHA LIMITE:", d.FechaLimite.Format("02/01/2006"))
	}

	b.blank()
	b.center("HISTORIAL DE ABONOS")
	b.sep("-")
	if len(d.Abonos) == 0 {
		b.center("Sin abonos registrados")
	}
	pagado := decimal.Zero
	for _, a := range d.Abonos {
		b.pair(a.Fecha.Format("02/01/06"), a.Folio)
		b.amount("  ABONO", a.Monto)
		b.amount("  SALDO", a.Saldo)
		pagado = pagado.Add(a.Monto)
	}
	b.sep("-")
	b.amount("TOTAL ABONADO", pagado)
	b.arrow("SALDO ACTUAL $", d.Saldo)
	b.blank()
	b.center("*** REIMPRESION ***")
	b.footer()
	return b.String()
}

func contarPiezas(items []Item) int {
	n := 0
	for _, it := range items {
		n += it.Cantidad
	}
	return n
}
