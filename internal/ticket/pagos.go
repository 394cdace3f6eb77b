package ticket

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"casaceja/internal/model"

	"github.com/shopspring/decimal"
)

var metodoLabel = map[string]string{
	model.MetodoEfectivo:       "EFECTIVO",
	model.MetodoTarjetaDebito:  "TARJETA DEBITO",
	model.MetodoTarjetaCredito: "TARJETA CREDITO",
	model.MetodoCheque:         "CHEQUE",
	model.MetodoTransferencia:  "TRANSFERENCIA",
}

// MetodoLabel returns the printed name of a payment method. Unknown keys are
// printed upper-cased as they were recorded.
func MetodoLabel(metodo string) string {
	if m, ok := model.NormalizarMetodo(metodo); ok {
		return metodoLabel[m]
	}
	return strings.ToUpper(strings.TrimSpace(metodo))
}

var errPagosFormato = errors.New("desglose de pagos inválido")

// ParsePagos decodes a legacy payment field. A plain method name yields a
// single entry for total; a JSON object is decoded in key order.
func ParsePagos(raw string, total decimal.Decimal) ([]model.Pago, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if !strings.HasPrefix(raw, "{") {
		return []model.Pago{{Metodo: raw, Monto: total}}, nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, errPagosFormato
	}

	var pagos []model.Pago
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errPagosFormato, err)
		}
		key, _ := tok.(string)

		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: %v", errPagosFormato, err)
		}
		var monto decimal.Decimal
		switch n := v.(type) {
		case json.Number:
			monto, err = decimal.NewFromString(n.String())
		case string:
			monto, err = decimal.NewFromString(strings.TrimSpace(n))
		default:
			err = fmt.Errorf("monto de %q no numérico", key)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errPagosFormato, err)
		}
		pagos = append(pagos, model.Pago{Metodo: key, Monto: monto})
	}
	if tok, err := dec.Token(); err != nil || tok != json.Delim('}') {
		return nil, errPagosFormato
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: datos después del objeto", errPagosFormato)
	}
	return pagos, nil
}

// writePagos prints the breakdown, skipping zero entries. When only a
// malformed legacy field is available it is printed verbatim.
func (b *builder) writePagos(pagos []model.Pago, raw string, total decimal.Decimal) {
	if len(pagos) == 0 && raw != "" {
		parsed, err := ParsePagos(raw, total)
		if err != nil {
			b.line(strings.TrimSpace(raw))
			return
		}
		pagos = parsed
	}
	for _, p := range pagos {
		if p.Monto.IsZero() {
			continue
		}
		b.amount(MetodoLabel(p.Metodo), p.Monto)
	}
}
