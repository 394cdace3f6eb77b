package ticket

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Item table column widths. The name column takes what is left of the line.
const (
	colCantidad  = 3
	colPrecio    = 8
	colImporte   = 8
	colSeparador = 3
	minColNombre = 6
)

func runeLen(s string) int { return utf8.RuneCountInString(s) }

// Truncate cuts s to at most width runes.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runeLen(s) <= width {
		return s
	}
	return string([]rune(s)[:width])
}

func padRight(s string, width int) string {
	s = Truncate(s, width)
	return s + strings.Repeat(" ", width-runeLen(s))
}

func padLeft(s string, width int) string {
	if n := width - runeLen(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}

// Center pads text to width with the odd leftover space going to the right.
// Text wider than the line is truncated.
func Center(text string, width int) string {
	text = Truncate(strings.TrimSpace(text), width)
	gap := width - runeLen(text)
	left := gap / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", gap-left)
}

// Justify places left flush left and right flush right with at least one
// space between them, truncating left when both do not fit.
func Justify(left, right string, width int) string {
	room := width - runeLen(right) - 1
	if room < 0 {
		return Truncate(right, width)
	}
	left = Truncate(left, room)
	return left + strings.Repeat(" ", width-runeLen(left)-runeLen(right)) + right
}

// LabelAmount renders "LABEL          $1,234.56" with the amount flush right.
func LabelAmount(label string, amount decimal.Decimal, width int) string {
	return Justify(label, Pesos(amount), width)
}

// Arrow renders "LABEL -----> 1234.56" with the amount flush right. When the
// arrow does not fit it falls back to plain spacing.
func Arrow(label string, amount decimal.Decimal, width int) string {
	monto := Plain(amount)
	dashes := width - runeLen(label) - runeLen(monto) - 3
	if dashes < 1 {
		return Justify(label, monto, width)
	}
	return label + " " + strings.Repeat("-", dashes) + "> " + monto
}

// Plain formats an amount with two decimals and no grouping.
func Plain(d decimal.Decimal) string { return d.StringFixed(2) }

// Miles formats an amount with two decimals and comma thousands separators.
func Miles(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	entero, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	if d.Round(2).IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range entero {
		if i > 0 && (len(entero)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}

// Pesos is Miles with a currency sign.
func Pesos(d decimal.Decimal) string {
	m := Miles(d)
	if strings.HasPrefix(m, "-") {
		return "-$" + m[1:]
	}
	return "$" + m
}

// LetterSpaced spreads a title over the line ("C A S A   C E J A") when it
// fits and returns it unchanged otherwise.
func LetterSpaced(title string, width int) string {
	words := strings.Fields(strings.ToUpper(title))
	spaced := make([]string, 0, len(words))
	for _, w := range words {
		spaced = append(spaced, strings.Join(strings.Split(w, ""), " "))
	}
	out := strings.Join(spaced, "   ")
	if runeLen(out) > width {
		return strings.ToUpper(strings.TrimSpace(title))
	}
	return out
}

// Columns is the item table layout for one line width.
type Columns struct {
	Nombre int
}

// ItemColumns computes the name column for width.
func ItemColumns(width int) Columns {
	n := width - colCantidad - colPrecio - colImporte - colSeparador
	if n < minColNombre {
		n = minColNombre
	}
	return Columns{Nombre: n}
}

// Header renders the column titles.
func (c Columns) Header() string {
	return padRight("ARTICULO", c.Nombre) + " " +
		padLeft("CNT", colCantidad) + " " +
		padLeft("P.U.", colPrecio) + " " +
		padLeft("IMPORTE", colImporte)
}

// Row renders one item line. ok is false when a number does not fit its
// column; callers then use a two-line layout instead.
func (c Columns) Row(nombre string, cantidad int, precio, importe decimal.Decimal) (line string, ok bool) {
	cnt := fmt.Sprintf("%d", cantidad)
	pu := Plain(precio)
	imp := Plain(importe)
	if len(cnt) > colCantidad || len(pu) > colPrecio || len(imp) > colImporte {
		return "", false
	}
	return padRight(nombre, c.Nombre) + " " +
		padLeft(cnt, colCantidad) + " " +
		padLeft(pu, colPrecio) + " " +
		padLeft(imp, colImporte), true
}
