package ticket

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestArrow_TotalAPagar(t *testing.T) {
	line := Arrow("TOTAL A PAGAR $", d("1234.56"), 32)

	assert.Equal(t, "TOTAL A PAGAR $ -------> 1234.56", line)
	assert.Equal(t, 32, runeLen(line))
	assert.True(t, strings.HasSuffix(line, " 1234.56"))
}

func TestArrow_SinEspacioUsaSeparacionSimple(t *testing.T) {
	line := Arrow("TOTAL DE LA CUENTA PENDIENTE $", d("98765.43"), 32)

	assert.LessOrEqual(t, runeLen(line), 32)
	assert.NotContains(t, line, ">")
	assert.True(t, strings.HasSuffix(line, " 98765.43"))
}

func TestLabelAmount_SeparadorDeMiles(t *testing.T) {
	line := LabelAmount("SUBTOTAL", d("1234567.5"), 32)

	assert.Equal(t, 32, runeLen(line))
	assert.True(t, strings.HasPrefix(line, "SUBTOTAL "))
	assert.True(t, strings.HasSuffix(line, " $1,234,567.50"))
}

func TestLabelAmount_TruncaEtiqueta(t *testing.T) {
	line := LabelAmount(strings.Repeat("X", 40), d("10"), 32)

	assert.Equal(t, 32, runeLen(line))
	assert.True(t, strings.HasSuffix(line, "X $10.00"))
}

func TestMiles(t *testing.T) {
	cases := map[string]string{
		"0":         "0.00",
		"5.5":       "5.50",
		"999.999":   "1,000.00",
		"1000":      "1,000.00",
		"123456.78": "123,456.78",
		"-1500.25":  "-1,500.25",
		"-0.001":    "0.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, Miles(d(in)), in)
	}
	assert.Equal(t, "-$10.00", Pesos(d("-10")))
}

func TestCenter_SobranteALaDerecha(t *testing.T) {
	assert.Equal(t, "  abc   ", Center("abc", 8))
	assert.Equal(t, "  ab  ", Center("ab", 6))
	assert.Equal(t, "abcdef", Center("abcdefgh", 6))
}

func TestLetterSpaced(t *testing.T) {
	assert.Equal(t, "C A S A   C E J A", LetterSpaced("Casa Ceja", 32))
	assert.Equal(t, "MUEBLERIA Y FERRETERIA", LetterSpaced("Muebleria y Ferreteria", 32))
}

func TestItemColumns(t *testing.T) {
	for _, w := range []int{32, 40, 48} {
		cols := ItemColumns(w)
		assert.Equal(t, w-22, cols.Nombre)
		assert.Equal(t, w, runeLen(cols.Header()))

		row, ok := cols.Row("Martillo", 2, d("85.5"), d("171"))
		assert.True(t, ok)
		assert.Equal(t, w, runeLen(row))
		assert.True(t, strings.HasSuffix(row, "   85.50   171.00"))
	}
	assert.Equal(t, 6, ItemColumns(20).Nombre)
}

func TestItemColumns_NombreLargoSeTrunca(t *testing.T) {
	nombre := "Juego de desarmadores de precision 40pz."
	assert.Equal(t, 40, runeLen(nombre))

	row, ok := ItemColumns(32).Row(nombre, 1, d("249.90"), d("249.90"))

	assert.True(t, ok)
	assert.Equal(t, 32, runeLen(row))
	assert.True(t, strings.HasPrefix(row, "Juego de d "))
}

func TestItemColumns_NumeroNoCabe(t *testing.T) {
	_, ok := ItemColumns(32).Row("Refrigerador", 1, d("125000"), d("125000"))
	assert.False(t, ok)

	_, ok = ItemColumns(32).Row("Tornillo", 1500, d("0.50"), d("750"))
	assert.False(t, ok)
}

func TestTruncate_Runas(t *testing.T) {
	assert.Equal(t, "Cañón", Truncate("Cañón de agua", 5))
	assert.Equal(t, "", Truncate("abc", 0))
}
