package archive

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listaPrecios struct {
	Sucursal string            `json:"sucursal"`
	Precios  map[string]string `json:"precios"`
	Total    decimal.Decimal   `json:"total"`
}

func TestEncodeDecode(t *testing.T) {
	in := listaPrecios{
		Sucursal: "Centro",
		Precios:  map[string]string{"750100000001": "25.50", "750100000002": "99.00"},
		Total:    decimal.RequireFromString("124.50"),
	}

	data, err := Encode(in)
	require.NoError(t, err)

	var out listaPrecios
	require.NoError(t, Decode(data, &out))
	assert.Equal(t, in.Sucursal, out.Sucursal)
	assert.Equal(t, in.Precios, out.Precios)
	assert.True(t, in.Total.Equal(out.Total))
}

func TestEncode_Comprime(t *testing.T) {
	texto := strings.Repeat("TOTAL A PAGAR $ -------> 1283.88\n", 200)

	data, err := Encode(texto)
	require.NoError(t, err)
	assert.Less(t, len(data), len(texto)/4)

	raw, err := Raw(data)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), `"TOTAL A PAGAR`))
}

func TestDecode_DatosCorruptos(t *testing.T) {
	var out listaPrecios
	assert.Error(t, Decode([]byte("no es zstd"), &out))
}
