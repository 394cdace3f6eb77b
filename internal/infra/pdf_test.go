package infra

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTicketPDF(t *testing.T) {
	dir := t.TempDir()
	text := strings.Repeat("TOTAL A PAGAR $ -------> 1283.88\n", 30) + "Cañón de agua\n"

	path, err := GenerateTicketPDF(text, 32, dir, "venta_123")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "venta_123.pdf"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
}

func TestRollWidth(t *testing.T) {
	assert.Equal(t, 58.0, rollWidth(32))
	assert.Equal(t, 72.0, rollWidth(40))
	assert.Equal(t, 80.0, rollWidth(48))
}
