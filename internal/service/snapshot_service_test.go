package service

import (
	"context"
	"encoding/json"
	"testing"

	"casaceja/internal/archive"
	"casaceja/internal/dto"
	"casaceja/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_ArchivarTicket(t *testing.T) {
	repo := &fakeSnapshotRepo{}
	svc := NewSnapshotService(repo, newFakeProductoRepo())
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, svc.ArchivarTicket(ctx, DocVenta, id, "TICKET DE VENTA\nTOTAL 10.00\n"))
	require.Len(t, repo.snaps, 1)
	snap := repo.snaps[0]
	assert.Equal(t, model.SnapshotTicket, snap.Tipo)
	require.NotNil(t, snap.ReferenciaID)
	assert.Equal(t, id, *snap.ReferenciaID)

	var got ticketArchivado
	require.NoError(t, archive.Decode(snap.Datos, &got))
	assert.Equal(t, DocVenta, got.Tipo)
	assert.Equal(t, "TICKET DE VENTA\nTOTAL 10.00\n", got.Texto)

	resp, err := svc.Obtener(ctx, snap.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tipo":"venta","id":"`+id.String()+`","texto":"TICKET DE VENTA\nTOTAL 10.00\n"}`, string(resp.Datos))

	_, err = svc.Obtener(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshot_Precios(t *testing.T) {
	productos := newFakeProductoRepo()
	productos.add(model.Producto{CodigoBarras: "750100", Nombre: "Martillo", Precio: dec("150"), Activo: true})
	productos.add(model.Producto{CodigoBarras: "750101", Nombre: "Clavos", Precio: dec("45.5"), Activo: true})
	productos.add(model.Producto{CodigoBarras: "750102", Nombre: "Descontinuado", Precio: dec("9"), Activo: false})
	repo := &fakeSnapshotRepo{}
	svc := NewSnapshotService(repo, productos)

	snap, err := svc.SnapshotPrecios(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.SnapshotPrecios, snap.Tipo)
	assert.Contains(t, snap.Descripcion, "2 productos")

	var lista []precioArchivado
	require.NoError(t, archive.Decode(snap.Datos, &lista))
	require.Len(t, lista, 2)

	list, err := svc.Listar(context.Background(), dto.SnapshotFilter{Tipo: model.SnapshotPrecios, Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Nil(t, list.Data[0].Datos)

	resp, err := svc.Obtener(context.Background(), snap.ID)
	require.NoError(t, err)
	var raw []map[string]any
	require.NoError(t, json.Unmarshal(resp.Datos, &raw))
	assert.Len(t, raw, 2)
}
