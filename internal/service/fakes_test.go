package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"casaceja/internal/dto"
	"casaceja/internal/infra"
	"casaceja/internal/model"
	"casaceja/internal/repository"
	"casaceja/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repositories. Every read hands out a copy so services cannot
// mutate stored state without going through the repository.

var (
	_ repository.ProductoRepository        = (*fakeProductoRepo)(nil)
	_ repository.MovimientoStockRepository = (*fakeMovStockRepo)(nil)
	_ repository.ClienteRepository         = (*fakeClienteRepo)(nil)
	_ repository.SucursalRepository        = (*fakeSucursalRepo)(nil)
	_ repository.UsuarioRepository         = (*fakeUsuarioRepo)(nil)
	_ repository.CorteRepository           = (*fakeCorteRepo)(nil)
	_ repository.VentaRepository           = (*fakeVentaRepo)(nil)
	_ repository.CreditoRepository         = (*fakeCreditoRepo)(nil)
	_ repository.SnapshotRepository        = (*fakeSnapshotRepo)(nil)
	_ PrintQueue                           = (*fakeQueue)(nil)
)

// ── Productos ─────────────────────────────────────────────────────────────────

type fakeProductoRepo struct {
	mu        sync.Mutex
	productos map[uuid.UUID]*model.Producto
}

func newFakeProductoRepo() *fakeProductoRepo {
	return &fakeProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *fakeProductoRepo) add(p model.Producto) *model.Producto {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = &p
	return &p
}

func (r *fakeProductoRepo) stock(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.productos[id].StockActual
}

func (r *fakeProductoRepo) Create(_ context.Context, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.productos {
		if existing.CodigoBarras == p.CodigoBarras {
			return gorm.ErrDuplicatedKey
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *fakeProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductoRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Producto
	for _, id := range ids {
		if p, ok := r.productos[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductoRepo) FindByBarcode(_ context.Context, barcode string) (*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.productos {
		if p.CodigoBarras == barcode && p.Activo {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	out, _ := r.ListActivos(context.Background())
	return out, int64(len(out)), nil
}

func (r *fakeProductoRepo) ListActivos(_ context.Context) ([]model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *fakeProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *fakeProductoRepo) SetActivo(_ context.Context, id uuid.UUID, activo bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = activo
	return nil
}

func (r *fakeProductoRepo) LockTx(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeProductoRepo) UpdateStockTx(_ context.Context, _ *gorm.DB, id uuid.UUID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockActual += delta
	return nil
}

func (r *fakeProductoRepo) DB() *gorm.DB { return nil }

// ── Movimientos de stock ──────────────────────────────────────────────────────

type fakeMovStockRepo struct {
	mu   sync.Mutex
	movs []model.MovimientoStock
}

func (r *fakeMovStockRepo) CreateTx(_ context.Context, _ *gorm.DB, m *model.MovimientoStock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	r.movs = append(r.movs, *m)
	return nil
}

func (r *fakeMovStockRepo) List(_ context.Context, filter dto.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MovimientoStock
	for _, m := range r.movs {
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		if filter.ProductoID != "" && m.ProductoID.String() != filter.ProductoID {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

// ── Clientes / sucursales / usuarios ──────────────────────────────────────────

type fakeClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newFakeClienteRepo() *fakeClienteRepo {
	return &fakeClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *fakeClienteRepo) add(c model.Cliente) *model.Cliente {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.TipoPrecio == "" {
		c.TipoPrecio = model.PrecioNormal
	}
	c.Activo = true
	r.clientes[c.ID] = &c
	return &c
}

func (r *fakeClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	c.ID = uuid.New()
	cp := *c
	r.clientes[c.ID] = &cp
	return nil
}

func (r *fakeClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok || !c.Activo {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeClienteRepo) List(_ context.Context, _ dto.ClienteFilter) ([]model.Cliente, int64, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		if c.Activo {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	cp := *c
	r.clientes[c.ID] = &cp
	return nil
}

func (r *fakeClienteRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	c, ok := r.clientes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Activo = false
	return nil
}

type fakeSucursalRepo struct {
	sucursales map[uuid.UUID]*model.Sucursal
}

func newFakeSucursalRepo() *fakeSucursalRepo {
	return &fakeSucursalRepo{sucursales: make(map[uuid.UUID]*model.Sucursal)}
}

func (r *fakeSucursalRepo) add(s model.Sucursal) *model.Sucursal {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.Activo = true
	r.sucursales[s.ID] = &s
	return &s
}

func (r *fakeSucursalRepo) Create(_ context.Context, s *model.Sucursal) error {
	for _, existing := range r.sucursales {
		if existing.Nombre == s.Nombre {
			return gorm.ErrDuplicatedKey
		}
	}
	s.ID = uuid.New()
	cp := *s
	r.sucursales[s.ID] = &cp
	return nil
}

func (r *fakeSucursalRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sucursal, error) {
	s, ok := r.sucursales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSucursalRepo) List(_ context.Context, soloActivas bool) ([]model.Sucursal, error) {
	var out []model.Sucursal
	for _, s := range r.sucursales {
		if !soloActivas || s.Activo {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSucursalRepo) Update(_ context.Context, s *model.Sucursal) error {
	cp := *s
	r.sucursales[s.ID] = &cp
	return nil
}

type fakeUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	for _, existing := range r.usuarios {
		if existing.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

func (r *fakeUsuarioRepo) FindByLogin(_ context.Context, login string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Activo && (u.Username == login || (u.Email != nil && *u.Email == login)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUsuarioRepo) List(_ context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if incluirInactivos || u.Activo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

func (r *fakeUsuarioRepo) SetActivo(_ context.Context, id uuid.UUID, activo bool) error {
	u, ok := r.usuarios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = activo
	return nil
}

// ── Cortes ────────────────────────────────────────────────────────────────────

type fakeCorteRepo struct {
	mu          sync.Mutex
	cortes      map[uuid.UUID]*model.Corte
	movimientos []model.MovimientoCaja
	folio       int
}

func newFakeCorteRepo() *fakeCorteRepo {
	return &fakeCorteRepo{cortes: make(map[uuid.UUID]*model.Corte)}
}

func (r *fakeCorteRepo) Create(_ context.Context, c *model.Corte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.cortes {
		if existing.SucursalID == c.SucursalID && existing.Abierto() {
			return gorm.ErrDuplicatedKey
		}
	}
	c.ID = uuid.New()
	cp := *c
	r.cortes[c.ID] = &cp
	return nil
}

func (r *fakeCorteRepo) NextFolio(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.folio++
	return r.folio, nil
}

func (r *fakeCorteRepo) withMovs(c *model.Corte) *model.Corte {
	cp := *c
	cp.Movimientos = []model.MovimientoCaja{}
	for _, m := range r.movimientos {
		if m.CorteID == c.ID {
			cp.Movimientos = append(cp.Movimientos, m)
		}
	}
	return &cp
}

func (r *fakeCorteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Corte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cortes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.withMovs(c), nil
}

func (r *fakeCorteRepo) FindAbierto(_ context.Context, sucursalID uuid.UUID) (*model.Corte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cortes {
		if c.SucursalID == sucursalID && c.Abierto() {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCorteRepo) Update(_ context.Context, c *model.Corte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	cp.Movimientos = nil
	r.cortes[c.ID] = &cp
	return nil
}

func (r *fakeCorteRepo) List(_ context.Context, filter dto.CorteFilter) ([]model.Corte, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Corte
	for _, c := range r.cortes {
		if filter.SucursalID != "" && c.SucursalID.String() != filter.SucursalID {
			continue
		}
		if filter.Estado != "" && c.Estado != filter.Estado {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Folio > out[j].Folio })
	return out, int64(len(out)), nil
}

func (r *fakeCorteRepo) CreateMovimiento(_ context.Context, m *model.MovimientoCaja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = uuid.New()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *fakeCorteRepo) ListMovimientos(_ context.Context, corteID uuid.UUID) ([]model.MovimientoCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MovimientoCaja
	for _, m := range r.movimientos {
		if m.CorteID == corteID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ── Ventas ────────────────────────────────────────────────────────────────────

type fakeVentaRepo struct {
	mu     sync.Mutex
	ventas map[uuid.UUID]*model.Venta
	folio  int
}

func newFakeVentaRepo() *fakeVentaRepo {
	return &fakeVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *fakeVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v.ID = uuid.New()
	for i := range v.Items {
		v.Items[i].ID = uuid.New()
		v.Items[i].VentaID = v.ID
	}
	for i := range v.Pagos {
		v.Pagos[i].ID = uuid.New()
		v.Pagos[i].VentaID = v.ID
	}
	cp := *v
	r.ventas[v.ID] = &cp
	return nil
}

func (r *fakeVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVentaRepo) Cancelar(_ context.Context, _ *gorm.DB, id uuid.UUID, motivo string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.ventas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Estado = model.VentaCancelada
	v.MotivoCancelacion = &motivo
	return nil
}

func (r *fakeVentaRepo) NextFolio(_ context.Context, _ *gorm.DB) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.folio++
	return r.folio, nil
}

func (r *fakeVentaRepo) ListDesde(_ context.Context, sucursalID uuid.UUID, desde time.Time) ([]model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Venta
	for _, v := range r.ventas {
		if v.SucursalID == sucursalID && !v.Fecha.Before(desde) {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *fakeVentaRepo) List(_ context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Venta
	for _, v := range r.ventas {
		if filter.Estado != "" && filter.Estado != "all" && v.Estado != filter.Estado {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Folio < out[j].Folio })
	return out, int64(len(out)), nil
}

func (r *fakeVentaRepo) DB() *gorm.DB { return nil }

// ── Créditos / apartados / abonos ─────────────────────────────────────────────

type fakeCreditoRepo struct {
	mu        sync.Mutex
	creditos  map[uuid.UUID]*model.Credito
	apartados map[uuid.UUID]*model.Apartado
	abonos    map[uuid.UUID]*model.Abono
	folios    map[string]int
}

func newFakeCreditoRepo() *fakeCreditoRepo {
	return &fakeCreditoRepo{
		creditos:  make(map[uuid.UUID]*model.Credito),
		apartados: make(map[uuid.UUID]*model.Apartado),
		abonos:    make(map[uuid.UUID]*model.Abono),
		folios:    make(map[string]int),
	}
}

func (r *fakeCreditoRepo) CreateCredito(_ context.Context, _ *gorm.DB, c *model.Credito) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.New()
	cp := *c
	r.creditos[c.ID] = &cp
	return nil
}

func (r *fakeCreditoRepo) CreateApartado(_ context.Context, _ *gorm.DB, a *model.Apartado) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = uuid.New()
	cp := *a
	r.apartados[a.ID] = &cp
	return nil
}

func (r *fakeCreditoRepo) CreateAbono(_ context.Context, _ *gorm.DB, a *model.Abono) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = uuid.New()
	cp := *a
	r.abonos[a.ID] = &cp
	return nil
}

func (r *fakeCreditoRepo) NextFolio(_ context.Context, _ *gorm.DB, seq string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.folios[seq]++
	return r.folios[seq], nil
}

func (r *fakeCreditoRepo) FindCredito(_ context.Context, id uuid.UUID) (*model.Credito, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.creditos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCreditoRepo) FindApartado(_ context.Context, id uuid.UUID) (*model.Apartado, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apartados[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeCreditoRepo) FindAbono(_ context.Context, id uuid.UUID) (*model.Abono, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.abonos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeCreditoRepo) LockCredito(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Credito, error) {
	return r.FindCredito(ctx, id)
}

func (r *fakeCreditoRepo) LockApartado(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Apartado, error) {
	return r.FindApartado(ctx, id)
}

func (r *fakeCreditoRepo) UpdateSaldo(_ context.Context, _ *gorm.DB, tipo string, id uuid.UUID, saldo decimal.Decimal, estado string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch tipo {
	case model.AbonoCredito:
		c, ok := r.creditos[id]
		if !ok {
			return gorm.ErrRecordNotFound
		}
		c.Saldo, c.Estado = saldo, estado
	case model.AbonoApartado:
		a, ok := r.apartados[id]
		if !ok {
			return gorm.ErrRecordNotFound
		}
		a.Saldo, a.Estado = saldo, estado
	}
	return nil
}

func (r *fakeCreditoRepo) ListAbonos(_ context.Context, tipo string, referenciaID uuid.UUID) ([]model.Abono, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Abono
	for _, a := range r.abonos {
		if a.Tipo == tipo && a.ReferenciaID == referenciaID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Folio < out[j].Folio })
	return out, nil
}

func (r *fakeCreditoRepo) SaldoCliente(_ context.Context, clienteID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, c := range r.creditos {
		if c.ClienteID == clienteID && c.Estado == model.CuentaActiva {
			total = total.Add(c.Saldo)
		}
	}
	return total, nil
}

func (r *fakeCreditoRepo) ListCreditos(_ context.Context, _ dto.CuentaFilter) ([]model.Credito, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Credito
	for _, c := range r.creditos {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCreditoRepo) ListApartados(_ context.Context, _ dto.CuentaFilter) ([]model.Apartado, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Apartado
	for _, a := range r.apartados {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCreditoRepo) CreditosDesde(_ context.Context, sucursalID uuid.UUID, desde time.Time) ([]model.Credito, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Credito
	for _, c := range r.creditos {
		if c.SucursalID == sucursalID && !c.Fecha.Before(desde) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCreditoRepo) ApartadosDesde(_ context.Context, sucursalID uuid.UUID, desde time.Time) ([]model.Apartado, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Apartado
	for _, a := range r.apartados {
		if a.SucursalID == sucursalID && !a.Fecha.Before(desde) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeCreditoRepo) AbonosDesde(_ context.Context, sucursalID uuid.UUID, desde time.Time) ([]model.Abono, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Abono
	for _, a := range r.abonos {
		if a.SucursalID == sucursalID && !a.Fecha.Before(desde) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeCreditoRepo) DB() *gorm.DB { return nil }

// ── Snapshots ─────────────────────────────────────────────────────────────────

type fakeSnapshotRepo struct {
	snaps []model.Snapshot
}

func (r *fakeSnapshotRepo) Create(_ context.Context, s *model.Snapshot) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	r.snaps = append(r.snaps, *s)
	return nil
}

func (r *fakeSnapshotRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Snapshot, error) {
	for i := range r.snaps {
		if r.snaps[i].ID == id {
			cp := r.snaps[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSnapshotRepo) List(_ context.Context, filter dto.SnapshotFilter) ([]model.Snapshot, int64, error) {
	var out []model.Snapshot
	for _, s := range r.snaps {
		if filter.Tipo != "" && s.Tipo != filter.Tipo {
			continue
		}
		s.Datos = nil
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

// ── Print queue ───────────────────────────────────────────────────────────────

type fakeQueue struct {
	mu   sync.Mutex
	jobs []worker.ImpresionPayload
}

func (q *fakeQueue) EnqueueImpresion(_ context.Context, p worker.ImpresionPayload) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, p)
	return nil
}

// ── Wiring ────────────────────────────────────────────────────────────────────

// entorno is a branch with one cashier and every money service wired over
// the fakes.
type entorno struct {
	productos   *fakeProductoRepo
	movStock    *fakeMovStockRepo
	clientesR   *fakeClienteRepo
	sucursalesR *fakeSucursalRepo
	usuariosR   *fakeUsuarioRepo
	cortesR     *fakeCorteRepo
	ventasR     *fakeVentaRepo
	creditosR   *fakeCreditoRepo
	queue       *fakeQueue

	inventario InventarioService
	cortes     CorteService
	ventas     VentaService
	creditos   CreditoService
	tickets    TicketService

	sucursal *model.Sucursal
	cajero   uuid.UUID
}

func nuevoEntorno() *entorno {
	e := &entorno{
		productos:   newFakeProductoRepo(),
		movStock:    &fakeMovStockRepo{},
		clientesR:   newFakeClienteRepo(),
		sucursalesR: newFakeSucursalRepo(),
		usuariosR:   newFakeUsuarioRepo(),
		cortesR:     newFakeCorteRepo(),
		ventasR:     newFakeVentaRepo(),
		creditosR:   newFakeCreditoRepo(),
		queue:       &fakeQueue{},
	}
	e.sucursal = e.sucursalesR.add(model.Sucursal{Nombre: "Centro", Direccion: "Av. Juarez 10", Telefono: "3312345678"})
	cajero := &model.Usuario{Username: "ana", Nombre: "Ana Lopez", Rol: model.RolCajero, Activo: true}
	_ = e.usuariosR.Create(context.Background(), cajero)
	e.cajero = cajero.ID

	e.inventario = NewInventarioService(e.productos, e.movStock)
	e.cortes = NewCorteService(e.cortesR, e.sucursalesR, e.ventasR, e.creditosR, infra.NewLocalLocker(), e.queue, "")
	e.ventas = NewVentaService(e.ventasR, e.productos, e.clientesR, e.inventario, e.cortes, e.queue)
	e.creditos = NewCreditoService(e.creditosR, e.productos, e.clientesR, e.inventario, e.cortes, e.queue)
	e.tickets = NewTicketService(testTicketConfig(), e.ventasR, e.creditosR, e.cortesR, e.cortes, e.sucursalesR, e.usuariosR, e.clientesR, e.queue)
	return e
}

func (e *entorno) abrirCorte(fondo string) *dto.CorteResponse {
	resp, err := e.cortes.Abrir(context.Background(), e.cajero, e.sucursal.ID, dto.AbrirCorteRequest{FondoInicial: dec(fondo)})
	if err != nil {
		panic(err)
	}
	return resp
}

func (e *entorno) producto(nombre, barcode, precio string, stock int) *model.Producto {
	return e.productos.add(model.Producto{
		CodigoBarras: barcode,
		Nombre:       nombre,
		Precio:       dec(precio),
		StockActual:  stock,
		Activo:       true,
	})
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(p *model.Producto, cantidad int) dto.ItemRequest {
	return dto.ItemRequest{ProductoID: p.ID.String(), Cantidad: cantidad}
}

func pago(metodo, monto string) dto.PagoRequest {
	return dto.PagoRequest{Metodo: metodo, Monto: dec(monto)}
}

func decimalInt(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }
