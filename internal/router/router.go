package router

import (
	"context"
	"time"

	"casaceja/internal/config"
	"casaceja/internal/handler"
	"casaceja/internal/infra"
	"casaceja/internal/middleware"
	"casaceja/internal/model"
	"casaceja/internal/repository"
	"casaceja/internal/service"
	"casaceja/internal/ticket"
	"casaceja/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services is the service layer, built once and shared by the HTTP routes and
// the background workers.
type Services struct {
	Auth       service.AuthService
	Sucursales service.SucursalService
	Categorias service.CategoriaService
	Productos  service.ProductoService
	Inventario service.InventarioService
	Clientes   service.ClienteService
	Cortes     service.CorteService
	Ventas     service.VentaService
	Creditos   service.CreditoService
	Tickets    service.TicketService
	Snapshots  service.SnapshotService
	Dispatcher *worker.Dispatcher
}

// NewServices wires every service.
// Dependency graph: Service ← Repository ← DB/Redis
func NewServices(cfg *config.Config, db *gorm.DB, rdb redis.UniversalClient) *Services {
	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	sucursalRepo := repository.NewSucursalRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	corteRepo := repository.NewCorteRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	creditoRepo := repository.NewCreditoRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	// Worker dispatcher, injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)
	locker := infra.NewRedisLocker(rdb, cfg.ShiftLockTTL)

	// ── Services ─────────────────────────────────────────────────────────────
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoStockRepo)
	corteSvc := service.NewCorteService(corteRepo, sucursalRepo, ventaRepo, creditoRepo, locker, dispatcher, cfg.ReportEmail)

	ticketCfg := ticket.Config{
		LineWidth:    cfg.TicketLineWidth,
		BusinessName: cfg.BusinessName,
		Footer:       cfg.TicketFooter,
		RFC:          cfg.TicketRFC,
		TerminalID:   cfg.TerminalID,
	}

	return &Services{
		Auth:       service.NewAuthService(usuarioRepo, cfg),
		Sucursales: service.NewSucursalService(sucursalRepo),
		Categorias: service.NewCategoriaService(categoriaRepo),
		Productos:  service.NewProductoService(productoRepo, rdb),
		Inventario: inventarioSvc,
		Clientes:   service.NewClienteService(clienteRepo),
		Cortes:     corteSvc,
		Ventas:     service.NewVentaService(ventaRepo, productoRepo, clienteRepo, inventarioSvc, corteSvc, dispatcher),
		Creditos:   service.NewCreditoService(creditoRepo, productoRepo, clienteRepo, inventarioSvc, corteSvc, dispatcher),
		Tickets: service.NewTicketService(ticketCfg, ventaRepo, creditoRepo, corteRepo, corteSvc,
			sucursalRepo, usuarioRepo, clienteRepo, dispatcher),
		Snapshots:  service.NewSnapshotService(snapshotRepo, productoRepo),
		Dispatcher: dispatcher,
	}
}

// New returns a configured Gin engine over svcs. ctx bounds the rate limiter
// housekeeping goroutines.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb redis.UniversalClient, svcs *Services, mailer handler.MailerStatus) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	apiLimiter := middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)
	loginLimiter := middleware.LoginRateLimiter()
	go apiLimiter.Run(time.Minute, ctx.Done())
	go loginLimiter.Run(time.Minute, ctx.Done())

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(apiLimiter.Middleware("Demasiadas solicitudes, intente mas tarde"))

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(svcs.Auth)
	usuariosH := handler.NewUsuariosHandler(svcs.Auth)
	sucursalesH := handler.NewSucursalesHandler(svcs.Sucursales)
	categoriasH := handler.NewCategoriasHandler(svcs.Categorias)
	productosH := handler.NewProductosHandler(svcs.Productos)
	consultaH := handler.NewConsultaPreciosHandler(svcs.Productos)
	inventarioH := handler.NewInventarioHandler(svcs.Inventario)
	clientesH := handler.NewClientesHandler(svcs.Clientes)
	cortesH := handler.NewCortesHandler(svcs.Cortes)
	ventasH := handler.NewVentasHandler(svcs.Ventas)
	creditosH := handler.NewCreditosHandler(svcs.Creditos)
	apartadosH := handler.NewApartadosHandler(svcs.Creditos)
	ticketsH := handler.NewTicketsHandler(svcs.Tickets)
	snapshotsH := handler.NewSnapshotsHandler(svcs.Snapshots)

	todos := middleware.RequireRole(model.RolCajero, model.RolSupervisor, model.RolAdministrador)
	supervisores := middleware.RequireRole(model.RolSupervisor, model.RolAdministrador)
	admin := middleware.RequireRole(model.RolAdministrador)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailer))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", loginLimiter.Middleware("Demasiados intentos de login, intente en un minuto"), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check, no auth required
	r.GET("/v1/precio/:barcode", consultaH.GetPrecioPorBarcode)

	// Protected routes
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		cortes := v1.Group("/cortes")
		{
			cortes.POST("/abrir", todos, cortesH.Abrir)
			cortes.GET("/activo", todos, cortesH.Activo)
			cortes.POST("/:id/movimientos", todos, cortesH.RegistrarMovimiento)
			cortes.POST("/:id/cerrar", todos, cortesH.Cerrar)
			cortes.GET("/:id", todos, cortesH.ObtenerReporte)
			cortes.GET("", supervisores, cortesH.Historial)
		}

		v1.POST("/ventas", todos, ventasH.RegistrarVenta)
		v1.GET("/ventas", todos, ventasH.ListarVentas)
		v1.GET("/ventas/:id", todos, ventasH.ObtenerVenta)
		v1.DELETE("/ventas/:id", supervisores, ventasH.CancelarVenta)

		for prefix, h := range map[string]*handler.CuentasHandler{"/creditos": creditosH, "/apartados": apartadosH} {
			g := v1.Group(prefix, todos)
			g.POST("", h.Crear)
			g.GET("", h.Listar)
			g.GET("/:id", h.Obtener)
			g.POST("/:id/abonos", h.RegistrarAbono)
		}

		tickets := v1.Group("/tickets", todos)
		{
			tickets.GET("/:tipo/:id", ticketsH.Texto)
			tickets.POST("/:tipo/:id/imprimir", ticketsH.Imprimir)
		}

		// Catalog reads for every role; writes for administrador only
		v1.GET("/productos", todos, productosH.Listar)
		v1.GET("/productos/:id", todos, productosH.ObtenerPorID)
		v1.GET("/productos/barcode/:barcode", todos, productosH.ObtenerPorBarcode)
		v1.PATCH("/productos/:id/stock", supervisores, inventarioH.AjustarStock)
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
		}
		v1.GET("/inventario/movimientos", supervisores, inventarioH.ListarMovimientos)

		v1.GET("/categorias", todos, categoriasH.Listar)
		categorias := v1.Group("/categorias", admin)
		{
			categorias.POST("", categoriasH.Crear)
			categorias.PUT("/:id", categoriasH.Actualizar)
			categorias.DELETE("/:id", categoriasH.Desactivar)
		}

		clientes := v1.Group("/clientes", todos)
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.Obtener)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", supervisores, clientesH.Desactivar)
		}

		v1.GET("/sucursales", todos, sucursalesH.Listar)
		v1.GET("/sucursales/:id", todos, sucursalesH.Obtener)
		sucursales := v1.Group("/sucursales", admin)
		{
			sucursales.POST("", sucursalesH.Crear)
			sucursales.PUT("/:id", sucursalesH.Actualizar)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}

		snapshots := v1.Group("/snapshots", supervisores)
		{
			snapshots.GET("", snapshotsH.Listar)
			snapshots.GET("/:id", snapshotsH.Obtener)
			snapshots.POST("/precios", admin, snapshotsH.Precios)
		}
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
