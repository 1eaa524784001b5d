package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/analytics"
	"github.com/jhoicas/Almacen-api/internal/application/audit"
	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC      *inventory.ItemUseCase
	TransferUC  *inventory.TransferUseCase
	Monitor     *inventory.LowStockMonitor
	WarehouseUC *usecase.WarehouseUseCase
	AggregateUC *analytics.AggregateUseCase
	Recorder    *audit.Recorder
	AuthUC      *auth.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Las mutaciones exigen rol admin; las
// lecturas aceptan cualquier usuario autenticado.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	admin := RequireRole(entity.RoleAdmin)

	// Items (protegido). Las rutas fijas van antes de /:id.
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.TransferUC, deps.Monitor)
	chartHandler := NewChartHandler(deps.AggregateUC)
	items.Get("/", itemHandler.List)
	items.Post("/", admin, itemHandler.Create)
	items.Post("/transfer", admin, itemHandler.Transfer)
	items.Get("/low-stock-alert", itemHandler.LowStockAlert)
	items.Get("/bar-chart", chartHandler.BarChart)
	items.Get("/pie-chart", chartHandler.PieChart)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", admin, itemHandler.Update)
	items.Delete("/:id", admin, itemHandler.Delete)

	// Agregados por bodega (protegido)
	protected.Get("/warehouse-quantities", chartHandler.WarehouseQuantities)

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Post("/", admin, warehouseHandler.Create)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", admin, warehouseHandler.Update)
	warehouses.Delete("/:id", admin, warehouseHandler.Delete)

	// Bitácora (protegido, solo admin)
	logHandler := NewLogHandler(deps.Recorder)
	protected.Get("/logs", admin, logHandler.List)
}
