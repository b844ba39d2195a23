package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/erp-workflow-api/internal/application/workflow"
	"github.com/jhoicas/erp-workflow-api/internal/infrastructure/idempotency"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine         *workflow.Engine
	Idempotency    idempotency.Store
	IdempotencyTTL time.Duration
	JWTSecret      string
	JWTIssuer      string
	Log            zerolog.Logger
}

// Router registra las rutas de la API. Todas bajo /api requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	sales := api.Group("/sales-orders")
	salesHandler := NewSalesOrderHandler(deps.Engine, deps.Log)
	sales.Get("/:id", salesHandler.GetByID)
	sales.Post("/", RequireRole(RoleSales), salesHandler.Create)
	sales.Post("/:id/confirm", RequireRole(RoleSales), salesHandler.Confirm)
	sales.Post("/:id/deliver", RequireRole(RoleSales, RoleWarehouse), salesHandler.Deliver)
	sales.Post("/:id/invoice", RequireRole(RoleSales), salesHandler.Invoice)
	sales.Post("/:id/cancel", RequireRole(RoleSales), salesHandler.Cancel)

	purchases := api.Group("/purchase-orders")
	purchaseHandler := NewPurchaseOrderHandler(deps.Engine, deps.Log)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Post("/", RequireRole(RolePurchasing), purchaseHandler.Create)
	purchases.Post("/:id/confirm", RequireRole(RolePurchasing), purchaseHandler.Confirm)
	purchases.Post("/:id/receive", RequireRole(RolePurchasing, RoleWarehouse), purchaseHandler.Receive)
	purchases.Post("/:id/bill", RequireRole(RolePurchasing), purchaseHandler.Bill)
	purchases.Post("/:id/cancel", RequireRole(RolePurchasing), purchaseHandler.Cancel)

	payments := api.Group("/payments", RequireRole(RoleTreasury), Idempotency(deps.Idempotency, deps.IdempotencyTTL, deps.Log))
	paymentHandler := NewPaymentHandler(deps.Engine, deps.Log)
	payments.Post("/received", paymentHandler.Received)
	payments.Post("/made", paymentHandler.Made)

	queries := NewQueryHandler(deps.Engine, deps.Log)
	api.Get("/stock-levels/:productId/:warehouseId", queries.StockLevel)
	api.Get("/ledger/:type/:counterpartyId", queries.Ledger)
	api.Get("/invoices/:id", queries.Invoice)
	api.Get("/journal-entries", queries.JournalEntries)
}
