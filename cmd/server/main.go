package main

import (
	"log"
	"strings"

	"nexuspos-backend/internal/auth"
	"nexuspos-backend/internal/config"
	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/discounts"
	"nexuspos-backend/internal/expense"
	"nexuspos-backend/internal/inventory"
	"nexuspos-backend/internal/models"
	"nexuspos-backend/internal/purchasing"
	"nexuspos-backend/internal/register"
	"nexuspos-backend/internal/reservations"
	"nexuspos-backend/internal/sales"
	"nexuspos-backend/internal/tables"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)
	auth.EnsureAdmin(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Error inesperado del servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Público
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protegido
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Solo admin
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Usuarios
	adminRoutes.Post("/users", auth.CreateUserHandler())
	adminRoutes.Get("/users", auth.ListUsersHandler())
	adminRoutes.Put("/users/:id", auth.UpdateUserHandler())
	adminRoutes.Delete("/users/:id", auth.DeleteUserHandler())

	// Catálogo de productos
	adminRoutes.Post("/products", inventory.CreateProductHandler())
	adminRoutes.Put("/products/:id", inventory.UpdateProductHandler())
	adminRoutes.Delete("/products/:id", inventory.DeleteProductHandler())
	adminRoutes.Post("/products/import", inventory.ImportProductsHandler())

	// Descuentos
	adminRoutes.Post("/discounts", discounts.CreateDiscountHandler())
	adminRoutes.Put("/discounts/:id", discounts.UpdateDiscountHandler())
	adminRoutes.Delete("/discounts/:id", discounts.DeleteDiscountHandler())

	// Productos y stock
	protected.Get("/products", inventory.ListProductsHandler())
	protected.Get("/products/categories", inventory.ListCategoriesHandler())
	protected.Get("/products/:id", inventory.GetProductHandler())
	protected.Post("/products/:id/add-stock", inventory.AddStockHandler())
	protected.Post("/products/:id/reduce-stock", inventory.ReduceStockHandler())
	protected.Get("/stock-movements", inventory.ListMovementsHandler())
	protected.Get("/stock-movements/recent", inventory.RecentMovementsHandler())
	protected.Post("/stock-movements/adjust", inventory.AdjustStockHandler())

	// Mesas y pedidos
	protected.Post("/tables", tables.CreateTableHandler())
	protected.Get("/tables", tables.ListTablesHandler())
	protected.Get("/tables/:id", tables.GetTableHandler())
	protected.Put("/tables/:id", tables.UpdateTableHandler())
	protected.Delete("/tables/:id", tables.DeleteTableHandler())
	protected.Post("/tables/:id/lines", tables.AddLineHandler())
	protected.Put("/tables/:id/lines/:lineId", tables.UpdateLineHandler())
	protected.Delete("/tables/:id/lines/:lineId", tables.RemoveLineHandler())
	protected.Post("/tables/:id/release", tables.ReleaseTableHandler())
	protected.Post("/tables/:id/close", sales.CloseTableHandler())

	// Cajas
	protected.Post("/registers", register.OpenRegisterHandler())
	protected.Get("/registers", register.ListRegistersHandler())
	protected.Get("/registers/:id", register.GetRegisterHandler())
	protected.Post("/registers/:id/close", register.CloseRegisterHandler())
	protected.Put("/registers/:id/receivable", register.UpdateReceivableHandler())
	protected.Get("/closures", register.ListClosuresHandler())
	protected.Get("/closures/summary", register.ClosureSummaryHandler())
	protected.Get("/closures/latest/:number", register.LatestClosureHandler())

	// Ventas y estadísticas
	protected.Get("/sales", sales.ListSalesHandler())
	protected.Get("/sales/summary", sales.SummaryHandler())
	protected.Get("/sales/daily", sales.DailyTotalsHandler())
	protected.Get("/sales/top-products", sales.TopProductsHandler())
	protected.Get("/sales/by-category", sales.ByCategoryHandler())
	protected.Get("/sales/export", sales.ExportSalesHandler())
	protected.Get("/sales/:id", sales.GetSaleHandler())

	// Gastos
	protected.Post("/expenses", expense.CreateExpenseHandler())
	protected.Get("/expenses", expense.ListExpensesHandler())
	protected.Get("/expenses/totals", expense.ExpenseTotalsHandler())
	protected.Delete("/expenses/:id", expense.DeleteExpenseHandler())

	// Compras y proveedores
	protected.Post("/purchases", purchasing.CreatePurchaseHandler())
	protected.Get("/purchases", purchasing.ListPurchasesHandler())
	protected.Get("/purchases/:id", purchasing.GetPurchaseHandler())
	protected.Post("/suppliers", purchasing.CreateSupplierHandler())
	protected.Get("/suppliers", purchasing.ListSuppliersHandler())
	protected.Put("/suppliers/:id", purchasing.UpdateSupplierHandler())
	protected.Post("/suppliers/:id/toggle", purchasing.ToggleSupplierHandler())

	// Reservas
	protected.Post("/reservations", reservations.CreateReservationHandler())
	protected.Get("/reservations", reservations.ListReservationsHandler())
	protected.Get("/reservations/:id", reservations.GetReservationHandler())
	protected.Put("/reservations/:id", reservations.UpdateReservationHandler())
	protected.Delete("/reservations/:id", reservations.DeleteReservationHandler())
	protected.Post("/reservations/:id/confirm", reservations.ConfirmReservationHandler())
	protected.Post("/reservations/:id/seat", reservations.SeatReservationHandler())
	protected.Post("/reservations/:id/cancel", reservations.CancelReservationHandler())
	protected.Post("/reservations/:id/no-show", reservations.NoShowReservationHandler())

	// Descuentos (lectura y aplicación)
	protected.Get("/discounts", discounts.ListDiscountsHandler())
	protected.Get("/discounts/:id", discounts.GetDiscountHandler())
	protected.Post("/discounts/:id/apply", discounts.ApplyDiscountHandler())

	log.Printf("Servidor escuchando en :%s", cfg.HTTPPort)
	log.Fatal(app.Listen(":" + cfg.HTTPPort))
}
