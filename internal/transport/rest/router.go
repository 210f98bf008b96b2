package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/osmech/workshop-management/internal/audit"
	"github.com/osmech/workshop-management/internal/auth"
	"github.com/osmech/workshop-management/internal/company"
	"github.com/osmech/workshop-management/internal/finance"
	"github.com/osmech/workshop-management/internal/inventory"
	"github.com/osmech/workshop-management/internal/notification"
	"github.com/osmech/workshop-management/internal/order"
	"github.com/osmech/workshop-management/internal/transport/middleware"
	"github.com/osmech/workshop-management/internal/transport/swagger"
	"github.com/osmech/workshop-management/internal/user"
)

// Handlers bundles every feature handler the router mounts.
type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Order        *order.Handler
	Inventory    *inventory.Handler
	Finance      *finance.Handler
	Audit        *audit.Handler
	Notification *notification.Handler
	Company      *company.Handler
}

// RegisterAllRoutes wires the full route tree. Paths sit at the root, the
// way the frontend has always called them.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, dbName string, h Handlers, allowedOrigins []string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, dbName)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Get("/ping", healthHandler.pingHandler)
	router.Get("/health", healthHandler.healthCheckHandler)

	router.Post("/auth/login", h.Auth.Login)

	// The login screen shows the company identity before any token exists.
	router.Get("/company", h.Company.GetSettings)

	router.Group(func(pr chi.Router) {
		pr.Use(h.Auth.AuthMiddleware)

		pr.Get("/auth/verify", h.Auth.Verify)

		pr.Route("/users", func(ur chi.Router) {
			ur.Get("/", h.User.ListUsers)
			ur.Get("/me", h.User.GetMe)
			ur.Get("/mechanics", h.User.ListMechanics)
			ur.Get("/{id}", h.User.GetUser)
			ur.Patch("/{id}", h.User.UpdateUser)

			ur.Group(func(ar chi.Router) {
				ar.Use(h.Auth.RequireAdmin)
				ar.Post("/", h.User.CreateUser)
				ar.Delete("/{id}", h.User.DeleteUser)
			})
		})

		pr.Route("/orders", func(or chi.Router) {
			or.Get("/", h.Order.ListOrders)
			or.Get("/stats", h.Order.GetStats)
			or.Get("/{id}", h.Order.GetOrder)
			or.Post("/", h.Order.CreateOrder)
			or.Patch("/{id}", h.Order.UpdateOrder)
			or.Post("/{id}/items", h.Order.AddItem)
			or.Delete("/{id}", h.Order.DeleteOrder)
		})

		pr.Route("/inventory", func(ir chi.Router) {
			ir.Get("/", h.Inventory.ListItems)
			ir.Get("/categories", h.Inventory.ListCategories)
			ir.Get("/low-stock", h.Inventory.ListLowStock)
			ir.Get("/{id}", h.Inventory.GetItem)
			ir.Post("/{id}/adjust-stock", h.Inventory.AdjustStock)

			ir.Group(func(ar chi.Router) {
				ar.Use(h.Auth.RequireAdmin)
				ar.Post("/", h.Inventory.CreateItem)
				ar.Patch("/{id}", h.Inventory.UpdateItem)
				ar.Delete("/{id}", h.Inventory.DeleteItem)
			})
		})

		pr.Route("/finance", func(fr chi.Router) {
			fr.Get("/expenses", h.Finance.ListExpenses)
			fr.Get("/dashboard", h.Finance.GetDashboard)
			fr.Get("/reports/monthly", h.Finance.GetMonthlyReport)

			fr.Group(func(ar chi.Router) {
				ar.Use(h.Auth.RequireAdmin)
				ar.Post("/expenses", h.Finance.CreateExpense)
				ar.Patch("/expenses/{id}", h.Finance.UpdateExpense)
				ar.Delete("/expenses/{id}", h.Finance.DeleteExpense)
			})
		})

		pr.Route("/logs", func(lr chi.Router) {
			lr.Get("/by-order/{order_number}", h.Audit.LogsByOrder)

			lr.Group(func(ar chi.Router) {
				ar.Use(h.Auth.RequireAdmin)
				ar.Get("/", h.Audit.ListLogs)
				ar.Get("/actions", h.Audit.ListActions)
			})
		})

		pr.Route("/notifications", func(nr chi.Router) {
			nr.Get("/", h.Notification.ListNotifications)
			nr.Get("/stats", h.Notification.GetStats)
			nr.Post("/", h.Notification.CreateNotification)
			nr.Patch("/{id}", h.Notification.UpdateNotification)
			nr.Post("/mark-all-read", h.Notification.MarkAllRead)
			nr.Delete("/{id}", h.Notification.DeleteNotification)
			nr.Delete("/", h.Notification.ClearAll)
		})

		pr.Group(func(ar chi.Router) {
			ar.Use(h.Auth.RequireAdmin)
			ar.Patch("/company", h.Company.UpdateSettings)
		})
	})
}
