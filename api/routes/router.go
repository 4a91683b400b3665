package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velocitymotors/dealerdesk-backend/api/controllers"
	"github.com/velocitymotors/dealerdesk-backend/api/middleware"
	"github.com/velocitymotors/dealerdesk-backend/internal/audit"
	"github.com/velocitymotors/dealerdesk-backend/internal/auth"
	"github.com/velocitymotors/dealerdesk-backend/internal/demand"
	"github.com/velocitymotors/dealerdesk-backend/internal/discounts"
	"github.com/velocitymotors/dealerdesk-backend/internal/inventory"
	"github.com/velocitymotors/dealerdesk-backend/internal/notifications"
	"github.com/velocitymotors/dealerdesk-backend/internal/orders"
	"github.com/velocitymotors/dealerdesk-backend/pkg/config"
	"github.com/velocitymotors/dealerdesk-backend/pkg/db"
	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
	"github.com/velocitymotors/dealerdesk-backend/pkg/logger"
	"github.com/velocitymotors/dealerdesk-backend/pkg/redis"
)

// Deps carries every service the HTTP surface exposes.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DB    db.Pinger
	Redis *redis.Client

	Auth          auth.Service
	Discounts     discounts.Service
	Audit         audit.Service
	Inventory     inventory.Service
	Demand        demand.Service
	Orders        orders.Service
	Notifications notifications.Service
	Branches      controllers.BranchStore
}

// NewRouter assembles the chi mux for the sales-ops API.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, enums.StaffRoleAdmin))
			r.Post("/auth/register", controllers.AuthRegister(deps.Auth, logg))
			r.Post("/branches", controllers.CreateBranch(deps.Branches, logg))
		})

		r.Get("/branches", controllers.ListBranches(deps.Branches, logg))

		r.Route("/discounts", func(r chi.Router) {
			r.Post("/", controllers.SubmitDiscount(deps.Discounts, logg))
			r.Get("/{requestId}", controllers.GetDiscount(deps.Discounts, logg))
			r.Get("/{requestId}/audit", controllers.DiscountAuditTrail(deps.Audit, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(logg, enums.StaffRoleBranchManager, enums.StaffRoleGeneralManager))
				r.Post("/{requestId}/approve", controllers.ApproveDiscount(deps.Discounts, logg))
				r.Post("/{requestId}/reject", controllers.RejectDiscount(deps.Discounts, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.Orders, logg))
			r.Get("/{orderId}", controllers.GetOrder(deps.Orders, logg))
			r.Get("/{orderId}/discounts", controllers.ListOrderDiscounts(deps.Discounts, logg))
			r.Get("/{orderId}/audit", controllers.OrderAuditTrail(deps.Audit, logg))
			r.Post("/{orderId}/stage", controllers.AdvanceOrderStage(deps.Orders, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/priority", controllers.InventoryPriorityReport(deps.Inventory, logg))
			r.Get("/{itemId}/score", controllers.InventoryScoreItem(deps.Inventory, logg))
		})

		r.Get("/demand/mismatch", controllers.DemandMismatchReport(deps.Demand, logg))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
		})
	})

	return r
}
