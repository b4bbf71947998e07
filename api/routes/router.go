package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/printforge/fulfillment-backend/api/controllers"
	"github.com/printforge/fulfillment-backend/api/middleware"
	"github.com/printforge/fulfillment-backend/internal/inventory"
	"github.com/printforge/fulfillment-backend/internal/jobs"
	"github.com/printforge/fulfillment-backend/internal/orders"
	"github.com/printforge/fulfillment-backend/internal/tickets"
	"github.com/printforge/fulfillment-backend/internal/wallet"
	"github.com/printforge/fulfillment-backend/pkg/config"
	"github.com/printforge/fulfillment-backend/pkg/db"
	"github.com/printforge/fulfillment-backend/pkg/enums"
	"github.com/printforge/fulfillment-backend/pkg/logger"
	"github.com/printforge/fulfillment-backend/pkg/redis"
)

type Services struct {
	Inventory inventory.Service
	Jobs      jobs.Service
	Orders    orders.Service
	Wallet    wallet.Service
	Tickets   tickets.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	scanPolicy := middleware.NewRateLimitPolicy(
		"scan",
		cfg.RateLimit.ScanWindow,
		cfg.RateLimit.ScanLimit,
	)
	decisionPolicy := middleware.NewRateLimitPolicy(
		"decision",
		cfg.RateLimit.DecisionWindow,
		cfg.RateLimit.DecisionLimit,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		// shop floor: scan gateway and direct transitions
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.ActorRoleStaff.String(), enums.ActorRoleAdmin.String()))

			r.Route("/scan", func(r chi.Router) {
				r.Get("/{token}", controllers.ScanResolve(svcs.Jobs, logg))
				r.With(middleware.RateLimit(scanPolicy, redisClient, logg)).
					Post("/{token}", controllers.ScanApply(svcs.Jobs, logg))
			})
			r.Route("/jobs", func(r chi.Router) {
				r.Get("/{jobId}", controllers.JobDetail(svcs.Jobs, logg))
				r.With(middleware.RateLimit(scanPolicy, redisClient, logg)).
					Post("/{jobId}/transition", controllers.JobTransition(svcs.Jobs, logg))
			})
		})

		// seller surface
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.ActorRoleSeller.String()))

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.OrderPlace(svcs.Orders, logg))
				r.Get("/", controllers.OrderList(svcs.Orders, logg))
				r.Get("/{orderId}", controllers.OrderDetail(svcs.Orders, logg))
			})
			r.Route("/wallet", func(r chi.Router) {
				r.Get("/balance", controllers.WalletBalance(svcs.Wallet, logg))
				r.Post("/top-ups", controllers.WalletTopUp(svcs.Wallet, logg))
				r.Get("/ledger", controllers.WalletLedger(svcs.Wallet, logg))
			})
			r.Route("/tickets", func(r chi.Router) {
				r.Post("/", controllers.TicketCreate(svcs.Tickets, logg))
				r.Get("/", controllers.TicketList(svcs.Tickets, logg))
			})
		})

		// back-office admin surface
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.ActorRoleAdmin.String()))

			r.With(middleware.RateLimit(decisionPolicy, redisClient, logg)).
				Post("/orders/{orderId}/decision", controllers.AdminOrderDecision(svcs.Orders, logg))

			r.Route("/tickets", func(r chi.Router) {
				r.Get("/", controllers.AdminTicketList(svcs.Tickets, logg))
				r.Patch("/{ticketId}/reply", controllers.AdminTicketReply(svcs.Tickets, logg))
				r.Patch("/{ticketId}/close", controllers.AdminTicketClose(svcs.Tickets, logg))
			})
		})

		// inventory: admins manage, staff may read
		r.Route("/inventory", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.ActorRoleStaff.String(), enums.ActorRoleAdmin.String()))
				r.Get("/items", controllers.InventoryListItems(svcs.Inventory, logg))
				r.Get("/items/{itemId}", controllers.InventoryItemDetail(svcs.Inventory, logg))
				r.Get("/movements", controllers.InventoryListMovements(svcs.Inventory, logg))
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.ActorRoleAdmin.String()))
				r.Post("/items", controllers.InventoryCreateItem(svcs.Inventory, logg))
				r.Post("/adjustments", controllers.InventoryAdjust(svcs.Inventory, logg))
			})
		})
	})

	return r
}
