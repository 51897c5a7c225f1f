package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopdeskapp/shopdesk-backend/api/controllers"
	"github.com/shopdeskapp/shopdesk-backend/api/middleware"
	"github.com/shopdeskapp/shopdesk-backend/internal/audit"
	"github.com/shopdeskapp/shopdesk-backend/internal/categories"
	"github.com/shopdeskapp/shopdesk-backend/internal/customers"
	"github.com/shopdeskapp/shopdesk-backend/internal/invoices"
	"github.com/shopdeskapp/shopdesk-backend/internal/orders"
	"github.com/shopdeskapp/shopdesk-backend/internal/products"
	"github.com/shopdeskapp/shopdesk-backend/internal/settings"
	"github.com/shopdeskapp/shopdesk-backend/pkg/config"
	"github.com/shopdeskapp/shopdesk-backend/pkg/db"
	"github.com/shopdeskapp/shopdesk-backend/pkg/logger"
	"github.com/shopdeskapp/shopdesk-backend/pkg/metrics"
	"github.com/shopdeskapp/shopdesk-backend/pkg/redis"
)

// Services bundles the domain services the router exposes.
type Services struct {
	Categories *categories.Service
	Products   *products.Service
	Customers  *customers.Service
	Orders     *orders.Service
	Invoices   *invoices.Service
	Settings   *settings.Service
	Audit      *audit.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(svcs.Categories, logg))
			r.Post("/", controllers.CategoryCreate(svcs.Categories, logg))
			r.Get("/{categoryId}", controllers.CategoryDetail(svcs.Categories, logg))
			r.Put("/{categoryId}", controllers.CategoryUpdate(svcs.Categories, logg))
			r.Delete("/{categoryId}", controllers.CategoryDelete(svcs.Categories, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svcs.Products, logg))
			r.Post("/", controllers.ProductCreate(svcs.Products, logg))
			r.Put("/variants/{variantId}/quantity", controllers.VariantOverrideQuantity(svcs.Products, logg))
			r.Get("/{productId}", controllers.ProductDetail(svcs.Products, logg))
			r.Put("/{productId}", controllers.ProductUpdate(svcs.Products, logg))
			r.Delete("/{productId}", controllers.ProductDelete(svcs.Products, logg))
			r.Post("/{productId}/stock", controllers.ProductReceiveStock(svcs.Products, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.CustomerList(svcs.Customers, logg))
			r.Post("/", controllers.CustomerCreate(svcs.Customers, logg))
			r.Get("/{customerId}", controllers.CustomerDetail(svcs.Customers, logg))
			r.Put("/{customerId}", controllers.CustomerUpdate(svcs.Customers, logg))
			r.Delete("/{customerId}", controllers.CustomerDelete(svcs.Customers, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(svcs.Orders, logg))
			r.Post("/", controllers.OrderCreate(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(svcs.Orders, logg))
			r.Patch("/{orderId}/status", controllers.OrderUpdateStatus(svcs.Orders, logg))
			r.Get("/{orderId}/invoice", controllers.OrderInvoice(svcs.Invoices, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.SettingsGet(svcs.Settings, logg))
			r.Put("/", controllers.SettingsUpdate(svcs.Settings, logg))
		})

		r.Get("/audit", controllers.AuditList(svcs.Audit, logg))
	})

	return r
}
