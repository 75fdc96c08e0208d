package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/menstyle/storefront/internal/auth"
	"github.com/menstyle/storefront/internal/service"
	"github.com/menstyle/storefront/pkg/health"
	"github.com/menstyle/storefront/pkg/middleware"
)

// Services bundles the application services the router exposes.
type Services struct {
	Products *service.ProductService
	Carts    *service.CartService
	Checkout *service.CheckoutService
	POS      *service.POSService
	Orders   *service.OrderService
	Reports  *service.ReportService
}

// NewRouter creates a chi router with all storefront routes registered.
// tokenValidator gates the admin subtree; adminChecker decides which
// authenticated users may enter it.
func NewRouter(
	services Services,
	authClient *auth.Client,
	adminChecker *auth.AdminChecker,
	tokenValidator middleware.TokenValidator,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsCfg middleware.CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(corsCfg))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	catalogHandler := NewCatalogHandler(services.Products, logger)
	cartHandler := NewCartHandler(services.Carts, logger)
	checkoutHandler := NewCheckoutHandler(services.Checkout, logger)
	authHandler := NewAuthHandler(authClient, adminChecker, logger)
	adminProductHandler := NewAdminProductHandler(services.Products, logger)
	orderHandler := NewOrderHandler(services.Orders, logger)
	reportHandler := NewReportHandler(services.Reports, logger)
	posHandler := NewPOSHandler(services.POS, logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Public catalog
		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/products/featured", catalogHandler.FeaturedProducts)
		r.Get("/products/{id}", catalogHandler.GetProduct)
		r.Get("/categories", catalogHandler.ListCategories)

		// Session cart and checkout
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(SessionIDFromHeader)

			r.Get("/cart", cartHandler.GetCart)
			r.Delete("/cart", cartHandler.ClearCart)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Put("/cart/items/{lineId}", cartHandler.UpdateQuantity)
			r.Delete("/cart/items/{lineId}", cartHandler.RemoveItem)

			r.Post("/checkout", checkoutHandler.Submit)
		})

		// Auth proxy
		r.Route("/auth", func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
		})

		// Admin area: valid token plus an admin row.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(tokenValidator))
			r.Use(auth.RequireAdmin(adminChecker))

			r.Get("/dashboard", reportHandler.Dashboard)
			r.Get("/budget", reportHandler.Budget)

			r.Get("/orders", orderHandler.ListOrders)
			r.Get("/orders/{id}", orderHandler.GetOrder)

			// Multipart upload, mounted outside the JSON content-type guard.
			r.Post("/products/images", adminProductHandler.UploadImage)

			r.Group(func(r chi.Router) {
				r.Use(ContentTypeJSON)

				r.Post("/products", adminProductHandler.CreateProduct)
				r.Put("/products/{id}", adminProductHandler.UpdateProduct)
				r.Delete("/products/{id}", adminProductHandler.DeleteProduct)
				r.Patch("/products/{id}/stock", adminProductHandler.UpdateStock)
				r.Patch("/products/{id}/price", adminProductHandler.UpdatePrice)
			})

			r.Route("/pos", func(r chi.Router) {
				r.Use(ContentTypeJSON)
				r.Use(RegisterIDFromHeader)

				r.Get("/draft", posHandler.GetDraft)
				r.Delete("/draft", posHandler.ClearDraft)
				r.Post("/draft/lines", posHandler.AddLine)
				r.Put("/draft/lines/{index}", posHandler.UpdateLine)
				r.Delete("/draft/lines/{index}", posHandler.RemoveLine)
				r.Get("/change", posHandler.Change)
				r.Post("/sale", posHandler.SubmitSale)
			})
		})
	})

	return r
}
