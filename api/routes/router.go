package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rahulvarma/shopsphere-backend/api/controllers"
	"github.com/rahulvarma/shopsphere-backend/api/middleware"
	authsvc "github.com/rahulvarma/shopsphere-backend/internal/auth"
	blogsvc "github.com/rahulvarma/shopsphere-backend/internal/blog"
	cartsvc "github.com/rahulvarma/shopsphere-backend/internal/cart"
	"github.com/rahulvarma/shopsphere-backend/internal/catalog"
	checkoutsvc "github.com/rahulvarma/shopsphere-backend/internal/checkout"
	contactsvc "github.com/rahulvarma/shopsphere-backend/internal/contact"
	discountsvc "github.com/rahulvarma/shopsphere-backend/internal/discounts"
	orderssvc "github.com/rahulvarma/shopsphere-backend/internal/orders"
	userssvc "github.com/rahulvarma/shopsphere-backend/internal/users"
	wishlistsvc "github.com/rahulvarma/shopsphere-backend/internal/wishlist"
	"github.com/rahulvarma/shopsphere-backend/pkg/auth/session"
	"github.com/rahulvarma/shopsphere-backend/pkg/config"
	"github.com/rahulvarma/shopsphere-backend/pkg/db"
	"github.com/rahulvarma/shopsphere-backend/pkg/logger"
	"github.com/rahulvarma/shopsphere-backend/pkg/metrics"
	"github.com/rahulvarma/shopsphere-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       redis.Pinger
	Sessions    session.AccessSessionChecker
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry

	Auth      authsvc.Service
	Users     userssvc.Service
	Catalog   catalog.Service
	Cart      cartsvc.Service
	Discounts discountsvc.Service
	Orders    orderssvc.Service
	Checkout  checkoutsvc.Service
	Wishlist  wishlistsvc.Service
	Blog      blogsvc.Service
	Contact   contactsvc.Service
}

// NewRouter assembles the HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.Health())
		r.Get("/ready", controllers.Ready(deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.Register(deps.Auth, logg))
		r.Post("/login", controllers.Login(deps.Auth, logg))
		r.Post("/logout", controllers.Logout(deps.Auth, cfg.JWT, logg))
	})

	// Public storefront reads.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.Catalog, logg))
		r.Get("/{productId}", controllers.ProductDetail(deps.Catalog, logg))
	})
	r.Get("/api/v1/categories", controllers.CategoryList(deps.Catalog, logg))
	r.Get("/api/v1/manufacturers", controllers.ManufacturerList(deps.Catalog, logg))
	r.Route("/api/v1/blog", func(r chi.Router) {
		r.Get("/", controllers.BlogList(deps.Blog, logg))
		r.Get("/{slug}", controllers.BlogDetail(deps.Blog, logg))
	})
	r.Post("/api/v1/contact", controllers.ContactSubmit(deps.Contact, logg))

	// Authenticated storefront surface.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", controllers.CartAddItem(deps.Cart, logg))
			r.Get("/details", controllers.CartDetails(deps.Cart, logg))
			r.Put("/{itemId}", controllers.CartUpdateItem(deps.Cart, logg))
			r.Delete("/{itemId}", controllers.CartRemoveItem(deps.Cart, logg))
			r.Post("/apply-discount", controllers.CartApplyDiscount(deps.Cart, logg))
			r.Delete("/remove-discount", controllers.CartRemoveDiscount(deps.Cart, logg))
		})

		r.Get("/discount/code/{code}", controllers.DiscountByCode(deps.Discounts, logg))

		r.Post("/order", controllers.OrderCreate(deps.Checkout, logg))
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(deps.Orders, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/initiate", controllers.PaymentInitiate(deps.Checkout, logg))
			r.Post("/success", controllers.PaymentSuccess(deps.Checkout, logg))
			r.Post("/cancel", controllers.PaymentCancel(deps.Checkout, logg))
		})

		r.Route("/users/me", func(r chi.Router) {
			r.Get("/", controllers.Me(deps.Users, logg))
			r.Put("/", controllers.UpdateMe(deps.Users, logg))
			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.AddressList(deps.Users, logg))
				r.Post("/", controllers.AddressCreate(deps.Users, logg))
				r.Put("/{addressId}", controllers.AddressUpdate(deps.Users, logg))
				r.Delete("/{addressId}", controllers.AddressDelete(deps.Users, logg))
				r.Post("/{addressId}/default", controllers.AddressSetDefault(deps.Users, logg))
			})
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(deps.Wishlist, logg))
			r.Post("/", controllers.WishlistAdd(deps.Wishlist, logg))
			r.Delete("/{productId}", controllers.WishlistRemove(deps.Wishlist, logg))
		})
	})

	return r
}
