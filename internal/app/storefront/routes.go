// Package storefront предоставляет маршруты для основного приложения.
package storefront

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/velotech/storefront/internal/http/handlers/auth/login"
	"github.com/velotech/storefront/internal/http/handlers/auth/me"
	"github.com/velotech/storefront/internal/http/handlers/auth/register"
	cartadditem "github.com/velotech/storefront/internal/http/handlers/cart/additem"
	cartclear "github.com/velotech/storefront/internal/http/handlers/cart/clear"
	cartlist "github.com/velotech/storefront/internal/http/handlers/cart/list"
	cartmerge "github.com/velotech/storefront/internal/http/handlers/cart/merge"
	cartremoveitem "github.com/velotech/storefront/internal/http/handlers/cart/removeitem"
	cartupdateitem "github.com/velotech/storefront/internal/http/handlers/cart/updateitem"
	chatmessage "github.com/velotech/storefront/internal/http/handlers/chat/message"
	"github.com/velotech/storefront/internal/http/handlers/health"
	ordercheckout "github.com/velotech/storefront/internal/http/handlers/order/checkout"
	orderlist "github.com/velotech/storefront/internal/http/handlers/order/list"
	orderread "github.com/velotech/storefront/internal/http/handlers/order/read"
	productlist "github.com/velotech/storefront/internal/http/handlers/product/list"
	productread "github.com/velotech/storefront/internal/http/handlers/product/read"
	"github.com/velotech/storefront/internal/http/middlewarectx"

	"log/slog"

	authservice "github.com/velotech/storefront/internal/services/auth"
	cartservice "github.com/velotech/storefront/internal/services/cart"
	chatservice "github.com/velotech/storefront/internal/services/chat"
	orderservice "github.com/velotech/storefront/internal/services/order"
	productservice "github.com/velotech/storefront/internal/services/product"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	productService *productservice.ProductService,
	cartService *cartservice.CartService,
	orderService *orderservice.OrderService,
	chatService *chatservice.ChatService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Get("/products", productlist.New(logger, productService).ServeHTTP)
		r.Get("/products/{id}", productread.New(logger, productService).ServeHTTP)
		r.Post("/chat/message", chatmessage.New(logger, chatService).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/auth/me", me.New(logger, authService).ServeHTTP)
			r.Get("/cart", cartlist.New(logger, cartService).ServeHTTP)
			r.Post("/cart/items", cartadditem.New(logger, cartService).ServeHTTP)
			r.Put("/cart/items/{productID}", cartupdateitem.New(logger, cartService).ServeHTTP)
			r.Delete("/cart/items/{productID}", cartremoveitem.New(logger, cartService).ServeHTTP)
			r.Delete("/cart", cartclear.New(logger, cartService).ServeHTTP)
			r.Post("/cart/merge", cartmerge.New(logger, cartService).ServeHTTP)
			r.Post("/orders", ordercheckout.New(logger, orderService).ServeHTTP)
			r.Get("/orders", orderlist.New(logger, orderService).ServeHTTP)
			r.Get("/orders/{id}", orderread.New(logger, orderService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
