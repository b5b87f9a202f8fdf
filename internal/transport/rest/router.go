package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/chayanin/inventory-api/internal/auth"
	"github.com/chayanin/inventory-api/internal/branch"
	"github.com/chayanin/inventory-api/internal/imagehost"
	"github.com/chayanin/inventory-api/internal/product"
	"github.com/chayanin/inventory-api/internal/transport/middleware"
	"github.com/chayanin/inventory-api/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// RegisterAllRoutes wires every handler into the route tree. Branch mutations
// are owner-only; product routes rely on the service layer for branch-level
// authorization because the rules there are per-field, not per-route.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	authorizer *auth.Authorizer,
	branchHandler *branch.Handler,
	productHandler *product.Handler,
	uploadHandler *imagehost.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	// Global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", authHandler.Register)
			sr.Post("/login", authHandler.Login)
			sr.Post("/logout", authHandler.Logout)
		})

		// Branch locations are public reads (store locator)
		r.Get("/branches/{id}/location", branchHandler.GetLocation)

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/users/me", authHandler.Me)

			pr.Route("/branches", func(br chi.Router) {
				br.Get("/", branchHandler.ListBranches)

				// Mutations are owner-only
				br.Group(func(or chi.Router) {
					or.Use(authorizer.RequireOwner())
					or.Post("/", branchHandler.CreateBranch)
					or.Put("/{id}", branchHandler.UpdateBranch)
					or.Patch("/{id}/set_location", branchHandler.SetLocation)
					or.Delete("/{id}", branchHandler.DeleteBranch)
				})
			})

			pr.Route("/products", func(xr chi.Router) {
				xr.Get("/", productHandler.ListProducts)
				xr.Get("/{id}", productHandler.GetProduct)
				xr.Post("/", productHandler.CreateProduct)
				xr.Patch("/{id}", productHandler.UpdateProduct)
				xr.Delete("/{id}", productHandler.DeleteProduct)
			})

			pr.Post("/upload", uploadHandler.UploadImage)
		})
	})
}
