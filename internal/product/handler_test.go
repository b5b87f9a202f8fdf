package product_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/chayanin/inventory-api/internal/auth"
	authPostgres "github.com/chayanin/inventory-api/internal/auth/postgres"
	"github.com/chayanin/inventory-api/internal/branch"
	"github.com/chayanin/inventory-api/internal/product"
	productPostgres "github.com/chayanin/inventory-api/internal/product/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingNotifier struct {
	calls int
}

func (n *recordingNotifier) StockChanged(_ context.Context, _ string, _ int64, _ int) {
	n.calls++
}

// asUser injects the user the way the auth middleware would after validating
// a token.
func asUser(user *auth.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), user)))
		})
	}
}

var _ = Describe("Product Handler Integration", func() {
	var (
		db       *gorm.DB
		handler  *product.Handler
		notifier *recordingNotifier
		slogger  *slog.Logger

		owner   *auth.User
		manager *auth.User
		staff   *auth.User
	)

	routerFor := func(user *auth.User) *chi.Mux {
		r := chi.NewRouter()
		r.Use(asUser(user))
		r.Get("/products", handler.ListProducts)
		r.Get("/products/{id}", handler.GetProduct)
		r.Post("/products", handler.CreateProduct)
		r.Patch("/products/{id}", handler.UpdateProduct)
		r.Delete("/products/{id}", handler.DeleteProduct)
		return r
	}

	BeforeEach(func() {
		var err error
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&branch.Branch{}, &auth.User{}, &auth.BranchMembership{}, &product.Product{})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.Create(&branch.Branch{Name: "Main Branch"}).Error).NotTo(HaveOccurred())
		Expect(db.Create(&branch.Branch{Name: "Warehouse"}).Error).NotTo(HaveOccurred())

		owner = &auth.User{Username: "owner", PasswordHash: "x", GlobalRole: auth.GlobalRoleOwner}
		manager = &auth.User{Username: "m1", PasswordHash: "x", GlobalRole: auth.GlobalRoleManager}
		staff = &auth.User{Username: "s1", PasswordHash: "x", GlobalRole: auth.GlobalRoleEmployee}

		authRepo := authPostgres.NewRepository(db)
		Expect(authRepo.CreateWithMembership(owner, nil)).To(Succeed())
		Expect(authRepo.CreateWithMembership(manager, &auth.BranchMembership{BranchID: 1, Role: auth.BranchRoleManager})).To(Succeed())
		Expect(authRepo.CreateWithMembership(staff, &auth.BranchMembership{BranchID: 1, Role: auth.BranchRoleStaff})).To(Succeed())

		Expect(db.Create(&product.Product{Name: "Rice 5kg", Price: 129, Quantity: 40, BranchID: 1}).Error).NotTo(HaveOccurred())

		notifier = &recordingNotifier{}
		authorizer := auth.NewAuthorizer(authRepo, slogger)
		repo := productPostgres.NewProductRepository(db)
		service := product.NewService(repo, authorizer, notifier, slogger)
		handler = product.NewHandler(service)
	})

	Describe("PATCH /products/{id}", func() {
		It("should let staff adjust quantity and fire one stock notification", func() {
			req := httptest.NewRequest(http.MethodPatch, "/products/1", strings.NewReader(`{"quantity": 3}`))
			w := httptest.NewRecorder()

			routerFor(staff).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var p product.Product
			Expect(json.NewDecoder(w.Body).Decode(&p)).To(Succeed())
			Expect(p.Quantity).To(Equal(3))
			Expect(notifier.calls).To(Equal(1))
		})

		It("should reject a staff patch that also touches price", func() {
			req := httptest.NewRequest(http.MethodPatch, "/products/1", strings.NewReader(`{"quantity": 3, "price": 1.0}`))
			w := httptest.NewRecorder()

			routerFor(staff).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(w.Body.String()).To(ContainSubstring("Staff can only update quantity"))
			Expect(notifier.calls).To(BeZero())

			// Nothing was persisted
			var p product.Product
			Expect(db.First(&p, 1).Error).NotTo(HaveOccurred())
			Expect(p.Quantity).To(Equal(40))
			Expect(p.Price).To(Equal(129.0))
		})

		It("should let a manager patch every field", func() {
			body := `{"name": "Premium Rice 5kg", "price": 149, "quantity": 20}`
			req := httptest.NewRequest(http.MethodPatch, "/products/1", strings.NewReader(body))
			w := httptest.NewRecorder()

			routerFor(manager).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var p product.Product
			Expect(json.NewDecoder(w.Body).Decode(&p)).To(Succeed())
			Expect(p.Name).To(Equal("Premium Rice 5kg"))
			Expect(p.Price).To(Equal(149.0))
		})

		It("should return 404 for a missing product", func() {
			req := httptest.NewRequest(http.MethodPatch, "/products/999", strings.NewReader(`{"quantity": 3}`))
			w := httptest.NewRecorder()

			routerFor(owner).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should return 400 for a non-numeric id", func() {
			req := httptest.NewRequest(http.MethodPatch, "/products/abc", strings.NewReader(`{"quantity": 3}`))
			w := httptest.NewRecorder()

			routerFor(owner).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /products", func() {
		It("should let a manager create a product in their branch", func() {
			body := `{"name": "Sugar 1kg", "price": 30, "quantity": 15, "branch_id": 1}`
			req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
			w := httptest.NewRecorder()

			routerFor(manager).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))

			var p product.Product
			Expect(json.NewDecoder(w.Body).Decode(&p)).To(Succeed())
			Expect(p.ID).To(BeNumerically(">", 0))
		})

		It("should forbid staff from creating products", func() {
			body := `{"name": "Sugar 1kg", "price": 30, "branch_id": 1}`
			req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
			w := httptest.NewRecorder()

			routerFor(staff).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("should forbid a manager outside their branch", func() {
			body := `{"name": "Sugar 1kg", "price": 30, "branch_id": 2}`
			req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
			w := httptest.NewRecorder()

			routerFor(manager).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})
	})

	Describe("GET /products", func() {
		It("should require branch_id for non-owners", func() {
			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			w := httptest.NewRecorder()

			routerFor(staff).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should list the caller's branch", func() {
			req := httptest.NewRequest(http.MethodGet, "/products?branch_id=1", nil)
			w := httptest.NewRecorder()

			routerFor(staff).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var products []product.Product
			Expect(json.NewDecoder(w.Body).Decode(&products)).To(Succeed())
			Expect(products).To(HaveLen(1))
		})

		It("should let the owner list everything", func() {
			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			w := httptest.NewRecorder()

			routerFor(owner).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should reject a limit above 1000", func() {
			req := httptest.NewRequest(http.MethodGet, "/products?limit=1001", nil)
			w := httptest.NewRecorder()

			routerFor(owner).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject a non-numeric skip", func() {
			req := httptest.NewRequest(http.MethodGet, "/products?skip=abc", nil)
			w := httptest.NewRecorder()

			routerFor(owner).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject a negative limit", func() {
			req := httptest.NewRequest(http.MethodGet, "/products?limit=-5", nil)
			w := httptest.NewRecorder()

			routerFor(owner).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject a non-numeric min_price", func() {
			req := httptest.NewRequest(http.MethodGet, "/products?min_price=cheap", nil)
			w := httptest.NewRecorder()

			routerFor(owner).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("DELETE /products/{id}", func() {
		It("should acknowledge the deletion", func() {
			req := httptest.NewRequest(http.MethodDelete, "/products/1", nil)
			w := httptest.NewRecorder()

			routerFor(manager).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var resp map[string]interface{}
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp["deleted"]).To(BeTrue())
		})

		It("should forbid staff", func() {
			req := httptest.NewRequest(http.MethodDelete, "/products/1", nil)
			w := httptest.NewRecorder()

			routerFor(staff).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})
	})

	Describe("without an authenticated user", func() {
		It("should return 401", func() {
			r := chi.NewRouter()
			r.Patch("/products/{id}", handler.UpdateProduct)

			req := httptest.NewRequest(http.MethodPatch, "/products/1", strings.NewReader(`{"quantity": 3}`))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
