package product

import (
	"context"
	"log/slog"

	"github.com/chayanin/inventory-api/internal"
	"github.com/chayanin/inventory-api/internal/auth"
)

// Repository defines the data access methods for products. It trusts its
// caller; all authorization happens in the service.
type Repository interface {
	List(query ListQuery) ([]*Product, error)
	GetByID(id int64) (*Product, error)
	Create(product *Product) error
	ApplyPatch(id int64, patch UpdateProductDTO) (*Product, error)
	Delete(id int64) (bool, error)
}

// BranchAuthorizer is the slice of the authorization engine the product flow
// needs.
type BranchAuthorizer interface {
	AuthorizeBranchAccess(user *auth.User, branchID int64, minRole *auth.BranchRole) error
	BranchRoleFor(user *auth.User, branchID int64) (auth.BranchRole, error)
}

// StockNotifier receives quantity changes and decides whether an alert goes
// out. Implementations absorb their own failures; a lost notification must
// never fail the mutation.
type StockNotifier interface {
	StockChanged(ctx context.Context, productName string, branchID int64, quantity int)
}

type Service struct {
	repo       Repository
	authorizer BranchAuthorizer
	notifier   StockNotifier
	logger     *slog.Logger
}

func NewService(repo Repository, authorizer BranchAuthorizer, notifier StockNotifier, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		authorizer: authorizer,
		notifier:   notifier,
		logger:     logger,
	}
}

var minRoleManager = auth.BranchRoleManager

// ListProducts returns the filtered listing. Owners may scan across branches;
// everyone else must scope the query to a branch they belong to.
func (s *Service) ListProducts(user *auth.User, query ListQuery) ([]*Product, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if !user.IsOwner() {
		if query.BranchID == nil {
			return nil, ValidationError{Msg: "branch_id is required for non-owner"}
		}
		if err := s.authorizer.AuthorizeBranchAccess(user, *query.BranchID, nil); err != nil {
			return nil, err
		}
	}

	products, err := s.repo.List(query)
	if err != nil {
		s.logger.Error("failed to list products", "error", err)
		return nil, internal.NewInternalError("failed to list products", err)
	}
	return products, nil
}

func (s *Service) GetProduct(user *auth.User, id int64) (*Product, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get product", err)
	}
	if p == nil {
		return nil, internal.ErrProductNotFound
	}

	if !user.IsOwner() {
		if err := s.authorizer.AuthorizeBranchAccess(user, p.BranchID, nil); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// CreateProduct is allowed for owners anywhere and branch managers in their
// own branch.
func (s *Service) CreateProduct(user *auth.User, dto CreateProductDTO) (*Product, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.authorizer.AuthorizeBranchAccess(user, dto.BranchID, &minRoleManager); err != nil {
		return nil, err
	}

	p := &Product{
		Name:     dto.Name,
		Price:    dto.Price,
		Quantity: dto.Quantity,
		Category: dto.Category,
		ImageURL: dto.ImageURL,
		Unit:     dto.Unit,
		BranchID: dto.BranchID,
	}

	if err := s.repo.Create(p); err != nil {
		s.logger.Error("failed to create product", "error", err, "branch_id", dto.BranchID)
		return nil, internal.NewInternalError("failed to create product", err)
	}

	s.logger.Info("product created", "product_id", p.ID, "branch_id", p.BranchID, "user_id", user.ID)
	return p, nil
}

// UpdateProduct applies an authorization-narrowed patch and fires at most one
// stock notification when the patch touched quantity.
func (s *Service) UpdateProduct(ctx context.Context, user *auth.User, id int64, patch UpdateProductDTO) (*Product, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get product", err)
	}
	if current == nil {
		return nil, internal.ErrProductNotFound
	}

	allowed, err := s.authorizePatch(user, current, patch)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.ApplyPatch(id, allowed)
	if err != nil {
		s.logger.Error("failed to update product", "error", err, "product_id", id)
		return nil, internal.NewInternalError("failed to update product", err)
	}

	if allowed.Quantity != nil {
		s.notifier.StockChanged(ctx, updated.Name, updated.BranchID, *allowed.Quantity)
	}

	return updated, nil
}

// authorizePatch enforces the field-level allow-list server-side: owners and
// branch managers pass the patch unchanged, staff may only touch quantity.
// The narrowed result is what gets persisted regardless of what the caller
// put in the patch.
func (s *Service) authorizePatch(user *auth.User, current *Product, patch UpdateProductDTO) (UpdateProductDTO, error) {
	if user.IsOwner() {
		return patch, nil
	}

	role, err := s.authorizer.BranchRoleFor(user, current.BranchID)
	if err != nil {
		return UpdateProductDTO{}, err
	}

	if role == auth.BranchRoleManager {
		return patch, nil
	}

	if patch.Quantity == nil || patch.TouchesBeyondQuantity() {
		s.logger.Warn("patch denied: field not permitted for staff",
			"user_id", user.ID,
			"product_id", current.ID,
			"branch_id", current.BranchID)
		return UpdateProductDTO{}, internal.ErrFieldNotPermitted
	}

	return patch.QuantityOnly(), nil
}

// DeleteProduct is allowed for owners anywhere and branch managers in the
// product's branch.
func (s *Service) DeleteProduct(user *auth.User, id int64) error {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewInternalError("failed to get product", err)
	}
	if p == nil {
		return internal.ErrProductNotFound
	}

	if err := s.authorizer.AuthorizeBranchAccess(user, p.BranchID, &minRoleManager); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(id)
	if err != nil {
		s.logger.Error("failed to delete product", "error", err, "product_id", id)
		return internal.NewInternalError("failed to delete product", err)
	}
	if !deleted {
		return internal.ErrProductNotFound
	}

	s.logger.Info("product deleted", "product_id", id, "user_id", user.ID)
	return nil
}
