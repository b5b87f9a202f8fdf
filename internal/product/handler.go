package product

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/chayanin/inventory-api/internal/auth"
	"github.com/chayanin/inventory-api/internal/transport"
	"github.com/chayanin/inventory-api/pkg/logger"
	"github.com/go-chi/chi"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return user, true
}

func (h *Handler) productID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// parseListQuery rejects malformed numeric filters outright; silently
// dropping them would turn a client typo into an unfiltered scan.
func parseListQuery(r *http.Request) (ListQuery, error) {
	q := r.URL.Query()
	query := ListQuery{
		Name:     q.Get("name"),
		Category: q.Get("category"),
		Limit:    100,
	}

	if v := q.Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ListQuery{}, ValidationError{Msg: "skip must be an integer"}
		}
		query.Skip = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ListQuery{}, ValidationError{Msg: "limit must be an integer"}
		}
		query.Limit = n
	}
	if v := q.Get("min_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return ListQuery{}, ValidationError{Msg: "min_price must be a number"}
		}
		query.MinPrice = &f
	}
	if v := q.Get("max_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return ListQuery{}, ValidationError{Msg: "max_price must be a number"}
		}
		query.MaxPrice = &f
	}
	if v := q.Get("branch_id"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return ListQuery{}, ValidationError{Msg: "branch_id must be an integer"}
		}
		query.BranchID = &n
	}

	return query, nil
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	query, err := parseListQuery(r)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	products, err := h.Service.ListProducts(user, query)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	id, ok := h.productID(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.Service.GetProduct(user, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var dto CreateProductDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.CreateProduct(user, dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	id, ok := h.productID(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var patch UpdateProductDTO
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.UpdateProduct(r.Context(), user, id, patch)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	id, ok := h.productID(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.Service.DeleteProduct(user, id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"deleted": true, "id": id})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if _, ok := err.(ValidationError); ok {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.WriteAppError(w, err)
}
