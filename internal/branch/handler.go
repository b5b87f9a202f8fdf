package branch

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/chayanin/inventory-api/internal/transport"
	"github.com/chayanin/inventory-api/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListBranches() ([]*Branch, error)
	GetBranch(id int64) (*Branch, error)
	CreateBranch(dto CreateBranchDTO) (*Branch, error)
	UpdateBranch(id int64, dto UpdateBranchDTO) (*Branch, error)
	SetLocation(id int64, dto SetLocationDTO) (*Branch, error)
	DeleteBranch(id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) branchID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (h *Handler) ListBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.Service.ListBranches()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, branches)
}

func (h *Handler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	var dto CreateBranchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.Service.CreateBranch(dto)
	if err != nil {
		if _, ok := err.(ValidationError); ok {
			h.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, b)
}

func (h *Handler) UpdateBranch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.branchID(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid branch id")
		return
	}

	var dto UpdateBranchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.Service.UpdateBranch(id, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) SetLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.branchID(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid branch id")
		return
	}

	var dto SetLocationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.Service.SetLocation(id, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, b.ToLocation())
}

func (h *Handler) GetLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.branchID(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid branch id")
		return
	}

	b, err := h.Service.GetBranch(id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, b.ToLocation())
}

func (h *Handler) DeleteBranch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.branchID(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid branch id")
		return
	}

	if err := h.Service.DeleteBranch(id); err != nil {
		h.WriteAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
