package imagehost

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/chayanin/inventory-api/internal"
	"github.com/chayanin/inventory-api/internal/transport"
	"github.com/chayanin/inventory-api/pkg/logger"
)

// maxUploadSize caps the multipart form held in memory.
const maxUploadSize = 10 << 20 // 10 MiB

type Handler struct {
	*transport.BaseHandler
	uploader Uploader
}

func NewHandler(uploader Uploader) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		uploader:    uploader,
	}
}

// UploadImage handles POST /upload. Upstream failures surface to the caller;
// a product cannot reference an image that was never stored.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		h.WriteError(w, http.StatusBadRequest, "file must be an image")
		return
	}

	url, err := h.uploader.Upload(r.Context(), file, header.Filename)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.Logger.Info("image uploaded",
		"user_id", internal.UserIDFromContext(r.Context()),
		"filename", header.Filename)
	h.WriteJSON(w, http.StatusOK, map[string]string{"image_url": url})
}
