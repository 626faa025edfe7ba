package invoices

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adarshsingh05/paperly-backend/internal/multipart"
	"github.com/adarshsingh05/paperly-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 << 20
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterPublicRoutes mounts the legacy unauthenticated upload endpoint.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/invoices", h.upload)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/invoices/:id/share", h.share)
}

func (h *Handler) upload(c *gin.Context) {
	boundary, err := multipart.Boundary(c.GetHeader("Content-Type"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "request must be multipart/form-data", nil)
		return
	}
	form, err := multipart.Parse(c.Request.Body, boundary, h.MaxUploadBytes)
	if err != nil {
		if errors.Is(err, multipart.ErrTooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "upload exceeds the size limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "malformed multipart body", nil)
		return
	}
	if len(form.Files) != 1 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "exactly one PDF file is required", nil)
		return
	}

	f := form.Files[0]
	link, err := h.Svc.UploadAndLink(c.Request.Context(), form.Fields["userName"], FileInput{
		Name:        f.Filename,
		ContentType: f.ContentType,
		Data:        f.Data,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNotPDF):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload invoice", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"invoice": link})
}

type shareRequest struct {
	ClientEmail string `json:"clientEmail"`
}

func (h *Handler) share(c *gin.Context) {
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	link, err := h.Svc.Share(c.Request.Context(), c.Param("id"), req.ClientEmail)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "invoice not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to share invoice", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"message": "invoice shared", "invoice": link})
}
