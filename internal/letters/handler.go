package letters

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adarshsingh05/paperly-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes mounts the letter generator. The group is expected to carry
// the subscription gate.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/letters/:kind", h.generate)
}

func (h *Handler) generate(c *gin.Context) {
	kind, err := ParseKind(c.Param("kind"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	text, err := h.Svc.Generate(c.Request.Context(), kind, in)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "upstream_error", "failed to generate letter", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"kind": kind, "letter": text})
}
