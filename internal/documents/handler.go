package documents

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adarshsingh05/paperly-backend/internal/multipart"
	"github.com/adarshsingh05/paperly-backend/internal/shared/server/middleware"
	"github.com/adarshsingh05/paperly-backend/internal/shared/server/respond"
)

const defaultMaxUploadBytes = 20 << 20

type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterPublicRoutes mounts the counterparty-facing endpoints. They are
// reachable without a bearer token: the subject of a document is not a user.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/signed-documents/:subjectEmail", h.listSigned)
	rg.PATCH("/documents/:id/signed", h.replaceSigned)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.bulkUpload)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
	rg.POST("/documents/:id/send", h.send)
	rg.POST("/documents/:id/archive", h.archive)
}

func (h *Handler) parseForm(c *gin.Context) (*multipart.Form, bool) {
	boundary, err := multipart.Boundary(c.GetHeader("Content-Type"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "request must be multipart/form-data", nil)
		return nil, false
	}
	form, err := multipart.Parse(c.Request.Body, boundary, h.MaxUploadBytes)
	if err != nil {
		switch {
		case errors.Is(err, multipart.ErrTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "upload exceeds the size limit", nil)
		default:
			respond.Error(c, http.StatusBadRequest, "validation_error", "malformed multipart body", nil)
		}
		return nil, false
	}
	return form, true
}

func (h *Handler) bulkUpload(c *gin.Context) {
	form, ok := h.parseForm(c)
	if !ok {
		return
	}

	meta := UploadMeta{
		DocumentType: form.Fields["documentType"],
		SubjectName:  form.Fields["employeeName"],
		SubjectEmail: form.Fields["employeeEmail"],
		Title:        form.Fields["documentTitle"],
		Description:  form.Fields["documentDescription"],
	}
	if raw := form.Fields["tags"]; raw != "" {
		var tags []string
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "tags must be a JSON array of strings", nil)
			return
		}
		meta.Tags = tags
	}
	if raw := form.Fields["expiryDate"]; raw != "" {
		expires, err := parseDate(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "expiryDate must be an RFC 3339 timestamp or YYYY-MM-DD", nil)
			return
		}
		meta.ExpiresAt = &expires
	}

	files := make([]FileInput, 0, len(form.Files))
	for _, f := range form.Files {
		files = append(files, FileInput{Name: f.Filename, ContentType: f.ContentType, Data: f.Data})
	}

	ownerEmail := middleware.UserEmailFromContext(c)
	results, err := h.Svc.BulkUpload(c.Request.Context(), ownerEmail, meta, files)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload documents", nil)
		return
	}

	saved := 0
	for _, r := range results {
		if r.Saved {
			saved++
		}
	}

	body := gin.H{
		"savedCount":  saved,
		"failedCount": len(results) - saved,
		"results":     results,
	}
	switch {
	case saved == len(results):
		body["message"] = "all documents saved"
		respond.JSON(c, http.StatusCreated, body)
	case saved > 0:
		body["message"] = "some documents failed to save"
		respond.JSON(c, http.StatusMultiStatus, body)
	default:
		body["message"] = "no documents were saved"
		respond.JSON(c, http.StatusBadRequest, body)
	}
}

func (h *Handler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	q := ListQuery{
		OwnerEmail:   middleware.UserEmailFromContext(c),
		Status:       Status(c.Query("status")),
		DocumentType: c.Query("documentType"),
		SubjectName:  c.Query("employeeName"),
		SortBy:       c.DefaultQuery("sortBy", "createdAt"),
		SortDesc:     !strings.EqualFold(c.DefaultQuery("sortOrder", "desc"), "asc"),
		Page:         page,
		Limit:        limit,
	}

	docs, total, err := h.Svc.List(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}

	totalPages := (total + limit - 1) / limit
	if docs == nil {
		docs = []Document{}
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"documents":      docs,
		"currentPage":    page,
		"totalPages":     totalPages,
		"totalDocuments": total,
		"hasNextPage":    page < totalPages,
		"hasPrevPage":    page > 1,
	})
}

func (h *Handler) get(c *gin.Context) {
	doc, err := h.Svc.Get(c.Request.Context(), middleware.UserEmailFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load document", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"document": doc})
}

func (h *Handler) send(c *gin.Context) {
	doc, err := h.Svc.Send(c.Request.Context(), middleware.UserEmailFromContext(c), c.Param("id"))
	if err != nil {
		h.respondTransitionErr(c, err, "failed to send document")
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"document": doc})
}

func (h *Handler) archive(c *gin.Context) {
	doc, err := h.Svc.Archive(c.Request.Context(), middleware.UserEmailFromContext(c), c.Param("id"))
	if err != nil {
		h.respondTransitionErr(c, err, "failed to archive document")
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"document": doc})
}

func (h *Handler) listSigned(c *gin.Context) {
	docs, err := h.Svc.ListForSubject(c.Request.Context(), c.Param("subjectEmail"))
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}
	if docs == nil {
		docs = []Document{}
	}
	respond.JSON(c, http.StatusOK, gin.H{"documents": docs})
}

func (h *Handler) replaceSigned(c *gin.Context) {
	form, ok := h.parseForm(c)
	if !ok {
		return
	}
	if len(form.Files) != 1 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "exactly one signed file is required", nil)
		return
	}
	f := form.Files[0]

	doc, err := h.Svc.ReplaceWithSigned(c.Request.Context(), c.Param("id"), FileInput{
		Name:        f.Filename,
		ContentType: f.ContentType,
		Data:        f.Data,
	})
	if err != nil {
		h.respondTransitionErr(c, err, "failed to store signed document")
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"document": doc})
}

func (h *Handler) respondTransitionErr(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrInvalidTransition):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotPDF), errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", raw)
}
