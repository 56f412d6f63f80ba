package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scribesync/server/internal/models"
	"github.com/scribesync/server/internal/observability"
)

// DocumentHandler handles shared document API endpoints
type DocumentHandler struct {
	core    *CoreGuard
	metrics *observability.CollabMetrics
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(core *CoreGuard, metrics *observability.CollabMetrics) *DocumentHandler {
	return &DocumentHandler{core: core, metrics: metrics}
}

// CreateDocument creates a shared document inside the active session
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := models.NewCollaborationUser(req.User.ID, req.User.Name, req.User.Email)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, span := observability.StartCollabSpan(r.Context(), "create_document", "")
	defer span.End()

	var doc *models.SharedDocument
	h.core.Do(func() {
		doc, err = h.core.Store.CreateSharedDocument(req.Title, req.Content, user)
	})
	if err != nil {
		observability.RecordError(span, err)
		switch {
		case errors.Is(err, models.ErrNoActiveSession):
			writeError(w, http.StatusConflict, "no active session")
		case errors.Is(err, models.ErrEmptyTitle), errors.Is(err, models.ErrEmptyUserID):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create document")
		}
		return
	}

	observability.SetSuccess(span)
	writeJSON(w, http.StatusCreated, doc)
}

// ListDocuments returns all document metadata
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	var docs []models.SharedDocument
	h.core.Do(func() {
		docs = h.core.Store.Documents()
	})

	writeJSON(w, http.StatusOK, docs)
}

// GetDocument returns document metadata with its current content
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "id")

	var (
		doc     models.SharedDocument
		content string
		ok      bool
	)
	h.core.Do(func() {
		if doc, ok = h.core.Store.Document(documentID); ok {
			content, _ = h.core.Store.Content(documentID)
		}
	})
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	writeJSON(w, http.StatusOK, models.DocumentResponse{Document: doc, Content: content})
}

// ShareDocument grants a user a role on a document
func (h *DocumentHandler) ShareDocument(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "id")

	var req models.ShareDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !models.IsValidRole(req.Role) {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}

	var shared bool
	h.core.Do(func() {
		shared = h.core.Store.ShareDocument(documentID, req.UserID, models.Role(req.Role))
	})
	if !shared {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"shared": true})
}

// ApplyEdit applies an edit operation through the access gate
func (h *DocumentHandler) ApplyEdit(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "id")

	var req models.ApplyEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !models.IsValidOperationType(req.Type) {
		writeError(w, http.StatusBadRequest, "invalid operation type")
		return
	}

	ctx, span := observability.StartCollabSpan(r.Context(), "apply_edit", documentID)
	defer span.End()

	op := models.NewEditOperation(models.OperationType(req.Type), req.Position, req.Content, req.UserID)

	var (
		applied bool
		version int
	)
	h.core.Do(func() {
		if applied = h.core.Store.ApplyEdit(documentID, req.UserID, op); applied {
			doc, _ := h.core.Store.Document(documentID)
			version = doc.Version
		}
	})

	if h.metrics != nil {
		h.metrics.RecordEdit(ctx, applied)
	}
	if !applied {
		observability.RecordError(span, models.ErrAccessDenied)
		writeError(w, http.StatusForbidden, "edit rejected")
		return
	}

	observability.SetSuccess(span)
	writeJSON(w, http.StatusOK, models.EditResponse{Applied: true, Version: version})
}

// GetHistory returns the applied operations for a document
func (h *DocumentHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "id")

	var (
		history []models.HistoryEntry
		ok      bool
	)
	h.core.Do(func() {
		history, ok = h.core.Store.History(documentID)
	})
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	writeJSON(w, http.StatusOK, history)
}

// AddAnnotation anchors an annotation to a document
func (h *DocumentHandler) AddAnnotation(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "id")

	var req models.AddAnnotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !models.IsValidAnnotationType(req.Type) {
		writeError(w, http.StatusBadRequest, "invalid annotation type")
		return
	}

	annotation := models.NewDocumentAnnotation(req.UserID, models.AnnotationType(req.Type), req.Position, req.Content)

	var added bool
	h.core.Do(func() {
		added = h.core.Store.AddAnnotation(documentID, req.UserID, annotation)
	})
	if !added {
		writeError(w, http.StatusForbidden, "annotation rejected")
		return
	}

	if h.metrics != nil {
		h.metrics.RecordAnnotation(r.Context())
	}
	writeJSON(w, http.StatusCreated, annotation)
}

// GetAnnotations returns a document's annotations in insertion order
func (h *DocumentHandler) GetAnnotations(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "id")

	var (
		annotations []models.DocumentAnnotation
		ok          bool
	)
	h.core.Do(func() {
		annotations, ok = h.core.Store.Annotations(documentID)
	})
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	writeJSON(w, http.StatusOK, annotations)
}

// AddReply appends a reply to an annotation
func (h *DocumentHandler) AddReply(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "id")
	annotationID := chi.URLParam(r, "annotationId")

	var req models.AddReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var added bool
	h.core.Do(func() {
		added = h.core.Store.AddReply(documentID, annotationID, req.UserID, req.Content)
	})
	if !added {
		writeError(w, http.StatusForbidden, "reply rejected")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]bool{"added": true})
}
