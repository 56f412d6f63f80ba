package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/scribesync/server/internal/models"
	"github.com/scribesync/server/internal/observability"
)

// SessionHandler handles collaboration session API endpoints
type SessionHandler struct {
	core    *CoreGuard
	metrics *observability.CollabMetrics
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(core *CoreGuard, metrics *observability.CollabMetrics) *SessionHandler {
	return &SessionHandler{core: core, metrics: metrics}
}

// CreateSession starts a fresh session with the caller as sole participant
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := models.NewCollaborationUser(req.User.ID, req.User.Name, req.User.Email)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, span := observability.StartCollabSpan(r.Context(), "create_session", "")
	defer span.End()

	var session *models.CollaborationSession
	h.core.Do(func() {
		session, err = h.core.Sessions.CreateSession(req.Name, user)
	})
	if err != nil {
		observability.RecordError(span, err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	observability.SetSuccess(span)
	if h.metrics != nil {
		h.metrics.RecordSessionCreated(ctx)
	}
	writeJSON(w, http.StatusCreated, session)
}

// JoinSession connects a user to the active session
func (h *SessionHandler) JoinSession(w http.ResponseWriter, r *http.Request) {
	var req models.JoinSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := models.NewCollaborationUser(req.User.ID, req.User.Name, req.User.Email)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var joined bool
	h.core.Do(func() {
		joined = h.core.Sessions.JoinSession(req.SessionID, user)
	})
	if !joined {
		writeError(w, http.StatusNotFound, "no matching active session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"joined": true})
}

// LeaveSession disconnects a user from the active session
func (h *SessionHandler) LeaveSession(w http.ResponseWriter, r *http.Request) {
	var req models.LeaveSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.core.Do(func() {
		h.core.Sessions.LeaveSession(req.User)
	})

	w.WriteHeader(http.StatusNoContent)
}

// GetActiveSession returns the current session, closed or active
func (h *SessionHandler) GetActiveSession(w http.ResponseWriter, r *http.Request) {
	var session *models.CollaborationSession
	h.core.Do(func() {
		session = h.core.Sessions.ActiveSession()
	})
	if session == nil {
		writeError(w, http.StatusNotFound, "no session")
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// GetConnectedUsers lists the participants connected to the active session
func (h *SessionHandler) GetConnectedUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.CollaborationUser
	h.core.Do(func() {
		users = h.core.Sessions.ConnectedUsers()
	})

	writeJSON(w, http.StatusOK, models.ConnectedUsersResponse{Users: users})
}

// ShareConversation shares a conversation into the active session
func (h *SessionHandler) ShareConversation(w http.ResponseWriter, r *http.Request) {
	var req models.ShareConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var shared bool
	h.core.Do(func() {
		shared = h.core.Sessions.ShareConversation(req.ConversationID, req.User)
	})
	if !shared {
		writeError(w, http.StatusConflict, "no active session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"shared": true})
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Error: message})
}
