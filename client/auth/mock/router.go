package mock

import (
	"net/http"
	"strings"

	"github.com/datambit/datambit/schema"
)

// Handler routes HTTP requests to the appropriate fake API endpoints.
type Handler struct {
	// Server is the fake API with endpoint handlers.
	Server *APIService
}

// ServeHTTP dispatches incoming HTTP requests based on URL path.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m := h.Server
	path := r.URL.Path
	m.countCall(path)
	if override, ok := m.Handlers[path]; ok && override != nil {
		override(w, r)
		return
	}
	switch path {
	case schema.EndpointLogin:
		m.post(w, r, m.loginHandler)
	case schema.EndpointRegister:
		m.post(w, r, m.registerHandler)
	case schema.EndpointRefresh:
		m.post(w, r, m.refreshHandler)
	case schema.EndpointValidateToken:
		m.post(w, r, m.authenticated(m.validateTokenHandler))
	case schema.EndpointRequestPasswordReset:
		m.post(w, r, m.requestResetHandler)
	case schema.EndpointUpdatePasswordReset:
		m.post(w, r, m.updateResetHandler)
	case schema.EndpointAccessRequest:
		m.post(w, r, m.accessRequestHandler)
	case schema.EndpointSupport:
		m.post(w, r, m.authenticated(m.supportHandler))
	case schema.EndpointSupportTickets:
		m.authenticated(m.ticketsHandler)(w, r)
	case schema.EndpointRecentUploads:
		m.authenticated(m.recentUploadsHandler)(w, r)
	default:
		switch {
		case strings.HasPrefix(path, schema.EndpointReport):
			m.authenticated(m.reportHandler)(w, r)
		case strings.HasPrefix(path, "/api/v1/") && strings.HasSuffix(path, "/upload"):
			m.post(w, r, m.authenticated(m.uploadHandler))
		default:
			writeError(w, http.StatusNotFound, "not found")
		}
	}
}

func (m *APIService) post(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	next(w, r)
}
