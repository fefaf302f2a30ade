package mock

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/datambit/datambit/schema"
)

func (m *APIService) supportHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	reason := strings.TrimSpace(r.FormValue("reason"))
	if reason == "" {
		writeError(w, http.StatusBadRequest, "reason is required")
		return
	}
	var files []string
	for _, header := range r.MultipartForm.File["files"] {
		files = append(files, header.Filename)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	ticket := &schema.SupportTicket{
		TicketID:  uuid.NewString(),
		Reason:    reason,
		Status:    "open",
		Files:     files,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.mu.Lock()
	m.tickets = append(m.tickets, ticket)
	m.mu.Unlock()
	writeJSON(w, http.StatusOK, ticket.TicketID)
}

func (m *APIService) ticketsHandler(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	tickets := append([]*schema.SupportTicket{}, m.tickets...)
	m.mu.Unlock()
	writeJSON(w, http.StatusOK, tickets)
}
