package mock

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/datambit/datambit/schema"
)

func queryInt(r *http.Request, name string, fallback int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil && v > 0 {
		return v
	}
	return fallback
}

func (m *APIService) recentUploadsHandler(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 10)
	contentType := r.URL.Query().Get("content_type")

	m.mu.Lock()
	var entries []*schema.ReportEntry
	for i := len(m.uploadOrder) - 1; i >= 0; i-- {
		entry := m.uploads[m.uploadOrder[i]].entry
		if contentType != "" && entry.ContentType != contentType {
			continue
		}
		entries = append(entries, entry)
	}
	m.mu.Unlock()

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(entries) {
		start = len(entries)
	}
	if end > len(entries) {
		end = len(entries)
	}
	writeJSON(w, http.StatusOK, &schema.ReportPage{
		Data:    entries[start:end],
		HasNext: end < len(entries),
		HasPrev: start > 0,
		Page:    page,
		PerPage: perPage,
		Total:   len(entries),
	})
}

func (m *APIService) reportHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, schema.EndpointReport)
	m.mu.Lock()
	found, ok := m.uploads[id]
	m.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	writeJSON(w, http.StatusOK, &schema.ReportDetail{FileUploads: found.files})
}
