package mock

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/datambit/datambit/schema"
)

const maxMemory = 32 << 20

func mediaFromPath(path string) string {
	return strings.TrimSuffix(strings.TrimPrefix(path, "/api/v1/"), "/upload")
}

func (m *APIService) uploadHandler(w http.ResponseWriter, r *http.Request) {
	media := mediaFromPath(r.URL.Path)
	switch media {
	case schema.MediaAudio, schema.MediaImage, schema.MediaVideo:
	default:
		writeError(w, http.StatusBadRequest, "unsupported media type: "+media)
		return
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "No files uploaded")
		return
	}
	if len(headers) > schema.MaxUploadFiles {
		writeError(w, http.StatusBadRequest, "Too many files")
		return
	}
	now := time.Now().UTC().Format(time.RFC3339)
	id := uuid.NewString()
	realCount, fakeCount := 0, 0
	var files []*schema.FileUpload
	for i, header := range headers {
		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		result := &schema.Result{}
		label := "real"
		if i%2 == 1 {
			label = "fake"
			fakeCount++
		} else {
			realCount++
		}
		if media == schema.MediaAudio {
			result.AudioAnalysis = &schema.AudioAnalysis{Label: label, Score: 0.9}
		} else {
			result.HeatmapURL = []string{m.Issuer + "/heatmaps/" + id + "/" + header.Filename + ".png"}
		}
		files = append(files, &schema.FileUpload{
			FileMetadata: schema.FileMetadata{ContentType: contentType, Filename: header.Filename, Size: header.Size},
			FileStatus:   "completed",
			Result:       result,
		})
	}
	entry := &schema.ReportEntry{
		CreatedAt:   now,
		UpdatedAt:   now,
		UploadID:    id,
		ContentType: media,
		TotalReal:   &realCount,
		TotalFake:   &fakeCount,
		FileStatus: &schema.FileStatus{
			TotalFiles:    len(files),
			UploadStatus:  "completed",
			FinishedCount: len(files),
		},
	}
	m.mu.Lock()
	m.uploads[id] = &upload{entry: entry, files: files}
	m.uploadOrder = append(m.uploadOrder, id)
	m.mu.Unlock()
	writeJSON(w, http.StatusOK, id)
}
