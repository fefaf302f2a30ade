package schema

import "encoding/json"

// Media kinds accepted by the upload endpoint.
const (
	MediaAudio = "audio"
	MediaImage = "image"
	MediaVideo = "video"
)

// MaxUploadFiles limits the number of files in a single upload.
const MaxUploadFiles = 50

type (
	// FileStatus summarises processing of an upload batch
	FileStatus struct {
		TotalFiles    int    `json:"total_files"`
		UploadStatus  string `json:"upload_status"`
		ErrorCount    int    `json:"error_count"`
		FinishedCount int    `json:"finished_count"`
		PendingCount  int    `json:"pending_count"`
	}

	// ReportEntry is one upload batch in the report list
	ReportEntry struct {
		CreatedAt   string      `json:"created_at"`
		FileStatus  *FileStatus `json:"file_status,omitempty"`
		UploadID    string      `json:"upload_id"`
		ContentType string      `json:"content_type"`
		UpdatedAt   string      `json:"updated_at"`
		TotalReal   *int        `json:"total_real,omitempty"`
		TotalFake   *int        `json:"total_fake,omitempty"`
	}

	// ReportPage is a page of report entries
	ReportPage struct {
		Data    []*ReportEntry `json:"data"`
		HasNext bool           `json:"has_next"`
		HasPrev bool           `json:"has_prev"`
		Page    int            `json:"page"`
		PerPage int            `json:"per_page"`
		Total   int            `json:"total"`
	}

	FileMetadata struct {
		ContentType string `json:"content_type"`
		Filename    string `json:"filename"`
		Size        int64  `json:"size"`
	}

	AudioAnalysis struct {
		Label string  `json:"label_audio"`
		Score float64 `json:"score_audio"`
	}

	// Result holds the analysis of a single file; only the field matching the media kind is set.
	Result struct {
		AudioAnalysis *AudioAnalysis  `json:"audio_analysis"`
		ImageResult   json.RawMessage `json:"image_result,omitempty"`
		VideoAnalysis json.RawMessage `json:"video_analysis,omitempty"`
		HeatmapURL    []string        `json:"heatmap_url,omitempty"`
	}

	FileUpload struct {
		FileMetadata FileMetadata `json:"file_metadata"`
		FileStatus   string       `json:"file_status"`
		Result       *Result      `json:"result"`
	}

	// ReportDetail lists the files of one upload batch
	ReportDetail struct {
		FileUploads []*FileUpload `json:"file_uploads"`
	}
)

// Processing reports whether the file is still being analysed.
func (f *FileUpload) Processing() bool {
	return f.FileStatus == "processing"
}

// Empty reports whether the analysis produced no result at all.
func (r *Result) Empty() bool {
	if r == nil {
		return true
	}
	return r.AudioAnalysis == nil && isNull(r.ImageResult) && isNull(r.VideoAnalysis) && len(r.HeatmapURL) == 0
}

func isNull(data json.RawMessage) bool {
	return len(data) == 0 || string(data) == "null"
}
