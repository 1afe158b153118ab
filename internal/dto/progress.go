package dto

import "github.com/octobees/outreach-drafter/internal/entity"

// ProgressEvent is one frame of the interactive search event stream.
type ProgressEvent struct {
	Success     bool                    `json:"success"`
	InProgress  bool                    `json:"in_progress"`
	Progress    float64                 `json:"progress"`
	TotalPeople int                     `json:"total_people"`
	Results     []entity.EnrichedRecord `json:"results"`
}

// StreamError is the frame emitted when a search cannot start.
type StreamError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ExportRequest carries already-drafted results back for CSV export.
type ExportRequest struct {
	Results []entity.EnrichedRecord `json:"results"`
}

// ProcessCSVResponse summarises a CSV conversion run.
type ProcessCSVResponse struct {
	TotalRows  int    `json:"total_rows"`
	Processed  int    `json:"processed"`
	Status     string `json:"status"`
	CSVContent string `json:"csv_content"`
	Filename   string `json:"filename"`
}
