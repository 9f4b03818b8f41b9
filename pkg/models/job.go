package models

import (
	"time"
)

// JobStatus represents the status of a print job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Paper/media types understood by the print pipeline. The paper type only
// affects duplexing: stickers are single-sided media, everything else is a
// folded card printed on both sides.
const (
	PaperTypeGreetingCard = "greeting-card"
	PaperTypeSticker      = "sticker"
)

// Positions of the four source panels in PrintJob.ImagePaths. The order is
// fixed by the cloud contract and is not configurable.
const (
	ImageFront = iota
	ImageInsideRight
	ImageInsideLeft
	ImageBack
	imageCount
)

// PrintJob is one print request received from the cloud queue. The job row
// is owned by the server; the agent only reports status transitions back.
type PrintJob struct {
	ID          string    `json:"id"`
	Status      JobStatus `json:"status"`
	PrinterName string    `json:"printerName,omitempty"`
	PaperSize   string    `json:"paperSize,omitempty"`
	PaperType   string    `json:"paperType,omitempty"`
	TrayNumber  int       `json:"trayNumber,omitempty"`
	PDFURL      string    `json:"pdfUrl,omitempty"`
	ImagePaths  []string  `json:"imagePaths,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// HasImageSet reports whether the job carries the complete 4-panel image set
// used by the compositing fallback path.
func (j *PrintJob) HasImageSet() bool {
	if len(j.ImagePaths) != imageCount {
		return false
	}
	for _, p := range j.ImagePaths {
		if p == "" {
			return false
		}
	}
	return true
}

// JobList is the response envelope of the job-list endpoint.
type JobList struct {
	Jobs []PrintJob `json:"jobs"`
}

// StatusUpdate is the body of a job status PUT.
type StatusUpdate struct {
	Status JobStatus `json:"status"`
	Error  string    `json:"error,omitempty"`
}
