package domain

// ExportState is the lifecycle state of a server-side export job.
type ExportState string

const (
	ExportRequested ExportState = "requested"
	ExportPending   ExportState = "pending"
	ExportReady     ExportState = "ready"
)

// ExportJob is a bulk export of transcripts packaged into one downloadable archive.
// Nothing about it is persisted locally: the caller supplies ID on the next run.
type ExportJob struct {
	ID           string      `json:"id"`
	State        ExportState `json:"state"`
	DownloadLink string      `json:"download_link,omitempty"`
}
