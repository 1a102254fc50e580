// Package jobs defines the asynchronous work that the upload pipeline
// performs after the HTTP handler has accepted a screenshot.
package jobs

import (
	"context"
	"time"
)

// JobType identifies the kind of work a job carries.
type JobType string

const (
	// JobTypeParseUpload runs OCR and extraction over an uploaded screenshot.
	JobTypeParseUpload JobType = "parse_upload"
)

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// ParseUploadJob asks a worker to OCR an uploaded screenshot, extract the
// transactions from it, and persist them for the owning user.
type ParseUploadJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// UploadID is the database id of the upload row being processed.
	UploadID uint `json:"upload_id"`

	// ImagePath is where the screenshot sits on local disk.
	ImagePath string `json:"image_path"`

	// UserID owns the upload and the resulting payments.
	UserID uint `json:"user_id"`

	// Status is the current lifecycle state.
	Status JobStatus `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error holds the last failure message, cleared on success.
	Error string `json:"error,omitempty"`

	RetryCount int `json:"retry_count"`
	MaxRetries int `json:"max_retries"`
}

// Job is the generic view the queue worker loop operates on.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

// GetID implements the Job interface.
func (j *ParseUploadJob) GetID() string {
	return j.JobID
}

// GetType implements the Job interface.
func (j *ParseUploadJob) GetType() JobType {
	return JobTypeParseUpload
}

// GetStatus implements the Job interface.
func (j *ParseUploadJob) GetStatus() JobStatus {
	return j.Status
}

// Publisher enqueues jobs. Kept as an interface so the in-memory queue can
// later be swapped for a broker without touching handlers.
type Publisher interface {
	// PublishParseUpload enqueues a screenshot parsing job.
	PublishParseUpload(ctx context.Context, job *ParseUploadJob) error

	// Close releases queue resources.
	Close() error
}

// Consumer drains jobs and hands them to a handler.
type Consumer interface {
	// Start begins consuming jobs. The handler runs once per dequeued job.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming and waits for in-flight jobs to finish.
	Stop(ctx context.Context) error
}

// JobHandler processes one job. A returned error marks the job failed and
// eligible for retry.
type JobHandler func(ctx context.Context, job Job) error

// JobStore tracks job state so the API can answer status queries.
type JobStore interface {
	SaveJob(ctx context.Context, job *ParseUploadJob) error
	GetJob(ctx context.Context, jobID string) (*ParseUploadJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*ParseUploadJob, error)
	UpdateJobStatus(ctx context.Context, jobID string, status JobStatus, errorMsg string) error
}

// JobFilter narrows ListJobs results.
type JobFilter struct {
	// UploadID filters jobs by upload row.
	UploadID uint

	// Status filters jobs by lifecycle state.
	Status JobStatus

	Limit  int
	Offset int
}
