package queue

import (
	"encoding/json"
	"time"
)

// JobVersion is the current payload schema version.
const JobVersion = 1

// Job asks a worker to process one queued analysis.
type Job struct {
	AnalysisID     string `json:"analysisId"`
	OrganizationID string `json:"organizationId"`
	RequestID      string `json:"requestId,omitempty"`
	EnqueuedAt     string `json:"enqueuedAt"`
	Version        int    `json:"version"`
}

// NewJob stamps a job with the current version and enqueue time.
func NewJob(analysisID, organizationID, requestID string, now time.Time) Job {
	return Job{
		AnalysisID:     analysisID,
		OrganizationID: organizationID,
		RequestID:      requestID,
		EnqueuedAt:     now.UTC().Format(time.RFC3339),
		Version:        JobVersion,
	}
}

// EncodeJob returns the JSON representation of a job.
func EncodeJob(job Job) ([]byte, error) {
	return json.Marshal(job)
}

// DecodeJob parses a JSON payload into a Job.
func DecodeJob(payload []byte) (Job, error) {
	var job Job
	if err := json.Unmarshal(payload, &job); err != nil {
		return Job{}, err
	}
	return job, nil
}
