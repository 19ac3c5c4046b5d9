// Package workerproc turns queue payloads into analysis runs.
package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"sim-backend/internal/analyses"
	"sim-backend/internal/queue"
)

// Processor runs a queued analysis to completion.
type Processor interface {
	ProcessAnalysis(ctx context.Context, analysisID string) error
}

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode job"
	}
	return "decode job: " + e.Err.Error()
}

func (e ErrDecode) Unwrap() error { return e.Err }

// ErrMissingAnalysisID indicates a job without an analysis id.
type ErrMissingAnalysisID struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingAnalysisID) Error() string { return "missing analysis id" }

// ErrUnsupportedVersion indicates a job written by a newer producer.
type ErrUnsupportedVersion struct {
	Meta    MessageMeta
	Version int
}

func (e ErrUnsupportedVersion) Error() string { return "unsupported job version" }

// ErrProcess indicates processing failed after successful parsing.
type ErrProcess struct {
	AnalysisID string
	RequestID  string
	Err        error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process analysis"
	}
	return "process analysis: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// Unrecoverable reports whether err means the payload can never succeed and
// should be removed from the queue. A job for an analysis that no longer
// exists is unrecoverable.
func Unrecoverable(err error) bool {
	var (
		empty   ErrEmptyBody
		decode  ErrDecode
		missing ErrMissingAnalysisID
		version ErrUnsupportedVersion
	)
	return errors.As(err, &empty) || errors.As(err, &decode) || errors.As(err, &missing) || errors.As(err, &version) ||
		errors.Is(err, analyses.ErrNotFound)
}

// ParseJob validates and decodes the queue payload.
func ParseJob(body string) (queue.Job, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Job{}, meta, ErrEmptyBody{Meta: meta}
	}

	job, err := queue.DecodeJob([]byte(body))
	if err != nil {
		return queue.Job{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(job.AnalysisID) == "" {
		return job, meta, ErrMissingAnalysisID{Meta: meta, RequestID: job.RequestID}
	}
	if job.Version > queue.JobVersion {
		return job, meta, ErrUnsupportedVersion{Meta: meta, Version: job.Version}
	}
	return job, meta, nil
}

// HandleJob processes an already parsed job.
func HandleJob(ctx context.Context, processor Processor, job queue.Job) error {
	if processor == nil {
		return errors.New("analysis processor not configured")
	}
	if strings.TrimSpace(job.AnalysisID) == "" {
		return ErrMissingAnalysisID{RequestID: job.RequestID}
	}

	ctxWithRequest := analyses.WithTrace(ctx, analyses.Trace{RequestID: job.RequestID, Source: analyses.SourceQueue})
	if err := processor.ProcessAnalysis(ctxWithRequest, job.AnalysisID); err != nil {
		return ErrProcess{AnalysisID: job.AnalysisID, RequestID: job.RequestID, Err: err}
	}
	return nil
}

// HandleMessage parses and processes a raw payload.
func HandleMessage(ctx context.Context, processor Processor, body string) error {
	job, _, err := ParseJob(body)
	if err != nil {
		return err
	}
	return HandleJob(ctx, processor, job)
}
