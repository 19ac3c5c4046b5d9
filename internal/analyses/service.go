package analyses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"sim-backend/internal/initiatives"
	"sim-backend/internal/organizations"
	"sim-backend/internal/queue"
	"sim-backend/internal/shared/metrics"
	"sim-backend/internal/shared/storage/object"
	"sim-backend/internal/shared/telemetry"
	"sim-backend/internal/sim"
	"sim-backend/internal/usage"
)

// OrganizationLookup resolves the organization an analysis runs for.
type OrganizationLookup interface {
	Get(ctx context.Context, id string) (organizations.Organization, error)
}

// InitiativeSource lists the initiatives fed into an analysis or summary.
type InitiativeSource interface {
	ListByOrganization(ctx context.Context, orgID string) ([]initiatives.Initiative, error)
	ListAll(ctx context.Context) ([]initiatives.Initiative, error)
}

// Service contains business logic for analyses.
type Service struct {
	Repo        Repo
	Orgs        OrganizationLookup
	Initiatives InitiativeSource
	Usage       *usage.Service
	Store       object.ObjectStore
	Queue       queue.Client
	Engine      *sim.Engine
	Now         func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *Service) engine() *sim.Engine {
	if s.Engine == nil {
		return sim.DefaultEngine()
	}
	return s.Engine
}

// Start records a queued analysis for the organization and schedules it. With a
// queue configured the job is sent to the worker, otherwise it runs in-process.
func (s *Service) Start(ctx context.Context, orgID, userID string) (Analysis, error) {
	if orgID == "" || userID == "" {
		return Analysis{}, fmt.Errorf("%w: organization and user are required", ErrInvalidInput)
	}
	if _, err := s.Orgs.Get(ctx, orgID); err != nil {
		if errors.Is(err, organizations.ErrNotFound) {
			return Analysis{}, ErrOrganizationNotFound
		}
		return Analysis{}, err
	}

	if s.Usage != nil {
		if _, err := s.Usage.Consume(ctx, userID, 1); err != nil {
			return Analysis{}, err
		}
	}

	analysis := Analysis{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		UserID:         userID,
		Status:         StatusQueued,
		CreatedAt:      s.now(),
	}
	if err := s.Repo.Create(ctx, analysis); err != nil {
		s.refund(ctx, userID)
		return Analysis{}, err
	}

	if s.Queue != nil {
		job := queue.NewJob(analysis.ID, orgID, traceFrom(ctx).RequestID, analysis.CreatedAt)
		if err := s.Queue.Send(ctx, job); err != nil {
			s.failAnalysis(ctx, analysis, ErrorCodeQueue, fmt.Errorf("enqueue: %w", err), nil)
			s.refund(ctx, userID)
			analysis.Status = StatusFailed
			return analysis, fmt.Errorf("enqueue analysis: %w", err)
		}
		telemetry.Info("analysis.enqueued", traceFrom(ctx).logFields(map[string]any{
			"analysis_id":     analysis.ID,
			"organization_id": orgID,
		}))
		return analysis, nil
	}

	go s.processAsync(detachInline(ctx), analysis.ID)
	return analysis, nil
}

func (s *Service) refund(ctx context.Context, userID string) {
	if s.Usage == nil {
		return
	}
	if _, err := s.Usage.Refund(context.WithoutCancel(ctx), userID, 1); err != nil {
		telemetry.Warn("usage.refund_failed", map[string]any{"user_id": userID, "error": err.Error()})
	}
}

func (s *Service) processAsync(ctx context.Context, analysisID string) {
	defer func() {
		if r := recover(); r != nil {
			s.failAnalysis(ctx, Analysis{ID: analysisID}, ErrorCodeInternal, fmt.Errorf("panic: %v", r), nil)
		}
	}()
	if err := s.ProcessAnalysis(ctx, analysisID); err != nil {
		telemetry.Error("analysis.process_failed", traceFrom(ctx).logFields(map[string]any{
			"analysis_id": analysisID,
			"error":       err.Error(),
		}))
	}
}

// ProcessAnalysis runs a queued analysis to completion. Analyses that already
// reached a terminal status are left untouched so redelivered jobs are no-ops.
// A returned error means the job may be retried; failures recorded on the
// analysis itself return nil.
func (s *Service) ProcessAnalysis(ctx context.Context, analysisID string) error {
	analysis, err := s.Repo.GetByID(ctx, analysisID)
	if errors.Is(err, ErrNotFound) {
		// Deleting an organization cascades to its analyses; the job can never run.
		telemetry.Warn("analysis.skip_missing", traceFrom(ctx).logFields(map[string]any{
			"analysis_id": analysisID,
		}))
		return nil
	}
	if err != nil {
		return fmt.Errorf("analysis lookup: %w", err)
	}
	if analysis.Terminal() {
		telemetry.Info("analysis.skip_terminal", map[string]any{
			"analysis_id": analysis.ID,
			"status":      analysis.Status,
		})
		return nil
	}

	from := analysis.Status
	startedAt := s.now()
	if err := s.Repo.UpdateStatus(ctx, analysisID, StatusUpdate{Status: StatusProcessing, StartedAt: &startedAt}); err != nil {
		return fmt.Errorf("set processing: %w", err)
	}
	metrics.IncAnalysisStarted()
	s.logStatus(ctx, analysis, StatusProcessing, from+"->"+StatusProcessing, nil)

	org, err := s.Orgs.Get(ctx, analysis.OrganizationID)
	if err != nil {
		code := ErrorCodeInternal
		if errors.Is(err, organizations.ErrNotFound) {
			code = ErrorCodeOrganization
		}
		s.failAnalysis(ctx, analysis, code, fmt.Errorf("organization lookup: %w", err), &startedAt)
		return nil
	}
	existing, err := s.Initiatives.ListByOrganization(ctx, analysis.OrganizationID)
	if err != nil {
		s.failAnalysis(ctx, analysis, ErrorCodeStorage, fmt.Errorf("initiative lookup: %w", err), &startedAt)
		return nil
	}

	result, err := s.engine().GenerateAnalysis(org.Profile(), initiatives.Records(existing))
	if err != nil {
		code := ErrorCodeInternal
		if errors.Is(err, sim.ErrInvalidInput) {
			code = ErrorCodeValidation
		}
		s.failAnalysis(ctx, analysis, code, err, &startedAt)
		return nil
	}

	update := StatusUpdate{Status: StatusCompleted, Result: result}
	if s.Store != nil {
		key, err := s.writeSnapshot(ctx, analysis, result)
		if err != nil {
			s.failAnalysis(ctx, analysis, ErrorCodeStorage, err, &startedAt)
			return nil
		}
		update.SnapshotKey = &key
	}

	completedAt := s.now()
	update.CompletedAt = &completedAt
	if err := s.Repo.UpdateStatus(ctx, analysisID, update); err != nil {
		s.failAnalysis(ctx, analysis, ErrorCodeStorage, fmt.Errorf("set analysis result: %w", err), &startedAt)
		return nil
	}

	generated := 0
	for _, scored := range result.ScoredInitiatives {
		if scored.AutoGenerated {
			generated++
		}
		metrics.IncClassified(string(scored.Quadrant))
	}
	metrics.IncAnalysisCompleted()
	metrics.AddGeneratedInitiatives(generated)
	metrics.ObserveAnalysisDurationMs(durationMs(&startedAt, &completedAt))
	s.logStatus(ctx, analysis, StatusCompleted, "processing->completed", map[string]any{
		"duration_ms":           durationMs(&startedAt, &completedAt),
		"initiatives":           len(result.ScoredInitiatives),
		"generated_initiatives": generated,
	})
	return nil
}

func (s *Service) writeSnapshot(ctx context.Context, analysis Analysis, result *sim.AnalysisResult) (string, error) {
	key, err := object.SnapshotKey(analysis.OrganizationID, analysis.ID)
	if err != nil {
		return "", fmt.Errorf("snapshot key: %w", err)
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := s.Store.Put(ctx, key, "application/json", bytes.NewReader(payload)); err != nil {
		return "", fmt.Errorf("storage put: %w", err)
	}
	return key, nil
}

func (s *Service) failAnalysis(ctx context.Context, analysis Analysis, code string, err error, startedAt *time.Time) {
	msg := sanitizeError(err)
	completedAt := s.now()
	update := StatusUpdate{Status: StatusFailed, ErrorCode: &code, ErrorMessage: &msg, CompletedAt: &completedAt}
	if updateErr := s.Repo.UpdateStatus(context.WithoutCancel(ctx), analysis.ID, update); updateErr != nil {
		telemetry.Error("analysis.fail_update", map[string]any{
			"analysis_id": analysis.ID,
			"error":       updateErr.Error(),
			"cause":       msg,
		})
	}
	metrics.IncAnalysisFailed(code)
	if startedAt != nil {
		metrics.ObserveAnalysisDurationMs(durationMs(startedAt, &completedAt))
	}
	from := StatusProcessing
	if startedAt == nil {
		from = StatusQueued
	}
	s.logStatus(ctx, analysis, StatusFailed, from+"->"+StatusFailed, map[string]any{
		"error_code":  code,
		"error":       msg,
		"duration_ms": durationMs(startedAt, &completedAt),
	})
}

func (s *Service) logStatus(ctx context.Context, analysis Analysis, status, transition string, extra map[string]any) {
	fields := traceFrom(ctx).logFields(map[string]any{
		"user_id":           analysis.UserID,
		"organization_id":   analysis.OrganizationID,
		"analysis_id":       analysis.ID,
		"status":            status,
		"status_transition": transition,
	})
	for k, v := range extra {
		fields[k] = v
	}
	telemetry.Info("analysis.status", fields)
}

// Get returns an analysis by ID.
func (s *Service) Get(ctx context.Context, analysisID string) (Analysis, error) {
	if analysisID == "" {
		return Analysis{}, fmt.Errorf("%w: analysis id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, analysisID)
}

// Snapshot opens the archived JSON result of a completed analysis.
func (s *Service) Snapshot(ctx context.Context, analysisID string) (Analysis, io.ReadCloser, error) {
	analysis, err := s.Get(ctx, analysisID)
	if err != nil {
		return Analysis{}, nil, err
	}
	if analysis.Status != StatusCompleted || analysis.SnapshotKey == "" || s.Store == nil {
		return analysis, nil, fmt.Errorf("%w: analysis is %s", ErrSnapshotNotReady, analysis.Status)
	}
	rc, err := s.Store.Open(ctx, analysis.SnapshotKey)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return analysis, nil, fmt.Errorf("%w: snapshot %s", ErrNotFound, analysis.SnapshotKey)
		}
		return analysis, nil, fmt.Errorf("open snapshot: %w", err)
	}
	return analysis, rc, nil
}

// ListByOrganization returns an organization's analyses ordered newest-first.
func (s *Service) ListByOrganization(ctx context.Context, orgID string, limit, offset int) ([]Analysis, error) {
	if _, err := s.Orgs.Get(ctx, orgID); err != nil {
		if errors.Is(err, organizations.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return s.Repo.ListByOrganization(ctx, orgID, limit, offset)
}

// Summary aggregates the portfolio dashboard for one organization, or for
// every organization when orgID is empty.
func (s *Service) Summary(ctx context.Context, orgID string) (*sim.PortfolioSummary, error) {
	var (
		list []initiatives.Initiative
		err  error
	)
	if orgID == "" {
		list, err = s.Initiatives.ListAll(ctx)
	} else {
		if _, err := s.Orgs.Get(ctx, orgID); err != nil {
			if errors.Is(err, organizations.ErrNotFound) {
				return nil, ErrOrganizationNotFound
			}
			return nil, err
		}
		list, err = s.Initiatives.ListByOrganization(ctx, orgID)
	}
	if err != nil {
		return nil, err
	}
	return s.engine().SummarizePortfolio(initiatives.Records(list)), nil
}

func durationMs(startedAt, completedAt *time.Time) float64 {
	if startedAt == nil || completedAt == nil {
		return 0
	}
	return float64(completedAt.Sub(*startedAt).Microseconds()) / 1000.0
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut]
	}
	return msg
}
