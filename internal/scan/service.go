package scan

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pbes/hscode-service/internal/classifier"
)

// Terminal failure messages. Timeouts are reported distinctly from other
// classifier failures.
const (
	MsgScanTimeout = "HS code scan timed out. Try a shorter description or smaller image."
	MsgScanFailed  = "HS code scan failed."
)

// AuditRecord is a snapshot of a finished scan for the audit trail.
type AuditRecord struct {
	JobID       string
	RequestID   string
	HSCode      string
	Description string
	Status      string
	Error       string
	CreatedAt   time.Time
	CompletedAt time.Time
}

// AuditLog receives terminal scan outcomes. Implementations must tolerate
// being called concurrently.
type AuditLog interface {
	RecordScan(ctx context.Context, record AuditRecord) error
}

// Config wires a scan service.
type Config struct {
	Store    *Store
	Client   classifier.Client
	Enricher *Enricher
	Audit    AuditLog // optional
	Logger   *slog.Logger
	Timeout  time.Duration
}

// Service runs scans: it admits a job immediately and drives the external
// classifier plus enrichment on a detached goroutine with its own deadline.
type Service struct {
	store    *Store
	client   classifier.Client
	enricher *Enricher
	audit    AuditLog
	logger   *slog.Logger
	timeout  time.Duration
}

// NewService creates a scan service.
func NewService(cfg *Config) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 300 * time.Second
	}

	return &Service{
		store:    cfg.Store,
		client:   cfg.Client,
		enricher: cfg.Enricher,
		audit:    cfg.Audit,
		logger:   cfg.Logger,
		timeout:  timeout,
	}
}

// StartScan creates a pending job and returns it immediately; the classifier
// call proceeds in the background. Inputs are assumed to have passed
// admission validation.
func (s *Service) StartScan(requestID, description, imageBase64 string) *Job {
	job := s.store.CreateJob(requestID)

	s.logger.Info("Scan job created",
		slog.String("job_id", job.ID),
		slog.String("request_id", requestID),
		slog.Bool("has_image", imageBase64 != ""),
	)

	go s.run(job.ID, requestID, description, imageBase64)

	return job
}

// run executes one scan to a terminal state. The deadline covers the
// classifier call; expiry maps to the timeout message, anything else to the
// generic failure. There are no retries.
func (s *Service) run(jobID, requestID, description, imageBase64 string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	modelResp, err := s.client.Scan(ctx, description, imageBase64)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("Scan timed out",
				slog.String("job_id", jobID),
				slog.Duration("timeout", s.timeout),
			)
			s.store.FailJob(jobID, MsgScanTimeout)
		} else {
			s.logger.Error("Scan failed",
				slog.String("job_id", jobID),
				slog.String("error", err.Error()),
			)
			s.store.FailJob(jobID, MsgScanFailed)
		}
		s.recordAudit(jobID, requestID, nil)
		return
	}

	matches := s.enricher.Enrich(modelResp.Matches, description)
	if len(matches) > 0 {
		s.store.RecordRecent(matches[0].HSCode, matches[0].Description)
	}

	result := &Result{
		Matches:       matches,
		Note:          modelResp.Note,
		RecentHSCodes: s.store.Recent(),
	}
	s.store.CompleteJob(jobID, result)

	s.logger.Info("Scan completed",
		slog.String("job_id", jobID),
		slog.Int("matches", len(matches)),
	)

	var top *classifier.Match
	if len(matches) > 0 {
		top = &matches[0]
	}
	s.recordAudit(jobID, requestID, top)
}

// recordAudit writes the terminal outcome to the audit log, best-effort.
func (s *Service) recordAudit(jobID, requestID string, top *classifier.Match) {
	if s.audit == nil {
		return
	}

	job, ok := s.store.TryGetJob(jobID)
	if !ok || job.CompletedAt == nil {
		return
	}

	record := AuditRecord{
		JobID:       job.ID,
		RequestID:   requestID,
		Status:      job.Status,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		CompletedAt: *job.CompletedAt,
	}
	if top != nil {
		record.HSCode = top.HSCode
		record.Description = top.Description
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.audit.RecordScan(ctx, record); err != nil {
		s.logger.Warn("Failed to record scan audit entry",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
	}
}
