package submission

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SmartFormAI/FormGuard/pkg/app/scan"
	"github.com/SmartFormAI/FormGuard/pkg/classifier"
	domainsubmission "github.com/SmartFormAI/FormGuard/pkg/domain/submission"
)

// SubmitRequest is a validated form submission.
type SubmitRequest struct {
	Username string
	Email    string
	Message  string
}

// Result reports a successfully accepted submission.
type Result struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// MaliciousInputError is returned when a submission is rejected by the
// classification pipeline. It carries the aggregate verdict for the caller's
// response body.
type MaliciousInputError struct {
	Verdict classifier.AggregateVerdict
}

func (e *MaliciousInputError) Error() string {
	return fmt.Sprintf("malicious input detected: %s", e.Verdict.Message)
}

// Submitter scans a form submission and persists the outcome. Rejected
// submissions are recorded too, for the dashboard and security analysis.
type Submitter interface {
	Submit(ctx context.Context, req SubmitRequest, ipAddress string) (*Result, error)
}

type submitter struct {
	scanner     scan.Scanner
	submissions domainsubmission.Repository
	logger      *logrus.Logger
}

func NewSubmitter(
	scanner scan.Scanner,
	submissions domainsubmission.Repository,
	logger *logrus.Logger,
) Submitter {
	return &submitter{
		scanner:     scanner,
		submissions: submissions,
		logger:      logger,
	}
}

func (s *submitter) Submit(ctx context.Context, req SubmitRequest, ipAddress string) (*Result, error) {
	fields := []classifier.Field{
		{Name: "username", Value: req.Username},
		{Name: "email", Value: req.Email},
		{Name: "message", Value: req.Message},
	}

	verdict := s.scanner.Scan(ctx, fields, ipAddress)

	category := verdict.Category
	entity := &domainsubmission.Submission{
		Username:   req.Username,
		Email:      req.Email,
		Message:    req.Message,
		IsSafe:     verdict.IsSafe,
		Confidence: verdict.Confidence,
		Category:   &category,
	}

	if !verdict.IsSafe {
		// Record the rejection for security analysis; the rejection itself
		// does not depend on the write succeeding.
		if err := s.submissions.Create(ctx, entity); err != nil {
			s.logger.WithError(err).Error("failed to record rejected submission")
		}
		return nil, &MaliciousInputError{Verdict: verdict}
	}

	if err := s.submissions.Create(ctx, entity); err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	return &Result{
		Success:   true,
		Message:   "Form submitted successfully!",
		Timestamp: time.Now(),
	}, nil
}
