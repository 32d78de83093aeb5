package scan

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/SmartFormAI/FormGuard/pkg/classifier"
	"github.com/SmartFormAI/FormGuard/pkg/domain"
	"github.com/SmartFormAI/FormGuard/pkg/domain/securitylog"
	"github.com/SmartFormAI/FormGuard/pkg/infra/metrics"
)

// Aggregator reduces a record's fields to a single verdict.
type Aggregator interface {
	Aggregate(ctx context.Context, fields []classifier.Field) classifier.AggregateVerdict
}

// Scanner is the top-level entry point for classifying a submitted record.
// It always returns a verdict; internal faults degrade to a low-confidence
// "treated as safe" verdict instead of failing the request.
type Scanner interface {
	Scan(ctx context.Context, fields []classifier.Field, ipAddress string) classifier.AggregateVerdict
}

type scanner struct {
	aggregator Aggregator
	logs       securitylog.Repository
	logger     *logrus.Logger
}

func NewScanner(aggregator Aggregator, logs securitylog.Repository, logger *logrus.Logger) Scanner {
	return &scanner{
		aggregator: aggregator,
		logs:       logs,
		logger:     logger,
	}
}

func (s *scanner) Scan(
	ctx context.Context,
	fields []classifier.Field,
	ipAddress string,
) (verdict classifier.AggregateVerdict) {
	// An unexpected internal fault yields a low-confidence safe verdict
	// rather than an error.
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("panic", r).Error("input analysis failed, returning degraded verdict")
			verdict = degradedSafeDefault(fields)
			metrics.VerdictsTotal.WithLabelValues(verdict.Category).Inc()
		}
	}()

	verdict = s.aggregator.Aggregate(ctx, fields)
	metrics.VerdictsTotal.WithLabelValues(verdict.Category).Inc()

	s.audit(ctx, fields, verdict, ipAddress)

	return verdict
}

// audit persists the security log entry. Best effort: a persistence failure
// is logged for operators and never fails the scan.
func (s *scanner) audit(
	ctx context.Context,
	fields []classifier.Field,
	verdict classifier.AggregateVerdict,
	ipAddress string,
) {
	inputData := make(domain.JSONMap, len(fields))
	for _, f := range fields {
		inputData[f.Name] = f.Value
	}

	result, err := verdictToMap(verdict)
	if err != nil {
		s.logger.WithError(err).Error("failed to encode scan result for audit log")
		return
	}

	entry := &securitylog.SecurityLog{
		InputData: inputData,
		Result:    result,
		IPAddress: ipAddress,
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		s.logger.WithError(err).Error("failed to save security log")
	}
}

func verdictToMap(verdict classifier.AggregateVerdict) (domain.JSONMap, error) {
	raw, err := json.Marshal(verdict)
	if err != nil {
		return nil, err
	}
	var m domain.JSONMap
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func degradedSafeDefault(fields []classifier.Field) classifier.AggregateVerdict {
	field := ""
	if len(fields) > 0 {
		field = fields[0].Name
	}
	return classifier.AggregateVerdict{
		IsSafe:     true,
		Confidence: 50,
		Field:      field,
		Message:    "Error analyzing input. Treating as potentially safe but with low confidence.",
		Category:   string(classifier.CategoryError),
	}
}
