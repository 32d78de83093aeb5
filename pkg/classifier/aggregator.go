package classifier

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Aggregate classifies every field of a record concurrently and reduces the
// per-field verdicts to a single record-level verdict. The reduction is
// deterministic in record field order regardless of completion order: the
// first unsafe field wins; when all fields are safe the lowest-confidence
// safe verdict is surfaced, ties broken by field order.
func (c *Classifier) Aggregate(ctx context.Context, fields []Field) AggregateVerdict {
	if len(fields) == 0 {
		return AggregateVerdict{
			IsSafe:     true,
			Confidence: 100,
			Message:    "Empty input is considered safe.",
			Category:   string(CategorySafe),
		}
	}

	results := make([]FieldResult, len(fields))
	g, gctx := errgroup.WithContext(ctx)
	for i, field := range fields {
		if strings.TrimSpace(field.Value) == "" {
			results[i] = FieldResult{
				Field: field.Name,
				Result: Verdict{
					IsSafe:      true,
					Confidence:  100,
					Category:    CategorySafe,
					Explanation: "Empty input is considered safe.",
				},
			}
			continue
		}

		i, field := i, field
		g.Go(func() error {
			results[i] = FieldResult{Field: field.Name, Result: c.Classify(gctx, field.Value)}
			return nil
		})
	}
	// Classify never fails, the group only serves as the join point.
	_ = g.Wait()

	for _, r := range results {
		if !r.Result.IsSafe {
			return AggregateVerdict{
				IsSafe:     false,
				Confidence: r.Result.Confidence,
				Field:      r.Field,
				Message:    fmt.Sprintf("%s Found in %s.", r.Result.Explanation, r.Field),
				Category:   string(r.Result.Category),
			}
		}
	}

	sorted := make([]FieldResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Result.Confidence < sorted[j].Result.Confidence
	})

	lowest := sorted[0]
	return AggregateVerdict{
		IsSafe:     true,
		Confidence: lowest.Result.Confidence,
		Field:      lowest.Field,
		Message:    lowest.Result.Explanation,
		Category:   string(CategorySafe),
	}
}
