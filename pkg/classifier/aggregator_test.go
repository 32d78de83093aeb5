package classifier_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SmartFormAI/FormGuard/pkg/classifier"
)

// perTextScorer returns a fixed score set per input text so individual fields
// of a record can land on different confidences.
type perTextScorer struct {
	mu     sync.Mutex
	scores map[string]classifier.LabelScores
	calls  map[string]int
}

func newPerTextScorer(scores map[string]classifier.LabelScores) *perTextScorer {
	return &perTextScorer{scores: scores, calls: make(map[string]int)}
}

func (s *perTextScorer) Score(_ context.Context, text string) (classifier.LabelScores, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[text]++
	return s.scores[text], nil
}

func (s *perTextScorer) callsFor(text string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[text]
}

func TestAggregate_FirstUnsafeFieldWins(t *testing.T) {
	c := classifier.New(newPerTextScorer(nil), newTestLogger())

	verdict := c.Aggregate(context.Background(), []classifier.Field{
		{Name: "a", Value: "<script>"},
		{Name: "b", Value: "DROP TABLE x FROM y"},
	})

	assert.False(t, verdict.IsSafe)
	assert.Equal(t, "a", verdict.Field)
	assert.Equal(t, 95, verdict.Confidence)
	assert.Equal(t, "xss", verdict.Category)
	assert.Contains(t, verdict.Message, "Found in a.")
}

func TestAggregate_FirstUnsafeWinsOverHigherConfidence(t *testing.T) {
	c := classifier.New(newPerTextScorer(nil), newTestLogger())

	// Path traversal (80) sits before XSS (95) in the record; the earlier
	// field wins regardless of confidence.
	verdict := c.Aggregate(context.Background(), []classifier.Field{
		{Name: "first", Value: "../../etc/passwd"},
		{Name: "second", Value: "<script>"},
	})

	assert.False(t, verdict.IsSafe)
	assert.Equal(t, "first", verdict.Field)
	assert.Equal(t, 80, verdict.Confidence)
	assert.Equal(t, "path-traversal", verdict.Category)
}

func TestAggregate_AllSafeSurfacesLowestConfidence(t *testing.T) {
	scorer := newPerTextScorer(map[string]classifier.LabelScores{
		"quite certain": {"toxic": 0.05, "threat": 0.05}, // risk 10, safe at 90
		"less certain":  {"toxic": 0.15, "threat": 0.1},  // risk 25, safe at 75
	})
	c := classifier.New(scorer, newTestLogger())

	verdict := c.Aggregate(context.Background(), []classifier.Field{
		{Name: "a", Value: "quite certain"},
		{Name: "b", Value: "less certain"},
	})

	assert.True(t, verdict.IsSafe)
	assert.Equal(t, "b", verdict.Field)
	assert.Equal(t, 75, verdict.Confidence)
	assert.Equal(t, "safe", verdict.Category)
}

func TestAggregate_TieBreakPreservesFieldOrder(t *testing.T) {
	scorer := newPerTextScorer(map[string]classifier.LabelScores{
		"one": {"toxic": 0.1},
		"two": {"toxic": 0.1},
	})
	c := classifier.New(scorer, newTestLogger())

	verdict := c.Aggregate(context.Background(), []classifier.Field{
		{Name: "one", Value: "one"},
		{Name: "two", Value: "two"},
	})

	assert.True(t, verdict.IsSafe)
	assert.Equal(t, "one", verdict.Field)
	assert.Equal(t, 90, verdict.Confidence)
}

func TestAggregate_EmptyFieldsShortCircuit(t *testing.T) {
	scorer := newPerTextScorer(nil)
	c := classifier.New(scorer, newTestLogger())

	verdict := c.Aggregate(context.Background(), []classifier.Field{
		{Name: "a", Value: ""},
		{Name: "b", Value: "   \t"},
	})

	assert.True(t, verdict.IsSafe)
	assert.Equal(t, 100, verdict.Confidence)
	assert.Equal(t, "safe", verdict.Category)
	assert.Equal(t, "Empty input is considered safe.", verdict.Message)
	assert.Equal(t, 0, scorer.callsFor(""), "empty fields must not reach the oracle")
}

func TestAggregate_EmptyRecord(t *testing.T) {
	c := classifier.New(newPerTextScorer(nil), newTestLogger())

	verdict := c.Aggregate(context.Background(), nil)

	assert.True(t, verdict.IsSafe)
	assert.Equal(t, 100, verdict.Confidence)
	assert.Empty(t, verdict.Field)
}

func TestAggregate_MixedEmptyAndUnsafe(t *testing.T) {
	c := classifier.New(newPerTextScorer(nil), newTestLogger())

	verdict := c.Aggregate(context.Background(), []classifier.Field{
		{Name: "username", Value: ""},
		{Name: "message", Value: "'; DROP TABLE submissions FROM db --"},
	})

	assert.False(t, verdict.IsSafe)
	assert.Equal(t, "message", verdict.Field)
	assert.Contains(t, verdict.Message, "Found in message.")
}
