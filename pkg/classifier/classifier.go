package classifier

import (
	"context"
	"fmt"
	"math"
	"regexp"

	"github.com/sirupsen/logrus"
)

// riskThreshold is the oracle risk score at which input stops being safe.
const riskThreshold = 30

// LabelScores maps oracle labels to scores in [0,1]. Labels the classifier
// does not read are ignored; missing labels default to 0.
type LabelScores map[string]float64

// Scorer is the external scoring oracle. Implementations return per-label
// scores for free-form text and may fail; the classifier never propagates
// those failures.
type Scorer interface {
	Score(ctx context.Context, text string) (LabelScores, error)
}

// Classifier runs the two-stage classification pipeline: fixed signatures
// first, then the scoring oracle with a local heuristic as last resort.
type Classifier struct {
	scorer Scorer
	logger *logrus.Logger
}

func New(scorer Scorer, logger *logrus.Logger) *Classifier {
	return &Classifier{
		scorer: scorer,
		logger: logger,
	}
}

var (
	suspiciousCharsPattern = regexp.MustCompile(`[<>{}\[\]]`)
	hexRunPattern          = regexp.MustCompile(`(?i)[a-f0-9]{32,}`)
)

// Classify produces a verdict for a single text value. It always returns a
// verdict: oracle failures degrade to a heuristic check instead of erroring.
func (c *Classifier) Classify(ctx context.Context, text string) Verdict {
	if verdict, ok := matchSignatures(text); ok {
		return verdict
	}

	scores, err := c.scorer.Score(ctx, text)
	if err != nil {
		c.logger.WithError(err).Warn("oracle scoring failed, using fallback heuristic")
		return c.fallbackVerdict(text)
	}

	riskScore := int(math.Round((scores["toxic"] + scores["threat"] + scores["insult"]) * 100))
	// The three label scores can sum above 1; clamp to keep the confidence
	// invariant.
	if riskScore > 100 {
		riskScore = 100
	}

	if riskScore < riskThreshold {
		return Verdict{
			IsSafe:      true,
			Confidence:  100 - riskScore,
			Category:    CategorySafe,
			Explanation: "AI analysis indicates this input is likely safe.",
		}
	}

	return Verdict{
		IsSafe:      false,
		Confidence:  riskScore,
		Category:    CategoryOther,
		Explanation: fmt.Sprintf("AI detected potentially harmful content with %d%% confidence.", riskScore),
	}
}

// fallbackVerdict is the degraded analysis used when the oracle is
// unavailable: bracket-like characters or a long hex run in an oversized
// input are treated as suspicious.
func (c *Classifier) fallbackVerdict(text string) Verdict {
	hasSuspiciousChars := suspiciousCharsPattern.MatchString(text)
	hasLongHexRun := len(text) > 100 && hexRunPattern.MatchString(text)

	if hasSuspiciousChars || hasLongHexRun {
		return Verdict{
			IsSafe:      false,
			Confidence:  60,
			Category:    CategoryOther,
			Explanation: "Input contains suspicious patterns. AI validation failed, using fallback detection.",
		}
	}

	return Verdict{
		IsSafe:      true,
		Confidence:  70,
		Category:    CategorySafe,
		Explanation: "Input appears safe. Note: AI validation failed, using fallback detection.",
	}
}
