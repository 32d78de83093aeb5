package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/valyala/fastjson"

	"github.com/SmartFormAI/FormGuard/pkg/classifier"
	"github.com/SmartFormAI/FormGuard/pkg/infra/metrics"
)

const (
	DefaultEndpoint = "https://api-inference.huggingface.co/models"
	DefaultModel    = "unitary/toxic-bert"

	defaultTimeout = 10 * time.Second
)

// Config holds the scoring oracle connection settings.
type Config struct {
	Endpoint string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// Client calls a hosted text-classification model and converts its response
// into per-label scores. Calls go through a circuit breaker so a degraded
// oracle fails fast instead of holding request deadlines.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
	config     Config
}

type scoreRequest struct {
	Inputs string `json:"inputs"`
}

func NewClient(config Config, logger *logrus.Logger) *Client {
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "scoring-oracle",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("oracle circuit breaker state changed")
		},
	})

	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		breaker:    breaker,
		logger:     logger,
		config:     config,
	}
}

// Score sends text to the hosted model and returns its label scores. Any
// transport failure, non-2xx status, malformed payload or open breaker is
// returned as an error for the caller's fallback handling.
func (c *Client) Score(ctx context.Context, text string) (classifier.LabelScores, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.score(ctx, text)
	})
	if err != nil {
		metrics.OracleFailuresTotal.Inc()
		return nil, err
	}

	scores, ok := result.(classifier.LabelScores)
	if !ok {
		return nil, fmt.Errorf("unexpected oracle result type %T", result)
	}
	return scores, nil
}

func (c *Client) score(ctx context.Context, text string) (classifier.LabelScores, error) {
	payload, err := json.Marshal(scoreRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal oracle request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.config.Endpoint, c.config.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create oracle request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oracle request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read oracle response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"model":       c.config.Model,
		}).Error("oracle returned non-200 status")
		return nil, fmt.Errorf("oracle returned status %d", resp.StatusCode)
	}

	return parseScores(body)
}

// parseScores reads the model response, a JSON array of {label, score}
// objects, possibly nested one level as the inference API does for single
// inputs.
func parseScores(body []byte) (classifier.LabelScores, error) {
	value, err := fastjson.ParseBytes(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse oracle response: %w", err)
	}

	if value.Type() != fastjson.TypeArray {
		return nil, fmt.Errorf("unexpected oracle response shape: %s", value.Type())
	}

	items := value.GetArray()
	if len(items) > 0 && items[0].Type() == fastjson.TypeArray {
		items = items[0].GetArray()
	}

	scores := make(classifier.LabelScores, len(items))
	for _, item := range items {
		label := string(item.GetStringBytes("label"))
		if label == "" {
			continue
		}
		scores[label] = item.GetFloat64("score")
	}
	return scores, nil
}
