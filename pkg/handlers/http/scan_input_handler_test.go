package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmartFormAI/FormGuard/pkg/classifier"
)

type stubTextClassifier struct {
	verdict classifier.Verdict
}

func (s *stubTextClassifier) Classify(_ context.Context, _ string) classifier.Verdict {
	return s.verdict
}

func TestScanInputHandler_Handle(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	newApp := func(verdict classifier.Verdict) *fiber.App {
		handler := NewScanInputHandler(logger, &stubTextClassifier{verdict: verdict})
		app := fiber.New()
		app.Post("/api/v1/scan-input", handler.Handle)
		return app
	}

	t.Run("returns verdict and echoes field name", func(t *testing.T) {
		app := newApp(classifier.Verdict{
			IsSafe:      false,
			Confidence:  95,
			Category:    classifier.CategoryXSS,
			Explanation: "Contains patterns commonly used in Cross-Site Scripting (XSS) attacks.",
		})

		body := bytes.NewBufferString(`{"text":"<script>alert(1)</script>","field":"message"}`)
		req := httptest.NewRequest(fiber.MethodPost, "/api/v1/scan-input", body)
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var decoded struct {
			IsSafe     bool    `json:"isSafe"`
			Confidence int     `json:"confidence"`
			Category   string  `json:"category"`
			Field      *string `json:"field"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
		assert.False(t, decoded.IsSafe)
		assert.Equal(t, 95, decoded.Confidence)
		assert.Equal(t, "xss", decoded.Category)
		require.NotNil(t, decoded.Field)
		assert.Equal(t, "message", *decoded.Field)
	})

	t.Run("omits field when not provided", func(t *testing.T) {
		app := newApp(classifier.Verdict{IsSafe: true, Confidence: 100, Category: classifier.CategorySafe})

		body := bytes.NewBufferString(`{"text":"hello there"}`)
		req := httptest.NewRequest(fiber.MethodPost, "/api/v1/scan-input", body)
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var decoded map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
		assert.Nil(t, decoded["field"])
	})

	t.Run("rejects missing text", func(t *testing.T) {
		app := newApp(classifier.Verdict{})

		body := bytes.NewBufferString(`{"field":"message"}`)
		req := httptest.NewRequest(fiber.MethodPost, "/api/v1/scan-input", body)
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "Text is required")
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		app := newApp(classifier.Verdict{})

		req := httptest.NewRequest(fiber.MethodPost, "/api/v1/scan-input", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
