package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/SmartFormAI/FormGuard/pkg/classifier"
)

// TextClassifier produces a verdict for a single text value.
type TextClassifier interface {
	Classify(ctx context.Context, text string) classifier.Verdict
}

type scanInputHandler struct {
	logger     *logrus.Logger
	classifier TextClassifier
}

func NewScanInputHandler(logger *logrus.Logger, textClassifier TextClassifier) Handler {
	return &scanInputHandler{
		logger:     logger,
		classifier: textClassifier,
	}
}

type scanInputRequest struct {
	Text  string  `json:"text"`
	Field *string `json:"field"`
}

type scanInputResponse struct {
	classifier.Verdict
	Field *string `json:"field"`
}

// Handle classifies a single text value and echoes the optional field name.
func (h *scanInputHandler) Handle(c *fiber.Ctx) error {
	var req scanInputRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to bind scan request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}

	if req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request data",
			"details": fiber.Map{"text": "Text is required"},
		})
	}

	verdict := h.classifier.Classify(c.Context(), req.Text)

	return c.Status(fiber.StatusOK).JSON(scanInputResponse{
		Verdict: verdict,
		Field:   req.Field,
	})
}
