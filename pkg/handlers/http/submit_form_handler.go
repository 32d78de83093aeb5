package http

import (
	"errors"
	"net/mail"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	appsubmission "github.com/SmartFormAI/FormGuard/pkg/app/submission"
	"github.com/SmartFormAI/FormGuard/pkg/middleware"
)

type submitFormHandler struct {
	logger    *logrus.Logger
	submitter appsubmission.Submitter
}

func NewSubmitFormHandler(logger *logrus.Logger, submitter appsubmission.Submitter) Handler {
	return &submitFormHandler{
		logger:    logger,
		submitter: submitter,
	}
}

type submitFormRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}

// Handle accepts a form submission, rejecting it with 403 when the
// classification pipeline flags any field.
func (h *submitFormHandler) Handle(c *fiber.Ctx) error {
	var req submitFormRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to bind submission request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}

	if details := h.validate(&req); len(details) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid form data",
			"details": details,
		})
	}

	result, err := h.submitter.Submit(c.Context(), appsubmission.SubmitRequest{
		Username: req.Username,
		Email:    req.Email,
		Message:  req.Message,
	}, middleware.ClientIP(c))
	if err != nil {
		var maliciousErr *appsubmission.MaliciousInputError
		if errors.As(err, &maliciousErr) {
			h.logger.WithFields(logrus.Fields{
				"field":    maliciousErr.Verdict.Field,
				"category": maliciousErr.Verdict.Category,
			}).Info("submission rejected")
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "Security validation failed",
				"details": maliciousErr.Verdict,
			})
		}
		h.logger.WithError(err).Error("failed to process submission")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "An error occurred while processing your submission",
		})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *submitFormHandler) validate(req *submitFormRequest) fiber.Map {
	details := fiber.Map{}
	if len(req.Username) < 2 {
		details["username"] = "Username must be at least 2 characters"
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		details["email"] = "Please enter a valid email address"
	}
	if len(req.Message) < 5 {
		details["message"] = "Message must be at least 5 characters"
	}
	return details
}
