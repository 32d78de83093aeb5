package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/SmartFormAI/FormGuard/pkg/domain/securitylog"
)

const defaultLogLimit = 50

type listSecurityLogsHandler struct {
	logger *logrus.Logger
	repo   securitylog.Repository
}

func NewListSecurityLogsHandler(logger *logrus.Logger, repo securitylog.Repository) Handler {
	return &listSecurityLogsHandler{
		logger: logger,
		repo:   repo,
	}
}

func (h *listSecurityLogsHandler) Handle(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultLogLimit)
	if limit <= 0 || limit > maxListLimit {
		limit = defaultLogLimit
	}
	offset := c.QueryInt("offset")
	if offset < 0 {
		offset = 0
	}

	entities, err := h.repo.ListRecent(c.Context(), limit, offset)
	if err != nil {
		h.logger.WithError(err).Error("failed to list security logs")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve security logs",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": entities})
}
