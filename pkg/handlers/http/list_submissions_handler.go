package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/SmartFormAI/FormGuard/pkg/domain/submission"
)

const maxListLimit = 100

type listSubmissionsHandler struct {
	logger *logrus.Logger
	repo   submission.Repository
}

func NewListSubmissionsHandler(logger *logrus.Logger, repo submission.Repository) Handler {
	return &listSubmissionsHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle serves the dashboard listing with optional filter, search and
// pagination query parameters.
func (h *listSubmissionsHandler) Handle(c *fiber.Ctx) error {
	query := submission.ListQuery{
		Filter: submission.FilterAll,
		Search: c.Query("search"),
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}

	switch filter := submission.Filter(c.Query("filter", string(submission.FilterAll))); filter {
	case submission.FilterAll, submission.FilterSafe, submission.FilterMalicious:
		query.Filter = filter
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request data",
			"details": fiber.Map{"filter": "Filter must be one of all, safe, malicious"},
		})
	}

	if query.Limit > maxListLimit {
		query.Limit = maxListLimit
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	entities, total, err := h.repo.List(c.Context(), query)
	if err != nil {
		h.logger.WithError(err).Error("failed to list submissions")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve submissions",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":  entities,
		"count": total,
	})
}
