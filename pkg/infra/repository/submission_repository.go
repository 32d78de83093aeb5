package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SmartFormAI/FormGuard/pkg/domain/submission"
)

const defaultListLimit = 20

type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) submission.Repository {
	return &SubmissionRepository{
		db: db,
	}
}

func (r *SubmissionRepository) Create(ctx context.Context, entity *submission.Submission) error {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) List(
	ctx context.Context,
	query submission.ListQuery,
) ([]submission.Submission, int64, error) {
	q := r.db.WithContext(ctx).Model(&submission.Submission{})

	switch query.Filter {
	case submission.FilterSafe:
		q = q.Where("is_safe = ?", true)
	case submission.FilterMalicious:
		q = q.Where("is_safe = ?", false)
	}

	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		q = q.Where("username ILIKE ? OR email ILIKE ? OR message ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var entities []submission.Submission
	err := q.Order("created_at desc").
		Limit(limit).
		Offset(query.Offset).
		Find(&entities).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}

	return entities, total, nil
}
