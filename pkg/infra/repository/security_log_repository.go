package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SmartFormAI/FormGuard/pkg/domain/securitylog"
)

type SecurityLogRepository struct {
	db *gorm.DB
}

func NewSecurityLogRepository(db *gorm.DB) securitylog.Repository {
	return &SecurityLogRepository{
		db: db,
	}
}

func (r *SecurityLogRepository) Create(ctx context.Context, entity *securitylog.SecurityLog) error {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create security log: %w", err)
	}
	return nil
}

func (r *SecurityLogRepository) ListRecent(
	ctx context.Context,
	limit, offset int,
) ([]securitylog.SecurityLog, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var entities []securitylog.SecurityLog
	err := r.db.WithContext(ctx).
		Model(&securitylog.SecurityLog{}).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&entities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list security logs: %w", err)
	}

	return entities, nil
}
