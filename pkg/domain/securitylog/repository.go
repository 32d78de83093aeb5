package securitylog

import "context"

type Repository interface {
	Create(ctx context.Context, entity *SecurityLog) error
	ListRecent(ctx context.Context, limit, offset int) ([]SecurityLog, error)
}
