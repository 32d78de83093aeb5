package securitylog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SmartFormAI/FormGuard/pkg/domain"
)

// SecurityLog is one audit record of a classification run: the raw field map
// that was scanned and the aggregate verdict it produced.
type SecurityLog struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	InputData domain.JSONMap `json:"input_data" gorm:"type:jsonb"`
	Result    domain.JSONMap `json:"result" gorm:"type:jsonb"`
	IPAddress string         `json:"ip_address"`
	CreatedAt time.Time      `json:"created_at"`
}

func (l *SecurityLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	return nil
}
