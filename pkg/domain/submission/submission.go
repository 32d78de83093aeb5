package submission

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission is one form submission, accepted or rejected, together with the
// classification outcome recorded for the dashboard.
type Submission struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Message    string    `json:"message"`
	IsSafe     bool      `json:"is_safe"`
	Confidence int       `json:"confidence"`
	Category   *string   `json:"category"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	return s.Validate()
}

func (s *Submission) Validate() error {
	if len(s.Username) < 2 {
		return fmt.Errorf("username must be at least 2 characters")
	}
	if _, err := mail.ParseAddress(s.Email); err != nil {
		return fmt.Errorf("invalid email address")
	}
	if len(s.Message) < 5 {
		return fmt.Errorf("message must be at least 5 characters")
	}
	if s.Confidence < 0 || s.Confidence > 100 {
		return fmt.Errorf("confidence must be between 0 and 100")
	}
	return nil
}
