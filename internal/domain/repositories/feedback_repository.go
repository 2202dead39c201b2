package repositories

import (
	"context"

	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
)

// FeedbackRepository defines the interface for feedback operations.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entities.Feedback) error
	List(ctx context.Context, limit int) ([]*entities.Feedback, error)
}
