package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
	"github.com/zatekoja/hospitaladmin/internal/domain/repositories"
	apperrors "github.com/zatekoja/hospitaladmin/pkg/errors"
)

// MemoryFeedbackRepository keeps feedback in process memory.
type MemoryFeedbackRepository struct {
	mu      sync.RWMutex
	records []entities.Feedback
}

func NewMemoryFeedbackRepository() *MemoryFeedbackRepository {
	return &MemoryFeedbackRepository{}
}

var _ repositories.FeedbackRepository = (*MemoryFeedbackRepository)(nil)

func (r *MemoryFeedbackRepository) Create(ctx context.Context, feedback *entities.Feedback) error {
	if feedback == nil {
		return apperrors.NewInternalError("feedback is nil", fmt.Errorf("feedback is nil"))
	}
	r.mu.Lock()
	r.records = append(r.records, *feedback)
	r.mu.Unlock()
	return nil
}

// List returns the most recent feedback first.
func (r *MemoryFeedbackRepository) List(ctx context.Context, limit int) ([]*entities.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.records) {
		limit = len(r.records)
	}
	out := make([]*entities.Feedback, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		f := r.records[i]
		out = append(out, &f)
	}
	return out, nil
}
