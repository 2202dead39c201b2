package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
	"github.com/zatekoja/hospitaladmin/internal/domain/repositories"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hospitaladmin/pkg/errors"
)

// FeedbackService runs the feedback form: a simulated submission delay,
// then a display window after which the form returns to idle.
type FeedbackService struct {
	repo        repositories.FeedbackRepository
	submitDelay time.Duration
	resetDelay  time.Duration

	mu     sync.Mutex
	status map[string]entities.FeedbackStatus
	timers map[string]*time.Timer
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(repo repositories.FeedbackRepository, submitDelay, resetDelay time.Duration) *FeedbackService {
	return &FeedbackService{
		repo:        repo,
		submitDelay: submitDelay,
		resetDelay:  resetDelay,
		status:      make(map[string]entities.FeedbackStatus),
		timers:      make(map[string]*time.Timer),
	}
}

// ValidateFeedback applies defaults and reports whether the form may be submitted.
func ValidateFeedback(feedback *entities.Feedback) error {
	if feedback == nil {
		return apperrors.NewValidationError("feedback is required")
	}
	feedback.Comment = strings.TrimSpace(feedback.Comment)
	if feedback.Category == "" {
		feedback.Category = entities.FeedbackCategoryGeneral
	}
	switch {
	case feedback.Rating < 1 || feedback.Rating > 5:
		return apperrors.NewValidationError("rating must be between 1 and 5")
	case feedback.Comment == "":
		return apperrors.NewValidationError("comment is required")
	case !feedback.Category.Valid():
		return apperrors.NewValidationError("unknown category")
	}
	return nil
}

// Submit validates the feedback, waits out the submission delay, stores it
// and moves owner's form to submitted. Invalid input leaves the form state
// untouched; a submit while the form is not idle is a conflict.
func (s *FeedbackService) Submit(ctx context.Context, owner string, feedback *entities.Feedback) error {
	if err := ValidateFeedback(feedback); err != nil {
		return err
	}

	s.mu.Lock()
	if st := s.statusLocked(owner); st != entities.FeedbackStatusIdle {
		s.mu.Unlock()
		return apperrors.NewConflictError("feedback is already " + string(st))
	}
	s.status[owner] = entities.FeedbackStatusSubmitting
	s.mu.Unlock()

	if err := wait(ctx, s.submitDelay); err != nil {
		s.setStatus(owner, entities.FeedbackStatusIdle)
		return err
	}

	if feedback.ID == "" {
		feedback.ID = uuid.New().String()
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.Create(ctx, feedback); err != nil {
		s.setStatus(owner, entities.FeedbackStatusIdle)
		return err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("feedback_id", feedback.ID).
		Int("rating", feedback.Rating).
		Str("category", string(feedback.Category)).
		Msg("Feedback submitted")

	s.mu.Lock()
	s.status[owner] = entities.FeedbackStatusSubmitted
	if t, ok := s.timers[owner]; ok {
		t.Stop()
	}
	s.timers[owner] = time.AfterFunc(s.resetDelay, func() {
		s.mu.Lock()
		delete(s.status, owner)
		delete(s.timers, owner)
		s.mu.Unlock()
	})
	s.mu.Unlock()
	return nil
}

// Status returns owner's form state.
func (s *FeedbackService) Status(owner string) entities.FeedbackStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked(owner)
}

// List returns recent feedback, newest first.
func (s *FeedbackService) List(ctx context.Context, limit int) ([]*entities.Feedback, error) {
	return s.repo.List(ctx, limit)
}

// Close stops pending reset timers.
func (s *FeedbackService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for owner, t := range s.timers {
		t.Stop()
		delete(s.timers, owner)
	}
}

func (s *FeedbackService) statusLocked(owner string) entities.FeedbackStatus {
	if st, ok := s.status[owner]; ok {
		return st
	}
	return entities.FeedbackStatusIdle
}

func (s *FeedbackService) setStatus(owner string, st entities.FeedbackStatus) {
	s.mu.Lock()
	if st == entities.FeedbackStatusIdle {
		delete(s.status, owner)
	} else {
		s.status[owner] = st
	}
	s.mu.Unlock()
}

// wait sleeps for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
