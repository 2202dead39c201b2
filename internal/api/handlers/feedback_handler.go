package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/zatekoja/hospitaladmin/internal/api/middleware"
	"github.com/zatekoja/hospitaladmin/internal/application/services"
	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
	"github.com/zatekoja/hospitaladmin/internal/domain/providers"
)

const (
	feedbackRateLimit   = 5
	feedbackRateWindow  = time.Hour
	feedbackDedupWindow = 24 * time.Hour
	maxCommentLength    = 1000
)

// FeedbackService defines the feedback operations used by the handler.
type FeedbackService interface {
	Submit(ctx context.Context, owner string, feedback *entities.Feedback) error
	Status(owner string) entities.FeedbackStatus
}

// FeedbackHandler handles feedback submissions.
type FeedbackHandler struct {
	service FeedbackService
	storage providers.StorageProvider
	local   *localRateLimiter
	deduper *localDeduper
}

// NewFeedbackHandler creates a new feedback handler. Without storage the
// rate limit and duplicate window are kept in process memory.
func NewFeedbackHandler(service FeedbackService, storage providers.StorageProvider) *FeedbackHandler {
	return &FeedbackHandler{
		service: service,
		storage: storage,
		local:   newLocalRateLimiter(),
		deduper: newLocalDeduper(),
	}
}

type feedbackRequest struct {
	Rating   int                       `json:"rating"`
	Comment  string                    `json:"comment"`
	Category entities.FeedbackCategory `json:"category"`
}

// SubmitFeedback handles POST /api/feedback. The call returns once the
// simulated submission has completed.
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var payload feedbackRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	feedback := &entities.Feedback{
		Rating:    payload.Rating,
		Comment:   payload.Comment,
		Category:  payload.Category,
		UserAgent: r.UserAgent(),
	}
	if err := services.ValidateFeedback(feedback); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if len(feedback.Comment) > maxCommentLength {
		respondWithError(w, http.StatusBadRequest, "comment is too long")
		return
	}

	ip := middleware.ClientIP(r)
	allowed, retryAfter := h.allowRequest(r.Context(), "feedback:rate:"+ip)
	if !allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	dupKey := "feedback:dup:" + feedbackFingerprint(feedback, ip)
	if h.isDuplicate(r.Context(), dupKey) {
		respondWithJSON(w, http.StatusAccepted, map[string]string{
			"status": "duplicate_ignored",
		})
		return
	}

	if err := h.service.Submit(r.Context(), sessionOwner(r), feedback); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	h.markSubmitted(r.Context(), dupKey)

	respondWithJSON(w, http.StatusCreated, map[string]string{
		"status": string(entities.FeedbackStatusSubmitted),
		"id":     feedback.ID,
	})
}

// Status handles GET /api/feedback/status
func (h *FeedbackHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status": string(h.service.Status(sessionOwner(r))),
	})
}

func (h *FeedbackHandler) allowRequest(ctx context.Context, key string) (bool, time.Duration) {
	if h.storage == nil {
		return h.local.allow(key, feedbackRateLimit, feedbackRateWindow)
	}

	state := rateLimitState{}
	if data, err := h.storage.Get(ctx, key); err == nil {
		_ = json.Unmarshal(data, &state)
	}

	if state.Count >= feedbackRateLimit {
		return false, feedbackRateWindow
	}

	state.Count++
	data, _ := json.Marshal(state)
	_ = h.storage.Set(ctx, key, data, int(feedbackRateWindow.Seconds()))
	return true, feedbackRateWindow
}

type rateLimitState struct {
	Count int `json:"count"`
}

// isDuplicate reports whether the same feedback was already stored within
// the dedup window. Only successful submissions are recorded, so a retry
// after a failed submit goes through.
func (h *FeedbackHandler) isDuplicate(ctx context.Context, key string) bool {
	if h.storage == nil {
		return h.deduper.seen(key)
	}

	exists, err := h.storage.Exists(ctx, key)
	return err == nil && exists
}

func (h *FeedbackHandler) markSubmitted(ctx context.Context, key string) {
	if h.storage == nil {
		h.deduper.mark(key, feedbackDedupWindow)
		return
	}
	_ = h.storage.Set(ctx, key, []byte("1"), int(feedbackDedupWindow.Seconds()))
}

type localRateLimiter struct {
	mu     sync.Mutex
	states map[string]*localRateState
}

type localRateState struct {
	count   int
	resetAt time.Time
}

func newLocalRateLimiter() *localRateLimiter {
	return &localRateLimiter{
		states: make(map[string]*localRateState),
	}
}

func (l *localRateLimiter) allow(key string, limit int, window time.Duration) (bool, time.Duration) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.states[key]
	if !ok || now.After(state.resetAt) {
		state = &localRateState{count: 0, resetAt: now.Add(window)}
		l.states[key] = state
	}

	if state.count >= limit {
		retryAfter := time.Until(state.resetAt)
		if retryAfter < 0 {
			retryAfter = window
		}
		return false, retryAfter
	}

	state.count++
	return true, window
}

type localDeduper struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func newLocalDeduper() *localDeduper {
	return &localDeduper{
		entries: make(map[string]time.Time),
	}
}

func (d *localDeduper) seen(key string) bool {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	for k, expiresAt := range d.entries {
		if !now.Before(expiresAt) {
			delete(d.entries, k)
		}
	}

	_, ok := d.entries[key]
	return ok
}

func (d *localDeduper) mark(key string, window time.Duration) {
	d.mu.Lock()
	d.entries[key] = time.Now().Add(window)
	d.mu.Unlock()
}

func feedbackFingerprint(feedback *entities.Feedback, ip string) string {
	normalized := []string{
		strconv.Itoa(feedback.Rating),
		normalizeComment(feedback.Comment),
		strings.ToLower(string(feedback.Category)),
		ip,
	}

	hash := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(hash[:])
}

func normalizeComment(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), " ")
}
