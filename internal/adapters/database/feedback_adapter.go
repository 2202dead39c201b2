package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
	"github.com/zatekoja/hospitaladmin/internal/domain/repositories"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/hospitaladmin/pkg/errors"
)

// FeedbackAdapter implements feedback persistence in Postgres.
type FeedbackAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFeedbackAdapter creates a new feedback adapter.
func NewFeedbackAdapter(client *postgres.Client) repositories.FeedbackRepository {
	return &FeedbackAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a feedback record.
func (a *FeedbackAdapter) Create(ctx context.Context, feedback *entities.Feedback) error {
	if feedback == nil {
		return apperrors.NewInternalError("feedback is nil", fmt.Errorf("feedback is nil"))
	}

	record := goqu.Record{
		"id":         feedback.ID,
		"rating":     feedback.Rating,
		"comment":    feedback.Comment,
		"category":   string(feedback.Category),
		"user_agent": sql.NullString{String: feedback.UserAgent, Valid: feedback.UserAgent != ""},
		"created_at": feedback.CreatedAt,
	}

	query, args, err := a.db.Insert("feedback").Rows(record).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build feedback insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create feedback", err)
	}

	return nil
}

// List returns the most recent feedback first.
func (a *FeedbackAdapter) List(ctx context.Context, limit int) ([]*entities.Feedback, error) {
	if limit <= 0 {
		limit = 50
	}

	query, args, err := a.db.From("feedback").
		Select("id", "rating", "comment", "category", "user_agent", "created_at").
		Order(goqu.C("created_at").Desc()).
		Limit(uint(limit)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build feedback select query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list feedback", err)
	}
	defer rows.Close()

	var out []*entities.Feedback
	for rows.Next() {
		var (
			f         entities.Feedback
			category  string
			userAgent sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.Rating, &f.Comment, &category, &userAgent, &f.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan feedback", err)
		}
		f.Category = entities.FeedbackCategory(category)
		f.UserAgent = userAgent.String
		out = append(out, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate feedback", err)
	}
	return out, nil
}
