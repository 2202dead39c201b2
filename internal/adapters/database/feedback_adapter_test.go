package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/hospitaladmin/pkg/errors"
)

func newFeedbackAdapter(t *testing.T) (*FeedbackAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFeedbackAdapter(postgres.NewClientFromDB(db)).(*FeedbackAdapter), mock
}

func TestFeedbackAdapter_Create(t *testing.T) {
	adapter, mock := newFeedbackAdapter(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "feedback"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.Create(context.Background(), &entities.Feedback{
		ID:        "fb-1",
		Rating:    5,
		Comment:   "Great staff",
		Category:  entities.FeedbackCategoryDoctorExperience,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackAdapter_CreateFailure(t *testing.T) {
	adapter, mock := newFeedbackAdapter(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "feedback"`)).
		WillReturnError(errors.New("connection reset"))

	err := adapter.Create(context.Background(), &entities.Feedback{ID: "fb-1", Rating: 3, Comment: "ok", Category: entities.FeedbackCategoryGeneral})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))

	err = adapter.Create(context.Background(), nil)
	assert.Error(t, err)
}

func TestFeedbackAdapter_List(t *testing.T) {
	adapter, mock := newFeedbackAdapter(t)
	created := time.Date(2024, 8, 15, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id", "rating", "comment", "category", "user_agent", "created_at" FROM "feedback"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "rating", "comment", "category", "user_agent", "created_at"}).
			AddRow("fb-2", 4, "Clean rooms", "Facility", nil, created))

	out, err := adapter.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, entities.FeedbackCategoryFacility, out[0].Category)
	assert.Empty(t, out[0].UserAgent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryFeedbackRepository_ListNewestFirst(t *testing.T) {
	repo := NewMemoryFeedbackRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entities.Feedback{ID: "a"}))
	require.NoError(t, repo.Create(ctx, &entities.Feedback{ID: "b"}))
	require.NoError(t, repo.Create(ctx, &entities.Feedback{ID: "c"}))

	out, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "c", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
}
