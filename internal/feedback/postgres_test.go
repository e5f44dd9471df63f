package feedback

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/health-signal-classifier/internal/database/dbtest"
	"github.com/health-signal-classifier/internal/domain"
)

var feedbackColumns = []string{
	"id", "classification_id", "message_hash",
	"suggested_diagnosis", "confirmed_diagnosis", "agreed",
	"notes", "created_at", "updated_at",
}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	store, err := NewPostgresStore(db)
	require.NoError(t, err)
	t.Cleanup(func() {
		mock.ExpectClose()
		_ = store.Close()
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return store, mock
}

func TestNewPostgresStore_Nil(t *testing.T) {
	_, err := NewPostgresStore(nil)
	assert.Error(t, err)
}

func TestPostgresStore_Save(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (classification_id) DO UPDATE SET")).
		WithArgs("c-1", "hash", "cholera", "cholera", true, "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), created))

	fb := &Feedback{
		ClassificationID:   "c-1",
		MessageHash:        "hash",
		SuggestedDiagnosis: domain.Cholera,
		ConfirmedDiagnosis: domain.Cholera,
	}
	require.NoError(t, store.Save(context.Background(), fb))
	assert.Equal(t, int64(7), fb.ID)
	assert.Equal(t, created, fb.CreatedAt)
	assert.True(t, fb.Agreed)
	assert.False(t, fb.UpdatedAt.IsZero())
}

func TestPostgresStore_Save_Invalid(t *testing.T) {
	store, _ := newMockStore(t)

	err := store.Save(context.Background(), &Feedback{ClassificationID: "c-1", SuggestedDiagnosis: "plague"})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestPostgresStore_Save_Error(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO feedback").WillReturnError(errors.New("connection reset"))

	err := store.Save(context.Background(), &Feedback{
		ClassificationID:   "c-1",
		SuggestedDiagnosis: domain.Dengue,
		ConfirmedDiagnosis: domain.Dengue,
	})
	assert.ErrorContains(t, err, "connection reset")
}

func TestPostgresStore_Get(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Date(2024, 8, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE classification_id = $1")).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows(feedbackColumns).
			AddRow(int64(1), "c-1", "h", "dengue", "malaria", false, "smear", now, now))

	fb, err := store.Get(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, domain.Dengue, fb.SuggestedDiagnosis)
	assert.Equal(t, domain.Malaria, fb.ConfirmedDiagnosis)
	assert.Equal(t, "smear", fb.Notes)
}

func TestPostgresStore_Get_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("FROM feedback").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgresStore_List(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $1 OFFSET $2")).
		WithArgs(2, 4).
		WillReturnRows(sqlmock.NewRows(feedbackColumns).
			AddRow(int64(2), "b", "", "covid19", "covid19", true, "", now, now).
			AddRow(int64(1), "a", "", "typhoid", "cholera", false, "", now, now))

	list, err := store.List(context.Background(), 2, 4)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ClassificationID)
}

func TestPostgresStore_CountAndDelete(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM feedback")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM feedback WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM feedback WHERE id = $1")).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	assert.NoError(t, store.Delete(ctx, 9))
	assert.ErrorIs(t, store.Delete(ctx, 10), domain.ErrNotFound)
}

func TestPostgresStore_AgreementStats(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY suggested_diagnosis")).
		WillReturnRows(sqlmock.NewRows([]string{"suggested_diagnosis", "count", "agreed"}).
			AddRow("cholera", int64(4), int64(3)).
			AddRow("dengue", int64(2), int64(0)))

	stats, err := store.AgreementStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []DiseaseAgreement{
		{Disease: domain.Cholera, Total: 4, Agreed: 3, Rate: 0.75},
		{Disease: domain.Dengue, Total: 2, Agreed: 0, Rate: 0},
	}, stats)
}

func TestPostgresStore_Integration(t *testing.T) {
	pg := dbtest.Start(t)

	store, err := NewPostgresStoreFromURL(pg.URL, domain.DatabaseConfig{})
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	fb := &Feedback{ClassificationID: "c-1", SuggestedDiagnosis: domain.Cholera, ConfirmedDiagnosis: domain.Typhoid}
	require.NoError(t, store.Save(ctx, fb))
	id := fb.ID

	fb = &Feedback{ClassificationID: "c-1", SuggestedDiagnosis: domain.Cholera, ConfirmedDiagnosis: domain.Cholera}
	require.NoError(t, store.Save(ctx, fb))
	assert.Equal(t, id, fb.ID)

	got, err := store.Get(ctx, "c-1")
	require.NoError(t, err)
	assert.True(t, got.Agreed)

	stats, err := store.AgreementStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 1.0, stats[0].Rate)
}
