package bucket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fazamuttaqien/meetsync/internal/model"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(sqlx.NewDb(db, "sqlmock")), mock
}

func bucketRow(t *testing.T, events []model.CalendarEvent) *sqlmock.Rows {
	t.Helper()
	payload, err := json.Marshal(events)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"events"}).AddRow(payload)
}

func TestStoreWriteInvalidatesCachedBucket(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockStore(t)

	rangeStart, rangeEnd := day(2024, time.March, 1), day(2024, time.March, 31)
	stale := []model.CalendarEvent{{
		ID: "old", CalendarID: "cal",
		StartTime: day(2024, time.March, 10),
		EndTime:   day(2024, time.March, 10).Add(time.Hour),
		IsBusy:    true,
	}}
	fresh := []model.CalendarEvent{{
		ID: "new", CalendarID: "cal",
		StartTime: day(2024, time.March, 12),
		EndTime:   day(2024, time.March, 12).Add(time.Hour),
		IsBusy:    true,
	}}

	// The first read misses the cache and hits the database.
	mock.ExpectQuery(`SELECT events FROM event_buckets`).
		WithArgs("u1", "2024-03").
		WillReturnRows(bucketRow(t, stale))

	got, err := store.ReadBuckets(ctx, "u1", rangeStart, rangeEnd)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "old", got[0].ID)

	// The second read is served from the cache; no query is expected.
	got, err = store.ReadBuckets(ctx, "u1", rangeStart, rangeEnd)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "old", got[0].ID)

	// A write to the same bucket evicts the cached entry.
	mock.ExpectExec(`INSERT INTO event_buckets`).
		WithArgs("u1", "2024-03", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.WriteBuckets(ctx, "u1", fresh, rangeStart, rangeEnd))

	// So the next read goes back to the database and sees the new events,
	// not the stale cached ones.
	mock.ExpectQuery(`SELECT events FROM event_buckets`).
		WithArgs("u1", "2024-03").
		WillReturnRows(bucketRow(t, fresh))

	got, err = store.ReadBuckets(ctx, "u1", rangeStart, rangeEnd)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreCachesMissingBucketAsEmpty(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockStore(t)
	rangeStart, rangeEnd := day(2024, time.March, 1), day(2024, time.March, 31)

	// Zero rows means the bucket was never synced.
	mock.ExpectQuery(`SELECT events FROM event_buckets`).
		WithArgs("u1", "2024-03").
		WillReturnRows(sqlmock.NewRows([]string{"events"}))

	got, err := store.ReadBuckets(ctx, "u1", rangeStart, rangeEnd)
	require.NoError(t, err)
	assert.Empty(t, got)

	// Absence is cached too; the second read issues no query.
	got, err = store.ReadBuckets(ctx, "u1", rangeStart, rangeEnd)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, mock.ExpectationsWereMet())
}
