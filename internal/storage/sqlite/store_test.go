package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"leadapi/internal/lead"
	"leadapi/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite://" + filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Initialize(context.Background()))
	return s
}

func testRecord(name string) lead.Record {
	return lead.Encode(lead.Lead{
		Email:   "a@b.com",
		Name:    name,
		Courses: []lead.Course{lead.CourseMLAdvanced, lead.CourseAIFundamentals},
	}, time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC))
}

func countRows(t *testing.T, s *Store) int {
	t.Helper()
	var n int
	require.NoError(t, s.sqlDB.QueryRow(`SELECT COUNT(*) FROM leads`).Scan(&n))
	return n
}

func TestIsDSN(t *testing.T) {
	assert.True(t, IsDSN("sqlite:///var/lib/leads.db"))
	assert.True(t, IsDSN("file:leads.db?cache=shared"))
	assert.False(t, IsDSN("postgres://localhost/leads"))
	assert.False(t, IsDSN(""))
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("sqlite://")
	assert.Error(t, err)
}

func TestStore_InitializeIdempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Initialize(context.Background()))
	assert.Equal(t, 0, countRows(t, s))
	assert.Equal(t, "sqlite", s.Kind())
}

func TestStore_Append(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := testRecord("=cmd")
	receipt, err := s.Append(ctx, rec)
	require.NoError(t, err)
	require.True(t, receipt.HasID)
	assert.Equal(t, int64(1), receipt.ID)

	var ts, email, name, courses string
	require.NoError(t, s.sqlDB.QueryRow(`SELECT ts_utc, email, name, courses_json FROM leads WHERE id = ?`, receipt.ID).
		Scan(&ts, &email, &name, &courses))
	assert.Equal(t, "2026-10-15T12:00:00Z", ts)
	assert.Equal(t, "a@b.com", email)
	assert.Equal(t, "'=cmd", name)
	assert.Equal(t, `["ai_fundamentals", "ml_advanced"]`, courses)
}

func TestStore_ConcurrentAppendsGetDistinctIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	ids := make([]int64, n)
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			receipt, err := s.Append(ctx, testRecord("Concurrent"))
			assert.NoError(t, err)
			ids[i] = receipt.ID
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, n)
	for _, id := range ids {
		assert.NotZero(t, id)
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Equal(t, n, countRows(t, s))
}

func TestStore_CancelledAppendWritesNothing(t *testing.T) {
	s := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Append(ctx, testRecord("Cancelled"))
	require.Error(t, err)
	assert.Equal(t, 0, countRows(t, s))
}

func TestStore_ClosedReportsUnavailable(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Close())

	_, err := s.Append(context.Background(), testRecord("Closed"))
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	assert.Error(t, s.Ping(context.Background()))
}
