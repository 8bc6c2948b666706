package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodforbrain-api/core/domain"
	coreerrors "foodforbrain-api/core/errors"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "test.db"), nopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

// steppedClock advances one second per call so ordering is deterministic
func steppedClock(store *Store) {
	var mu sync.Mutex
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")

	first, err := Open(path, nopLogger{})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path, nopLogger{})
	require.NoError(t, err)
	defer second.Close()

	assert.NoError(t, second.Ping(context.Background()))
}

func TestCreateProcessingRecord(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateProcessingRecord(ctx, "https://example.com/a", "user-1")
	require.NoError(t, err)

	record, err := store.GetArticle(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/a", record.URL)
	assert.Equal(t, "user-1", record.SharedBy)
	assert.True(t, record.IsProcessing)
	assert.Equal(t, domain.StateCreated, record.State())
	assert.Nil(t, record.Title)
	assert.Nil(t, record.Summary)
	assert.False(t, record.CreatedAt.IsZero())
}

func TestCreateProcessingRecord_DuplicateURL(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateProcessingRecord(ctx, "https://example.com/dup", "user-1")
	require.NoError(t, err)

	_, err = store.CreateProcessingRecord(ctx, "https://example.com/dup", "user-2")

	require.Error(t, err)
	assert.True(t, coreerrors.IsDuplicateURL(err))
}

func TestCompleteRecord(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateProcessingRecord(ctx, "https://example.com/c", "user-1")
	require.NoError(t, err)

	err = store.CompleteRecord(ctx, id, domain.ArticleFields{
		Title:   "Title",
		Content: "Content",
		Summary: "Summary.",
	})
	require.NoError(t, err)

	record, err := store.GetArticle(ctx, id)
	require.NoError(t, err)

	assert.False(t, record.IsProcessing)
	assert.Equal(t, domain.StatePopulated, record.State())
	require.NotNil(t, record.Title)
	assert.Equal(t, "Title", *record.Title)
	assert.Equal(t, "Summary.", *record.Summary)
	assert.Nil(t, record.Description, "blank fields are stored as NULL")
	assert.Nil(t, record.ImageURL)
}

func TestFailRecord(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateProcessingRecord(ctx, "https://example.com/f", "user-1")
	require.NoError(t, err)

	require.NoError(t, store.FailRecord(ctx, id))

	record, err := store.GetArticle(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StateFailed, record.State())
	assert.Nil(t, record.Content)
}

func TestTerminalWriteHappensOnce(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateProcessingRecord(ctx, "https://example.com/once", "user-1")
	require.NoError(t, err)
	require.NoError(t, store.CompleteRecord(ctx, id, domain.ArticleFields{Summary: "s"}))

	err = store.FailRecord(ctx, id)
	assert.True(t, errors.Is(err, ErrNotProcessing))

	err = store.CompleteRecord(ctx, id, domain.ArticleFields{Summary: "other"})
	assert.True(t, errors.Is(err, ErrNotProcessing))

	record, err := store.GetArticle(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "s", *record.Summary)
}

func TestTerminalWrite_UnknownArticle(t *testing.T) {
	store := newTestStore(t)

	err := store.FailRecord(context.Background(), "missing")

	assert.True(t, coreerrors.IsNotFound(err))
}

func TestGetArticle_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetArticle(context.Background(), "missing")

	assert.True(t, coreerrors.IsNotFound(err))
}

func TestListProcessing(t *testing.T) {
	store := newTestStore(t)
	steppedClock(store)
	ctx := context.Background()

	first, _ := store.CreateProcessingRecord(ctx, "https://example.com/1", "u")
	done, _ := store.CreateProcessingRecord(ctx, "https://example.com/2", "u")
	third, _ := store.CreateProcessingRecord(ctx, "https://example.com/3", "u")
	require.NoError(t, store.FailRecord(ctx, done))

	records, err := store.ListProcessing(ctx)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, first, records[0].ID)
	assert.Equal(t, third, records[1].ID)
}

func TestListFeed(t *testing.T) {
	store := newTestStore(t)
	steppedClock(store)
	ctx := context.Background()

	var ids []string
	for _, u := range []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"} {
		id, err := store.CreateProcessingRecord(ctx, u, "u")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.NoError(t, store.AddReaction(ctx, ids[0], "u1", domain.ReactionLike))
	require.NoError(t, store.AddReaction(ctx, ids[0], "u2", domain.ReactionLike))
	require.NoError(t, store.AddReaction(ctx, ids[0], "u2", domain.ReactionBookmark))

	page, err := store.ListFeed(ctx, 1, 2)
	require.NoError(t, err)

	require.Len(t, page.Articles, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, ids[2], page.Articles[0].ID, "newest first")
	assert.Equal(t, ids[1], page.Articles[1].ID)

	page, err = store.ListFeed(ctx, 2, 2)
	require.NoError(t, err)

	require.Len(t, page.Articles, 1)
	assert.False(t, page.HasMore)
	assert.Equal(t, ids[0], page.Articles[0].ID)
	assert.Equal(t, 3, page.Articles[0].ReactionCount)
}

func TestListFeed_Empty(t *testing.T) {
	store := newTestStore(t)

	page, err := store.ListFeed(context.Background(), 1, 20)
	require.NoError(t, err)

	assert.NotNil(t, page.Articles)
	assert.Empty(t, page.Articles)
	assert.False(t, page.HasMore)
}

func TestAddReaction_IsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, _ := store.CreateProcessingRecord(ctx, "https://example.com/r", "u")

	require.NoError(t, store.AddReaction(ctx, id, "u1", domain.ReactionReadLater))
	require.NoError(t, store.AddReaction(ctx, id, "u1", domain.ReactionReadLater))

	page, err := store.ListFeed(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Articles, 1)
	assert.Equal(t, 1, page.Articles[0].ReactionCount)
}

func TestAddReaction_UnknownArticle(t *testing.T) {
	store := newTestStore(t)

	err := store.AddReaction(context.Background(), "missing", "u1", domain.ReactionLike)

	assert.True(t, coreerrors.IsNotFound(err))
}

func TestComments(t *testing.T) {
	store := newTestStore(t)
	steppedClock(store)
	ctx := context.Background()

	id, _ := store.CreateProcessingRecord(ctx, "https://example.com/talk", "u")

	first, err := store.AddComment(ctx, id, "u1", "first")
	require.NoError(t, err)
	_, err = store.AddComment(ctx, id, "u2", "second")
	require.NoError(t, err)

	comments, err := store.ListComments(ctx, id)
	require.NoError(t, err)

	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)
	assert.Equal(t, "second", comments[1].Content)
	assert.Equal(t, "u2", comments[1].UserID)

	_, err = store.AddComment(ctx, "missing", "u1", "orphan")
	assert.True(t, coreerrors.IsNotFound(err))
}

func TestStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, _ = store.CreateProcessingRecord(ctx, "https://example.com/s", "u")

	stats, err := store.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, stats["articles"])
	assert.Equal(t, 1, stats["processing"])
	assert.Equal(t, 0, stats["comments"])
}
