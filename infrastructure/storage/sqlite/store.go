// ABOUTME: SQLite-backed storage for articles, reactions and comments
// ABOUTME: Enforces the processing guard so each article receives exactly one terminal write

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"

	"foodforbrain-api/core/domain"
	coreerrors "foodforbrain-api/core/errors"
	"foodforbrain-api/core/interfaces"
)

// ErrNotProcessing is returned when a terminal write targets an article that already finished
var ErrNotProcessing = errors.New("article is not processing")

var articleColumns = []string{
	"a.id", "a.url", "a.shared_by", "a.title", "a.description", "a.content",
	"a.ai_summary", "a.image_url", "a.is_processing", "a.created_at", "a.updated_at",
}

// Store implements ArticleStorage and SocialStorage on SQLite
type Store struct {
	db       *sql.DB
	builder  sq.StatementBuilderType
	logger   interfaces.Logger
	filePath string
	now      func() time.Time
}

var (
	_ interfaces.ArticleStorage = (*Store)(nil)
	_ interfaces.SocialStorage  = (*Store)(nil)
)

// Open opens the database at filePath and applies pending migrations
func Open(filePath string, logger interfaces.Logger) (*Store, error) {
	if filePath == "" {
		filePath = "foodforbrain.db"
	}

	db, err := sql.Open("sqlite3", filePath+"?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// one connection serializes writers from the worker pool
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	version, err := runMigrations(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Database ready", map[string]interface{}{
		"path":           filePath,
		"schema_version": version,
	})

	return &Store{
		db:       db,
		builder:  sq.StatementBuilder.PlaceholderFormat(sq.Question),
		logger:   logger,
		filePath: filePath,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateProcessingRecord inserts a processing record for url
func (s *Store) CreateProcessingRecord(ctx context.Context, url, ownerID string) (string, error) {
	id := uuid.NewString()
	now := s.now()

	_, err := s.builder.Insert("articles").
		Columns("id", "url", "shared_by", "is_processing", "created_at", "updated_at").
		Values(id, url, ownerID, 1, now, now).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		if isConstraint(err, sqlite3.ErrConstraintUnique) {
			return "", &coreerrors.DuplicateURLError{URL: url}
		}
		return "", fmt.Errorf("failed to create article: %w", err)
	}

	return id, nil
}

// CompleteRecord writes extracted fields and clears the processing flag
func (s *Store) CompleteRecord(ctx context.Context, id string, fields domain.ArticleFields) error {
	return s.finish(ctx, id, map[string]interface{}{
		"title":       nullable(fields.Title),
		"description": nullable(fields.Description),
		"content":     nullable(fields.Content),
		"ai_summary":  nullable(fields.Summary),
		"image_url":   nullable(fields.ImageURL),
	})
}

// FailRecord clears the processing flag and leaves content fields null
func (s *Store) FailRecord(ctx context.Context, id string) error {
	return s.finish(ctx, id, nil)
}

// finish performs the single terminal write of an article
func (s *Store) finish(ctx context.Context, id string, values map[string]interface{}) error {
	update := s.builder.Update("articles").
		Set("is_processing", 0).
		Set("updated_at", s.now()).
		Where(sq.Eq{"id": id, "is_processing": 1})
	if len(values) > 0 {
		update = update.SetMap(values)
	}

	result, err := update.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to update article %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update article %s: %w", id, err)
	}
	if affected > 0 {
		return nil
	}

	exists, err := s.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return &coreerrors.NotFoundError{Resource: "article", ID: id}
	}
	return fmt.Errorf("article %s: %w", id, ErrNotProcessing)
}

// GetArticle retrieves a record by id
func (s *Store) GetArticle(ctx context.Context, id string) (*domain.ArticleRecord, error) {
	row := s.builder.Select(articleColumns...).
		From("articles a").
		Where(sq.Eq{"a.id": id}).
		RunWith(s.db).
		QueryRowContext(ctx)

	record, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &coreerrors.NotFoundError{Resource: "article", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article %s: %w", id, err)
	}

	return record, nil
}

// ListProcessing returns records still waiting for a terminal write, oldest first
func (s *Store) ListProcessing(ctx context.Context) ([]*domain.ArticleRecord, error) {
	rows, err := s.builder.Select(articleColumns...).
		From("articles a").
		Where(sq.Eq{"a.is_processing": 1}).
		OrderBy("a.created_at ASC").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processing articles: %w", err)
	}
	defer rows.Close()

	var records []*domain.ArticleRecord
	for rows.Next() {
		record, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// ListFeed returns one page of articles newest first with their reaction counts
func (s *Store) ListFeed(ctx context.Context, page, limit int) (*domain.FeedPage, error) {
	page, limit = domain.NormalizePaging(page, limit)

	columns := append(append([]string{}, articleColumns...), "COUNT(r.id) AS reaction_count")

	// one extra row tells whether another page exists
	rows, err := s.builder.Select(columns...).
		From("articles a").
		LeftJoin("article_reactions r ON r.article_id = a.id").
		GroupBy("a.id").
		OrderBy("a.created_at DESC", "a.id DESC").
		Limit(uint64(limit + 1)).
		Offset(uint64((page - 1) * limit)).
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed: %w", err)
	}
	defer rows.Close()

	feed := &domain.FeedPage{Articles: []domain.FeedEntry{}, Page: page, Limit: limit}
	for rows.Next() {
		var entry domain.FeedEntry
		record, err := scanArticle(rows, &entry.ReactionCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed entry: %w", err)
		}
		entry.ArticleRecord = *record
		feed.Articles = append(feed.Articles, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(feed.Articles) > limit {
		feed.Articles = feed.Articles[:limit]
		feed.HasMore = true
	}

	return feed, nil
}

// AddReaction records a reaction. Repeating an existing reaction is a no-op.
func (s *Store) AddReaction(ctx context.Context, articleID, userID string, reaction domain.ReactionType) error {
	_, err := s.builder.Insert("article_reactions").
		Options("OR IGNORE").
		Columns("id", "article_id", "user_id", "reaction", "created_at").
		Values(uuid.NewString(), articleID, userID, string(reaction), s.now()).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		if isConstraint(err, sqlite3.ErrConstraintForeignKey) {
			return &coreerrors.NotFoundError{Resource: "article", ID: articleID}
		}
		return fmt.Errorf("failed to add reaction: %w", err)
	}
	return nil
}

// AddComment stores a comment on an article
func (s *Store) AddComment(ctx context.Context, articleID, userID, content string) (*domain.Comment, error) {
	comment := &domain.Comment{
		ID:        uuid.NewString(),
		ArticleID: articleID,
		UserID:    userID,
		Content:   content,
		CreatedAt: s.now(),
	}

	_, err := s.builder.Insert("comments").
		Columns("id", "article_id", "user_id", "content", "created_at").
		Values(comment.ID, comment.ArticleID, comment.UserID, comment.Content, comment.CreatedAt).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		if isConstraint(err, sqlite3.ErrConstraintForeignKey) {
			return nil, &coreerrors.NotFoundError{Resource: "article", ID: articleID}
		}
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return comment, nil
}

// ListComments returns an article's comments, oldest first
func (s *Store) ListComments(ctx context.Context, articleID string) ([]*domain.Comment, error) {
	rows, err := s.builder.Select("id", "article_id", "user_id", "content", "created_at").
		From("comments").
		Where(sq.Eq{"article_id": articleID}).
		OrderBy("created_at ASC", "id ASC").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []*domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &c)
	}

	return comments, rows.Err()
}

// Stats returns row counts for the health endpoint
func (s *Store) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := map[string]interface{}{"file_path": s.filePath}

	for _, table := range []string{"articles", "article_reactions", "comments"} {
		var count int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			return nil, err
		}
		stats[table] = count
	}

	var processing int
	err := s.builder.Select("COUNT(*)").From("articles").Where(sq.Eq{"is_processing": 1}).
		RunWith(s.db).QueryRowContext(ctx).Scan(&processing)
	if err != nil {
		return nil, err
	}
	stats["processing"] = processing

	return stats, nil
}

func (s *Store) exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := s.builder.Select("COUNT(*)").From("articles").Where(sq.Eq{"id": id}).
		RunWith(s.db).QueryRowContext(ctx).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to look up article %s: %w", id, err)
	}
	return count > 0, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanArticle reads articleColumns followed by any extra destinations
func scanArticle(row scanner, extra ...interface{}) (*domain.ArticleRecord, error) {
	var record domain.ArticleRecord
	var title, description, content, summary, imageURL sql.NullString

	dest := []interface{}{
		&record.ID, &record.URL, &record.SharedBy, &title, &description, &content,
		&summary, &imageURL, &record.IsProcessing, &record.CreatedAt, &record.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	record.Title = stringPtr(title)
	record.Description = stringPtr(description)
	record.Content = stringPtr(content)
	record.Summary = stringPtr(summary)
	record.ImageURL = stringPtr(imageURL)

	return &record, nil
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

// nullable stores blank strings as NULL
func nullable(v string) interface{} {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return v
}

func isConstraint(err error, code sqlite3.ErrNoExtended) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == code
}
