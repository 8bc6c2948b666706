// ABOUTME: Article orchestrator owns the submission lifecycle from processing to a terminal state
// ABOUTME: Creates records synchronously and runs extraction and summarization on the worker pool

package articles

import (
	"context"
	"fmt"

	"foodforbrain-api/core/domain"
	"foodforbrain-api/core/interfaces"
	"foodforbrain-api/core/workers"
	"foodforbrain-api/pkg/utils/text"
)

// Dispatcher accepts background jobs
type Dispatcher interface {
	Submit(job *workers.Job) error
}

// Deps holds the collaborators of the orchestrator
type Deps struct {
	Storage    interfaces.ArticleStorage
	Extractor  interfaces.ArticleExtractor
	Summarizer interfaces.Summarizer
	Dispatcher Dispatcher
	Logger     interfaces.Logger
}

// Service runs the article submission state machine
type Service struct {
	storage    interfaces.ArticleStorage
	extractor  interfaces.ArticleExtractor
	summarizer interfaces.Summarizer
	dispatcher Dispatcher
	logger     interfaces.Logger
}

var _ interfaces.ArticleService = (*Service)(nil)

// NewService creates an orchestrator
func NewService(deps Deps) *Service {
	return &Service{
		storage:    deps.Storage,
		extractor:  deps.Extractor,
		summarizer: deps.Summarizer,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Submit creates a processing record for rawURL and schedules its processing.
// It returns as soon as the record exists. A URL that was already shared fails
// with DuplicateURLError and schedules nothing.
func (s *Service) Submit(ctx context.Context, rawURL, ownerID string) (string, error) {
	submission, err := domain.NewSubmission(rawURL, ownerID)
	if err != nil {
		return "", err
	}

	id, err := s.storage.CreateProcessingRecord(ctx, submission.URL, submission.OwnerID)
	if err != nil {
		return "", err
	}

	s.logger.Info("Article submitted", map[string]interface{}{
		"article_id": id,
		"url":        submission.URL,
		"shared_by":  submission.OwnerID,
	})

	s.dispatch(ctx, id, submission.URL)
	return id, nil
}

// ResumePending schedules every record still processing, such as those
// interrupted by a shutdown. It returns how many were scheduled.
func (s *Service) ResumePending(ctx context.Context) (int, error) {
	pending, err := s.storage.ListProcessing(ctx)
	if err != nil {
		return 0, fmt.Errorf("list processing articles: %w", err)
	}

	for _, record := range pending {
		s.dispatch(ctx, record.ID, record.URL)
	}

	if len(pending) > 0 {
		s.logger.Info("Resumed pending articles", map[string]interface{}{
			"count": len(pending),
		})
	}

	return len(pending), nil
}

// dispatch hands processing to the worker pool. A refused job fails the record
// right away so it still reaches a terminal state.
func (s *Service) dispatch(ctx context.Context, id, url string) {
	job := &workers.Job{
		Key: id,
		Run: func(jobCtx context.Context) {
			s.Process(jobCtx, id, url)
		},
	}

	if err := s.dispatcher.Submit(job); err != nil {
		s.logger.Error("Could not schedule article processing", map[string]interface{}{
			"article_id": id,
			"url":        url,
			"error":      err.Error(),
		})
		s.fail(context.WithoutCancel(ctx), id, url)
	}
}

// Process runs extraction and summarization for one record and writes exactly
// one terminal state. It returns the state written.
func (s *Service) Process(ctx context.Context, id, url string) (state domain.ArticleState) {
	// terminal writes must land even if the job context is cancelled
	writeCtx := context.WithoutCancel(ctx)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Article processing panicked", map[string]interface{}{
				"article_id": id,
				"url":        url,
				"panic":      fmt.Sprint(r),
			})
			state = s.fail(writeCtx, id, url)
		}
	}()

	s.logger.Debug("Processing article", map[string]interface{}{
		"article_id": id,
		"url":        url,
	})

	extracted, err := s.extractor.Extract(ctx, url)
	if err != nil {
		s.logger.Warn("Article extraction failed", map[string]interface{}{
			"article_id": id,
			"url":        url,
			"error":      err.Error(),
		})
		return s.fail(writeCtx, id, url)
	}

	summary := s.summarizer.Summarize(ctx, extracted.SummaryInput())

	if err := s.storage.CompleteRecord(writeCtx, id, domain.FieldsFrom(extracted, summary)); err != nil {
		s.logger.Error("Failed to persist processed article", map[string]interface{}{
			"article_id": id,
			"url":        url,
			"error":      err.Error(),
		})
		return s.fail(writeCtx, id, url)
	}

	s.logger.Info("Article processed", map[string]interface{}{
		"article_id":     id,
		"url":            url,
		"title":          extracted.Title,
		"content_length": text.Length(extracted.Content),
	})

	return domain.StatePopulated
}

// fail clears the processing flag without content
func (s *Service) fail(ctx context.Context, id, url string) domain.ArticleState {
	if err := s.storage.FailRecord(ctx, id); err != nil {
		s.logger.Error("Failed to mark article as failed", map[string]interface{}{
			"article_id": id,
			"url":        url,
			"error":      err.Error(),
		})
	}
	return domain.StateFailed
}
