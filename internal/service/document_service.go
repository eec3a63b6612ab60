package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/events"
	"github.com/spec-kit/task-tracker/internal/repository"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

const documentCacheTTL = 10 * time.Minute

// DocumentCache is a read-through byte cache for document downloads.
type DocumentCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, error)
	SetBytes(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// DocumentService attaches files to tasks and serves them back.
type DocumentService struct {
	tasks      repository.TaskRepository
	documents  repository.DocumentRepository
	cache      DocumentCache
	dispatcher events.Dispatcher
}

// DocumentDependencies bundles requirements for the document service.
type DocumentDependencies struct {
	TaskRepo     repository.TaskRepository
	DocumentRepo repository.DocumentRepository
	Cache        DocumentCache
	Dispatcher   events.Dispatcher
}

// NewDocumentService constructs the service.
func NewDocumentService(deps DocumentDependencies) *DocumentService {
	return &DocumentService{
		tasks:      deps.TaskRepo,
		documents:  deps.DocumentRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
	}
}

// Attach stores an uploaded file's raw bytes against a task.
func (s *DocumentService) Attach(ctx context.Context, caller *domain.User, taskID, fileName string, content []byte) (*domain.Document, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Task not found.")
		}
		return nil, apperrors.MapError(err)
	}
	if len(content) == 0 {
		return nil, apperrors.NewValidationError("invalid upload", "No file uploaded.")
	}

	document := &domain.Document{
		FileName: fileName,
		Content:  content,
		TaskID:   taskID,
	}
	if err := s.documents.Create(ctx, document); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventDocumentAttached,
			Actor:     actorFor(caller),
			Timestamp: time.Now(),
			Payload: events.DocumentAttachedPayload{
				TaskID:     taskID,
				DocumentID: document.ID,
				FileName:   document.FileName,
				SizeBytes:  len(document.Content),
			},
		})
	}
	return document, nil
}

// cachedDocument is the Redis representation of a stored document.
type cachedDocument struct {
	FileName string `json:"file_name"`
	Content  []byte `json:"content"`
}

// Get returns a document by id, reading through the cache when one is
// configured. Cache failures fall back to the store.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	key := "document:" + documentID

	if s.cache != nil {
		if raw, err := s.cache.GetBytes(ctx, key); err == nil && raw != nil {
			var cached cachedDocument
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &domain.Document{
					ID:       documentID,
					FileName: cached.FileName,
					Content:  cached.Content,
				}, nil
			}
		}
	}

	document, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Document doesn't exist")
		}
		return nil, apperrors.MapError(err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(cachedDocument{FileName: document.FileName, Content: document.Content}); err == nil {
			_ = s.cache.SetBytes(ctx, key, raw, documentCacheTTL)
		}
	}
	return document, nil
}
