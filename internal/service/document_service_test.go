package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/repository"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

// mapCache is an in-memory DocumentCache for tests.
type mapCache struct {
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}}
}

func (c *mapCache) GetBytes(_ context.Context, key string) ([]byte, error) {
	return c.data[key], nil
}

func (c *mapCache) SetBytes(_ context.Context, key string, val []byte, _ time.Duration) error {
	c.data[key] = val
	return nil
}

func newDocumentService(tasks *taskRepoMock, documents *documentRepoMock, cache DocumentCache) *DocumentService {
	return NewDocumentService(DocumentDependencies{
		TaskRepo:     tasks,
		DocumentRepo: documents,
		Cache:        cache,
		Dispatcher:   &recordingDispatcher{},
	})
}

func TestAttachRejectsEmptyUpload(t *testing.T) {
	tasks := &taskRepoMock{}
	documents := &documentRepoMock{}
	svc := newDocumentService(tasks, documents, nil)

	tasks.On("GetByID", mock.Anything, "t1").Return(&repository.TaskWithAssignee{
		Task: domain.Task{ID: "t1"},
	}, nil)

	_, err := svc.Attach(context.Background(), employee("team-1"), "t1", "empty.txt", nil)
	require.Error(t, err)
	require.Contains(t, apperrors.ToDomainError(err).Errors, "No file uploaded.")
	documents.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAttachUnknownTask(t *testing.T) {
	tasks := &taskRepoMock{}
	svc := newDocumentService(tasks, &documentRepoMock{}, nil)

	tasks.On("GetByID", mock.Anything, "missing").Return(nil, pgx.ErrNoRows)

	_, err := svc.Attach(context.Background(), employee("team-1"), "missing", "a.pdf", []byte{1})
	require.Error(t, err)
	require.Equal(t, "Task not found.", apperrors.ToDomainError(err).Message)
}

func TestGetRoundTripsBytesThroughCache(t *testing.T) {
	tasks := &taskRepoMock{}
	documents := &documentRepoMock{}
	cache := newMapCache()
	svc := newDocumentService(tasks, documents, cache)

	content := []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0xFF, 0x10}
	stored := &domain.Document{ID: "d1", FileName: "report.pdf", Content: content, TaskID: "t1"}
	documents.On("GetByID", mock.Anything, "d1").Return(stored, nil).Once()

	first, err := svc.Get(context.Background(), "d1")
	require.NoError(t, err)
	require.Equal(t, content, first.Content)

	// second read is served from the cache, byte for byte
	second, err := svc.Get(context.Background(), "d1")
	require.NoError(t, err)
	require.Equal(t, content, second.Content)
	require.Equal(t, "report.pdf", second.FileName)
	documents.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestGetUnknownDocument(t *testing.T) {
	documents := &documentRepoMock{}
	svc := newDocumentService(&taskRepoMock{}, documents, nil)

	documents.On("GetByID", mock.Anything, "missing").Return(nil, pgx.ErrNoRows)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	require.Equal(t, "Document doesn't exist", apperrors.ToDomainError(err).Message)
}
