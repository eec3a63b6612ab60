package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/events"
	"github.com/spec-kit/task-tracker/internal/repository"
)

type userRepoMock struct{ mock.Mock }

var _ repository.UserRepository = (*userRepoMock)(nil)

func (m *userRepoMock) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *userRepoMock) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *userRepoMock) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *userRepoMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *userRepoMock) ListByTeam(ctx context.Context, teamID string) ([]domain.User, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

type teamRepoMock struct{ mock.Mock }

var _ repository.TeamRepository = (*teamRepoMock)(nil)

func (m *teamRepoMock) Create(ctx context.Context, team *domain.Team) error {
	return m.Called(ctx, team).Error(0)
}

func (m *teamRepoMock) Update(ctx context.Context, team *domain.Team) error {
	return m.Called(ctx, team).Error(0)
}

func (m *teamRepoMock) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *teamRepoMock) List(ctx context.Context) ([]domain.Team, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Team), args.Error(1)
}

type taskRepoMock struct{ mock.Mock }

var _ repository.TaskRepository = (*taskRepoMock)(nil)

func (m *taskRepoMock) Create(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *taskRepoMock) Update(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *taskRepoMock) GetByID(ctx context.Context, id string) (*repository.TaskWithAssignee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.TaskWithAssignee), args.Error(1)
}

func (m *taskRepoMock) ListWithFilter(ctx context.Context, filter repository.TaskFilter) ([]repository.TaskWithAssignee, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.TaskWithAssignee), args.Error(1)
}

type commentRepoMock struct{ mock.Mock }

var _ repository.CommentRepository = (*commentRepoMock)(nil)

func (m *commentRepoMock) Create(ctx context.Context, comment *domain.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *commentRepoMock) ListByTask(ctx context.Context, taskID string) ([]repository.CommentWithAuthor, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CommentWithAuthor), args.Error(1)
}

type documentRepoMock struct{ mock.Mock }

var _ repository.DocumentRepository = (*documentRepoMock)(nil)

func (m *documentRepoMock) Create(ctx context.Context, document *domain.Document) error {
	return m.Called(ctx, document).Error(0)
}

func (m *documentRepoMock) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *documentRepoMock) ListIDsByTask(ctx context.Context, taskID string) ([]string, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// txRunnerStub executes the transactional function directly.
type txRunnerStub struct{}

func (txRunnerStub) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

var _ events.Dispatcher = (*recordingDispatcher)(nil)

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event(nil), d.events...)
}
