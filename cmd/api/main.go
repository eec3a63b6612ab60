package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/task-tracker/internal/api/http"
	"github.com/spec-kit/task-tracker/internal/api/http/handlers"
	"github.com/spec-kit/task-tracker/internal/auth"
	"github.com/spec-kit/task-tracker/internal/config"
	"github.com/spec-kit/task-tracker/internal/events"
	"github.com/spec-kit/task-tracker/internal/observability"
	"github.com/spec-kit/task-tracker/internal/persistence"
	"github.com/spec-kit/task-tracker/internal/repository"
	"github.com/spec-kit/task-tracker/internal/service"
	"github.com/spec-kit/task-tracker/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)

	txManager := persistence.NewTxManager(pool)
	dispatcher := events.NewInMemoryDispatcher(logger)
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(*cfg, userRepo)
	roleService := service.NewRoleService(service.RoleDependencies{
		UserRepo:   userRepo,
		TeamRepo:   teamRepo,
		Tx:         txManager,
		Dispatcher: dispatcher,
	})
	taskService := service.NewTaskService(service.TaskDependencies{
		TaskRepo:     taskRepo,
		UserRepo:     userRepo,
		TeamRepo:     teamRepo,
		CommentRepo:  commentRepo,
		DocumentRepo: documentRepo,
		Dispatcher:   dispatcher,
	})
	teamService := service.NewTeamService(teamRepo, userRepo)
	documentService := service.NewDocumentService(service.DocumentDependencies{
		TaskRepo:     taskRepo,
		DocumentRepo: documentRepo,
		Cache:        redis,
		Dispatcher:   dispatcher,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: 10 * 1024 * 1024,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Accounts:       handlers.NewAccountsHandler(authService),
		Roles:          handlers.NewRolesHandler(roleService),
		Tasks:          handlers.NewTasksHandler(taskService),
		Teams:          handlers.NewTeamsHandler(teamService),
		Documents:      handlers.NewDocumentsHandler(documentService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
