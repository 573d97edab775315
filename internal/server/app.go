// Package server wires the backend together: configuration, logging, the
// Postgres repositories, the business services, and the gRPC endpoint, with
// graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sachwave/sachwave/internal/logging"
	"github.com/sachwave/sachwave/internal/server/config"
	"github.com/sachwave/sachwave/internal/server/repositories/repomanager"
	"github.com/sachwave/sachwave/internal/server/services"

	gs "github.com/sachwave/sachwave/internal/server/grpc"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	userService    *services.UserService
	profileService *services.ProfileService
	contentService *services.ContentService
	messageService *services.MessageService
	mediaService   *services.MediaService
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := &repomanager.PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	us := services.NewUserService(db, m, c)
	ps := services.NewProfileService(db, m, us)
	cs := services.NewContentService(db, m, us)
	ms := services.NewMessageService(db, m, us, cs)
	media := services.NewMediaService(c)

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		userService:    us,
		profileService: ps,
		contentService: cs,
		messageService: ms,
		mediaService:   media,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger,
		app.userService, app.profileService, app.contentService, app.messageService, app.mediaService,
		app.config.SecretKey, app.config.ClientVersion)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
