// Package cli implements the interactive Sach Wave terminal client: an
// access-gated REPL that walks through onboarding and login, waits for the
// session bootstrap to reach ready, then exposes the social commands.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/sachwave/sachwave/internal/client/actor"
	"github.com/sachwave/sachwave/internal/client/cache"
	"github.com/sachwave/sachwave/internal/client/config"
	"github.com/sachwave/sachwave/internal/client/identity"
	"github.com/sachwave/sachwave/internal/client/services"
	"github.com/sachwave/sachwave/internal/client/session"
	"github.com/sachwave/sachwave/internal/client/state"
	"github.com/sachwave/sachwave/internal/client/update"
	"github.com/sachwave/sachwave/internal/client/upload"
	"github.com/sachwave/sachwave/internal/logging"
	"github.com/sachwave/sachwave/internal/rpc"
)

type App struct {
	config  *config.Config
	version string
	logger  logging.Logger

	client   *rpc.Client
	ids      *identity.Manager
	actors   *actor.Provider
	machine  *session.Machine
	svc      *services.Services
	state    *state.Store
	uploader *upload.Uploader
	checker  *update.Checker

	reader     *bufio.Reader
	stateDB    *sql.DB
	unbindActr func()
}

func NewApp(c *config.Config, version string, logger logging.Logger) (*App, error) {
	ctx := context.Background()

	st, stateDB, err := state.Open(ctx, c.StatePath)
	if err != nil {
		return nil, err
	}

	client, err := rpc.Dial(c.ServerEndpointAddr, "", "")
	if err != nil {
		_ = stateDB.Close()
		return nil, err
	}

	store := cache.NewStore()
	ids := identity.NewManager(client, logger)

	// The handle is the shared connection, but it only counts as resolved
	// once the backend answers a ping under the identity's credentials.
	factory := func(ctx context.Context, id identity.Identity) (rpc.Backend, error) {
		pingCtx, cancel := context.WithTimeout(ctx, c.ConnectTimeout)
		defer cancel()
		if err := client.Ping(pingCtx); err != nil {
			return nil, err
		}
		return client, nil
	}

	actors := actor.NewProvider(store, factory, logger)
	svc := services.New(store, actors, logger)
	machine := session.NewMachine(ids, actors, svc.Profile, c.ConnectTimeout, logger)

	checker := update.NewChecker(version, func(ctx context.Context) (string, error) {
		return client.GetClientVersion(ctx)
	}, c.UpdateCheckInterval, logger)

	a := &App{
		config:   c,
		version:  version,
		logger:   logger,
		client:   client,
		ids:      ids,
		actors:   actors,
		machine:  machine,
		svc:      svc,
		state:    st,
		uploader: upload.New(client),
		checker:  checker,
		reader:   bufio.NewReader(os.Stdin),
		stateDB:  stateDB,
	}
	a.unbindActr = actors.Bind(context.Background(), ids)
	return a, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	if a.unbindActr != nil {
		a.unbindActr()
	}
	if a.client != nil {
		_ = a.client.Close()
	}
	if a.stateDB != nil {
		_ = a.stateDB.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return !a.ids.Current().Anonymous
}

func (a *App) isAdmin(ctx context.Context) bool {
	ok, err := a.svc.Admin.IsAdmin(ctx)
	return err == nil && ok
}
