// Package cli is the interactive operator console. It wires the session,
// dispatcher, cache, mutation controller, and realtime bridge together and
// drives them from a line-based REPL.
package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/citycarcenters/fleetconsole/internal/client/api"
	"github.com/citycarcenters/fleetconsole/internal/client/cache"
	"github.com/citycarcenters/fleetconsole/internal/client/config"
	"github.com/citycarcenters/fleetconsole/internal/client/mutation"
	"github.com/citycarcenters/fleetconsole/internal/client/realtime"
	"github.com/citycarcenters/fleetconsole/internal/client/services"
	"github.com/citycarcenters/fleetconsole/internal/client/session"
	"github.com/citycarcenters/fleetconsole/internal/logging"
)

type App struct {
	config *config.Config
	log    logging.Logger

	tokens *session.Provider
	store  *cache.Store
	bridge *realtime.Bridge

	userSel *realtime.Selection
	carSel  *realtime.Selection

	auth      *services.AuthService
	users     *services.UserService
	cars      *services.CarService
	leases    *services.LeaseService
	approvals *services.ApprovalService
	content   *services.ContentService

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.Default())

	tokens := session.NewProvider()
	dispatcher := api.NewHTTPDispatcher(cfg.ServerBaseURL, tokens, log, cfg.RequestTimeout)
	store := cache.NewStore(log)
	controller := mutation.NewController(store, log)

	userSel := &realtime.Selection{}
	carSel := &realtime.Selection{}

	transport := realtime.NewSSETransport(cfg.EventsURL, tokens, log)
	bridge := realtime.NewBridge(store, transport, log)
	realtime.RegisterDefaults(bridge, store, userSel, carSel)

	return &App{
		config:    cfg,
		log:       log,
		tokens:    tokens,
		store:     store,
		bridge:    bridge,
		userSel:   userSel,
		carSel:    carSel,
		auth:      services.NewAuthService(dispatcher, tokens, log),
		users:     services.NewUserService(dispatcher, store, controller),
		cars:      services.NewCarService(dispatcher, store, controller),
		leases:    services.NewLeaseService(dispatcher, store),
		approvals: services.NewApprovalService(dispatcher, store, controller),
		content:   services.NewContentService(dispatcher),
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.bridge.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.tokens.SignedIn()
}
