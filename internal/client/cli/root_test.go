package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/citycarcenters/fleetconsole/internal/client/api"
	"github.com/citycarcenters/fleetconsole/internal/client/cache"
	"github.com/citycarcenters/fleetconsole/internal/client/config"
	"github.com/citycarcenters/fleetconsole/internal/client/models"
	"github.com/citycarcenters/fleetconsole/internal/client/mutation"
	"github.com/citycarcenters/fleetconsole/internal/client/realtime"
	"github.com/citycarcenters/fleetconsole/internal/client/services"
	"github.com/citycarcenters/fleetconsole/internal/client/session"
	"github.com/citycarcenters/fleetconsole/internal/logging"
)

// scriptedDispatcher answers API calls from a canned response table.
type scriptedDispatcher struct {
	responses map[string]func(out any)
	calls     []string
}

func (d *scriptedDispatcher) answer(method, path string, out any) error {
	d.calls = append(d.calls, method+" "+path)
	if fn, ok := d.responses[path]; ok && out != nil {
		fn(out)
	}
	return nil
}

func (d *scriptedDispatcher) Do(ctx context.Context, method, path string, body, out any) error {
	return d.answer(method, path, out)
}

func (d *scriptedDispatcher) DoPublic(ctx context.Context, method, path string, body, out any) error {
	return d.answer(method, path, out)
}

func (d *scriptedDispatcher) DoMultipart(ctx context.Context, method, path string, form *api.Form, out any) error {
	return d.answer(method, path, out)
}

// idleTransport never delivers anything; it just waits for cancellation.
type idleTransport struct{}

func (idleTransport) Subscribe(ctx context.Context, events chan<- realtime.Event) error {
	<-ctx.Done()
	return ctx.Err()
}

func testToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func newTestApp(t *testing.T, dispatcher api.Dispatcher, input string) (*App, *bytes.Buffer) {
	t.Helper()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	cfg := &config.Config{}
	cfg.LoadDefaults()

	tokens := session.NewProvider()
	store := cache.NewStore(log)
	controller := mutation.NewController(store, log)
	userSel := &realtime.Selection{}
	carSel := &realtime.Selection{}
	bridge := realtime.NewBridge(store, idleTransport{}, log)
	realtime.RegisterDefaults(bridge, store, userSel, carSel)

	var out bytes.Buffer
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
		reader:    bufio.NewReader(strings.NewReader(input)),
		out:       &out,
	}, &out
}

func TestRoot_GuardsProtectedCommandsWhenSignedOut(t *testing.T) {
	dispatcher := &scriptedDispatcher{}
	app, out := newTestApp(t, dispatcher, "users\nexit\n")

	app.Root(context.Background())

	require.Contains(t, out.String(), "Sign in first")
	require.Empty(t, dispatcher.calls)
}

func TestRoot_GuardsProtectedCommandsWhenSessionExpired(t *testing.T) {
	dispatcher := &scriptedDispatcher{}
	app, out := newTestApp(t, dispatcher, "users\nexit\n")
	app.tokens.SignIn(testToken(t, -time.Minute), nil)

	app.Root(context.Background())

	require.Contains(t, out.String(), "Session expired")
	require.Empty(t, dispatcher.calls)
}

func TestRoot_ListsUsersWhenSignedIn(t *testing.T) {
	dispatcher := &scriptedDispatcher{responses: map[string]func(out any){
		"/users": func(out any) {
			*(out.(*models.UserList)) = models.UserList{Users: []models.User{
				{ID: "1", Name: "Ada Lovelace", Email: "ada@fleet.example"},
			}}
		},
	}}
	app, out := newTestApp(t, dispatcher, "users\nexit\n")
	app.tokens.SignIn(testToken(t, time.Hour), nil)

	app.Root(context.Background())

	require.Contains(t, out.String(), "Ada Lovelace")
	require.Contains(t, dispatcher.calls, "GET /users")
}

func TestRoot_DashboardAggregatesTotals(t *testing.T) {
	dispatcher := &scriptedDispatcher{responses: map[string]func(out any){
		"/totalUsers": func(out any) { *(out.(*models.UserCount)) = models.UserCount{Users: 21} },
		"/totalCars":  func(out any) { *(out.(*models.CarCount)) = models.CarCount{Cars: 7} },
		"/activeLeases": func(out any) {
			*(out.(*models.LeaseList)) = models.LeaseList{Leases: []models.Lease{{ID: "l1"}}}
		},
		"/recent-activity": func(out any) {
			*(out.(*models.ActivityList)) = models.ActivityList{Activity: []models.Activity{
				{Message: "lease started", CreatedAt: time.Now()},
			}}
		},
	}}
	app, out := newTestApp(t, dispatcher, "dashboard\nexit\n")
	app.tokens.SignIn(testToken(t, time.Hour), nil)

	app.Root(context.Background())

	require.Contains(t, out.String(), "Users: 21   Cars: 7   Active leases: 1")
	require.Contains(t, out.String(), "lease started")
}

func TestRoot_ShowUserRecordsSelection(t *testing.T) {
	dispatcher := &scriptedDispatcher{responses: map[string]func(out any){
		"/user-details/42": func(out any) {
			*(out.(*models.UserDetails)) = models.UserDetails{User: models.User{ID: "42", Name: "Grace"}}
		},
	}}
	app, out := newTestApp(t, dispatcher, "user 42\nexit\n")
	app.tokens.SignIn(testToken(t, time.Hour), nil)

	app.Root(context.Background())

	require.Contains(t, out.String(), "Grace")
	require.Equal(t, "42", app.userSel.Current())
}

func TestRoot_HelpReflectsSessionState(t *testing.T) {
	app, out := newTestApp(t, &scriptedDispatcher{}, "help\nexit\n")
	app.Root(context.Background())
	require.Contains(t, out.String(), "login, signup, verify, exit")

	app, out = newTestApp(t, &scriptedDispatcher{}, "help\nexit\n")
	app.tokens.SignIn(testToken(t, time.Hour), nil)
	app.Root(context.Background())
	require.Contains(t, out.String(), "dashboard")
	require.Contains(t, out.String(), "logout")
}

func TestRoot_UnknownCommand(t *testing.T) {
	app, out := newTestApp(t, &scriptedDispatcher{}, "frobnicate\nexit\n")
	app.tokens.SignIn(testToken(t, time.Hour), nil)
	app.Root(context.Background())
	require.Contains(t, out.String(), "Unknown command: frobnicate")
}

func TestRoot_DeleteUserCommand(t *testing.T) {
	dispatcher := &scriptedDispatcher{}
	app, out := newTestApp(t, dispatcher, "delete-user 9\nexit\n")
	app.tokens.SignIn(testToken(t, time.Hour), nil)

	app.Root(context.Background())

	require.Contains(t, out.String(), "User deleted")
	require.Contains(t, dispatcher.calls, "DELETE /delete-user/9")
}
