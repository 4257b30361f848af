package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/postplanner/internal/client/api"
	"github.com/dmitrijs2005/postplanner/internal/client/config"
	"github.com/dmitrijs2005/postplanner/internal/client/services"
)

type App struct {
	config    *config.Config
	auth      services.AuthService
	dashboard services.DashboardService
	media     services.MediaService
	session   *api.Session
	reader    *bufio.Reader
	out       io.Writer
}

func NewApp(c *config.Config) *App {
	client := api.NewClient(c.ServerBaseURL, c.RequestTimeout)

	return &App{
		config:    c,
		auth:      services.NewAuthService(client),
		dashboard: services.NewDashboardService(client),
		media:     services.NewMediaService(client, nil),
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}
}

// Run pings the server and then blocks in the REPL until the user exits
// or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "PostPlanner dashboard (type 'help' for commands)")

	if err := a.auth.Ping(ctx); err != nil {
		fmt.Fprintf(a.out, "Warning: %v\n", err)
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) getStatus() string {
	if a.session == nil || a.session.User.Name == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.session.User.Name)
}
