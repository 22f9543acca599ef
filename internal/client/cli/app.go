package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bcheng02/flash-cards/internal/client/client"
	"github.com/bcheng02/flash-cards/internal/client/config"
	"github.com/bcheng02/flash-cards/internal/client/models"
	"github.com/fatih/color"
)

type App struct {
	config *config.Config
	api    client.Client
	user   *models.User
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return &App{config: c, api: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) isLoggedIn() bool {
	return a.api.State() == client.Authenticated
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() || a.user == nil {
		return "(guest)"
	}
	return fmt.Sprintf("(%s)", a.user.Username)
}

// Run resumes a previous session if there is one and starts the REPL. It
// returns when the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the flashcards CLI (type 'help' for commands)")

	if u, err := a.api.Init(ctx); err == nil {
		a.user = u
		fmt.Fprintf(a.out, "Resumed session for %s\n", u.Username)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

// describe turns an API error into a line for the user.
func describe(err error) string {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return "not logged in or session expired, please login"
	case errors.Is(err, client.ErrForbidden):
		return "not found or not yours"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	default:
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			return apiErr.Message
		}
		return err.Error()
	}
}

func (a *App) printError(err error) {
	printlnFn(color.RedString("Error: %s", describe(err)))
}
