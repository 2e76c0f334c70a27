// Package cli implements the linkshare command-line client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/linkshare/internal/client/api"
	"github.com/dmitrijs2005/linkshare/internal/client/config"
	"github.com/spf13/cobra"
)

// App is the state shared by all commands of one invocation.
type App struct {
	in     *bufio.Reader
	out    io.Writer
	config config.Config
	client *api.Client

	configFile string
	server     string
	token      string
}

// NewRootCmd builds the command tree reading prompts from in and writing
// results to out.
func NewRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	app := &App{in: bufio.NewReader(in), out: out}

	root := &cobra.Command{
		Use:           "linkshare",
		Short:         "Share and browse links on a linkshare server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd)
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	root.PersistentFlags().StringVar(&app.configFile, "config", "", "configuration file")
	root.PersistentFlags().StringVar(&app.server, "server", "", "server base URL")
	root.PersistentFlags().StringVar(&app.token, "token", "", "access token (default $LINKSHARE_TOKEN)")

	root.AddCommand(
		app.healthCmd(),
		app.registerCmd(),
		app.loginCmd(),
		app.meCmd(),
		app.articlesCmd(),
		app.adminCmd(),
	)
	return root
}

func (a *App) init(cmd *cobra.Command) error {
	a.config.LoadDefaults()
	if a.configFile != "" {
		if err := a.config.LoadFile(a.configFile); err != nil {
			return err
		}
	}
	if err := a.config.LoadEnv(); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		a.config.ServerURL = a.server
	}
	if flags.Changed("token") {
		a.config.Token = a.token
	}

	a.client = api.New(a.config.ServerURL, a.config.Token, a.config.Timeout)
	return nil
}

func (a *App) requireToken() error {
	if a.config.Token == "" {
		return errors.New("not logged in: pass --token or set LINKSHARE_TOKEN")
	}
	return nil
}

// Execute runs the command tree against args and reports the first error.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	root := NewRootCmd(in, out)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(errOut, "Error:", describe(err))
		return 1
	}
	return 0
}

func describe(err error) string {
	var apiErr *api.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, api.ErrUnavailable):
		return "server is unavailable"
	default:
		return err.Error()
	}
}
