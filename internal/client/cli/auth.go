package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Health(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "ok")
			return nil
		},
	}
}

// credentials takes the username from args or a prompt and always reads
// the password without echo.
func (a *App) credentials(args []string) (string, []byte, error) {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		u, err := GetSimpleText(a.in, "Username", a.out)
		if err != nil {
			return "", nil, err
		}
		username = u
	}
	pw, err := GetPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return username, pw, nil
}

func (a *App) registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register [username]",
		Short: "Create an account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, pw, err := a.credentials(args)
			if err != nil {
				return err
			}
			defer wipe(pw)

			id, err := a.client.Register(cmd.Context(), username, string(pw))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "User %s created with id %d\n", username, id)
			return nil
		},
	}
}

func (a *App) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login [username]",
		Short: "Log in and print an access token",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, pw, err := a.credentials(args)
			if err != nil {
				return err
			}
			defer wipe(pw)

			s, err := a.client.Login(cmd.Context(), username, string(pw))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Logged in as %s\n", s.User.UserName)
			fmt.Fprintf(a.out, "export LINKSHARE_TOKEN=%s\n", s.Token)
			return nil
		},
	}
}

func (a *App) meCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireToken(); err != nil {
				return err
			}
			id, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			role := "user"
			if id.IsAdmin {
				role = "admin"
			}
			fmt.Fprintf(a.out, "%s (id %d, %s)\n", id.Username, id.ID, role)
			return nil
		},
	}
}
