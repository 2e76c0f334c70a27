package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func (a *App) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "users",
		Short: "List all accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireToken(); err != nil {
				return err
			}
			list, err := a.client.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUSERNAME\tADMIN\tCREATED")
			for _, u := range list {
				fmt.Fprintf(tw, "%d\t%s\t%t\t%s\n", u.ID, u.UserName, u.IsAdmin, u.CreatedAt.Format(time.DateTime))
			}
			return tw.Flush()
		},
	})
	return cmd
}
