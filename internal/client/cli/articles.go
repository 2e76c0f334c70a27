package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func (a *App) articlesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "articles",
		Aliases: []string{"a"},
		Short:   "List, share and delete articles",
	}
	cmd.AddCommand(a.articlesListCmd(), a.articlesAddCmd(), a.articlesDeleteCmd())
	return cmd
}

func (a *App) articlesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List articles, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.client.ListArticles(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(a.out, "No articles yet")
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tURL\tBY\tCREATED")
			for _, v := range list {
				title := "-"
				if v.Title != nil {
					title = *v.Title
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", v.ID, title, v.URL, v.UserName, v.CreatedAt.Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
}

func (a *App) articlesAddCmd() *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Share a link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireToken(); err != nil {
				return err
			}
			v, err := a.client.CreateArticle(cmd.Context(), args[0], title)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Article %d shared\n", v.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "optional title")
	return cmd
}

func (a *App) articlesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your articles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireToken(); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid article id %q", args[0])
			}
			if err := a.client.DeleteArticle(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Article %d deleted\n", id)
			return nil
		},
	}
}
