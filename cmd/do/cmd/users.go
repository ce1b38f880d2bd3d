package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/templui/userfiles/internal/config"
	"github.com/templui/userfiles/internal/model"
	"github.com/templui/userfiles/internal/repository"
	"github.com/templui/userfiles/internal/service"
)

func UsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect provisioned users",
	}

	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List every user record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(cfg *config.Config, database *sqlx.DB) error {
				users, err := service.NewUserService(repository.NewUserRepository(database)).All(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(users)
				}
				return printUsers(cmd.OutOrStdout(), users)
			})
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.AddCommand(list)

	return cmd
}

func printUsers(out io.Writer, users []*model.User) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEXTERNAL ID\tNAME\tCREATED")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.ExternalID, u.Name, u.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
