package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/templui/corpsite/internal/config"
	"github.com/templui/corpsite/internal/db"
	"github.com/templui/corpsite/internal/logger"
	"github.com/templui/corpsite/internal/repository"
	"github.com/templui/corpsite/internal/service"
	"github.com/templui/corpsite/internal/token"
)

func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage back-office accounts",
	}
	cmd.AddCommand(createUserCmd())
	return cmd
}

func createUserCmd() *cobra.Command {
	var name, email, password, role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account (runs pending migrations first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger.Init(cfg.IsDevelopment(), cfg.LogLevel, "")

			database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
			if err != nil {
				return err
			}
			defer database.Close()

			err = db.RunMigrations(database.DB, cfg.DBDriver)
			if err != nil {
				return err
			}

			r := token.Role(role)
			users := service.NewUserService(repository.NewUserRepository(database))
			user, err := users.Create(service.UserInput{
				Name:     &name,
				Email:    &email,
				Password: &password,
				Role:     &r,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %s #%d <%s>\n", user.Role, user.ID, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email (required)")
	cmd.Flags().StringVar(&password, "password", "", "password, at least 10 characters (required)")
	cmd.Flags().StringVar(&role, "role", string(token.RoleAdmin), "admin or editor")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
